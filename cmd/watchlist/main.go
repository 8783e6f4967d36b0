package main

import "github.com/mcoot/watchlist/internal/cli"

func main() {
	cli.Execute()
}
