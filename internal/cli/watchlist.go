package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWatchlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Watchlist commands",
	}

	cmd.AddCommand(newWatchlistListCmd())
	cmd.AddCommand(newWatchlistAddCmd())
	cmd.AddCommand(newWatchlistRemoveCmd())

	return cmd
}

func newWatchlistListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List watchlist entries, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result WatchlistResult

			if err := client.Get(cmd.Context(), "/api/watchlist", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newWatchlistAddCmd() *cobra.Command {
	var entry Entry

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a movie or show to the watchlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			if entry.ID <= 0 || entry.ContentType == "" || entry.Title == "" {
				return fmt.Errorf("--id, --type, and --title are required")
			}

			req := map[string]any{
				"id":          entry.ID,
				"contentType": entry.ContentType,
				"title":       entry.Title,
			}
			if entry.ReleaseDate != "" {
				req["release_date"] = entry.ReleaseDate
			}
			if entry.Overview != "" {
				req["overview"] = entry.Overview
			}
			if entry.PosterPath != "" {
				req["poster_path"] = entry.PosterPath
			}
			if len(entry.Genre) > 0 {
				req["genre"] = entry.Genre
			}

			var result MessageResult
			if err := client.Post(cmd.Context(), "/api/watchlist", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&entry.ID, "id", 0, "Catalog content ID (required)")
	cmd.Flags().StringVar(&entry.ContentType, "type", "", "Content type: movie or show (required)")
	cmd.Flags().StringVar(&entry.Title, "title", "", "Title (required)")
	cmd.Flags().StringVar(&entry.ReleaseDate, "release-date", "", "Release or first air date")
	cmd.Flags().StringVar(&entry.Overview, "overview", "", "Synopsis")
	cmd.Flags().StringVar(&entry.PosterPath, "poster", "", "Poster image path")
	cmd.Flags().StringSliceVar(&entry.Genre, "genre", nil, "Genre tag (repeatable)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newWatchlistRemoveCmd() *cobra.Command {
	var id int64
	var contentType string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a movie or show from the watchlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"id":          id,
				"contentType": contentType,
			}
			var result MessageResult

			if err := client.Delete(cmd.Context(), "/api/watchlist", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Catalog content ID (required)")
	cmd.Flags().StringVar(&contentType, "type", "", "Content type: movie or show (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}
