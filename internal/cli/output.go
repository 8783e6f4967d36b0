package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Account:
		o.printAccount(v)
	case LoginResult:
		o.printLoginResult(v)
	case Profile:
		o.printProfile(v)
	case AvatarResult:
		fmt.Fprintf(o.w, "%s (avatar %d)\n", v.Message, v.Avatar)
	case WatchlistResult:
		o.printWatchlist(v)
	case MessageResult:
		fmt.Fprintln(o.w, v.Message)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Account response type (matches API)
type Account struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Avatar    *int    `json:"avatar"`
	Watchlist []Entry `json:"watchlist"`
	CreatedAt string  `json:"created_at"`
}

// LoginResult response type
type LoginResult struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// Profile response type
type Profile struct {
	Name   string `json:"name"`
	Avatar *int   `json:"avatar"`
}

// AvatarResult response type
type AvatarResult struct {
	Message string `json:"message"`
	Avatar  int    `json:"avatar"`
}

// Entry response type
type Entry struct {
	ID          int64    `json:"id"`
	ContentType string   `json:"contentType"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Overview    string   `json:"overview,omitempty"`
	PosterPath  string   `json:"poster_path,omitempty"`
	Genre       []string `json:"genre"`
	AddedAt     string   `json:"added_at,omitempty"`
}

// WatchlistResult response type
type WatchlistResult struct {
	Watchlist []Entry `json:"watchlist"`
}

// MessageResult response type
type MessageResult struct {
	Message string `json:"message"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printAccount(a Account) {
	fmt.Fprintf(o.w, "Account: %s (%s)\n", a.Name, a.ID)
	fmt.Fprintf(o.w, "Email: %s\n", a.Email)
	o.printAvatar(a.Avatar)
}

func (o *Output) printLoginResult(l LoginResult) {
	fmt.Fprintf(o.w, "Logged in, token expires %s\n", l.ExpiresAt)
}

func (o *Output) printProfile(p Profile) {
	fmt.Fprintf(o.w, "Name: %s\n", p.Name)
	o.printAvatar(p.Avatar)
}

func (o *Output) printAvatar(avatar *int) {
	if avatar == nil {
		fmt.Fprintln(o.w, "Avatar: none")
		return
	}
	fmt.Fprintf(o.w, "Avatar: %d\n", *avatar)
}

func (o *Output) printWatchlist(w WatchlistResult) {
	if len(w.Watchlist) == 0 {
		fmt.Fprintln(o.w, "Watchlist is empty")
		return
	}
	fmt.Fprintf(o.w, "Watchlist (%d):\n", len(w.Watchlist))
	for _, e := range w.Watchlist {
		line := fmt.Sprintf("  - [%s %d] %s", e.ContentType, e.ID, e.Title)
		if e.ReleaseDate != "" {
			line += fmt.Sprintf(" (%s)", e.ReleaseDate)
		}
		if len(e.Genre) > 0 {
			line += " - " + strings.Join(e.Genre, ", ")
		}
		fmt.Fprintln(o.w, line)
	}
}
