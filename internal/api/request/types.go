package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcoot/watchlist/internal/model"
)

// SignupRequest is the request body for creating an account
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateAvatarRequest is the request body for choosing an avatar.
// Avatar stays raw so a non-integer is reported as an invalid avatar rather
// than a malformed body.
type UpdateAvatarRequest struct {
	Avatar json.RawMessage `json:"avatar"`
}

// Value returns the avatar selector, which must be a JSON integer
func (r UpdateAvatarRequest) Value() (int, error) {
	raw := bytes.TrimSpace(r.Avatar)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("%w: avatar is required", model.ErrInvalidAvatar)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("%w: %s", model.ErrInvalidAvatar, raw)
	}
	n, ok := v.(json.Number)
	if !ok || strings.ContainsAny(n.String(), ".eE") {
		return 0, fmt.Errorf("%w, got %s", model.ErrInvalidAvatar, raw)
	}
	i, err := n.Int64()
	if err != nil || i != int64(int(i)) {
		return 0, fmt.Errorf("%w, got %s", model.ErrInvalidAvatar, raw)
	}
	return int(i), nil
}

// AddEntryRequest is the request body for adding a watchlist entry
type AddEntryRequest struct {
	ID          int64    `json:"id"`
	ContentType string   `json:"contentType"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Overview    string   `json:"overview,omitempty"`
	PosterPath  string   `json:"poster_path,omitempty"`
	Genre       []string `json:"genre,omitempty"`
}

// Entry converts the request to a model entry
func (r AddEntryRequest) Entry() model.WatchlistEntry {
	return model.WatchlistEntry{
		ContentID:   r.ID,
		Kind:        model.ContentKind(r.ContentType),
		Title:       r.Title,
		ReleaseDate: r.ReleaseDate,
		Overview:    r.Overview,
		PosterPath:  r.PosterPath,
		Genre:       r.Genre,
	}
}

// RemoveEntryRequest is the request body for removing a watchlist entry
type RemoveEntryRequest struct {
	ID          int64  `json:"id"`
	ContentType string `json:"contentType"`
}
