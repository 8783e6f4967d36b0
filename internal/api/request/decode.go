package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/mcoot/watchlist/internal/model"
)

// MaxBodyBytes caps the size of any request body
const MaxBodyBytes = 1 << 20

// Decode reads a single JSON object from the request body into dst.
// Unknown fields, trailing data and oversized bodies are rejected with
// model.ErrInvalidRequest.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is empty", model.ErrInvalidRequest)
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w: request body is too large", model.ErrInvalidRequest)
		default:
			return fmt.Errorf("%w: %s", model.ErrInvalidRequest, err.Error())
		}
	}

	if dec.More() {
		return fmt.Errorf("%w: request body must contain a single JSON object", model.ErrInvalidRequest)
	}
	return nil
}
