package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/watchlist/internal/model"
	"github.com/mcoot/watchlist/internal/services/auth"
)

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid entry", fmt.Errorf("%w: title is required", model.ErrInvalidEntry), http.StatusBadRequest, CodeInvalidEntry},
		{"invalid avatar", model.ErrInvalidAvatar, http.StatusBadRequest, CodeInvalidAvatar},
		{"invalid request", model.ErrInvalidRequest, http.StatusBadRequest, CodeInvalidRequest},
		{"duplicate entry", model.ErrDuplicateEntry, http.StatusBadRequest, CodeDuplicateEntry},
		{"duplicate email", model.ErrDuplicateEmail, http.StatusBadRequest, CodeDuplicateEmail},
		{"account not found", fmt.Errorf("load: %w", model.ErrAccountNotFound), http.StatusNotFound, CodeAccountNotFound},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{"unauthorized", auth.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
		{"rate limited", NewRateLimitedError(), http.StatusTooManyRequests, CodeRateLimited},
		{"store failure", errors.New("connection refused"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.status, Status(tt.err))
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestWriteErrorKeepsDescriptiveMessage(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, fmt.Errorf("%w: title is required", model.ErrInvalidEntry))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error.Message, "title is required")
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("mongo: server selection timeout at 10.0.0.3"))

	assert.NotContains(t, rr.Body.String(), "10.0.0.3")
}
