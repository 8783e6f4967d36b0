package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/watchlist/internal/api/apierr"
	"github.com/mcoot/watchlist/internal/model"
)

type contextKey string

const accountContextKey contextKey = "account_id"

// CredentialVerifier resolves an Authorization header to an account
type CredentialVerifier interface {
	VerifyCredential(header string) (model.AccountID, error)
}

// Auth creates authentication middleware. Requests without a valid bearer
// credential never reach next.
func Auth(verifier CredentialVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID, err := verifier.VerifyCredential(r.Header.Get("Authorization"))
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), accountContextKey, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAccountID returns the authenticated account from the request context
func GetAccountID(ctx context.Context) (model.AccountID, bool) {
	id, ok := ctx.Value(accountContextKey).(model.AccountID)
	return id, ok
}

// MustGetAccountID returns the authenticated account or panics
func MustGetAccountID(ctx context.Context) model.AccountID {
	id, ok := GetAccountID(ctx)
	if !ok {
		panic("no account in context - auth middleware not applied?")
	}
	return id
}
