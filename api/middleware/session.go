package middleware

import (
	"net/http"
	"strings"

	"github.com/Saymandev/samucha-storefront/api/responses"
	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
	"github.com/Saymandev/samucha-storefront/pkg/logger"
)

const (
	sessionHeader   = "X-Session-Id"
	maxSessionIDLen = 128
)

// Session requires the X-Session-Id header and scopes the request to it.
// The id is issued and verified upstream; here it only keys the snapshot.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(sessionHeader))
			if sessionID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing X-Session-Id header"))
				return
			}
			if len(sessionID) > maxSessionIDLen || strings.ContainsAny(sessionID, ": \t") {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "malformed X-Session-Id header"))
				return
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
