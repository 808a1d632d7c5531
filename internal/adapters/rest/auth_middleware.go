package rest

import (
	"errors"
	"net/http"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/port"
)

type AuthMiddleware struct {
	auth port.AuthPort
}

func NewAuthMiddleware(auth port.AuthPort) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Authenticate пропускает запрос дальше, только если travel API признает cookie сессии.
func (am *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"middleware": "Authenticate"})

		if err := am.auth.Check(r.Context(), r.Cookies()); err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				logger.Warn("Admin request rejected", nil)
				WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			logger.Error("Session check failed", err, nil)
			WriteJSONError(w, http.StatusBadGateway, "Authentication service unavailable")
			return
		}

		next.ServeHTTP(w, r)
	})
}
