package rest

import (
	"errors"
	"net/http"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/port"
)

// AuthHandler пересылает логин администратора в travel API и возвращает его cookie клиенту.
type AuthHandler struct {
	auth port.AuthPort
}

func NewAuthHandler(auth port.AuthPort) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login обрабатывает POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Login"})

	var reqDTO LoginRequest
	if err := decodeJSON(r, &reqDTO); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(reqDTO); err != nil {
		WriteJSONError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"username": reqDTO.Username})

	cookies, err := h.auth.Login(r.Context(), domain.Credentials{Username: reqDTO.Username, Password: reqDTO.Password})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			handlerLogger.Warn("Login rejected", nil)
			WriteJSONError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		handlerLogger.Error("Login failed", err, nil)
		WriteJSONError(w, http.StatusBadGateway, "Authentication service unavailable")
		return
	}

	relayCookies(w, cookies)
	handlerLogger.Info("Admin logged in", nil)
	RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Login successful"})
}

// Logout обрабатывает POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Logout"})

	cookies, err := h.auth.Logout(r.Context(), r.Cookies())
	if err != nil {
		logger.Error("Logout failed", err, nil)
		WriteJSONError(w, http.StatusBadGateway, "Authentication service unavailable")
		return
	}

	relayCookies(w, cookies)
	RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Logout successful"})
}

// Check обрабатывает GET /api/v1/auth/check
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CheckAuth"})

	if err := h.auth.Check(r.Context(), r.Cookies()); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		logger.Error("Session check failed", err, nil)
		WriteJSONError(w, http.StatusBadGateway, "Authentication service unavailable")
		return
	}

	RespondWithJSON(w, http.StatusOK, StatusResponse{Status: "authenticated"})
}

func relayCookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, c := range cookies {
		http.SetCookie(w, c)
	}
}
