package travel_api_client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/port"
)

var _ port.AuthPort = (*Client)(nil)

// Login - POST /auth/login. Возвращает cookie сессии, которые выставил travel API.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) ([]*http.Cookie, error) {
	clientLogger := c.logger(ctx, "Login")

	payload := loginRequest{Username: creds.Username, Password: creds.Password}
	_, resp, err := c.doJSON(ctx, http.MethodPost, "/auth/login", payload, nil, clientLogger)
	if err != nil {
		if isStatus(err, http.StatusUnauthorized) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	clientLogger.Info("Admin logged in", port.Fields{"username": creds.Username})
	return resp.Cookies(), nil
}

// Logout - POST /auth/logout. Возвращает cookie, которые сбрасывают сессию.
func (c *Client) Logout(ctx context.Context, cookies []*http.Cookie) ([]*http.Cookie, error) {
	clientLogger := c.logger(ctx, "Logout")

	_, resp, err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, cookies, clientLogger)
	if err != nil {
		return nil, err
	}
	return resp.Cookies(), nil
}

// Check - GET /auth/check. 401 и 422 (битый токен) означают, что сессии нет.
func (c *Client) Check(ctx context.Context, cookies []*http.Cookie) error {
	clientLogger := c.logger(ctx, "Check")

	if len(cookies) == 0 {
		return domain.ErrUnauthorized
	}

	_, _, err := c.doJSON(ctx, http.MethodGet, "/auth/check", nil, cookies, clientLogger)
	if err != nil {
		if isStatus(err, http.StatusUnauthorized) || isStatus(err, http.StatusUnprocessableEntity) {
			return domain.ErrUnauthorized
		}
		return fmt.Errorf("failed to check admin session: %w", err)
	}
	return nil
}

func isStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}
