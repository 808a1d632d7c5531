package port

import (
	"context"
	"net/http"
	"travel-web/internal/core/domain"
)

// AuthPort - сессия администратора живет в cookie, которую выдает travel API.
// Мы только пересылаем cookie туда и обратно.
type AuthPort interface {
	// Login возвращает cookie, которые нужно выставить клиенту.
	// domain.ErrInvalidCredentials при неверном логине/пароле.
	Login(ctx context.Context, creds domain.Credentials) ([]*http.Cookie, error)
	Logout(ctx context.Context, cookies []*http.Cookie) ([]*http.Cookie, error)
	// Check возвращает domain.ErrUnauthorized, если сессия недействительна.
	Check(ctx context.Context, cookies []*http.Cookie) error
}
