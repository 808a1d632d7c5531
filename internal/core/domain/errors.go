package domain

import "errors"

var (
	// ErrFetchFailed объединяет сетевые ошибки, не-2xx ответы и ответы неожиданной формы.
	ErrFetchFailed = errors.New("listing fetch failed")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrSessionNotFound    = errors.New("listing session not found")
	ErrUnknownListingKind = errors.New("unknown listing kind")
)

// ErrInvalidInput - тело запроса не удалось разобрать или оно не прошло проверку.
var ErrInvalidInput = errors.New("invalid input")
