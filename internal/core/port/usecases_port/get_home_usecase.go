package usecases_port

import (
	"context"
	"travel-web/internal/core/domain"
)

type GetHomeUseCasePort interface {
	Execute(ctx context.Context) (*domain.HomePage, error)
}
