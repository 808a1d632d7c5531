package usecases_port

import (
	"context"
	"travel-web/internal/core/domain"
)

type SubscribeNewsletterUseCasePort interface {
	Execute(ctx context.Context, sub domain.NewsletterSubscription) error
}

type SubmitInquiryUseCasePort interface {
	Execute(ctx context.Context, inquiry domain.Inquiry) error
}
