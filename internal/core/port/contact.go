package port

import (
	"context"
	"travel-web/internal/core/domain"
)

// ContactPort - публичные формы, которые пересылаются в travel API.
type ContactPort interface {
	SubscribeNewsletter(ctx context.Context, sub domain.NewsletterSubscription) error
	SubmitInquiry(ctx context.Context, inquiry domain.Inquiry) error
}
