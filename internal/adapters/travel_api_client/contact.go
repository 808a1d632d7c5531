package travel_api_client

import (
	"context"
	"net/http"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/port"
)

var _ port.ContactPort = (*Client)(nil)

func (c *Client) SubscribeNewsletter(ctx context.Context, sub domain.NewsletterSubscription) error {
	clientLogger := c.logger(ctx, "SubscribeNewsletter")

	interests := sub.Interests
	if interests == nil {
		interests = []string{}
	}
	payload := newsletterRequest{
		Email:     sub.Email,
		FirstName: sub.FirstName,
		LastName:  sub.LastName,
		Interests: interests,
	}

	if _, _, err := c.doJSON(ctx, http.MethodPost, "/newsletter/subscribe", payload, nil, clientLogger); err != nil {
		return err
	}
	clientLogger.Info("Newsletter subscription forwarded", nil)
	return nil
}

func (c *Client) SubmitInquiry(ctx context.Context, inquiry domain.Inquiry) error {
	clientLogger := c.logger(ctx, "SubmitInquiry")

	payload := inquiryRequest{
		Email:     inquiry.Email,
		Type:      inquiry.ItemType,
		ID:        inquiry.ItemID,
		ItemTitle: inquiry.ItemTitle,
	}

	if _, _, err := c.doJSON(ctx, http.MethodPost, "/inquiries", payload, nil, clientLogger); err != nil {
		return err
	}
	clientLogger.Info("Inquiry forwarded", port.Fields{"item_type": inquiry.ItemType, "item_id": inquiry.ItemID})
	return nil
}
