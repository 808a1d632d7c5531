package usecase

import (
	"context"
	"fmt"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/port"
)

type SubscribeNewsletterUseCase struct {
	contact port.ContactPort
}

func NewSubscribeNewsletterUseCase(contact port.ContactPort) *SubscribeNewsletterUseCase {
	return &SubscribeNewsletterUseCase{contact: contact}
}

func (uc *SubscribeNewsletterUseCase) Execute(ctx context.Context, sub domain.NewsletterSubscription) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":  "SubscribeNewsletter",
		"interests": sub.Interests,
	})
	ucLogger.Info("Use case started", nil)

	if err := uc.contact.SubscribeNewsletter(ctx, sub); err != nil {
		ucLogger.Error("Travel API rejected subscription", err, nil)
		return fmt.Errorf("failed to subscribe to newsletter: %w", err)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}

type SubmitInquiryUseCase struct {
	contact port.ContactPort
}

func NewSubmitInquiryUseCase(contact port.ContactPort) *SubmitInquiryUseCase {
	return &SubmitInquiryUseCase{contact: contact}
}

func (uc *SubmitInquiryUseCase) Execute(ctx context.Context, inquiry domain.Inquiry) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":  "SubmitInquiry",
		"item_type": inquiry.ItemType,
		"item_id":   inquiry.ItemID,
	})
	ucLogger.Info("Use case started", nil)

	if err := uc.contact.SubmitInquiry(ctx, inquiry); err != nil {
		ucLogger.Error("Travel API rejected inquiry", err, nil)
		return fmt.Errorf("failed to submit inquiry: %w", err)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
