package usecase

import (
	"context"
	"net/url"
	"sync"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/port"
)

const (
	FeaturedToursFailedMessage = "Could not load featured destinations"
	ReviewsFailedMessage       = "Could not load reviews"
)

type GetHomeUseCase struct {
	tours   port.TourCatalogPort
	reviews port.ReviewCatalogPort
}

func NewGetHomeUseCase(tours port.TourCatalogPort, reviews port.ReviewCatalogPort) *GetHomeUseCase {
	return &GetHomeUseCase{tours: tours, reviews: reviews}
}

// Execute параллельно загружает избранные туры и отзывы.
// Упавшая часть отдается пустой, вместо нее уведомление.
func (uc *GetHomeUseCase) Execute(ctx context.Context) (*domain.HomePage, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetHome",
	})
	ucLogger.Info("Use case started", nil)

	var (
		wg          sync.WaitGroup
		featured    []domain.Tour
		reviews     []domain.Review
		featuredErr error
		reviewErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		featured, featuredErr = uc.tours.FindTours(ctx, url.Values{"featured": {"true"}})
	}()
	go func() {
		defer wg.Done()
		reviews, reviewErr = uc.reviews.ListReviews(ctx)
	}()
	wg.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	page := &domain.HomePage{
		FeaturedTours: featured,
		Reviews:       reviews,
		Notifications: []domain.Notification{},
	}
	if featuredErr != nil || page.FeaturedTours == nil {
		if featuredErr != nil {
			ucLogger.Warn("Failed to load featured tours", port.Fields{"error": featuredErr.Error()})
			page.Notifications = append(page.Notifications, domain.Notification{
				Level: domain.NotificationError, Message: FeaturedToursFailedMessage,
			})
		}
		page.FeaturedTours = []domain.Tour{}
	}
	if reviewErr != nil || page.Reviews == nil {
		if reviewErr != nil {
			ucLogger.Warn("Failed to load reviews", port.Fields{"error": reviewErr.Error()})
			page.Notifications = append(page.Notifications, domain.Notification{
				Level: domain.NotificationError, Message: ReviewsFailedMessage,
			})
		}
		page.Reviews = []domain.Review{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"featured_tours": len(page.FeaturedTours),
		"reviews":        len(page.Reviews),
	})
	return page, nil
}
