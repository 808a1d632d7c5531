package usecase

import (
	"context"
	"errors"
	"net/url"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/listing"
	"travel-web/internal/core/port"
)

type SearchToursUseCase struct {
	catalog   port.TourCatalogPort
	publisher port.SearchEventPublisherPort
}

// publisher может быть nil, тогда события не отправляются.
func NewSearchToursUseCase(catalog port.TourCatalogPort, publisher port.SearchEventPublisherPort) *SearchToursUseCase {
	return &SearchToursUseCase{catalog: catalog, publisher: publisher}
}

// Execute открывает страницу туров по входящему адресу и возвращает то, что она покажет.
// Сбой travel API не является ошибкой: список пустой, в Notifications сообщение для пользователя.
func (uc *SearchToursUseCase) Execute(ctx context.Context, query url.Values) (*domain.TourListing, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SearchTours",
	})
	ucLogger.Info("Use case started", port.Fields{"query": query.Encode()})

	notes := &listing.NotificationLog{}
	page := listing.NewTourPage(uc.catalog, notes)

	if err := page.Mount(ctx, query); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, domain.ErrFetchFailed) {
			ucLogger.Error("Unexpected listing error", err, nil)
			return nil, err
		}
		ucLogger.Warn("Tours fetch failed, returning empty listing", port.Fields{"error": err.Error()})
	}
	page.SetFilter(listing.ParseTourFilter(query))

	publishSearchSubmitted(ctx, uc.publisher, ucLogger, domain.ListingTours, domain.SearchTriggerLoad, page.AddressParams().Map())

	result := tourListingFromView(page.View(), notes.Drain())
	ucLogger.Info("Use case finished successfully", port.Fields{"items": len(result.Items)})
	return result, nil
}

func tourListingFromView(v listing.TourView, notes []domain.Notification) *domain.TourListing {
	return &domain.TourListing{
		Criteria:      v.Criteria,
		Filter:        v.Filter,
		Address:       v.Address,
		Items:         v.Items,
		Loading:       v.Loading,
		Generation:    v.Generation,
		Notifications: notes,
	}
}
