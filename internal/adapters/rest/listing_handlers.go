package rest

import (
	"net/http"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/listing"
	"travel-web/internal/core/port"
	"travel-web/internal/core/port/usecases_port"
)

// ListingHandler - публичные страницы: главная, туры, прокат и поиск из hero-блока.
type ListingHandler struct {
	homeUC        usecases_port.GetHomeUseCasePort
	toursUC       usecases_port.SearchToursUseCasePort
	carsUC        usecases_port.SearchCarsUseCasePort
	toursPagePath string
}

func NewListingHandler(
	homeUC usecases_port.GetHomeUseCasePort,
	toursUC usecases_port.SearchToursUseCasePort,
	carsUC usecases_port.SearchCarsUseCasePort,
	toursPagePath string,
) *ListingHandler {
	return &ListingHandler{
		homeUC:        homeUC,
		toursUC:       toursUC,
		carsUC:        carsUC,
		toursPagePath: toursPagePath,
	}
}

// GetHome обрабатывает GET /api/v1/home
func (h *ListingHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetHome"})

	page, err := h.homeUC.Execute(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			logger.Warn("Client went away before home page was ready", nil)
			return
		}
		logger.Error("Get home use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to load home page")
		return
	}

	RespondWithJSON(w, http.StatusOK, page)
}

// SearchTours обрабатывает GET /api/v1/tours?q=&startDate=&endDate=&guests=&region=&sort=
func (h *ListingHandler) SearchTours(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SearchTours"})

	result, err := h.toursUC.Execute(r.Context(), r.URL.Query())
	if err != nil {
		if r.Context().Err() != nil {
			logger.Warn("Client went away before tours were ready", nil)
			return
		}
		logger.Error("Search tours use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to load tours")
		return
	}

	logger.Debug("Tours listing ready", port.Fields{
		"items":         len(result.Items),
		"notifications": len(result.Notifications),
	})
	RespondWithJSON(w, http.StatusOK, result)
}

// SearchCars обрабатывает GET /api/v1/cars?name=&category=&transmission=&seats=&sort=
func (h *ListingHandler) SearchCars(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SearchCars"})

	result, err := h.carsUC.Execute(r.Context(), r.URL.Query())
	if err != nil {
		if r.Context().Err() != nil {
			logger.Warn("Client went away before cars were ready", nil)
			return
		}
		logger.Error("Search cars use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to load cars")
		return
	}

	RespondWithJSON(w, http.StatusOK, result)
}

// HeroSearch обрабатывает GET /search из формы на главной: переход на страницу туров
// с критериями в адресе. Поле формы location становится параметром q.
func (h *ListingHandler) HeroSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	criteria := domain.TourSearchCriteria{
		Location:  query.Get("location"),
		StartDate: query.Get(listing.ParamStartDate),
		EndDate:   query.Get(listing.ParamEndDate),
		Guests:    query.Get(listing.ParamGuests),
	}

	target := h.toursPagePath
	if params := listing.BuildTourQuery(criteria); len(params) > 0 {
		target += "?" + params.Encode()
	}

	contextkeys.LoggerFromContext(r.Context()).Debug("Hero search redirect", port.Fields{"target": target})
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Healthz обрабатывает GET /healthz
func Healthz(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
