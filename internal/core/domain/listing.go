package domain

import "github.com/google/uuid"

// ListingKind - тип страницы со списком.
type ListingKind string

const (
	ListingTours ListingKind = "tours"
	ListingCars  ListingKind = "cars"
)

// ParseListingKind возвращает ErrUnknownListingKind для неизвестных значений.
func ParseListingKind(s string) (ListingKind, error) {
	switch ListingKind(s) {
	case ListingTours, ListingCars:
		return ListingKind(s), nil
	}
	return "", ErrUnknownListingKind
}

// TourListing - результат для страницы туров.
type TourListing struct {
	Criteria      TourSearchCriteria `json:"criteria"`
	Filter        TourFilter         `json:"filter"`
	Address       string             `json:"address"`
	Items         []Tour             `json:"items"`
	Loading       bool               `json:"loading"`
	Generation    uint64             `json:"generation"`
	Notifications []Notification     `json:"notifications"`
}

// CarListing - результат для страницы проката.
type CarListing struct {
	Criteria      CarSearchCriteria `json:"criteria"`
	Filter        CarFilter         `json:"filter"`
	Address       string            `json:"address"`
	Items         []Car             `json:"items"`
	Loading       bool              `json:"loading"`
	Generation    uint64            `json:"generation"`
	Notifications []Notification    `json:"notifications"`
}

// HomePage - данные для главной страницы.
type HomePage struct {
	FeaturedTours []Tour         `json:"featuredTours"`
	Reviews       []Review       `json:"reviews"`
	Notifications []Notification `json:"notifications"`
}

// SearchTrigger - что вызвало поиск.
type SearchTrigger string

const (
	// SearchTriggerSubmit - пользователь отправил форму поиска.
	SearchTriggerSubmit SearchTrigger = "submitted"
	// SearchTriggerLoad - страница открыта по ссылке или обновлена.
	SearchTriggerLoad SearchTrigger = "loaded"
)

// SearchSubmitted - событие о выполненном поиске (для аналитики).
type SearchSubmitted struct {
	Page    ListingKind
	Trigger SearchTrigger
	Params  map[string]string
}

// LiveListing - снимок живой сессии: заполнено ровно одно из Tours/Cars.
type LiveListing struct {
	SessionID uuid.UUID    `json:"sessionId"`
	Kind      ListingKind  `json:"kind"`
	Tours     *TourListing `json:"tours,omitempty"`
	Cars      *CarListing  `json:"cars,omitempty"`
}
