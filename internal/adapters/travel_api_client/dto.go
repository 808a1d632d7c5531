package travel_api_client

import (
	"strings"
	"travel-web/internal/core/domain"
)

// Поля, которые travel API может вернуть как null, объявлены указателями.

type tourResponse struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Location    *string  `json:"location"`
	Price       float64  `json:"price"`
	Description *string  `json:"description"`
	Duration    *string  `json:"duration"`
	GroupSize   *string  `json:"groupSize"`
	Image       *string  `json:"image"`
	Rating      *float64 `json:"rating"`
	Reviews     *int     `json:"reviews"`
	StartDate   *string  `json:"startDate"`
	EndDate     *string  `json:"endDate"`
	IsActive    *bool    `json:"isActive"`
	Featured    *bool    `json:"featured"`
	Region      *string  `json:"region"`
}

type carResponse struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Category     *string  `json:"category"`
	Price        float64  `json:"price"`
	Seats        *int     `json:"seats"`
	Transmission *string  `json:"transmission"`
	Image        *string  `json:"image"`
	Features     []string `json:"features"`
	IsReserved   *bool    `json:"isReserved"`
	IsActive     *bool    `json:"isActive"`
}

type reviewResponse struct {
	ID       int     `json:"id"`
	Nickname string  `json:"nickname"`
	Location *string `json:"location"`
	Rating   int     `json:"rating"`
	Text     string  `json:"text"`
	Date     *string `json:"date"`
	TourID   *int    `json:"tourId"`
}

type newsletterRequest struct {
	Email     string   `json:"email"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Interests []string `json:"interests"`
}

type inquiryRequest struct {
	Email     string `json:"email"`
	Type      string `json:"type"`
	ID        string `json:"id"`
	ItemTitle string `json:"itemTitle"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func (t tourResponse) toDomain() domain.Tour {
	tour := domain.Tour{
		ID:          t.ID,
		Title:       t.Title,
		Location:    str(t.Location),
		Price:       t.Price,
		Description: str(t.Description),
		Duration:    str(t.Duration),
		GroupSize:   str(t.GroupSize),
		Image:       str(t.Image),
		StartDate:   str(t.StartDate),
		EndDate:     str(t.EndDate),
		IsActive:    boolOr(t.IsActive, true),
		Featured:    boolOr(t.Featured, false),
		Region:      str(t.Region),
	}
	if t.Rating != nil {
		tour.Rating = *t.Rating
	}
	if t.Reviews != nil {
		tour.Reviews = *t.Reviews
	}
	return tour
}

func (c carResponse) toDomain() domain.Car {
	car := domain.Car{
		ID:           c.ID,
		Name:         c.Name,
		Category:     str(c.Category),
		Price:        c.Price,
		Transmission: str(c.Transmission),
		Image:        str(c.Image),
		Features:     make([]string, 0, len(c.Features)),
		IsActive:     boolOr(c.IsActive, true),
		IsReserved:   boolOr(c.IsReserved, false),
	}
	if c.Seats != nil {
		car.Seats = *c.Seats
	}
	for _, f := range c.Features {
		if f = strings.TrimSpace(f); f != "" {
			car.Features = append(car.Features, f)
		}
	}
	return car
}

func (r reviewResponse) toDomain() domain.Review {
	return domain.Review{
		ID:       r.ID,
		Nickname: r.Nickname,
		Location: str(r.Location),
		Rating:   r.Rating,
		Text:     r.Text,
		Date:     str(r.Date),
		TourID:   r.TourID,
	}
}

func mapSlice[S any, D any](in []S, conv func(S) D) []D {
	out := make([]D, 0, len(in))
	for _, item := range in {
		out = append(out, conv(item))
	}
	return out
}
