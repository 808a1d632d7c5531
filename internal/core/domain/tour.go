package domain

// Tour - предложение тура, как его отдает travel API.
type Tour struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Location    string  `json:"location"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Duration    string  `json:"duration"`
	GroupSize   string  `json:"groupSize"`
	Image       string  `json:"image"`
	Rating      float64 `json:"rating"`
	Reviews     int     `json:"reviews"`
	StartDate   string  `json:"startDate"` // YYYY-MM-DD, пустая строка если дата не задана
	EndDate     string  `json:"endDate"`
	IsActive    bool    `json:"isActive"`
	Featured    bool    `json:"featured"`
	Region      string  `json:"region"`
}

// Review - отзыв клиента для главной страницы.
type Review struct {
	ID       int    `json:"id"`
	Nickname string `json:"nickname"`
	Location string `json:"location"`
	Rating   int    `json:"rating"`
	Text     string `json:"text"`
	Date     string `json:"date"`
	TourID   *int   `json:"tourId"`
}
