package domain

// Car - автомобиль из каталога проката.
type Car struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Price        float64  `json:"price"` // цена за сутки
	Seats        int      `json:"seats"`
	Transmission string   `json:"transmission"`
	Image        string   `json:"image"`
	Features     []string `json:"features"`
	IsActive     bool     `json:"isActive"`
	IsReserved   bool     `json:"isReserved"`
}
