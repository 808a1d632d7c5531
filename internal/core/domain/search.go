package domain

// AllValue - значение фильтра, которое означает "фильтр не активен".
const AllValue = "all"

// SortOrder - порядок сортировки списка на клиенте.
type SortOrder string

const (
	SortDefault   SortOrder = "default"
	SortPriceAsc  SortOrder = "priceAsc"
	SortPriceDesc SortOrder = "priceDesc"
)

// ParseSortOrder понимает и старые значения из интерфейса (popularity, priceLow, priceHigh).
// Все неизвестные значения дают SortDefault.
func ParseSortOrder(s string) SortOrder {
	switch s {
	case string(SortPriceAsc), "priceLow":
		return SortPriceAsc
	case string(SortPriceDesc), "priceHigh":
		return SortPriceDesc
	default:
		return SortDefault
	}
}

// TourSearchCriteria - критерии поиска туров, которые уходят в travel API.
// Пустая строка означает, что поле не задано.
type TourSearchCriteria struct {
	Location  string `json:"location"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Guests    string `json:"guests"`
}

// IsEmpty сообщает, что ни одно поле не заполнено.
func (c TourSearchCriteria) IsEmpty() bool {
	return c == TourSearchCriteria{}
}

// CarSearchCriteria - форма поиска на странице проката.
// Только для отображения: на сервер и в адрес не попадает.
type CarSearchCriteria struct {
	PickupLocation string `json:"pickupLocation"`
	ReturnLocation string `json:"returnLocation"`
	PickupDate     string `json:"pickupDate"`
	PickupTime     string `json:"pickupTime"`
	ReturnDate     string `json:"returnDate"`
	ReturnTime     string `json:"returnTime"`
}

// TourFilter - локальные фильтры страницы туров.
type TourFilter struct {
	Region string    `json:"region"`
	Sort   SortOrder `json:"sort"`
}

// CarFilter - локальные фильтры страницы проката.
type CarFilter struct {
	SearchName   string    `json:"searchName"`
	Category     string    `json:"category"`
	Transmission string    `json:"transmission"`
	Seats        string    `json:"seats"`
	Sort         SortOrder `json:"sort"`
}

// DefaultTourFilter - состояние фильтров при открытии страницы.
func DefaultTourFilter() TourFilter {
	return TourFilter{Region: AllValue, Sort: SortDefault}
}

func DefaultCarFilter() CarFilter {
	return CarFilter{Category: AllValue, Transmission: AllValue, Seats: AllValue, Sort: SortDefault}
}
