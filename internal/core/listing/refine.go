package listing

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"travel-web/internal/core/domain"

	"golang.org/x/text/cases"
)

// RefineTours строит отображаемый список туров: фильтр по региону и сортировка.
// Входной срез не изменяется.
func RefineTours(tours []domain.Tour, f domain.TourFilter) []domain.Tour {
	fold := cases.Fold()
	region, regionActive := activeValue(fold, f.Region)

	return refine(tours, func(t domain.Tour) bool {
		return !regionActive || fold.String(t.Region) == region
	}, f.Sort, func(t domain.Tour) float64 { return t.Price })
}

// RefineCars: подстрока в названии, точное совпадение категории и коробки передач,
// точное число мест. Все сравнения строк без учета регистра.
func RefineCars(cars []domain.Car, f domain.CarFilter) []domain.Car {
	fold := cases.Fold()
	name := fold.String(f.SearchName)
	category, categoryActive := activeValue(fold, f.Category)
	transmission, transmissionActive := activeValue(fold, f.Transmission)

	seatsActive := f.Seats != "" && f.Seats != domain.AllValue
	seats, seatsErr := strconv.Atoi(f.Seats)

	return refine(cars, func(c domain.Car) bool {
		if name != "" && !strings.Contains(fold.String(c.Name), name) {
			return false
		}
		if categoryActive && fold.String(c.Category) != category {
			return false
		}
		if transmissionActive && fold.String(c.Transmission) != transmission {
			return false
		}
		if seatsActive {
			// нечисловое значение фильтра ничему не соответствует
			if seatsErr != nil || c.Seats != seats {
				return false
			}
		}
		return true
	}, f.Sort, func(c domain.Car) float64 { return c.Price })
}

// activeValue возвращает нормализованное значение фильтра и признак того, что фильтр включен.
func activeValue(fold cases.Caser, v string) (string, bool) {
	if v == "" || v == domain.AllValue {
		return "", false
	}
	return fold.String(v), true
}

// refine - общий конвейер: фильтрация (AND всех предикатов), затем устойчивая сортировка.
// SortDefault сохраняет порядок, пришедший с сервера.
func refine[T any](items []T, keep func(T) bool, order domain.SortOrder, price func(T) float64) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			result = append(result, item)
		}
	}

	switch order {
	case domain.SortPriceAsc:
		slices.SortStableFunc(result, func(a, b T) int { return cmp.Compare(price(a), price(b)) })
	case domain.SortPriceDesc:
		slices.SortStableFunc(result, func(a, b T) int { return cmp.Compare(price(b), price(a)) })
	}
	return result
}
