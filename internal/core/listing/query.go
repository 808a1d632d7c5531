package listing

import (
	"net/url"
	"strings"
	"travel-web/internal/core/domain"
)

// Имена параметров в адресе страницы туров и в запросе к travel API.
const (
	ParamQuery     = "q"
	ParamStartDate = "startDate"
	ParamEndDate   = "endDate"
	ParamGuests    = "guests"
)

// QueryParam - одна пара ключ-значение.
type QueryParam struct {
	Key   string
	Value string
}

// QueryParams - упорядоченный набор параметров. Порядок сохраняется при кодировании.
type QueryParams []QueryParam

// Encode кодирует параметры в порядке добавления: "q=Paris&guests=2".
func (p QueryParams) Encode() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.Value))
	}
	return b.String()
}

// Values - то же самое в виде url.Values для HTTP-клиента.
func (p QueryParams) Values() url.Values {
	values := make(url.Values, len(p))
	for _, kv := range p {
		values.Add(kv.Key, kv.Value)
	}
	return values
}

// Map нужен для событий и логов.
func (p QueryParams) Map() map[string]string {
	m := make(map[string]string, len(p))
	for _, kv := range p {
		m[kv.Key] = kv.Value
	}
	return m
}

func (p QueryParams) appendNonEmpty(key, value string) QueryParams {
	if value == "" {
		return p
	}
	return append(p, QueryParam{Key: key, Value: value})
}

// BuildTourQuery переводит критерии в параметры запроса.
// Параметр попадает в результат только если значение непустое; значения не проверяются
// и не исправляются, валидация остается за travel API.
func BuildTourQuery(c domain.TourSearchCriteria) QueryParams {
	var params QueryParams
	params = params.appendNonEmpty(ParamQuery, c.Location)
	params = params.appendNonEmpty(ParamStartDate, c.StartDate)
	params = params.appendNonEmpty(ParamEndDate, c.EndDate)
	params = params.appendNonEmpty(ParamGuests, c.Guests)
	return params
}

// ParseTourQuery - обратное преобразование для входящих ссылок.
// Берется первое значение каждого известного ключа, остальные ключи игнорируются.
func ParseTourQuery(values url.Values) domain.TourSearchCriteria {
	return domain.TourSearchCriteria{
		Location:  values.Get(ParamQuery),
		StartDate: values.Get(ParamStartDate),
		EndDate:   values.Get(ParamEndDate),
		Guests:    values.Get(ParamGuests),
	}
}

// CriteriaCodec связывает критерии страницы с ее адресом.
type CriteriaCodec[C any] interface {
	Build(criteria C) QueryParams
	Parse(values url.Values) C
}

type tourCodec struct{}

func (tourCodec) Build(c domain.TourSearchCriteria) QueryParams { return BuildTourQuery(c) }
func (tourCodec) Parse(v url.Values) domain.TourSearchCriteria  { return ParseTourQuery(v) }

// carCodec: форма проката не уходит ни в travel API, ни в адрес.
type carCodec struct{}

func (carCodec) Build(domain.CarSearchCriteria) QueryParams { return nil }
func (carCodec) Parse(url.Values) domain.CarSearchCriteria  { return domain.CarSearchCriteria{} }

// ParseTourFilter читает локальные фильтры туров из query (region, sort).
func ParseTourFilter(values url.Values) domain.TourFilter {
	f := domain.DefaultTourFilter()
	if region := values.Get("region"); region != "" {
		f.Region = region
	}
	f.Sort = domain.ParseSortOrder(values.Get("sort"))
	return f
}

// ParseCarFilter читает локальные фильтры проката (name, category, transmission, seats, sort).
func ParseCarFilter(values url.Values) domain.CarFilter {
	f := domain.DefaultCarFilter()
	f.SearchName = values.Get("name")
	if v := values.Get("category"); v != "" {
		f.Category = v
	}
	if v := values.Get("transmission"); v != "" {
		f.Transmission = v
	}
	if v := values.Get("seats"); v != "" {
		f.Seats = v
	}
	f.Sort = domain.ParseSortOrder(values.Get("sort"))
	return f
}
