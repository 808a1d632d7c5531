package listing

import (
	"context"
	"net/url"
	"sync"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/port"
)

// View - то, что отображается на странице.
type View[C, F, T any] struct {
	Criteria   C
	Filter     F
	Address    string
	Items      []T // отображаемый список, только для чтения
	Loading    bool
	Generation uint64
}

// Page собирает вместе критерии поиска, локальные фильтры, адрес страницы и контроллер загрузки.
// Безопасна для одновременного использования: состояние страницы под мьютексом,
// сетевой запрос выполняется вне его.
type Page[C comparable, F comparable, T any] struct {
	codec         CriteriaCodec[C]
	refine        func([]T, F) []T
	defaultFilter F
	ctrl          *Controller[T]

	mu       sync.Mutex
	criteria C
	filter   F
	address  QueryParams

	// кэш отображаемого списка; на результат не влияет
	memoValid      bool
	memoGeneration uint64
	memoFilter     F
	memoItems      []T
}

func NewPage[C comparable, F comparable, T any](
	codec CriteriaCodec[C],
	refine func([]T, F) []T,
	defaultFilter F,
	fetch FetchFunc[T],
	notifier port.NotifierPort,
) *Page[C, F, T] {
	return &Page[C, F, T]{
		codec:         codec,
		refine:        refine,
		defaultFilter: defaultFilter,
		ctrl:          NewController(fetch, notifier),
		filter:        defaultFilter,
	}
}

type (
	TourPage = Page[domain.TourSearchCriteria, domain.TourFilter, domain.Tour]
	CarPage  = Page[domain.CarSearchCriteria, domain.CarFilter, domain.Car]

	TourView = View[domain.TourSearchCriteria, domain.TourFilter, domain.Tour]
	CarView  = View[domain.CarSearchCriteria, domain.CarFilter, domain.Car]
)

// NewTourPage - страница туров: критерии уходят в GET /tours и в адрес.
func NewTourPage(catalog port.TourCatalogPort, notifier port.NotifierPort) *TourPage {
	fetch := func(ctx context.Context, params QueryParams) ([]domain.Tour, error) {
		return catalog.FindTours(ctx, params.Values())
	}
	return NewPage[domain.TourSearchCriteria, domain.TourFilter, domain.Tour](
		tourCodec{}, RefineTours, domain.DefaultTourFilter(), fetch, notifier)
}

// NewCarPage - страница проката: вся фильтрация локальная, адрес не меняется.
func NewCarPage(catalog port.CarCatalogPort, notifier port.NotifierPort) *CarPage {
	fetch := func(ctx context.Context, _ QueryParams) ([]domain.Car, error) {
		return catalog.ListCars(ctx)
	}
	return NewPage[domain.CarSearchCriteria, domain.CarFilter, domain.Car](
		carCodec{}, RefineCars, domain.DefaultCarFilter(), fetch, notifier)
}

// Mount вызывается при открытии страницы. Если во входящем адресе есть известные
// параметры, критерии заполняются из них и первая загрузка идет уже с ними.
func (p *Page[C, F, T]) Mount(ctx context.Context, incoming url.Values) error {
	seeded := p.codec.Parse(incoming)
	params := p.codec.Build(seeded)

	p.mu.Lock()
	p.criteria = seeded
	p.filter = p.defaultFilter
	p.address = params
	p.mu.Unlock()

	if len(params) == 0 {
		return p.ctrl.FetchAll(ctx)
	}
	return p.ctrl.Search(ctx, params)
}

// SetCriteria - изменение формы поиска (ввод с клавиатуры). Запроса нет, адрес не меняется.
func (p *Page[C, F, T]) SetCriteria(criteria C) {
	p.mu.Lock()
	p.criteria = criteria
	p.mu.Unlock()
}

// SetFilter меняет локальные фильтры; список пересчитывается при следующем View.
func (p *Page[C, F, T]) SetFilter(filter F) {
	p.mu.Lock()
	p.filter = filter
	p.mu.Unlock()
}

// Submit - явный поиск: адрес заменяется ровно на непустые поля критериев.
func (p *Page[C, F, T]) Submit(ctx context.Context) error {
	_, err := p.SubmitParams(ctx)
	return err
}

// SubmitParams - Submit, который возвращает отправленные параметры адреса.
// Параметры возвращаются и при ошибке: к этому моменту адрес уже заменен.
func (p *Page[C, F, T]) SubmitParams(ctx context.Context) (QueryParams, error) {
	p.mu.Lock()
	params := p.codec.Build(p.criteria)
	p.address = params
	p.mu.Unlock()

	return append(QueryParams(nil), params...), p.ctrl.Search(ctx, params)
}

// Clear сбрасывает критерии, фильтры и адрес и загружает все заново.
func (p *Page[C, F, T]) Clear(ctx context.Context) error {
	var empty C
	p.mu.Lock()
	p.criteria = empty
	p.filter = p.defaultFilter
	p.address = nil
	p.mu.Unlock()

	return p.ctrl.FetchAll(ctx)
}

// Address возвращает query-часть адреса: "" или "?q=Paris&guests=2".
func (p *Page[C, F, T]) Address() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return encodeAddress(p.address)
}

// AddressParams - текущие параметры адреса.
func (p *Page[C, F, T]) AddressParams() QueryParams {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append(QueryParams(nil), p.address...)
}

func (p *Page[C, F, T]) Criteria() C {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.criteria
}

func (p *Page[C, F, T]) Filter() F {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

// View пересчитывает отображаемый список из последней загруженной коллекции и фильтров.
func (p *Page[C, F, T]) View() View[C, F, T] {
	snap := p.ctrl.Snapshot()

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.memoValid || p.memoGeneration != snap.Generation || p.memoFilter != p.filter {
		p.memoItems = p.refine(snap.Items, p.filter)
		p.memoGeneration = snap.Generation
		p.memoFilter = p.filter
		p.memoValid = true
	}

	return View[C, F, T]{
		Criteria:   p.criteria,
		Filter:     p.filter,
		Address:    encodeAddress(p.address),
		Items:      p.memoItems,
		Loading:    snap.Loading,
		Generation: snap.Generation,
	}
}

func encodeAddress(params QueryParams) string {
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}
