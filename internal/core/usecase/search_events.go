package usecase

import (
	"context"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/port"
)

// publishSearchSubmitted отправляет событие о поиске. Ошибка шины только логируется:
// пользователь не должен видеть сбои аналитики.
func publishSearchSubmitted(
	ctx context.Context,
	publisher port.SearchEventPublisherPort,
	logger port.LoggerPort,
	kind domain.ListingKind,
	trigger domain.SearchTrigger,
	params map[string]string,
) {
	if publisher == nil || len(params) == 0 {
		return
	}

	event := domain.SearchSubmitted{Page: kind, Trigger: trigger, Params: params}
	if err := publisher.PublishSearchSubmitted(ctx, event); err != nil {
		logger.Warn("Failed to publish search event", port.Fields{
			"page":    kind,
			"trigger": trigger,
			"error":   err.Error(),
		})
	}
}

// carFilterParams - активные локальные фильтры проката в виде параметров события.
func carFilterParams(f domain.CarFilter) map[string]string {
	params := make(map[string]string)
	if f.SearchName != "" {
		params["name"] = f.SearchName
	}
	for key, value := range map[string]string{
		"category":     f.Category,
		"transmission": f.Transmission,
		"seats":        f.Seats,
	} {
		if value != "" && value != domain.AllValue {
			params[key] = value
		}
	}
	if f.Sort != domain.SortDefault && f.Sort != "" {
		params["sort"] = string(f.Sort)
	}
	return params
}
