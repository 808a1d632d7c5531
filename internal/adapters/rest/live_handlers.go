package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	"travel-web/internal/adapters/notifier"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/port"
	"travel-web/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const sseKeepAliveInterval = 15 * time.Second

// liveParam - сегмент пути после /live: тип страницы для POST, id сессии для остальных методов.
const liveParam = "ref"

// LiveSubscriptions - источник SSE-сообщений для соединений живой сессии.
type LiveSubscriptions interface {
	AddClient(sessionID uuid.UUID) notifier.ClientChannel
	RemoveClient(sessionID uuid.UUID, ch notifier.ClientChannel)
}

type LiveListingHandler struct {
	liveUC        usecases_port.LiveListingUseCasePort
	subscriptions LiveSubscriptions
	keepAlive     time.Duration
}

func NewLiveListingHandler(liveUC usecases_port.LiveListingUseCasePort, subscriptions LiveSubscriptions) *LiveListingHandler {
	return &LiveListingHandler{
		liveUC:        liveUC,
		subscriptions: subscriptions,
		keepAlive:     sseKeepAliveInterval,
	}
}

// Open обрабатывает POST /api/v1/live/{kind}. Query string запроса - начальный адрес страницы.
func (h *LiveListingHandler) Open(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "OpenLiveListing"})

	kind, err := domain.ParseListingKind(chi.URLParam(r, liveParam))
	if err != nil {
		writeLiveError(w, logger, err)
		return
	}

	view, err := h.liveUC.Open(r.Context(), kind, r.URL.Query())
	if err != nil {
		writeLiveError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, view)
}

// Get обрабатывает GET /api/v1/live/{sessionID}
func (h *LiveListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "GetLiveListing", h.liveUC.View)
}

// UpdateCriteria обрабатывает PUT /api/v1/live/{sessionID}/criteria
func (h *LiveListingHandler) UpdateCriteria(w http.ResponseWriter, r *http.Request) {
	h.withBody(w, r, "UpdateLiveCriteria", h.liveUC.UpdateCriteria)
}

// UpdateFilter обрабатывает PUT /api/v1/live/{sessionID}/filter
func (h *LiveListingHandler) UpdateFilter(w http.ResponseWriter, r *http.Request) {
	h.withBody(w, r, "UpdateLiveFilter", h.liveUC.UpdateFilter)
}

// Submit обрабатывает POST /api/v1/live/{sessionID}/submit
func (h *LiveListingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "SubmitLiveSearch", h.liveUC.Submit)
}

// Clear обрабатывает POST /api/v1/live/{sessionID}/clear
func (h *LiveListingHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "ClearLiveSearch", h.liveUC.Clear)
}

// Close обрабатывает DELETE /api/v1/live/{sessionID}
func (h *LiveListingHandler) Close(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CloseLiveListing"})

	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	if err := h.liveUC.Close(r.Context(), id); err != nil {
		writeLiveError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Subscribe обрабатывает GET /api/v1/live/{sessionID}/events (SSE).
// Первым приходит текущее состояние, дальше каждое изменение страницы.
func (h *LiveListingHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubscribeLiveListing"})

	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	clientChan := h.subscriptions.AddClient(id)
	defer h.subscriptions.RemoveClient(id, clientChan)

	// текущее состояние идет через ту же очередь, что и изменения, поэтому
	// клиент не получит после него более старый вид
	if err := h.liveUC.Resync(r.Context(), id); err != nil {
		writeLiveError(w, logger, err)
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"session_id": id.String()})
	handlerLogger.Info("New client subscribing to live listing", nil)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}

	fmt.Fprintf(w, "event: connected\ndata: {}\n\n")
	flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case data, open := <-clientChan:
			if !open {
				handlerLogger.Info("Live session closed, ending SSE stream", nil)
				return
			}
			if _, err := w.Write(data); err != nil {
				handlerLogger.Error("Error writing to client, closing SSE connection", err, nil)
				return
			}
			flush()

		case <-ticker.C:
			// строки с двоеточия в SSE - комментарии, браузер их игнорирует
			if _, err := fmt.Fprintf(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flush()

		case <-r.Context().Done():
			handlerLogger.Info("SSE client disconnected", nil)
			return
		}
	}
}

func (h *LiveListingHandler) withSession(
	w http.ResponseWriter, r *http.Request, name string,
	call func(ctx context.Context, id uuid.UUID) (*domain.LiveListing, error),
) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": name})

	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	view, err := call(r.Context(), id)
	if err != nil {
		writeLiveError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, view)
}

func (h *LiveListingHandler) withBody(
	w http.ResponseWriter, r *http.Request, name string,
	call func(ctx context.Context, id uuid.UUID, raw []byte) (*domain.LiveListing, error),
) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": name})

	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	raw, err := readBody(r)
	if err != nil {
		logger.Warn("Failed to read request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	view, err := call(r.Context(), id, raw)
	if err != nil {
		writeLiveError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, view)
}

func sessionIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, liveParam)
	id, err := uuid.Parse(raw)
	if err != nil {
		contextkeys.LoggerFromContext(r.Context()).Warn("Invalid session id in URL", port.Fields{"provided_id": raw})
		WriteJSONError(w, http.StatusBadRequest, "Invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

func writeLiveError(w http.ResponseWriter, logger port.LoggerPort, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		WriteJSONError(w, http.StatusNotFound, "Listing session not found")
	case errors.Is(err, domain.ErrUnknownListingKind):
		WriteJSONError(w, http.StatusNotFound, "Unknown listing kind")
	case errors.Is(err, domain.ErrInvalidInput):
		logger.Warn("Invalid live listing input", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
	default:
		logger.Error("Live listing use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to update listing")
	}
}
