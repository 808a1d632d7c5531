package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/port"

	"github.com/google/uuid"
)

// ClientChannel - поток готовых SSE-сообщений для одного соединения (вкладки браузера).
// Закрывается, когда сессия закрыта.
type ClientChannel chan []byte

const (
	eventBufferSize  = 256
	clientBufferSize = 64
)

type eventWithContext struct {
	ctx   context.Context
	event port.ListingEvent
}

// SSENotifier реализует ListingNotifierPort: события живых сессий рассылаются
// всем подключенным к сессии клиентам.
type SSENotifier struct {
	mu      sync.RWMutex
	clients map[uuid.UUID][]ClientChannel

	eventChan chan eventWithContext
	done      chan struct{}
	logger    port.LoggerPort
}

var _ port.ListingNotifierPort = (*SSENotifier)(nil)

// NewSSENotifier запускает диспетчер, который работает до отмены ctx.
func NewSSENotifier(ctx context.Context, baseLogger port.LoggerPort) *SSENotifier {
	n := &SSENotifier{
		clients:   make(map[uuid.UUID][]ClientChannel),
		eventChan: make(chan eventWithContext, eventBufferSize),
		done:      make(chan struct{}),
		logger:    baseLogger.WithFields(port.Fields{"component": "SSENotifier"}),
	}
	go n.dispatcher(ctx)
	return n
}

// Done закрывается после остановки диспетчера.
func (n *SSENotifier) Done() <-chan struct{} {
	return n.done
}

func (n *SSENotifier) dispatcher(ctx context.Context) {
	defer close(n.done)
	n.logger.Debug("Notifier dispatcher started", nil)

	for {
		select {
		case <-ctx.Done():
			n.closeAll()
			n.logger.Debug("Notifier dispatcher stopped", nil)
			return
		case pkg := <-n.eventChan:
			n.dispatch(pkg.ctx, pkg.event)
		}
	}
}

func (n *SSENotifier) dispatch(ctx context.Context, event port.ListingEvent) {
	eventLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "SSENotifier.dispatcher",
		"event_type": event.Type,
		"session_id": event.SessionID.String(),
	})

	message, err := FormatEvent(event.Type, event.Data)
	if err != nil {
		eventLogger.Error("Failed to marshal event", err, nil)
		return
	}

	if event.Type == port.ListingEventClosed {
		n.mu.Lock()
		channels := n.clients[event.SessionID]
		delete(n.clients, event.SessionID)
		n.mu.Unlock()

		for _, ch := range channels {
			select {
			case ch <- message:
			default:
			}
			close(ch)
		}
		eventLogger.Debug("Session clients released", port.Fields{"channels_count": len(channels)})
		return
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	channels, found := n.clients[event.SessionID]
	if !found {
		eventLogger.Debug("No active clients for session, event dropped", nil)
		return
	}
	for _, ch := range channels {
		// медленный клиент не должен задерживать остальных
		select {
		case ch <- message:
		default:
			eventLogger.Warn("Client channel is full, skipping", nil)
		}
	}
}

// Publish кладет событие во внутреннюю очередь. Блокируется только при полной очереди.
func (n *SSENotifier) Publish(ctx context.Context, event port.ListingEvent) {
	select {
	case n.eventChan <- eventWithContext{ctx: ctx, event: event}:
	case <-n.done:
	case <-ctx.Done():
		contextkeys.LoggerFromContext(ctx).Warn("Listing event dropped, request context done", port.Fields{
			"event_type": event.Type,
		})
	}
}

// AddClient регистрирует новое SSE-соединение сессии.
func (n *SSENotifier) AddClient(sessionID uuid.UUID) ClientChannel {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(ClientChannel, clientBufferSize)
	n.clients[sessionID] = append(n.clients[sessionID], ch)

	n.logger.Info("Client connected to live session", port.Fields{
		"session_id":        sessionID.String(),
		"connections_count": len(n.clients[sessionID]),
	})
	return ch
}

// RemoveClient вызывается обработчиком, когда клиент отключился.
func (n *SSENotifier) RemoveClient(sessionID uuid.UUID, ch ClientChannel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	channels, found := n.clients[sessionID]
	if !found {
		return
	}
	remaining := make([]ClientChannel, 0, len(channels))
	for _, c := range channels {
		if c != ch {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		delete(n.clients, sessionID)
	} else {
		n.clients[sessionID] = remaining
	}
	n.logger.Debug("Client disconnected from live session", port.Fields{
		"session_id":            sessionID.String(),
		"remaining_connections": len(remaining),
	})
}

func (n *SSENotifier) closeAll() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, channels := range n.clients {
		for _, ch := range channels {
			close(ch)
		}
		delete(n.clients, id)
	}
}

// FormatEvent собирает SSE-сообщение: "event: <type>\ndata: <json>\n\n".
func FormatEvent(eventType string, data interface{}) ([]byte, error) {
	if data == nil {
		data = struct{}{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", eventType, payload)), nil
}
