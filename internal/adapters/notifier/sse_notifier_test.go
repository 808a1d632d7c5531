package notifier

import (
	"context"
	"strings"
	"testing"
	"time"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/port"

	"github.com/google/uuid"
)

func receive(t *testing.T, ch ClientChannel) string {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("\nwanted:\nmessage\ngot:\nclosed channel")
		}
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("\nwanted:\nmessage\ngot:\ntimeout")
	}
	return ""
}

func TestSSENotifierDelivers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n := NewSSENotifier(ctx, contextkeys.LoggerFromContext(ctx))

	session, other := uuid.New(), uuid.New()
	tabA := n.AddClient(session)
	tabB := n.AddClient(session)
	foreign := n.AddClient(other)

	n.Publish(ctx, port.ListingEvent{
		SessionID: session,
		Type:      port.ListingEventNotification,
		Data:      domain.Notification{Level: domain.NotificationError, Message: "Could not load offers. Please try again."},
	})

	want := "event: notification\ndata: {\"level\":\"error\",\"message\":\"Could not load offers. Please try again.\"}\n\n"
	for _, ch := range []ClientChannel{tabA, tabB} {
		if got := receive(t, ch); got != want {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", want, got)
		}
	}

	select {
	case msg := <-foreign:
		t.Fatalf("\nwanted:\nnothing for other session\ngot:\n%s", msg)
	default:
	}
}

func TestSSENotifierClosedEventReleasesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n := NewSSENotifier(ctx, contextkeys.LoggerFromContext(ctx))

	session := uuid.New()
	ch := n.AddClient(session)

	n.Publish(ctx, port.ListingEvent{SessionID: session, Type: port.ListingEventClosed})

	if got := receive(t, ch); !strings.HasPrefix(got, "event: closed\ndata: {}") {
		t.Fatalf("\nwanted:\nclosed event\ngot:\n%q", got)
	}
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("\nwanted:\nclosed channel\ngot:\nmessage")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("\nwanted:\nclosed channel\ngot:\ntimeout")
	}

	// повторное удаление уже закрытого клиента безопасно
	n.RemoveClient(session, ch)
}

func TestSSENotifierStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	n := NewSSENotifier(ctx, contextkeys.LoggerFromContext(ctx))
	ch := n.AddClient(uuid.New())

	cancel()
	select {
	case <-n.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("\nwanted:\ndispatcher stopped\ngot:\ntimeout")
	}
	if _, ok := <-ch; ok {
		t.Fatal("\nwanted:\nclosed channel\ngot:\nmessage")
	}

	// после остановки Publish не блокируется
	n.Publish(context.Background(), port.ListingEvent{SessionID: uuid.New(), Type: port.ListingEventView})
}
