package console

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/appetiteclub/backoffice/pkg"
)

// Relay connection states.
const (
	RelayDisconnected = "disconnected"
	RelayConnecting   = "connecting"
	RelayConnected    = "connected"
)

// SubscriberDialer opens the push channel, returning the subscriber and a
// close function.
type SubscriberDialer func() (events.Subscriber, func() error, error)

// StaleMarker flags the reservation list as outdated. Relay events never
// patch rows directly; they only mark and alert.
type StaleMarker interface {
	MarkStale()
}

// NotificationRelay consumes advisory push events and converts them into
// alerts plus a stale flag on the reservation list. The channel carries no
// ordering or exactly-once guarantee, so its events are informational only.
type NotificationRelay struct {
	mu         sync.Mutex
	state      string
	dial       SubscriberDialer
	subscriber events.Subscriber
	closeConn  func() error
	alerts     *AlertCenter
	list       StaleMarker
	logger     apt.Logger
}

func NewNotificationRelay(dial SubscriberDialer, alerts *AlertCenter, list StaleMarker, logger apt.Logger) *NotificationRelay {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &NotificationRelay{
		state:  RelayDisconnected,
		dial:   dial,
		alerts: alerts,
		list:   list,
		logger: logger,
	}
}

// State returns the current connection state.
func (r *NotificationRelay) State() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// EnsureConnected opens the push channel and registers every handler.
// Calling it while already connected or mid-connection is a no-op, so a
// second concurrent attempt never opens a duplicate connection.
func (r *NotificationRelay) EnsureConnected(ctx context.Context) error {
	r.mu.Lock()
	if r.state != RelayDisconnected {
		r.mu.Unlock()
		return nil
	}
	r.state = RelayConnecting
	r.mu.Unlock()

	if r.dial == nil {
		r.setState(RelayDisconnected)
		return fmt.Errorf("relay dialer not configured")
	}

	subscriber, closeConn, err := r.dial()
	if err != nil {
		r.setState(RelayDisconnected)
		return fmt.Errorf("cannot connect notification relay: %w", err)
	}

	subscriptions := []struct {
		topic   string
		handler events.HandlerFunc
	}{
		{pkg.ReservationEventsTopic, r.handleReservationEvent},
		{pkg.NotificationsTopic, r.handleNotification},
		{pkg.OrderItemStatusTopic, r.handleOrderItemStatus},
	}

	for _, sub := range subscriptions {
		if err := subscriber.Subscribe(ctx, sub.topic, sub.handler); err != nil {
			if closeConn != nil {
				_ = closeConn()
			}
			r.setState(RelayDisconnected)
			return fmt.Errorf("cannot subscribe to %s: %w", sub.topic, err)
		}
	}

	r.mu.Lock()
	r.subscriber = subscriber
	r.closeConn = closeConn
	r.state = RelayConnected
	r.mu.Unlock()

	r.logger.Info("notification relay connected")
	return nil
}

// Close tears the channel down so a later EnsureConnected can register its
// handlers fresh, without duplicates.
func (r *NotificationRelay) Close() error {
	r.mu.Lock()
	closeConn := r.closeConn
	r.subscriber = nil
	r.closeConn = nil
	r.state = RelayDisconnected
	r.mu.Unlock()

	if closeConn != nil {
		return closeConn()
	}
	return nil
}

func (r *NotificationRelay) setState(state string) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
}

func (r *NotificationRelay) handleReservationEvent(ctx context.Context, msg []byte) error {
	var event pkg.ReservationEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		r.logger.Info("invalid reservation event", "error", err)
		return nil
	}

	switch event.EventType {
	case pkg.EventReservationCreated:
		r.alerts.Push(Alert{
			Kind:          AlertKindNewReservation,
			Title:         "New reservation",
			Message:       fmt.Sprintf("%s, party of %d", event.CustomerName, event.NumberOfPeople),
			ReservationID: event.ReservationID,
			CreatedAt:     eventTime(event.OccurredAt),
		})
		r.markStale()
	case pkg.EventAssignTableForReservation:
		r.alerts.Push(Alert{
			Kind:          AlertKindAssignTable,
			Title:         "Reservation needs a table",
			Message:       fmt.Sprintf("%s, party of %d", event.CustomerName, event.NumberOfPeople),
			ReservationID: event.ReservationID,
			CreatedAt:     eventTime(event.OccurredAt),
		})
		r.markStale()
	default:
		r.logger.Debug("ignoring reservation event", "event_type", event.EventType)
	}

	return nil
}

func (r *NotificationRelay) handleNotification(ctx context.Context, msg []byte) error {
	var event pkg.NotificationEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		r.logger.Info("invalid notification event", "error", err)
		return nil
	}

	r.alerts.Push(Alert{
		Kind:      AlertKindNotification,
		Title:     event.Title,
		Message:   event.Message,
		CreatedAt: eventTime(event.CreatedAt),
	})

	return nil
}

// Order item status changes are acknowledged but unused by this console.
func (r *NotificationRelay) handleOrderItemStatus(ctx context.Context, msg []byte) error {
	return nil
}

func (r *NotificationRelay) markStale() {
	if r.list != nil {
		r.list.MarkStale()
	}
}

func eventTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
