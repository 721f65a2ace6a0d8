package pkg

import "time"

const (
	// ReservationEventsTopic delivers reservation lifecycle notifications from
	// the booking service to back-office listeners.
	ReservationEventsTopic = "reservations.events"
	// NotificationsTopic carries generic operator-facing announcements.
	NotificationsTopic = "notifications.broadcast"
	// OrderItemStatusTopic groups order item status changes pushed by the
	// order pipeline. The back office acknowledges these without acting on them.
	OrderItemStatusTopic = "orders.item-status"

	// EventReservationCreated identifies a freshly created reservation payload.
	EventReservationCreated = "reservation.created"
	// EventAssignTableForReservation asks the floor staff to pick tables for a
	// confirmed reservation that has none yet.
	EventAssignTableForReservation = "reservation.assign-table"
	// EventNotificationReceived identifies a generic notification payload.
	EventNotificationReceived = "notification.received"
	// EventOrderItemStatusChanged identifies an order item status payload.
	EventOrderItemStatusChanged = "order.item.status-changed"
)

// ReservationEvent carries the minimal reservation details a back-office
// listener needs to raise an alert and navigate to the assignment screen.
type ReservationEvent struct {
	EventType      string    `json:"event_type"`
	ReservationID  string    `json:"reservation_id"`
	CustomerName   string    `json:"customer_name"`
	PhoneNumber    string    `json:"phone_number"`
	NumberOfPeople int       `json:"number_of_people"`
	Source         string    `json:"source,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NotificationEvent is a generic operator announcement.
type NotificationEvent struct {
	EventType string    `json:"event_type"`
	ID        int64     `json:"id"`
	Type      int       `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Payload   string    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderItemStatusEvent reports an order item moving through the kitchen
// pipeline. Consumed as a no-op hook by the back office today.
type OrderItemStatusEvent struct {
	EventType   string    `json:"event_type"`
	OrderItemID string    `json:"order_item_id"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}
