package console

import (
	"sync"
	"time"
)

// maxAlerts bounds how many alerts the center retains; older entries are
// dropped first.
const maxAlerts = 100

const (
	AlertKindNotification   = "notification"
	AlertKindNewReservation = "new-reservation"
	AlertKindAssignTable    = "assign-table"
	AlertKindActionFailed   = "action-failed"
	AlertKindActionDone     = "action-done"
)

type Alert struct {
	Kind          string    `json:"kind"`
	Title         string    `json:"title"`
	Message       string    `json:"message,omitempty"`
	ReservationID string    `json:"reservation_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// OffersNavigation reports whether the alert links to the table-assignment
// screen.
func (a Alert) OffersNavigation() bool {
	return a.Kind == AlertKindNewReservation || a.Kind == AlertKindAssignTable
}

// AlertCenter collects user-visible messages from relay events and action
// outcomes.
type AlertCenter struct {
	mu     sync.Mutex
	alerts []Alert
}

func NewAlertCenter() *AlertCenter {
	return &AlertCenter{}
}

func (c *AlertCenter) Push(alert Alert) {
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.alerts = append(c.alerts, alert)
	if len(c.alerts) > maxAlerts {
		c.alerts = c.alerts[len(c.alerts)-maxAlerts:]
	}
}

// List returns alerts newest first.
func (c *AlertCenter) List() []Alert {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]Alert, 0, len(c.alerts))
	for i := len(c.alerts) - 1; i >= 0; i-- {
		result = append(result, c.alerts[i])
	}
	return result
}

func (c *AlertCenter) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = nil
}
