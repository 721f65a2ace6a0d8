package console

import (
	"time"
)

// reservationResource mirrors the aggregate returned by the booking service.
type reservationResource struct {
	ID               string                    `json:"id"`
	CustomerName     string                    `json:"customer_name"`
	PhoneNumber      string                    `json:"phone_number"`
	GuestCount       int                       `json:"guest_count"`
	BookingTime      time.Time                 `json:"booking_time"`
	Priority         string                    `json:"priority"`
	Status           string                    `json:"status"`
	StaffInitiated   bool                      `json:"staff_initiated"`
	TableAssignments []tableAssignmentResource `json:"table_assignments"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

// tableAssignmentResource represents a single table held by a reservation.
type tableAssignmentResource struct {
	TableID       string    `json:"table_id"`
	ReservationID string    `json:"reservation_id"`
	AssignedAt    time.Time `json:"assigned_at"`
}

const (
	statusCreated   = "created"
	statusConfirmed = "confirmed"
	statusCheckedIn = "checked-in"
	statusCancelled = "cancelled"
)

func (r reservationResource) HasTables() bool {
	return len(r.TableAssignments) > 0
}

func (r reservationResource) TableIDs() []string {
	ids := make([]string, 0, len(r.TableAssignments))
	for _, ta := range r.TableAssignments {
		ids = append(ids, ta.TableID)
	}
	return ids
}

// Action kinds offered per row. These double as the operation component of
// the action-lock key.
const (
	ActionConfirm  = "confirm"
	ActionCancel   = "cancel"
	ActionAssign   = "assign"
	ActionUnassign = "unassign"
	ActionCheckIn  = "check-in"
	ActionEdit     = "edit"
)

// ActionsFor derives which operations a row offers given its status and
// whether it currently holds tables. Check-in only appears once at least one
// table is assigned.
func ActionsFor(status string, hasTables bool) []string {
	switch status {
	case statusCreated:
		return []string{ActionConfirm, ActionCancel, ActionEdit}
	case statusConfirmed:
		actions := []string{ActionAssign, ActionCancel, ActionEdit}
		if hasTables {
			actions = append(actions, ActionUnassign, ActionCheckIn)
		}
		return actions
	default:
		return nil
	}
}
