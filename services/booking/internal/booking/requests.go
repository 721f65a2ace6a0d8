package booking

import (
	"time"

	"github.com/google/uuid"
)

type ReservationCreateRequest struct {
	CustomerName   string    `json:"customer_name"`
	PhoneNumber    string    `json:"phone_number"`
	GuestCount     int       `json:"guest_count"`
	BookingTime    time.Time `json:"booking_time"`
	Priority       string    `json:"priority,omitempty"`
	StaffInitiated bool      `json:"staff_initiated,omitempty"`
}

type ReservationUpdateRequest struct {
	BookingTime *time.Time `json:"booking_time,omitempty"`
	GuestCount  int        `json:"guest_count,omitempty"`
}

type AssignTablesRequest struct {
	TableIDs []uuid.UUID `json:"table_ids"`
}

type UnassignTablesRequest struct {
	TableIDs  []uuid.UUID `json:"table_ids,omitempty"`
	AllTables bool        `json:"all_tables,omitempty"`
}

type TableCreateRequest struct {
	Code string `json:"code"`
	Zone string `json:"zone,omitempty"`
}

// Outcome is the uniform result of a lifecycle operation. Action endpoints
// always answer 200 with one of these so callers can surface the message
// verbatim without parsing transport errors.
type Outcome struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
)

func Accepted(message string) Outcome {
	return Outcome{Status: OutcomeOK, Message: message}
}

func Rejected(message string) Outcome {
	return Outcome{Status: OutcomeRejected, Message: message}
}

func (o Outcome) OK() bool {
	return o.Status == OutcomeOK
}
