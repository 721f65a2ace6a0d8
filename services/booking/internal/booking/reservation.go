package booking

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/appetiteclub/backoffice/pkg/enums/reservationstatus"
)

type Reservation struct {
	ID               uuid.UUID         `json:"id" bson:"_id"`
	CustomerName     string            `json:"customer_name" bson:"customer_name"`
	PhoneNumber      string            `json:"phone_number" bson:"phone_number"`
	GuestCount       int               `json:"guest_count" bson:"guest_count"`
	BookingTime      time.Time         `json:"booking_time" bson:"booking_time"`
	Priority         string            `json:"priority,omitempty" bson:"priority,omitempty"`
	Status           string            `json:"status" bson:"status"`
	StaffInitiated   bool              `json:"staff_initiated" bson:"staff_initiated"`
	TableAssignments []TableAssignment `json:"table_assignments" bson:"table_assignments"`
	CreatedAt        time.Time         `json:"created_at" bson:"created_at"`
	CreatedBy        string            `json:"created_by" bson:"created_by"`
	UpdatedAt        time.Time         `json:"updated_at" bson:"updated_at"`
	UpdatedBy        string            `json:"updated_by" bson:"updated_by"`
}

// TableAssignment binds one physical table to one reservation.
type TableAssignment struct {
	TableID       uuid.UUID `json:"table_id" bson:"table_id"`
	ReservationID uuid.UUID `json:"reservation_id" bson:"reservation_id"`
	AssignedAt    time.Time `json:"assigned_at" bson:"assigned_at"`
}

func (r *Reservation) GetID() uuid.UUID {
	return r.ID
}

func (r *Reservation) ResourceType() string {
	return "reservation"
}

func (r *Reservation) SetID(id uuid.UUID) {
	r.ID = id
}

func NewReservation() *Reservation {
	return &Reservation{
		ID:               apt.GenerateNewID(),
		Status:           reservationstatus.Statuses.Created.Name,
		TableAssignments: []TableAssignment{},
	}
}

func (r *Reservation) EnsureID() {
	if r.ID == uuid.Nil {
		r.ID = apt.GenerateNewID()
	}
}

func (r *Reservation) BeforeCreate() {
	r.EnsureID()
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
}

func (r *Reservation) BeforeUpdate() {
	r.UpdatedAt = time.Now()
}

func (r *Reservation) IsCreated() bool {
	return r.Status == reservationstatus.Statuses.Created.Name
}

func (r *Reservation) IsConfirmed() bool {
	return r.Status == reservationstatus.Statuses.Confirmed.Name
}

func (r *Reservation) IsTerminal() bool {
	return reservationstatus.IsTerminal(r.Status)
}

func (r *Reservation) Confirm() {
	r.Status = reservationstatus.Statuses.Confirmed.Name
	r.UpdatedAt = time.Now()
}

func (r *Reservation) Cancel() {
	r.Status = reservationstatus.Statuses.Cancelled.Name
	r.UpdatedAt = time.Now()
}

func (r *Reservation) CheckIn() {
	r.Status = reservationstatus.Statuses.CheckedIn.Name
	r.UpdatedAt = time.Now()
}

func (r *Reservation) HasTables() bool {
	return len(r.TableAssignments) > 0
}

func (r *Reservation) TableIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.TableAssignments))
	for _, ta := range r.TableAssignments {
		ids = append(ids, ta.TableID)
	}
	return ids
}

// AssignTable appends an assignment unless the table is already bound to this
// reservation.
func (r *Reservation) AssignTable(tableID uuid.UUID) bool {
	for _, ta := range r.TableAssignments {
		if ta.TableID == tableID {
			return false
		}
	}
	r.TableAssignments = append(r.TableAssignments, TableAssignment{
		TableID:       tableID,
		ReservationID: r.ID,
		AssignedAt:    time.Now(),
	})
	r.UpdatedAt = time.Now()
	return true
}

// UnassignTables removes the listed assignments and returns the table ids that
// were actually released.
func (r *Reservation) UnassignTables(tableIDs []uuid.UUID) []uuid.UUID {
	requested := make(map[uuid.UUID]bool, len(tableIDs))
	for _, id := range tableIDs {
		requested[id] = true
	}

	var kept []TableAssignment
	var released []uuid.UUID
	for _, ta := range r.TableAssignments {
		if requested[ta.TableID] {
			released = append(released, ta.TableID)
			continue
		}
		kept = append(kept, ta)
	}
	if kept == nil {
		kept = []TableAssignment{}
	}
	r.TableAssignments = kept
	if len(released) > 0 {
		r.UpdatedAt = time.Now()
	}
	return released
}
