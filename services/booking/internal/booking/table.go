package booking

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/appetiteclub/backoffice/pkg/enums/tablestatus"
)

type Table struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	Code      string    `json:"code" bson:"code"`
	Zone      string    `json:"zone,omitempty" bson:"zone,omitempty"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	CreatedBy string    `json:"created_by" bson:"created_by"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	UpdatedBy string    `json:"updated_by" bson:"updated_by"`
}

func (t *Table) GetID() uuid.UUID {
	return t.ID
}

func (t *Table) ResourceType() string {
	return "table"
}

func (t *Table) SetID(id uuid.UUID) {
	t.ID = id
}

func NewTable() *Table {
	return &Table{
		ID:     apt.GenerateNewID(),
		Status: tablestatus.Statuses.Open.Name,
	}
}

func (t *Table) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = apt.GenerateNewID()
	}
}

func (t *Table) BeforeCreate() {
	t.EnsureID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
}

func (t *Table) BeforeUpdate() {
	t.UpdatedAt = time.Now()
}

// Bookable reports whether the table can take a new assignment.
func (t *Table) Bookable() bool {
	return t.Status == tablestatus.Statuses.Open.Name
}

func (t *Table) MarkBooked() {
	t.Status = tablestatus.Statuses.Booked.Name
	t.UpdatedAt = time.Now()
}

// Release returns a booked table to the open pool. Locked and closed tables
// keep their status.
func (t *Table) Release() {
	if t.Status != tablestatus.Statuses.Booked.Name {
		return
	}
	t.Status = tablestatus.Statuses.Open.Name
	t.UpdatedAt = time.Now()
}
