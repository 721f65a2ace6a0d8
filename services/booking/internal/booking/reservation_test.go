package booking

import (
	"testing"

	"github.com/google/uuid"

	"github.com/appetiteclub/backoffice/pkg/enums/reservationstatus"
)

func TestReservationLifecycle(t *testing.T) {
	reservation := NewReservation()

	if !reservation.IsCreated() {
		t.Fatalf("new reservation status = %q, want %q", reservation.Status, reservationstatus.Statuses.Created.Name)
	}

	reservation.Confirm()
	if !reservation.IsConfirmed() {
		t.Errorf("status after Confirm() = %q, want %q", reservation.Status, reservationstatus.Statuses.Confirmed.Name)
	}

	reservation.CheckIn()
	if !reservation.IsTerminal() {
		t.Errorf("checked-in reservation should be terminal, status = %q", reservation.Status)
	}
}

func TestReservationAssignTable(t *testing.T) {
	tableID := uuid.MustParse("550e8400-e29b-41d4-a716-446655440020")

	reservation := NewReservation()

	if !reservation.AssignTable(tableID) {
		t.Fatal("AssignTable() = false for a new table")
	}
	if reservation.AssignTable(tableID) {
		t.Error("AssignTable() = true for an already assigned table")
	}
	if len(reservation.TableAssignments) != 1 {
		t.Errorf("assignments = %d, want 1", len(reservation.TableAssignments))
	}
	if !reservation.HasTables() {
		t.Error("HasTables() = false after assignment")
	}
}

func TestReservationUnassignTables(t *testing.T) {
	firstID := uuid.MustParse("550e8400-e29b-41d4-a716-446655440021")
	secondID := uuid.MustParse("550e8400-e29b-41d4-a716-446655440022")
	unknownID := uuid.MustParse("550e8400-e29b-41d4-a716-446655440023")

	tests := []struct {
		name         string
		release      []uuid.UUID
		wantReleased int
		wantKept     int
	}{
		{
			name:         "releaseOne",
			release:      []uuid.UUID{firstID},
			wantReleased: 1,
			wantKept:     1,
		},
		{
			name:         "releaseAll",
			release:      []uuid.UUID{firstID, secondID},
			wantReleased: 2,
			wantKept:     0,
		},
		{
			name:         "releaseUnknown",
			release:      []uuid.UUID{unknownID},
			wantReleased: 0,
			wantKept:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reservation := NewReservation()
			reservation.AssignTable(firstID)
			reservation.AssignTable(secondID)

			released := reservation.UnassignTables(tt.release)

			if len(released) != tt.wantReleased {
				t.Errorf("released = %d, want %d", len(released), tt.wantReleased)
			}
			if len(reservation.TableAssignments) != tt.wantKept {
				t.Errorf("kept = %d, want %d", len(reservation.TableAssignments), tt.wantKept)
			}
		})
	}
}

func TestTableRelease(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		wantStatus string
	}{
		{name: "bookedReopens", status: "booked", wantStatus: "open"},
		{name: "lockedStaysLocked", status: "locked", wantStatus: "locked"},
		{name: "closedStaysClosed", status: "closed", wantStatus: "closed"},
		{name: "openStaysOpen", status: "open", wantStatus: "open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable()
			table.Status = tt.status

			table.Release()

			if table.Status != tt.wantStatus {
				t.Errorf("Release() status = %q, want %q", table.Status, tt.wantStatus)
			}
		})
	}
}
