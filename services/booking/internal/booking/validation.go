package booking

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

func ValidateReservationCreate(ctx context.Context, req ReservationCreateRequest) []string {
	var errors []string

	if strings.TrimSpace(req.CustomerName) == "" {
		errors = append(errors, "customer_name is required")
	}

	if strings.TrimSpace(req.PhoneNumber) == "" {
		errors = append(errors, "phone_number is required")
	}

	if req.GuestCount <= 0 {
		errors = append(errors, "guest_count must be greater than 0")
	}

	if req.BookingTime.IsZero() {
		errors = append(errors, "booking_time is required")
	}

	return errors
}

func ValidateReservationUpdate(ctx context.Context, id uuid.UUID, req ReservationUpdateRequest) []string {
	var errors []string

	if id == uuid.Nil {
		errors = append(errors, "invalid reservation id")
	}

	if req.GuestCount < 0 {
		errors = append(errors, "guest_count cannot be negative")
	}

	if req.BookingTime != nil && req.BookingTime.IsZero() {
		errors = append(errors, "booking_time cannot be zero")
	}

	return errors
}

func ValidateAssignTables(ctx context.Context, req AssignTablesRequest) []string {
	var errors []string

	if len(req.TableIDs) == 0 {
		errors = append(errors, "table_ids is required")
	}

	for _, id := range req.TableIDs {
		if id == uuid.Nil {
			errors = append(errors, "table_ids contains an invalid id")
			break
		}
	}

	return errors
}

func ValidateUnassignTables(ctx context.Context, req UnassignTablesRequest) []string {
	var errors []string

	if !req.AllTables && len(req.TableIDs) == 0 {
		errors = append(errors, "table_ids is required unless all_tables is set")
	}

	return errors
}

func ValidateTableCreate(ctx context.Context, req TableCreateRequest) []string {
	var errors []string

	if strings.TrimSpace(req.Code) == "" {
		errors = append(errors, "code is required")
	}

	return errors
}
