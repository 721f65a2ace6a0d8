package console

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
)

// ActionResult is the uniform outcome of a mutating booking operation. A
// transport failure surfaces as an error; a business rejection arrives as
// Success=false with the server message.
type ActionResult struct {
	Success bool
	Message string
}

type actionOutcome struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CreateReservationRequest defines the creation payload supported by the
// booking service.
type CreateReservationRequest struct {
	CustomerName   string    `json:"customer_name"`
	PhoneNumber    string    `json:"phone_number"`
	GuestCount     int       `json:"guest_count"`
	BookingTime    time.Time `json:"booking_time"`
	StaffInitiated bool      `json:"staff_initiated"`
}

// UpdateReservationRequest carries the editable reservation fields.
type UpdateReservationRequest struct {
	BookingTime *time.Time `json:"booking_time,omitempty"`
	GuestCount  int        `json:"guest_count,omitempty"`
}

// BookingDataAccess centralizes decoding of booking service responses.
type BookingDataAccess struct {
	client *apt.ServiceClient
}

func NewBookingDataAccess(client *apt.ServiceClient) *BookingDataAccess {
	return &BookingDataAccess{client: client}
}

func (da *BookingDataAccess) ListReservations(ctx context.Context) ([]reservationResource, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("booking client not configured")
	}

	resp, err := da.client.List(ctx, "reservations")
	if err != nil {
		return nil, err
	}

	var reservations []reservationResource
	if err := decodeSuccessResponse(resp, &reservations); err != nil {
		return nil, err
	}

	return reservations, nil
}

func (da *BookingDataAccess) Confirm(ctx context.Context, id string) (ActionResult, error) {
	return da.postAction(ctx, id, "confirm", nil)
}

func (da *BookingDataAccess) Cancel(ctx context.Context, id string) (ActionResult, error) {
	return da.postAction(ctx, id, "cancel", nil)
}

func (da *BookingDataAccess) AssignTables(ctx context.Context, id string, tableIDs []string) (ActionResult, error) {
	payload := map[string]interface{}{"table_ids": tableIDs}
	return da.postAction(ctx, id, "assign-tables", payload)
}

func (da *BookingDataAccess) UnassignTables(ctx context.Context, id string, tableIDs []string, allTables bool) (ActionResult, error) {
	payload := map[string]interface{}{}
	if allTables {
		payload["all_tables"] = true
	} else {
		payload["table_ids"] = tableIDs
	}
	return da.postAction(ctx, id, "unassign-tables", payload)
}

func (da *BookingDataAccess) CheckIn(ctx context.Context, id string) (ActionResult, error) {
	return da.postAction(ctx, id, "check-in", nil)
}

func (da *BookingDataAccess) Create(ctx context.Context, payload CreateReservationRequest) (ActionResult, error) {
	if da == nil || da.client == nil {
		return ActionResult{}, fmt.Errorf("booking client not configured")
	}

	if _, err := da.client.Create(ctx, "reservations", payload); err != nil {
		return ActionResult{}, err
	}

	return ActionResult{Success: true, Message: "Reservation created"}, nil
}

func (da *BookingDataAccess) Update(ctx context.Context, id string, payload UpdateReservationRequest) (ActionResult, error) {
	if da == nil || da.client == nil {
		return ActionResult{}, fmt.Errorf("booking client not configured")
	}
	if id == "" {
		return ActionResult{}, fmt.Errorf("missing reservation id")
	}

	path := fmt.Sprintf("/reservations/%s", id)
	resp, err := da.client.Request(ctx, "PATCH", path, payload)
	if err != nil {
		return ActionResult{}, err
	}

	return toActionResult(resp)
}

func (da *BookingDataAccess) postAction(ctx context.Context, id, action string, payload interface{}) (ActionResult, error) {
	if da == nil || da.client == nil {
		return ActionResult{}, fmt.Errorf("booking client not configured")
	}
	if id == "" {
		return ActionResult{}, fmt.Errorf("missing reservation id")
	}

	path := fmt.Sprintf("/reservations/%s/%s", id, action)
	resp, err := da.client.Request(ctx, "POST", path, payload)
	if err != nil {
		return ActionResult{}, err
	}

	return toActionResult(resp)
}

func toActionResult(resp *apt.SuccessResponse) (ActionResult, error) {
	var outcome actionOutcome
	if err := decodeSuccessResponse(resp, &outcome); err != nil {
		return ActionResult{}, err
	}

	return ActionResult{
		Success: outcome.Status == "ok",
		Message: outcome.Message,
	}, nil
}
