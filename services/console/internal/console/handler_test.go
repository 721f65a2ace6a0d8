package console

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/go-chi/chi/v5"
)

func newHandlerFixture(api BookingAPI) *Handler {
	alerts := NewAlertCenter()
	controller := NewBookingListController(ControllerDeps{
		API:    api,
		Codes:  NewTableCodeCache(NewMockCodeFetcher(), nil),
		Alerts: alerts,
	}, nil)
	relay := NewNotificationRelay(func() (events.Subscriber, func() error, error) {
		return NewMockSubscriber(), nil, nil
	}, alerts, controller, nil)

	return NewHandler(controller, alerts, relay, apt.NewConfig(), nil)
}

func withIDParam(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHandlerGetBookingsPage(t *testing.T) {
	h := newHandlerFixture(NewMockBookingAPI())

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	w := httptest.NewRecorder()
	h.GetBookingsPage(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("GetBookingsPage() status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestHandlerConfirmBooking(t *testing.T) {
	h := newHandlerFixture(NewMockBookingAPI())

	req := withIDParam(httptest.NewRequest(http.MethodPost, "/bookings/r1/confirm", nil), "r1")
	w := httptest.NewRecorder()
	h.ConfirmBooking(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("ConfirmBooking() status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestHandlerUnassignBookingTablesValidation(t *testing.T) {
	tests := []struct {
		name           string
		payload        string
		expectedStatus int
	}{
		{
			name:           "allTables",
			payload:        `{"all_tables":true}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "explicitSubset",
			payload:        `{"table_ids":["t1"]}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "neither",
			payload:        `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "emptyBody",
			payload:        "",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandlerFixture(NewMockBookingAPI())

			req := httptest.NewRequest(http.MethodPost, "/bookings/r1/unassign-tables", bytes.NewReader([]byte(tt.payload)))
			req = withIDParam(req, "r1")
			w := httptest.NewRecorder()
			h.UnassignBookingTables(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("UnassignBookingTables() status = %d, want %d", w.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandlerCreateBookingValidation(t *testing.T) {
	h := newHandlerFixture(NewMockBookingAPI())

	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader([]byte(`{"customer_name":"","guest_count":0}`)))
	w := httptest.NewRecorder()
	h.CreateBooking(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("CreateBooking() status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandlerActionInFlightConflict(t *testing.T) {
	api := NewMockBookingAPI()

	inFlight := make(chan struct{})
	release := make(chan struct{})
	api.ConfirmFunc = func(ctx context.Context, id string) (ActionResult, error) {
		close(inFlight)
		<-release
		return ActionResult{Success: true}, nil
	}

	h := newHandlerFixture(api)

	go func() {
		req := withIDParam(httptest.NewRequest(http.MethodPost, "/bookings/r1/confirm", nil), "r1")
		h.ConfirmBooking(httptest.NewRecorder(), req)
	}()

	<-inFlight

	req := withIDParam(httptest.NewRequest(http.MethodPost, "/bookings/r1/confirm", nil), "r1")
	w := httptest.NewRecorder()
	h.ConfirmBooking(w, req)

	close(release)

	if w.Code != http.StatusConflict {
		t.Errorf("duplicate ConfirmBooking() status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestHandlerRelayStatus(t *testing.T) {
	h := newHandlerFixture(NewMockBookingAPI())

	req := httptest.NewRequest(http.MethodGet, "/relay/status", nil)
	w := httptest.NewRecorder()
	h.RelayStatus(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("RelayStatus() status = %d, want %d", w.Code, http.StatusOK)
	}
}
