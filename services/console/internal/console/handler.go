package console

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	controller *BookingListController
	alerts     *AlertCenter
	relay      *NotificationRelay
	logger     apt.Logger
	config     *apt.Config
	tlm        *telemetry.HTTP
}

func NewHandler(controller *BookingListController, alerts *AlertCenter, relay *NotificationRelay, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		controller: controller,
		alerts:     alerts,
		relay:      relay,
		logger:     logger,
		config:     config,
		tlm:        telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/bookings", func(r chi.Router) {
		r.Get("/", h.GetBookingsPage)
		r.Post("/", h.CreateBooking)
		r.Post("/refresh", h.RefreshBookings)
		r.Post("/page", h.GoToPage)
		r.Post("/page-size", h.SetPageSize)

		r.Patch("/{id}", h.UpdateBooking)
		r.Post("/{id}/confirm", h.ConfirmBooking)
		r.Post("/{id}/cancel", h.CancelBooking)
		r.Post("/{id}/check-in", h.CheckInBooking)
		r.Post("/{id}/assign-tables", h.AssignBookingTables)
		r.Post("/{id}/unassign-tables", h.UnassignBookingTables)
	})

	r.Get("/alerts", h.ListAlerts)
	r.Get("/relay/status", h.RelayStatus)
}

func (h *Handler) GetBookingsPage(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetBookingsPage")
	defer finish()

	apt.RespondSuccess(w, h.controller.Page())
}

func (h *Handler) RefreshBookings(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RefreshBookings")
	defer finish()

	log := h.log(r)

	if err := h.controller.Refresh(r.Context()); err != nil {
		log.Error("cannot refresh bookings", "error", err)
		apt.RespondError(w, http.StatusBadGateway, "Could not refresh bookings")
		return
	}

	apt.RespondSuccess(w, h.controller.Page())
}

func (h *Handler) GoToPage(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GoToPage")
	defer finish()

	log := h.log(r)

	var req struct {
		Page int `json:"page"`
	}
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	h.controller.GoToPage(req.Page)
	apt.RespondSuccess(w, h.controller.Page())
}

func (h *Handler) SetPageSize(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetPageSize")
	defer finish()

	log := h.log(r)

	var req struct {
		Size int `json:"size"`
	}
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	h.controller.SetPageSize(req.Size)
	apt.RespondSuccess(w, h.controller.Page())
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateBooking")
	defer finish()

	log := h.log(r)

	var req CreateReservationRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if strings.TrimSpace(req.CustomerName) == "" || req.GuestCount <= 0 {
		apt.RespondError(w, http.StatusBadRequest, "Customer name and party size are required")
		return
	}
	req.StaffInitiated = true

	result, err := h.controller.Create(r.Context(), req)
	h.respondAction(w, log, result, err)
}

func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateBooking")
	defer finish()

	log := h.log(r)

	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	var req UpdateReservationRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	result, err := h.controller.Update(r.Context(), id, req)
	h.respondAction(w, log, result, err)
}

func (h *Handler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ConfirmBooking")
	defer finish()

	result, err := h.controller.Confirm(r.Context(), chiID(r))
	h.respondAction(w, h.log(r), result, err)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelBooking")
	defer finish()

	result, err := h.controller.CancelWithCascade(r.Context(), chiID(r))
	h.respondAction(w, h.log(r), result, err)
}

func (h *Handler) CheckInBooking(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CheckInBooking")
	defer finish()

	result, err := h.controller.CheckIn(r.Context(), chiID(r))
	h.respondAction(w, h.log(r), result, err)
}

func (h *Handler) AssignBookingTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AssignBookingTables")
	defer finish()

	log := h.log(r)

	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	var req struct {
		TableIDs []string `json:"table_ids"`
	}
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if len(req.TableIDs) == 0 {
		apt.RespondError(w, http.StatusBadRequest, "At least one table id is required")
		return
	}

	result, err := h.controller.Assign(r.Context(), id, req.TableIDs)
	h.respondAction(w, log, result, err)
}

func (h *Handler) UnassignBookingTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UnassignBookingTables")
	defer finish()

	log := h.log(r)

	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	var req struct {
		TableIDs  []string `json:"table_ids"`
		AllTables bool     `json:"all_tables"`
	}
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if len(req.TableIDs) == 0 && !req.AllTables {
		apt.RespondError(w, http.StatusBadRequest, "Table ids or all_tables is required")
		return
	}

	result, err := h.controller.Unassign(r.Context(), id, req.TableIDs, req.AllTables)
	h.respondAction(w, log, result, err)
}

func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListAlerts")
	defer finish()

	apt.RespondSuccess(w, h.alerts.List())
}

func (h *Handler) RelayStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RelayStatus")
	defer finish()

	apt.RespondSuccess(w, map[string]string{"state": h.relay.State()})
}

// Helper methods

func (h *Handler) respondAction(w http.ResponseWriter, log apt.Logger, result ActionResult, err error) {
	if errors.Is(err, ErrActionInFlight) {
		apt.RespondError(w, http.StatusConflict, "Action already in flight")
		return
	}
	if err != nil {
		log.Error("booking action failed", "error", err)
		apt.RespondError(w, http.StatusBadGateway, "Booking service unavailable")
		return
	}

	apt.RespondSuccess(w, result)
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

func chiID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chiID(r)
	if id == "" {
		apt.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return "", false
	}
	return id, true
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, log apt.Logger, dest interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		apt.RespondError(w, http.StatusBadRequest, "Request body is empty")
		return false
	}

	if err := json.Unmarshal(body, dest); err != nil {
		log.Debug("error decoding JSON", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}

	return true
}
