package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/appetiteclub/backoffice/pkg"
)

const MaxBodyBytes = 1 << 20

const reservationEventSource = "booking-service"

type Handler struct {
	reservationRepo ReservationRepo
	tableRepo       TableRepo
	logger          apt.Logger
	config          *apt.Config
	tlm             *telemetry.HTTP
	publisher       events.Publisher
}

type HandlerDeps struct {
	Repos     Repos
	Publisher events.Publisher
}

type Repos struct {
	ReservationRepo ReservationRepo
	TableRepo       TableRepo
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		reservationRepo: hd.Repos.ReservationRepo,
		tableRepo:       hd.Repos.TableRepo,
		logger:          logger,
		config:          config,
		tlm:             telemetry.NewHTTP(),
		publisher:       hd.Publisher,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reservations", func(r chi.Router) {
		r.Post("/", h.CreateReservation)
		r.Get("/", h.ListReservations)
		r.Get("/{id}", h.GetReservation)
		r.Patch("/{id}", h.UpdateReservation)

		r.Post("/{id}/confirm", h.ConfirmReservation)
		r.Post("/{id}/cancel", h.CancelReservation)
		r.Post("/{id}/assign-tables", h.AssignTables)
		r.Post("/{id}/unassign-tables", h.UnassignTables)
		r.Post("/{id}/check-in", h.CheckInReservation)
	})

	r.Route("/tables", func(r chi.Router) {
		r.Post("/", h.CreateTable)
		r.Get("/", h.ListTables)
		r.Get("/{id}", h.GetTable)
	})
}

// Reservation Handlers

func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateReservation")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	req, ok := h.decodeReservationCreatePayload(w, r, log)
	if !ok {
		return
	}

	validationErrors := ValidateReservationCreate(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	reservation := NewReservation()
	reservation.CustomerName = req.CustomerName
	reservation.PhoneNumber = req.PhoneNumber
	reservation.GuestCount = req.GuestCount
	reservation.BookingTime = req.BookingTime
	reservation.Priority = req.Priority
	reservation.StaffInitiated = req.StaffInitiated
	reservation.BeforeCreate()

	if err := h.reservationRepo.Create(ctx, reservation); err != nil {
		log.Error("cannot create reservation", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create reservation")
		return
	}

	h.publishReservationEvent(ctx, reservation, pkg.EventReservationCreated)

	links := apt.RESTfulLinksFor(reservation)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, reservation, links...)
}

func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetReservation")
	defer finish()

	log := h.log(r)

	reservation, ok := h.loadReservation(w, r, log)
	if !ok {
		return
	}

	links := apt.RESTfulLinksFor(reservation)
	apt.RespondSuccess(w, reservation, links...)
}

func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListReservations")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	status := r.URL.Query().Get("status")

	var reservations []*Reservation
	var err error

	if status != "" {
		reservations, err = h.reservationRepo.ListByStatus(ctx, status)
	} else {
		reservations, err = h.reservationRepo.List(ctx)
	}

	if err != nil {
		log.Error("error retrieving reservations", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve reservations")
		return
	}

	apt.RespondCollection(w, reservations, "reservation")
}

func (h *Handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateReservation")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodeReservationUpdatePayload(w, r, log)
	if !ok {
		return
	}

	validationErrors := ValidateReservationUpdate(ctx, id, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	reservation, err := h.reservationRepo.Get(ctx, id)
	if err != nil || reservation == nil {
		log.Error("reservation not found", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Reservation not found")
		return
	}

	if !reservation.IsCreated() && !reservation.IsConfirmed() {
		apt.RespondSuccess(w, Rejected("Only a pending or confirmed reservation can be edited"))
		return
	}

	if req.BookingTime != nil {
		reservation.BookingTime = *req.BookingTime
	}
	if req.GuestCount > 0 {
		reservation.GuestCount = req.GuestCount
	}

	reservation.BeforeUpdate()

	if err := h.reservationRepo.Save(ctx, reservation); err != nil {
		log.Error("cannot update reservation", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update reservation")
		return
	}

	apt.RespondSuccess(w, Accepted("Reservation updated"))
}

func (h *Handler) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ConfirmReservation")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	reservation, ok := h.loadReservation(w, r, log)
	if !ok {
		return
	}

	if !reservation.IsCreated() {
		apt.RespondSuccess(w, Rejected("Only a newly created reservation can be confirmed"))
		return
	}

	reservation.Confirm()

	if err := h.reservationRepo.Save(ctx, reservation); err != nil {
		log.Error("cannot confirm reservation", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not confirm reservation")
		return
	}

	// A confirmed reservation without tables needs the floor staff to act.
	if !reservation.HasTables() {
		h.publishReservationEvent(ctx, reservation, pkg.EventAssignTableForReservation)
	}

	apt.RespondSuccess(w, Accepted("Reservation confirmed"))
}

func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelReservation")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	reservation, ok := h.loadReservation(w, r, log)
	if !ok {
		return
	}

	if reservation.IsTerminal() {
		apt.RespondSuccess(w, Rejected("Reservation is already closed"))
		return
	}

	// Tables must be released before the reservation can be cancelled.
	if reservation.HasTables() {
		apt.RespondSuccess(w, Rejected("Tables are still assigned to this reservation, unassign them first"))
		return
	}

	reservation.Cancel()

	if err := h.reservationRepo.Save(ctx, reservation); err != nil {
		log.Error("cannot cancel reservation", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not cancel reservation")
		return
	}

	apt.RespondSuccess(w, Accepted("Reservation cancelled"))
}

func (h *Handler) AssignTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AssignTables")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	reservation, ok := h.loadReservation(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodeAssignTablesPayload(w, r, log)
	if !ok {
		return
	}

	validationErrors := ValidateAssignTables(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	if !reservation.IsConfirmed() {
		apt.RespondSuccess(w, Rejected("Only a confirmed reservation can have tables assigned"))
		return
	}

	tables, outcome := h.checkTablesAssignable(ctx, reservation, req.TableIDs, log)
	if !outcome.OK() {
		apt.RespondSuccess(w, outcome)
		return
	}

	assigned := 0
	for _, table := range tables {
		if !reservation.AssignTable(table.ID) {
			continue
		}
		assigned++
		table.MarkBooked()
		if err := h.tableRepo.Save(ctx, table); err != nil {
			log.Error("cannot mark table booked", "error", err, "table_id", table.ID.String())
			apt.RespondError(w, http.StatusInternalServerError, "Could not assign tables")
			return
		}
	}

	if assigned == 0 {
		apt.RespondSuccess(w, Rejected("All requested tables are already assigned to this reservation"))
		return
	}

	if err := h.reservationRepo.Save(ctx, reservation); err != nil {
		log.Error("cannot save table assignments", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not assign tables")
		return
	}

	apt.RespondSuccess(w, Accepted(fmt.Sprintf("Assigned %d table(s)", assigned)))
}

func (h *Handler) UnassignTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UnassignTables")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	reservation, ok := h.loadReservation(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodeUnassignTablesPayload(w, r, log)
	if !ok {
		return
	}

	validationErrors := ValidateUnassignTables(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	if reservation.IsTerminal() {
		apt.RespondSuccess(w, Rejected("Reservation is already closed"))
		return
	}

	tableIDs := req.TableIDs
	if req.AllTables {
		tableIDs = reservation.TableIDs()
	}

	released := reservation.UnassignTables(tableIDs)
	if len(released) == 0 {
		apt.RespondSuccess(w, Rejected("No matching table assignments to release"))
		return
	}

	if err := h.reservationRepo.Save(ctx, reservation); err != nil {
		log.Error("cannot save reservation after unassign", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not unassign tables")
		return
	}

	for _, tableID := range released {
		table, err := h.tableRepo.Get(ctx, tableID)
		if err != nil || table == nil {
			log.Error("cannot load table to release", "error", err, "table_id", tableID.String())
			continue
		}
		table.Release()
		if err := h.tableRepo.Save(ctx, table); err != nil {
			log.Error("cannot release table", "error", err, "table_id", tableID.String())
		}
	}

	apt.RespondSuccess(w, Accepted(fmt.Sprintf("Released %d table(s)", len(released))))
}

func (h *Handler) CheckInReservation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CheckInReservation")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	reservation, ok := h.loadReservation(w, r, log)
	if !ok {
		return
	}

	if !reservation.IsConfirmed() {
		apt.RespondSuccess(w, Rejected("Only a confirmed reservation can be checked in"))
		return
	}

	if !reservation.HasTables() {
		apt.RespondSuccess(w, Rejected("Assign at least one table before checking in"))
		return
	}

	reservation.CheckIn()

	if err := h.reservationRepo.Save(ctx, reservation); err != nil {
		log.Error("cannot check in reservation", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not check in reservation")
		return
	}

	apt.RespondSuccess(w, Accepted("Reservation checked in"))
}

// Table Handlers

func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	req, ok := h.decodeTableCreatePayload(w, r, log)
	if !ok {
		return
	}

	validationErrors := ValidateTableCreate(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	table := NewTable()
	table.Code = req.Code
	table.Zone = req.Zone
	table.BeforeCreate()

	if err := h.tableRepo.Create(ctx, table); err != nil {
		log.Error("cannot create table", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create table")
		return
	}

	links := apt.RESTfulLinksFor(table)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, table, links...)
}

func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	table, err := h.tableRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading table", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}

	if table == nil {
		apt.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}

	links := apt.RESTfulLinksFor(table)
	apt.RespondSuccess(w, table, links...)
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTables")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	status := r.URL.Query().Get("status")

	var tables []*Table
	var err error

	if status != "" {
		tables, err = h.tableRepo.ListByStatus(ctx, status)
	} else {
		tables, err = h.tableRepo.List(ctx)
	}

	if err != nil {
		log.Error("error retrieving tables", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve tables")
		return
	}

	apt.RespondCollection(w, tables, "table")
}

// checkTablesAssignable loads every requested table and verifies none of them
// is blocked or booked by another live reservation.
func (h *Handler) checkTablesAssignable(ctx context.Context, reservation *Reservation, tableIDs []uuid.UUID, log apt.Logger) ([]*Table, Outcome) {
	tables := make([]*Table, 0, len(tableIDs))

	for _, tableID := range tableIDs {
		table, err := h.tableRepo.Get(ctx, tableID)
		if err != nil {
			log.Error("error loading table", "error", err, "table_id", tableID.String())
			return nil, Rejected("Could not verify table availability")
		}
		if table == nil {
			return nil, Rejected(fmt.Sprintf("Table %s does not exist", tableID))
		}

		holders, err := h.reservationRepo.ListLiveByTable(ctx, tableID)
		if err != nil {
			log.Error("error checking table holders", "error", err, "table_id", tableID.String())
			return nil, Rejected("Could not verify table availability")
		}
		for _, holder := range holders {
			if holder.ID != reservation.ID {
				return nil, Rejected(fmt.Sprintf("Table %s is already booked by another reservation", table.Code))
			}
		}

		alreadyOurs := false
		for _, ta := range reservation.TableAssignments {
			if ta.TableID == tableID {
				alreadyOurs = true
				break
			}
		}
		if !alreadyOurs && !table.Bookable() {
			return nil, Rejected(fmt.Sprintf("Table %s is not open for booking", table.Code))
		}

		tables = append(tables, table)
	}

	return tables, Accepted("")
}

func (h *Handler) publishReservationEvent(ctx context.Context, reservation *Reservation, eventType string) {
	if h.publisher == nil || reservation == nil {
		return
	}

	event := pkg.ReservationEvent{
		EventType:      eventType,
		ReservationID:  reservation.ID.String(),
		CustomerName:   reservation.CustomerName,
		PhoneNumber:    reservation.PhoneNumber,
		NumberOfPeople: reservation.GuestCount,
		Source:         reservationEventSource,
		OccurredAt:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("cannot marshal reservation event", "error", err, "reservation_id", reservation.ID.String())
		return
	}

	if err := h.publisher.Publish(ctx, pkg.ReservationEventsTopic, payload); err != nil {
		h.logger.Error("cannot publish reservation event", "error", err, "reservation_id", reservation.ID.String())
	}
}

// Helper methods

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

func (h *Handler) loadReservation(w http.ResponseWriter, r *http.Request, log apt.Logger) (*Reservation, bool) {
	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return nil, false
	}

	reservation, err := h.reservationRepo.Get(r.Context(), id)
	if err != nil {
		log.Error("error loading reservation", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Reservation not found")
		return nil, false
	}

	if reservation == nil {
		apt.RespondError(w, http.StatusNotFound, "Reservation not found")
		return nil, false
	}

	return reservation, true
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		log.Debug("missing id parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr, "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) decodeReservationCreatePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (ReservationCreateRequest, bool) {
	var req ReservationCreateRequest
	if !h.decodePayload(w, r, log, &req, true) {
		return ReservationCreateRequest{}, false
	}
	return req, true
}

func (h *Handler) decodeReservationUpdatePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (ReservationUpdateRequest, bool) {
	var req ReservationUpdateRequest
	if !h.decodePayload(w, r, log, &req, false) {
		return ReservationUpdateRequest{}, false
	}
	return req, true
}

func (h *Handler) decodeAssignTablesPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (AssignTablesRequest, bool) {
	var req AssignTablesRequest
	if !h.decodePayload(w, r, log, &req, true) {
		return AssignTablesRequest{}, false
	}
	return req, true
}

func (h *Handler) decodeUnassignTablesPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (UnassignTablesRequest, bool) {
	var req UnassignTablesRequest
	if !h.decodePayload(w, r, log, &req, true) {
		return UnassignTablesRequest{}, false
	}
	return req, true
}

func (h *Handler) decodeTableCreatePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (TableCreateRequest, bool) {
	var req TableCreateRequest
	if !h.decodePayload(w, r, log, &req, true) {
		return TableCreateRequest{}, false
	}
	return req, true
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, log apt.Logger, dest interface{}, required bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		if required {
			apt.RespondError(w, http.StatusBadRequest, "Request body is empty")
			return false
		}
		return true
	}

	if err := json.Unmarshal(body, dest); err != nil {
		log.Debug("error decoding JSON", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}

	return true
}
