package console

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
)

// defaultOpTimeout bounds every round trip to the booking service so a
// request that never resolves cannot pin its action lock.
const defaultOpTimeout = 15 * time.Second

// BookingAPI is the slice of the booking service the controller drives.
type BookingAPI interface {
	ListReservations(ctx context.Context) ([]reservationResource, error)
	Confirm(ctx context.Context, id string) (ActionResult, error)
	Cancel(ctx context.Context, id string) (ActionResult, error)
	AssignTables(ctx context.Context, id string, tableIDs []string) (ActionResult, error)
	UnassignTables(ctx context.Context, id string, tableIDs []string, allTables bool) (ActionResult, error)
	CheckIn(ctx context.Context, id string) (ActionResult, error)
	Create(ctx context.Context, payload CreateReservationRequest) (ActionResult, error)
	Update(ctx context.Context, id string, payload UpdateReservationRequest) (ActionResult, error)
}

// RowView is one rendered reservation row: the record plus its derived
// affordances.
type RowView struct {
	Reservation reservationResource `json:"reservation"`
	Badges      TableBadges         `json:"badges"`
	Actions     []string            `json:"actions"`
	Locked      []string            `json:"locked,omitempty"`
}

// PageView is the current page projection.
type PageView struct {
	Rows       []RowView `json:"rows"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
	Total      int       `json:"total"`
	Stale      bool      `json:"stale"`
}

// BookingListController holds the current reservation list and sequences
// multi-step operations against the booking service. Its local copy is never
// authoritative: every mutation is followed by a full refresh.
type BookingListController struct {
	mu        sync.Mutex
	api       BookingAPI
	codes     *TableCodeCache
	locks     *ActionLocks
	alerts    *AlertCenter
	logger    apt.Logger
	opTimeout time.Duration

	reservations []reservationResource
	paginator    *Paginator
	stale        bool
	refreshedAt  time.Time
}

type ControllerDeps struct {
	API       BookingAPI
	Codes     *TableCodeCache
	Alerts    *AlertCenter
	OpTimeout time.Duration
	LockTTL   time.Duration
}

func NewBookingListController(deps ControllerDeps, logger apt.Logger) *BookingListController {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	opTimeout := deps.OpTimeout
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	alerts := deps.Alerts
	if alerts == nil {
		alerts = NewAlertCenter()
	}
	return &BookingListController{
		api:       deps.API,
		codes:     deps.Codes,
		locks:     NewActionLocks(deps.LockTTL),
		alerts:    alerts,
		logger:    logger,
		opTimeout: opTimeout,
		paginator: NewPaginator(),
	}
}

// Refresh re-fetches the full reservation list from the booking service.
func (c *BookingListController) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	reservations, err := c.api.ListReservations(ctx)
	if err != nil {
		c.logger.Error("cannot refresh reservations", "error", err)
		return fmt.Errorf("cannot refresh reservations: %w", err)
	}

	c.mu.Lock()
	c.reservations = reservations
	c.paginator.SetTotal(len(reservations))
	c.stale = false
	c.refreshedAt = time.Now()
	c.mu.Unlock()

	return nil
}

// MarkStale flags the list as outdated without mutating it. Relay events use
// this instead of patching rows.
func (c *BookingListController) MarkStale() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}

// Page projects the current page with derived badges, affordances, and lock
// state per row.
func (c *BookingListController) Page() PageView {
	c.mu.Lock()
	defer c.mu.Unlock()

	from, to := c.paginator.Bounds()
	rows := make([]RowView, 0, to-from)
	for _, reservation := range c.reservations[from:to] {
		rows = append(rows, RowView{
			Reservation: reservation,
			Badges:      BadgesFor(reservation, c.codes),
			Actions:     ActionsFor(reservation.Status, reservation.HasTables()),
			Locked:      c.lockedActions(reservation.ID),
		})
	}

	return PageView{
		Rows:       rows,
		Page:       c.paginator.Page(),
		PageSize:   c.paginator.PageSize(),
		TotalPages: c.paginator.TotalPages(),
		Total:      c.paginator.Total(),
		Stale:      c.stale,
	}
}

func (c *BookingListController) lockedActions(id string) []string {
	var locked []string
	for _, kind := range []string{ActionConfirm, ActionCancel, ActionAssign, ActionUnassign, ActionCheckIn, ActionEdit} {
		if c.locks.Held(LockKey(id, kind)) {
			locked = append(locked, kind)
		}
	}
	return locked
}

func (c *BookingListController) SetPageSize(size int) {
	c.mu.Lock()
	c.paginator.SetPageSize(size)
	c.mu.Unlock()
}

func (c *BookingListController) GoToPage(page int) {
	c.mu.Lock()
	c.paginator.GoToPage(page)
	c.mu.Unlock()
}

// Confirm moves a created reservation to confirmed.
func (c *BookingListController) Confirm(ctx context.Context, id string) (ActionResult, error) {
	return c.simpleAction(ctx, id, ActionConfirm, c.api.Confirm)
}

// CheckIn seats a confirmed reservation.
func (c *BookingListController) CheckIn(ctx context.Context, id string) (ActionResult, error) {
	return c.simpleAction(ctx, id, ActionCheckIn, c.api.CheckIn)
}

func (c *BookingListController) simpleAction(ctx context.Context, id, kind string, call func(context.Context, string) (ActionResult, error)) (ActionResult, error) {
	key := LockKey(id, kind)
	if !c.locks.TryAcquire(key) {
		return ActionResult{}, ErrActionInFlight
	}
	defer c.locks.Release(key)

	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	result, err := call(opCtx, id)
	c.reportOutcome(kind, id, result, err)

	if refreshErr := c.Refresh(ctx); refreshErr != nil {
		c.logger.Error("refresh after action failed", "action", kind, "error", refreshErr)
	}

	return result, err
}

// CancelWithCascade cancels a reservation, first releasing all of its table
// assignments. A failed unassign aborts the whole cancellation: cancel is
// never called and no refresh happens, leaving the reservation in its prior
// state with tables still assigned.
func (c *BookingListController) CancelWithCascade(ctx context.Context, id string) (ActionResult, error) {
	key := LockKey(id, ActionCancel)
	if !c.locks.TryAcquire(key) {
		return ActionResult{}, ErrActionInFlight
	}
	defer c.locks.Release(key)

	tableIDs := c.assignedTableIDs(id)

	if len(tableIDs) > 0 {
		opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
		result, err := c.api.UnassignTables(opCtx, id, tableIDs, false)
		cancel()

		if err != nil {
			c.reportOutcome(ActionUnassign, id, result, err)
			return ActionResult{}, err
		}
		if !result.Success {
			c.reportOutcome(ActionUnassign, id, result, nil)
			return result, nil
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	result, err := c.api.Cancel(opCtx, id)
	cancel()
	c.reportOutcome(ActionCancel, id, result, err)

	if refreshErr := c.Refresh(ctx); refreshErr != nil {
		c.logger.Error("refresh after cancel failed", "error", refreshErr)
	}

	return result, err
}

// Unassign releases all tables or an explicit subset for a reservation.
func (c *BookingListController) Unassign(ctx context.Context, id string, tableIDs []string, allTables bool) (ActionResult, error) {
	key := LockKey(id, ActionUnassign)
	if !c.locks.TryAcquire(key) {
		return ActionResult{}, ErrActionInFlight
	}
	defer c.locks.Release(key)

	released := tableIDs
	if allTables {
		released = c.assignedTableIDs(id)
	}

	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	result, err := c.api.UnassignTables(opCtx, id, tableIDs, allTables)
	cancel()

	if err == nil && result.Success {
		codes := make([]string, 0, len(released))
		for _, tableID := range released {
			codes = append(codes, c.codes.DisplayCode(tableID))
		}
		c.alerts.Push(Alert{
			Kind:          AlertKindActionDone,
			Title:         "Tables released",
			Message:       strings.Join(codes, ", "),
			ReservationID: id,
		})
	} else {
		c.reportOutcome(ActionUnassign, id, result, err)
	}

	if refreshErr := c.Refresh(ctx); refreshErr != nil {
		c.logger.Error("refresh after unassign failed", "error", refreshErr)
	}

	return result, err
}

// Assign binds one or more tables to a confirmed reservation.
func (c *BookingListController) Assign(ctx context.Context, id string, tableIDs []string) (ActionResult, error) {
	key := LockKey(id, ActionAssign)
	if !c.locks.TryAcquire(key) {
		return ActionResult{}, ErrActionInFlight
	}
	defer c.locks.Release(key)

	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	result, err := c.api.AssignTables(opCtx, id, tableIDs)
	cancel()
	c.reportOutcome(ActionAssign, id, result, err)

	if refreshErr := c.Refresh(ctx); refreshErr != nil {
		c.logger.Error("refresh after assign failed", "error", refreshErr)
	}

	return result, err
}

// Update edits the booking time and party size of a reservation.
func (c *BookingListController) Update(ctx context.Context, id string, payload UpdateReservationRequest) (ActionResult, error) {
	key := LockKey(id, ActionEdit)
	if !c.locks.TryAcquire(key) {
		return ActionResult{}, ErrActionInFlight
	}
	defer c.locks.Release(key)

	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	result, err := c.api.Update(opCtx, id, payload)
	cancel()
	c.reportOutcome(ActionEdit, id, result, err)

	if refreshErr := c.Refresh(ctx); refreshErr != nil {
		c.logger.Error("refresh after update failed", "error", refreshErr)
	}

	return result, err
}

// Create registers a new staff-initiated reservation.
func (c *BookingListController) Create(ctx context.Context, payload CreateReservationRequest) (ActionResult, error) {
	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	result, err := c.api.Create(opCtx, payload)
	cancel()

	if err != nil || !result.Success {
		c.reportOutcome("create", "", result, err)
	}

	if refreshErr := c.Refresh(ctx); refreshErr != nil {
		c.logger.Error("refresh after create failed", "error", refreshErr)
	}

	return result, err
}

func (c *BookingListController) assignedTableIDs(id string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, reservation := range c.reservations {
		if reservation.ID == id {
			return reservation.TableIDs()
		}
	}
	return nil
}

func (c *BookingListController) reportOutcome(kind, id string, result ActionResult, err error) {
	if err != nil {
		c.logger.Error("booking action failed", "action", kind, "reservation_id", id, "error", err)
		c.alerts.Push(Alert{
			Kind:          AlertKindActionFailed,
			Title:         fmt.Sprintf("Could not %s reservation", kind),
			Message:       "The booking service did not respond, please retry",
			ReservationID: id,
		})
		return
	}

	if !result.Success {
		c.alerts.Push(Alert{
			Kind:          AlertKindActionFailed,
			Title:         fmt.Sprintf("Reservation %s rejected", kind),
			Message:       result.Message,
			ReservationID: id,
		})
	}
}

type controllerError string

func (e controllerError) Error() string { return string(e) }

// ErrActionInFlight signals a duplicate submission while the same
// entity+kind key is locked.
const ErrActionInFlight = controllerError("action already in flight")
