package console

import (
	"context"
	"sync"

	"github.com/appetiteclub/apt/events"
)

// MockBookingAPI is a mock implementation of BookingAPI for testing
type MockBookingAPI struct {
	mu sync.Mutex

	ListFunc     func(ctx context.Context) ([]reservationResource, error)
	ConfirmFunc  func(ctx context.Context, id string) (ActionResult, error)
	CancelFunc   func(ctx context.Context, id string) (ActionResult, error)
	AssignFunc   func(ctx context.Context, id string, tableIDs []string) (ActionResult, error)
	UnassignFunc func(ctx context.Context, id string, tableIDs []string, allTables bool) (ActionResult, error)
	CheckInFunc  func(ctx context.Context, id string) (ActionResult, error)
	CreateFunc   func(ctx context.Context, payload CreateReservationRequest) (ActionResult, error)
	UpdateFunc   func(ctx context.Context, id string, payload UpdateReservationRequest) (ActionResult, error)

	calls []string
}

func NewMockBookingAPI() *MockBookingAPI {
	return &MockBookingAPI{}
}

func (m *MockBookingAPI) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *MockBookingAPI) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockBookingAPI) ListReservations(ctx context.Context) ([]reservationResource, error) {
	m.record("list")
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockBookingAPI) Confirm(ctx context.Context, id string) (ActionResult, error) {
	m.record("confirm:" + id)
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, id)
	}
	return ActionResult{Success: true}, nil
}

func (m *MockBookingAPI) Cancel(ctx context.Context, id string) (ActionResult, error) {
	m.record("cancel:" + id)
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, id)
	}
	return ActionResult{Success: true}, nil
}

func (m *MockBookingAPI) AssignTables(ctx context.Context, id string, tableIDs []string) (ActionResult, error) {
	m.record("assign:" + id)
	if m.AssignFunc != nil {
		return m.AssignFunc(ctx, id, tableIDs)
	}
	return ActionResult{Success: true}, nil
}

func (m *MockBookingAPI) UnassignTables(ctx context.Context, id string, tableIDs []string, allTables bool) (ActionResult, error) {
	m.record("unassign:" + id)
	if m.UnassignFunc != nil {
		return m.UnassignFunc(ctx, id, tableIDs, allTables)
	}
	return ActionResult{Success: true}, nil
}

func (m *MockBookingAPI) CheckIn(ctx context.Context, id string) (ActionResult, error) {
	m.record("check-in:" + id)
	if m.CheckInFunc != nil {
		return m.CheckInFunc(ctx, id)
	}
	return ActionResult{Success: true}, nil
}

func (m *MockBookingAPI) Create(ctx context.Context, payload CreateReservationRequest) (ActionResult, error) {
	m.record("create")
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, payload)
	}
	return ActionResult{Success: true}, nil
}

func (m *MockBookingAPI) Update(ctx context.Context, id string, payload UpdateReservationRequest) (ActionResult, error) {
	m.record("update:" + id)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, payload)
	}
	return ActionResult{Success: true}, nil
}

// MockSubscriber is a mock implementation of events.Subscriber for testing
type MockSubscriber struct {
	mu            sync.Mutex
	SubscribeFunc func(ctx context.Context, topic string, handler events.HandlerFunc) error
	handlers      map[string]events.HandlerFunc
}

func NewMockSubscriber() *MockSubscriber {
	return &MockSubscriber{handlers: make(map[string]events.HandlerFunc)}
}

func (m *MockSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, topic, handler)
	}
	m.mu.Lock()
	m.handlers[topic] = handler
	m.mu.Unlock()
	return nil
}

// Emit drives a subscribed handler as if the broker delivered msg.
func (m *MockSubscriber) Emit(ctx context.Context, topic string, msg []byte) error {
	m.mu.Lock()
	handler := m.handlers[topic]
	m.mu.Unlock()
	if handler == nil {
		return nil
	}
	return handler(ctx, msg)
}

// MockCodeFetcher is a mock implementation of TableCodeFetcher for testing
type MockCodeFetcher struct {
	mu        sync.Mutex
	FetchFunc func(ctx context.Context, id string) (string, error)
	fetches   []string
}

func NewMockCodeFetcher() *MockCodeFetcher {
	return &MockCodeFetcher{}
}

func (m *MockCodeFetcher) FetchCode(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	m.fetches = append(m.fetches, id)
	m.mu.Unlock()
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, id)
	}
	return "T-" + id, nil
}

func (m *MockCodeFetcher) Fetches() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.fetches...)
}
