package booking

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/appetiteclub/backoffice/pkg/enums/reservationstatus"
)

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu          sync.Mutex
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
	published   [][]byte
	topics      []string
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	m.mu.Lock()
	m.published = append(m.published, msg)
	m.topics = append(m.topics, topic)
	m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	return nil
}

func (m *MockPublisher) Published() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.published...)
}

// MockReservationRepo is a mock implementation of ReservationRepo for testing
type MockReservationRepo struct {
	mu           sync.RWMutex
	reservations map[uuid.UUID]*Reservation
	CreateFunc   func(ctx context.Context, reservation *Reservation) error
	GetFunc      func(ctx context.Context, id uuid.UUID) (*Reservation, error)
	SaveFunc     func(ctx context.Context, reservation *Reservation) error
	DeleteFunc   func(ctx context.Context, id uuid.UUID) error
}

func NewMockReservationRepo() *MockReservationRepo {
	return &MockReservationRepo{
		reservations: make(map[uuid.UUID]*Reservation),
	}
}

func (m *MockReservationRepo) Create(ctx context.Context, reservation *Reservation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, reservation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations[reservation.ID] = reservation
	return nil
}

func (m *MockReservationRepo) Get(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	reservation, ok := m.reservations[id]
	if !ok {
		return nil, nil
	}
	return reservation, nil
}

func (m *MockReservationRepo) List(ctx context.Context) ([]*Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Reservation
	for _, r := range m.reservations {
		result = append(result, r)
	}
	return result, nil
}

func (m *MockReservationRepo) ListByStatus(ctx context.Context, status string) ([]*Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Reservation
	for _, r := range m.reservations {
		if r.Status == status {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *MockReservationRepo) ListLiveByTable(ctx context.Context, tableID uuid.UUID) ([]*Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	live := map[string]bool{
		reservationstatus.Statuses.Confirmed.Name: true,
		reservationstatus.Statuses.CheckedIn.Name: true,
	}
	var result []*Reservation
	for _, r := range m.reservations {
		if !live[r.Status] {
			continue
		}
		for _, ta := range r.TableAssignments {
			if ta.TableID == tableID {
				result = append(result, r)
				break
			}
		}
	}
	return result, nil
}

func (m *MockReservationRepo) Save(ctx context.Context, reservation *Reservation) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, reservation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reservations[reservation.ID]; !ok {
		return fmt.Errorf("reservation not found")
	}
	m.reservations[reservation.ID] = reservation
	return nil
}

func (m *MockReservationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reservations[id]; !ok {
		return fmt.Errorf("reservation not found")
	}
	delete(m.reservations, id)
	return nil
}

// MockTableRepo is a mock implementation of TableRepo for testing
type MockTableRepo struct {
	mu         sync.RWMutex
	tables     map[uuid.UUID]*Table
	CreateFunc func(ctx context.Context, table *Table) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*Table, error)
	SaveFunc   func(ctx context.Context, table *Table) error
}

func NewMockTableRepo() *MockTableRepo {
	return &MockTableRepo{
		tables: make(map[uuid.UUID]*Table),
	}
}

func (m *MockTableRepo) Create(ctx context.Context, table *Table) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, table)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.ID] = table
	return nil
}

func (m *MockTableRepo) Get(ctx context.Context, id uuid.UUID) (*Table, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	table, ok := m.tables[id]
	if !ok {
		return nil, nil
	}
	return table, nil
}

func (m *MockTableRepo) GetByCode(ctx context.Context, code string) (*Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tables {
		if t.Code == code {
			return t, nil
		}
	}
	return nil, nil
}

func (m *MockTableRepo) List(ctx context.Context) ([]*Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Table
	for _, t := range m.tables {
		result = append(result, t)
	}
	return result, nil
}

func (m *MockTableRepo) ListByStatus(ctx context.Context, status string) ([]*Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Table
	for _, t := range m.tables {
		if t.Status == status {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *MockTableRepo) Save(ctx context.Context, table *Table) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, table)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table.ID]; !ok {
		return fmt.Errorf("table not found")
	}
	m.tables[table.ID] = table
	return nil
}

func (m *MockTableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[id]; !ok {
		return fmt.Errorf("table not found")
	}
	delete(m.tables, id)
	return nil
}
