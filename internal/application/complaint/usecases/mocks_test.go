package usecases

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/civictrack/civictrack/internal/application/complaint/priority"
	"github.com/civictrack/civictrack/internal/domain/complaint"
	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/domain/department"
	"github.com/civictrack/civictrack/internal/domain/notification"
)

type mockComplaintRepository struct {
	CreateFunc                        func(ctx context.Context, c *complaint.Complaint) error
	GetFunc                           func(ctx context.Context, id string) (*complaint.Complaint, error)
	ListByUserFunc                    func(ctx context.Context, userID string) ([]*complaint.Complaint, error)
	ListByCategoryExcludingStatusFunc func(ctx context.Context, category vo.Category, exclude vo.Status) ([]*complaint.Complaint, error)
	ListByOfficerFunc                 func(ctx context.Context, officerID string) ([]*complaint.Complaint, error)
	ListFunc                          func(ctx context.Context, filter complaint.Filter) ([]*complaint.Complaint, error)
	UpdateFunc                        func(ctx context.Context, id string, patch complaint.Patch) error
}

func (m *mockComplaintRepository) Create(ctx context.Context, c *complaint.Complaint) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *mockComplaintRepository) Get(ctx context.Context, id string) (*complaint.Complaint, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockComplaintRepository) ListByUser(ctx context.Context, userID string) ([]*complaint.Complaint, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockComplaintRepository) ListByCategoryExcludingStatus(ctx context.Context, category vo.Category, exclude vo.Status) ([]*complaint.Complaint, error) {
	if m.ListByCategoryExcludingStatusFunc != nil {
		return m.ListByCategoryExcludingStatusFunc(ctx, category, exclude)
	}
	return nil, nil
}

func (m *mockComplaintRepository) ListByOfficer(ctx context.Context, officerID string) ([]*complaint.Complaint, error) {
	if m.ListByOfficerFunc != nil {
		return m.ListByOfficerFunc(ctx, officerID)
	}
	return nil, nil
}

func (m *mockComplaintRepository) List(ctx context.Context, filter complaint.Filter) ([]*complaint.Complaint, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockComplaintRepository) Update(ctx context.Context, id string, patch complaint.Patch) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return nil
}

// memoryComplaints keeps aggregates by pointer. Aggregates mutate themselves
// before Update is called, so recording the patch is enough.
type memoryComplaints struct {
	mu         sync.Mutex
	complaints map[string]*complaint.Complaint
	order      []string
	patches    []complaint.Patch
}

func newMemoryComplaints(existing ...*complaint.Complaint) *memoryComplaints {
	m := &memoryComplaints{complaints: map[string]*complaint.Complaint{}}
	for _, c := range existing {
		m.complaints[c.ID()] = c
		m.order = append(m.order, c.ID())
	}
	return m
}

func (m *memoryComplaints) repository() *mockComplaintRepository {
	return &mockComplaintRepository{
		CreateFunc: func(ctx context.Context, c *complaint.Complaint) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.complaints[c.ID()] = c
			m.order = append(m.order, c.ID())
			return nil
		},
		GetFunc: func(ctx context.Context, id string) (*complaint.Complaint, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return m.complaints[id], nil
		},
		ListByCategoryExcludingStatusFunc: func(ctx context.Context, category vo.Category, exclude vo.Status) ([]*complaint.Complaint, error) {
			return m.filter(func(c *complaint.Complaint) bool {
				return c.Category() == category && c.Status() != exclude
			}), nil
		},
		ListByUserFunc: func(ctx context.Context, userID string) ([]*complaint.Complaint, error) {
			return m.filter(func(c *complaint.Complaint) bool { return c.UserID() == userID }), nil
		},
		ListByOfficerFunc: func(ctx context.Context, officerID string) ([]*complaint.Complaint, error) {
			return m.filter(func(c *complaint.Complaint) bool { return c.AssignedOfficerIs(officerID) }), nil
		},
		ListFunc: func(ctx context.Context, filter complaint.Filter) ([]*complaint.Complaint, error) {
			return m.filter(func(c *complaint.Complaint) bool {
				if len(filter.Statuses) > 0 {
					found := false
					for _, s := range filter.Statuses {
						found = found || c.Status() == s
					}
					if !found {
						return false
					}
				}
				if filter.Status != nil && c.Status() != *filter.Status {
					return false
				}
				if filter.Category != nil && c.Category() != *filter.Category {
					return false
				}
				if filter.Within != nil && (c.Location() == nil || !filter.Within.Contains(*c.Location())) {
					return false
				}
				return filter.Priority == nil || c.Priority() == *filter.Priority
			}), nil
		},
		UpdateFunc: func(ctx context.Context, id string, patch complaint.Patch) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.patches = append(m.patches, patch)
			return nil
		},
	}
}

func (m *memoryComplaints) filter(keep func(c *complaint.Complaint) bool) []*complaint.Complaint {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*complaint.Complaint
	for _, id := range m.order {
		if c := m.complaints[id]; keep(c) {
			out = append(out, c)
		}
	}
	return out
}

type mockOfficerRepository struct {
	mu       sync.Mutex
	officers map[string]*department.Officer
	loadErr  error
}

func newMockOfficerRepository(officers ...*department.Officer) *mockOfficerRepository {
	m := &mockOfficerRepository{officers: map[string]*department.Officer{}}
	for _, o := range officers {
		m.officers[o.ID] = o
	}
	return m
}

func (m *mockOfficerRepository) ListActiveByDepartment(ctx context.Context, departmentID string) ([]*department.Officer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*department.Officer
	for _, o := range m.officers {
		if o.DepartmentID == departmentID && o.Active {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockOfficerRepository) Get(ctx context.Context, id string) (*department.Officer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.officers[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *mockOfficerRepository) AdjustLoad(ctx context.Context, id string, delta int) error {
	if m.loadErr != nil {
		return m.loadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.officers[id]; ok {
		o.AssignedCount = max(0, o.AssignedCount+delta)
	}
	return nil
}

func (m *mockOfficerRepository) Save(ctx context.Context, o *department.Officer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.officers[o.ID] = o
	return nil
}

func (m *mockOfficerRepository) List(ctx context.Context) ([]*department.Officer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*department.Officer
	for _, o := range m.officers {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOfficerRepository) load(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.officers[id].AssignedCount
}

type mockPriorityComputer struct {
	ComputeFunc func(ctx context.Context, s priority.Subject, now time.Time) priority.Assessment
}

func (m *mockPriorityComputer) Compute(ctx context.Context, s priority.Subject, now time.Time) priority.Assessment {
	if m.ComputeFunc != nil {
		return m.ComputeFunc(ctx, s, now)
	}
	return priority.Assessment{Priority: vo.PriorityNormal}
}

func (m *mockPriorityComputer) Rules() priority.Rules {
	return priority.DefaultRules()
}

type mockAssigner struct {
	AssignFunc         func(ctx context.Context, c *complaint.Complaint, now time.Time) (*department.Officer, error)
	AssignManuallyFunc func(ctx context.Context, c *complaint.Complaint, departmentID, officerID, note string, now time.Time) (*department.Officer, error)
}

func (m *mockAssigner) Assign(ctx context.Context, c *complaint.Complaint, now time.Time) (*department.Officer, error) {
	if m.AssignFunc != nil {
		return m.AssignFunc(ctx, c, now)
	}
	return nil, nil
}

func (m *mockAssigner) AssignManually(ctx context.Context, c *complaint.Complaint, departmentID, officerID, note string, now time.Time) (*department.Officer, error) {
	if m.AssignManuallyFunc != nil {
		return m.AssignManuallyFunc(ctx, c, departmentID, officerID, note, now)
	}
	return nil, nil
}

type mockMediaStore struct {
	StoreFunc func(ctx context.Context, key string, data []byte) (string, error)
	keys      []string
}

func (m *mockMediaStore) Store(ctx context.Context, key string, data []byte) (string, error) {
	m.keys = append(m.keys, key)
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, key, data)
	}
	return "media://" + key, nil
}

type sequenceIDs struct {
	next int
}

func (s *sequenceIDs) NewID() string {
	s.next++
	return fmt.Sprintf("cmp-%d", s.next)
}

type mockTransactor struct {
	calls int
}

func (m *mockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockLocker struct {
	TryLockFunc func(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error)
	released    int
}

func (m *mockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	if m.TryLockFunc != nil {
		return m.TryLockFunc(ctx, key, ttl)
	}
	return func(context.Context) error {
		m.released++
		return nil
	}, true, nil
}

type recordingSink struct {
	mu   sync.Mutex
	sent []notification.Notification
	err  error
}

func (s *recordingSink) Notify(ctx context.Context, n notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return s.err
}

func (s *recordingSink) types() []notification.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notification.Type, 0, len(s.sent))
	for _, n := range s.sent {
		out = append(out, n.Type)
	}
	return out
}

func (s *recordingSink) to(userID string) []notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notification.Notification
	for _, n := range s.sent {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}
