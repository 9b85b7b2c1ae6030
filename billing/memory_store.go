package billing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"academy_backend/models"
)

// MemoryStore keeps periods and students in maps. It backs the engine tests
// and enforces the same (student, year, month) invariant the database does.
type MemoryStore struct {
	mu       sync.RWMutex
	periods  map[uuid.UUID]models.PaymentPeriod
	byMonth  map[string]uuid.UUID
	students map[uuid.UUID]models.Student
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		periods:  make(map[uuid.UUID]models.PaymentPeriod),
		byMonth:  make(map[string]uuid.UUID),
		students: make(map[uuid.UUID]models.Student),
	}
}

func monthKey(studentID uuid.UUID, year, month int) string {
	return fmt.Sprintf("%s/%d-%02d", studentID, year, month)
}

// AddStudent seeds the directory side of the store.
func (s *MemoryStore) AddStudent(st models.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students[st.ID] = st
}

func (s *MemoryStore) Create(_ context.Context, p *models.PaymentPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := monthKey(p.StudentID, p.Year, p.Month)
	if _, taken := s.byMonth[key]; taken {
		return fmt.Errorf("%w: student %s %d-%02d", ErrConflict, p.StudentID, p.Year, p.Month)
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	s.periods[p.ID] = *p
	s.byMonth[key] = p.ID
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (models.PaymentPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.periods[id]
	if !ok {
		return p, fmt.Errorf("%w: period %s", ErrNotFound, id)
	}
	return p, nil
}

func (s *MemoryStore) Update(_ context.Context, p *models.PaymentPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.periods[p.ID]
	if !ok {
		return fmt.Errorf("%w: period %s", ErrNotFound, p.ID)
	}
	// Identity fields are immutable after creation.
	cur.Amount = p.Amount
	cur.PeriodStart = p.PeriodStart
	cur.PeriodDue = p.PeriodDue
	cur.Status = p.Status
	cur.ReceiptNumber = p.ReceiptNumber
	cur.Notes = p.Notes
	cur.UpdatedAt = time.Now()
	s.periods[p.ID] = cur
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.periods[id]
	if !ok {
		return fmt.Errorf("%w: period %s", ErrNotFound, id)
	}
	delete(s.periods, id)
	delete(s.byMonth, monthKey(p.StudentID, p.Year, p.Month))
	return nil
}

func (s *MemoryStore) Exists(_ context.Context, studentID uuid.UUID, year, month int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byMonth[monthKey(studentID, year, month)]
	return ok, nil
}

func (s *MemoryStore) List(_ context.Context, f PeriodFilter) ([]models.PaymentPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.PaymentPeriod
	for _, p := range s.periods {
		if f.StudentID != nil && p.StudentID != *f.StudentID {
			continue
		}
		if f.Year != nil && p.Year != *f.Year {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}

func (s *MemoryStore) FindOverdue(_ context.Context, today time.Time, f OverdueFilter) ([]models.PaymentPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.PaymentPeriod
	for _, p := range s.periods {
		if p.Status != StatusPending || !BeforeDay(p.PeriodDue, today) {
			continue
		}
		st, ok := s.students[p.StudentID]
		if f.StudentName != "" {
			if !ok || !strings.Contains(strings.ToLower(st.FullName), strings.ToLower(f.StudentName)) {
				continue
			}
		}
		if f.CategoryID != nil {
			if !ok || st.CategoryID == nil || *st.CategoryID != *f.CategoryID {
				continue
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodDue.Before(out[j].PeriodDue) })
	return out, nil
}

func (s *MemoryStore) ListActive(_ context.Context) ([]models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Student
	for _, st := range s.students {
		if st.IsActive {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (s *MemoryStore) GetStudent(_ context.Context, id uuid.UUID) (models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[id]
	if !ok {
		return st, fmt.Errorf("%w: student %s", ErrNotFound, id)
	}
	return st, nil
}
