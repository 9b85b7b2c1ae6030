package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"academy_backend/models"
)

// Service is the billing facade the handlers talk to. Every period leaving
// it carries its effective status; the stored status never escapes raw.
type Service struct {
	store    PeriodStore
	students StudentDirectory
	clock    Clock
	gen      *Generator
}

func NewService(store PeriodStore, students StudentDirectory, clock Clock) *Service {
	return &Service{
		store:    store,
		students: students,
		clock:    clock,
		gen:      NewGenerator(store, students, clock),
	}
}

func (s *Service) Generate(ctx context.Context, studentID uuid.UUID, opts GenerateOptions) (GenerationResult, error) {
	return s.gen.GenerateForStudent(ctx, studentID, opts)
}

func (s *Service) GenerateForAll(ctx context.Context, opts GenerateOptions) (BulkGenerationResult, error) {
	return s.gen.GenerateForAll(ctx, opts)
}

// List returns periods matching the filter. The status filter (if any) is
// applied to the effective status, so "overdue" finds stored-pending rows
// whose due date has passed.
func (s *Service) List(ctx context.Context, f PeriodFilter) ([]models.PaymentPeriod, error) {
	stored := f
	stored.Status = nil
	periods, err := s.store.List(ctx, stored)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	out := make([]models.PaymentPeriod, 0, len(periods))
	for _, p := range periods {
		p.Status = EffectiveStatus(p, today)
		if f.Status != nil && p.Status != *f.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Overdue is the alert-panel view: every period whose effective status is
// overdue right now, optionally narrowed by student name or category.
func (s *Service) Overdue(ctx context.Context, f OverdueFilter) ([]models.PaymentPeriod, error) {
	periods, err := s.store.FindOverdue(ctx, s.clock.Today(), f)
	if err != nil {
		return nil, err
	}
	for i := range periods {
		periods[i].Status = StatusOverdue
	}
	return periods, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (models.PaymentPeriod, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return p, err
	}
	p.Status = EffectiveStatus(p, s.clock.Today())
	return p, nil
}

// CreatePeriodInput is a manual single-cell creation from the grid. Dates
// default like generated periods: start at the 1st of the month, due 30
// days later.
type CreatePeriodInput struct {
	StudentID   uuid.UUID
	Year        int
	Month       int
	Amount      float64
	PeriodStart *time.Time
	PeriodDue   *time.Time
	Notes       *string
}

func (s *Service) Create(ctx context.Context, in CreatePeriodInput) (models.PaymentPeriod, error) {
	var p models.PaymentPeriod

	if in.Month < 1 || in.Month > 12 {
		return p, validationErr("month must be between 1 and 12")
	}
	if in.Year < 2000 || in.Year > 2100 {
		return p, validationErr("year %d is out of range", in.Year)
	}
	if in.Amount < 0 {
		return p, validationErr("amount must not be negative")
	}
	if _, err := s.students.GetStudent(ctx, in.StudentID); err != nil {
		return p, err
	}

	start := Date(in.Year, time.Month(in.Month), 1)
	if in.PeriodStart != nil {
		start = DayOf(*in.PeriodStart)
	}
	due := start.AddDate(0, 0, 30)
	if in.PeriodDue != nil {
		due = DayOf(*in.PeriodDue)
	}

	p = models.PaymentPeriod{
		StudentID:   in.StudentID,
		Year:        in.Year,
		Month:       in.Month,
		Amount:      in.Amount,
		PeriodStart: start,
		PeriodDue:   due,
		Status:      StatusPending,
		Notes:       in.Notes,
	}
	if err := s.store.Create(ctx, &p); err != nil {
		return models.PaymentPeriod{}, err
	}
	p.Status = EffectiveStatus(p, s.clock.Today())
	return p, nil
}

// UpdatePeriodInput edits the mutable fields of a period. Identity
// (student, year, month) and status are not editable here; status moves
// only through MarkPaid and MarkExempted.
type UpdatePeriodInput struct {
	Amount        *float64
	PeriodStart   *time.Time
	PeriodDue     *time.Time
	ReceiptNumber *string
	Notes         *string
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdatePeriodInput) (models.PaymentPeriod, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return p, err
	}

	if in.Amount != nil {
		if *in.Amount < 0 {
			return p, validationErr("amount must not be negative")
		}
		p.Amount = *in.Amount
	}
	if in.PeriodStart != nil {
		p.PeriodStart = DayOf(*in.PeriodStart)
	}
	if in.PeriodDue != nil {
		p.PeriodDue = DayOf(*in.PeriodDue)
	}
	if in.ReceiptNumber != nil {
		p.ReceiptNumber = in.ReceiptNumber
	}
	if in.Notes != nil {
		p.Notes = in.Notes
	}

	if err := s.store.Update(ctx, &p); err != nil {
		return p, err
	}
	p.Status = EffectiveStatus(p, s.clock.Today())
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// MarkPaid records an external payment. Legal only from stored pending
// (which includes effectively overdue periods); paid and exempted are
// terminal.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID, receiptNumber *string) (models.PaymentPeriod, error) {
	return s.transition(ctx, id, StatusPaid, receiptNumber)
}

// MarkExempted waives the obligation, e.g. for a scholarship.
func (s *Service) MarkExempted(ctx context.Context, id uuid.UUID) (models.PaymentPeriod, error) {
	return s.transition(ctx, id, StatusExempted, nil)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to string, receiptNumber *string) (models.PaymentPeriod, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return p, err
	}
	if IsTerminal(p.Status) {
		return p, validationErr("period is already %s", p.Status)
	}

	p.Status = to
	if receiptNumber != nil {
		p.ReceiptNumber = receiptNumber
	}
	if err := s.store.Update(ctx, &p); err != nil {
		return p, err
	}
	return p, nil
}
