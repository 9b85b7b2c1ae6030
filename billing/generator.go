package billing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"academy_backend/models"
)

// GenerateOptions are the knobs of a generation run. DueDay 0 means "no due
// day", leaving the plain +30-days rule. Values above 28 are rejected so the
// rule stays valid in February.
type GenerateOptions struct {
	MonthlyAmount float64
	DueDay        int
}

// GenerationResult reports one per-student run. Created holds only new
// records, in month order; Skipped counts months that already had one.
type GenerationResult struct {
	Created []models.PaymentPeriod `json:"created"`
	Skipped int                    `json:"skipped"`
}

type BulkFailure struct {
	StudentID uuid.UUID `json:"student_id"`
	Reason    string    `json:"reason"`
}

// BulkGenerationResult aggregates an academy-wide run. Failures is part of
// the result, not an error: one bad student record never blocks the rest.
type BulkGenerationResult struct {
	StudentsProcessed int           `json:"students_processed"`
	PeriodsCreated    int           `json:"periods_created"`
	Failures          []BulkFailure `json:"failures"`
}

// Generator turns enrollment dates into monthly obligations. Generation is
// additive and idempotent: existing (student, year, month) rows are never
// touched, so re-running after a partial failure only fills gaps.
type Generator struct {
	store    PeriodStore
	students StudentDirectory
	clock    Clock

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewGenerator(store PeriodStore, students StudentDirectory, clock Clock) *Generator {
	return &Generator{
		store:    store,
		students: students,
		clock:    clock,
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// studentLock serializes generator runs per student. The storage unique
// index remains the final backstop for writers outside this process.
func (g *Generator) studentLock(id uuid.UUID) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.locks[id]
	if !ok {
		l = &sync.Mutex{}
		g.locks[id] = l
	}
	return l
}

func (opts GenerateOptions) validate() error {
	if opts.MonthlyAmount < 0 {
		return validationErr("monthly amount must not be negative")
	}
	if opts.DueDay != 0 && (opts.DueDay < 1 || opts.DueDay > 28) {
		return validationErr("due day must be between 1 and 28")
	}
	return nil
}

// GenerateForStudent creates the missing monthly periods for one student,
// from the enrollment month through the current month inclusive.
func (g *Generator) GenerateForStudent(ctx context.Context, studentID uuid.UUID, opts GenerateOptions) (GenerationResult, error) {
	var res GenerationResult

	if err := opts.validate(); err != nil {
		return res, err
	}

	student, err := g.students.GetStudent(ctx, studentID)
	if err != nil {
		return res, err
	}
	if student.EnrollmentDate == nil {
		return res, validationErr("student %s has no enrollment date", studentID)
	}

	enrollment := DayOf(*student.EnrollmentDate)
	today := g.clock.Today()
	if today.Before(enrollment) {
		return res, validationErr("enrollment date %s is in the future", enrollment.Format("2006-01-02"))
	}

	lock := g.studentLock(studentID)
	lock.Lock()
	defer lock.Unlock()

	last := MonthStart(today)
	for cursor := MonthStart(enrollment); !cursor.After(last); cursor = cursor.AddDate(0, 1, 0) {
		exists, err := g.store.Exists(ctx, studentID, cursor.Year(), int(cursor.Month()))
		if err != nil {
			return res, err
		}
		if exists {
			res.Skipped++
			continue
		}

		start := cursor
		if SameMonth(cursor, enrollment) {
			start = enrollment
		}

		period := models.PaymentPeriod{
			StudentID:   studentID,
			Year:        cursor.Year(),
			Month:       int(cursor.Month()),
			Amount:      opts.MonthlyAmount,
			PeriodStart: start,
			PeriodDue:   DueDate(start, opts.DueDay),
			Status:      StatusPending,
		}
		if err := g.store.Create(ctx, &period); err != nil {
			// A concurrent run already created this month; it counts
			// as skipped, same as finding it up front.
			if IsConflict(err) {
				res.Skipped++
				continue
			}
			return res, err
		}
		res.Created = append(res.Created, period)
	}

	return res, nil
}

// GenerateForAll runs GenerateForStudent over every active student. Safe to
// re-run after a partial failure.
func (g *Generator) GenerateForAll(ctx context.Context, opts GenerateOptions) (BulkGenerationResult, error) {
	var res BulkGenerationResult

	if err := opts.validate(); err != nil {
		return res, err
	}

	students, err := g.students.ListActive(ctx)
	if err != nil {
		return res, err
	}

	for _, st := range students {
		res.StudentsProcessed++
		sr, err := g.GenerateForStudent(ctx, st.ID, opts)
		if err != nil {
			res.Failures = append(res.Failures, BulkFailure{StudentID: st.ID, Reason: err.Error()})
			continue
		}
		res.PeriodsCreated += len(sr.Created)
	}

	return res, nil
}

// DueDate derives when a period falls due. The base rule is start + 30 days;
// with a due day set, the due day of the base's month wins when it comes
// earlier, but never lands before the period itself starts.
func DueDate(start time.Time, dueDay int) time.Time {
	start = DayOf(start)
	due := start.AddDate(0, 0, 30)
	if dueDay >= 1 {
		candidate := Date(due.Year(), due.Month(), dueDay)
		if candidate.Before(start) {
			candidate = candidate.AddDate(0, 1, 0)
		}
		if candidate.Before(due) {
			due = candidate
		}
	}
	return due
}
