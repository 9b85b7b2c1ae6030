package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"academy_backend/models"
)

// PeriodFilter narrows a period listing. All fields are optional and combine
// with AND. Status is matched against the effective status, not the stored one.
type PeriodFilter struct {
	StudentID *uuid.UUID
	Status    *string
	Year      *int
}

// OverdueFilter narrows the global overdue view for the alert panel.
type OverdueFilter struct {
	StudentName string
	CategoryID  *uuid.UUID
}

// PeriodStore persists payment periods. Implementations must enforce the
// (student_id, year, month) uniqueness invariant at the storage layer and
// return ErrConflict when it is violated, so concurrent generators cannot
// create duplicates.
type PeriodStore interface {
	Create(ctx context.Context, p *models.PaymentPeriod) error
	Get(ctx context.Context, id uuid.UUID) (models.PaymentPeriod, error)
	Update(ctx context.Context, p *models.PaymentPeriod) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, studentID uuid.UUID, year, month int) (bool, error)
	List(ctx context.Context, f PeriodFilter) ([]models.PaymentPeriod, error)

	// FindOverdue is List filtered to periods whose effective status is
	// overdue as of today: stored pending with a due date before today.
	FindOverdue(ctx context.Context, today time.Time, f OverdueFilter) ([]models.PaymentPeriod, error)
}

// StudentDirectory is the slice of the student CRUD module the engine
// consumes: ids, enrollment dates and the active flag. Everything else about
// a student belongs to the directory's own screens.
type StudentDirectory interface {
	ListActive(ctx context.Context) ([]models.Student, error)
	GetStudent(ctx context.Context, id uuid.UUID) (models.Student, error)
}
