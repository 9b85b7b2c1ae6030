package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"academy_backend/models"
)

// GormStore is the Postgres-backed PeriodStore. The unique index on
// (student_id, year, month) is the invariant's final backstop; the gorm
// connection must run with TranslateError so violations surface as
// gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, p *models.PaymentPeriod) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: student %s %d-%02d", ErrConflict, p.StudentID, p.Year, p.Month)
		}
		return err
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, id uuid.UUID) (models.PaymentPeriod, error) {
	var p models.PaymentPeriod
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return p, fmt.Errorf("%w: period %s", ErrNotFound, id)
		}
		return p, err
	}
	return p, nil
}

func (s *GormStore) Update(ctx context.Context, p *models.PaymentPeriod) error {
	res := s.db.WithContext(ctx).Model(&models.PaymentPeriod{}).
		Where("id = ?", p.ID).
		Select("amount", "period_start", "period_due", "status", "receipt_number", "notes").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: period %s", ErrNotFound, p.ID)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.PaymentPeriod{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: period %s", ErrNotFound, id)
	}
	return nil
}

func (s *GormStore) Exists(ctx context.Context, studentID uuid.UUID, year, month int) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.PaymentPeriod{}).
		Where("student_id = ? AND year = ? AND month = ?", studentID, year, month).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) List(ctx context.Context, f PeriodFilter) ([]models.PaymentPeriod, error) {
	q := s.db.WithContext(ctx).Model(&models.PaymentPeriod{})
	if f.StudentID != nil {
		q = q.Where("student_id = ?", *f.StudentID)
	}
	if f.Year != nil {
		q = q.Where("year = ?", *f.Year)
	}
	var periods []models.PaymentPeriod
	err := q.Order("year asc, month asc").Find(&periods).Error
	return periods, err
}

func (s *GormStore) FindOverdue(ctx context.Context, today time.Time, f OverdueFilter) ([]models.PaymentPeriod, error) {
	q := s.db.WithContext(ctx).Model(&models.PaymentPeriod{}).
		Select("payment_periods.*").
		Joins("JOIN students ON students.id = payment_periods.student_id").
		Where("payment_periods.status = ? AND payment_periods.period_due < ?", StatusPending, DayOf(today))
	if f.StudentName != "" {
		q = q.Where("students.full_name ILIKE ?", "%"+f.StudentName+"%")
	}
	if f.CategoryID != nil {
		q = q.Where("students.category_id = ?", *f.CategoryID)
	}
	var periods []models.PaymentPeriod
	err := q.Order("payment_periods.period_due asc").Find(&periods).Error
	return periods, err
}

// GormDirectory reads students for the generator.
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) ListActive(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	err := d.db.WithContext(ctx).Where("is_active = ?", true).Order("full_name asc").Find(&students).Error
	return students, err
}

func (d *GormDirectory) GetStudent(ctx context.Context, id uuid.UUID) (models.Student, error) {
	var st models.Student
	if err := d.db.WithContext(ctx).First(&st, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return st, fmt.Errorf("%w: student %s", ErrNotFound, id)
		}
		return st, err
	}
	return st, nil
}
