package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentPeriod is one monthly billing obligation for one student.
// (student_id, year, month) is unique: a student never owes the same month twice.
type PaymentPeriod struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID uuid.UUID `gorm:"not null;uniqueIndex:idx_student_year_month" json:"student_id"`
	Year      int       `gorm:"not null;uniqueIndex:idx_student_year_month" json:"year"`
	Month     int       `gorm:"not null;uniqueIndex:idx_student_year_month" json:"month"`

	// Amount may be 0, meaning "to be set individually later".
	Amount float64 `gorm:"type:numeric(10,2);not null;default:0.00" json:"amount"`

	PeriodStart time.Time `gorm:"type:date;not null" json:"period_start"`
	PeriodDue   time.Time `gorm:"type:date;not null" json:"period_due"`

	// Stored status. "overdue" is never persisted on the canonical path;
	// reads derive it from PeriodDue (see billing.EffectiveStatus).
	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	ReceiptNumber *string `gorm:"size:50" json:"receipt_number"`
	Notes         *string `gorm:"type:text" json:"notes"`

	Student Student `gorm:"foreignkey:StudentID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
