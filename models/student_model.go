package models

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	GuardianName *string   `gorm:"size:255" json:"guardian_name"`
	Phone        *string   `gorm:"size:30" json:"phone"`

	// EnrollmentDate is nullable: students imported before the billing module
	// existed may not have one, and the generator reports that per student
	// instead of failing the whole batch.
	EnrollmentDate *time.Time `json:"enrollment_date"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`

	CategoryID *uuid.UUID `json:"category_id"`
	Category   Category   `gorm:"foreignkey:CategoryID" json:"category,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
