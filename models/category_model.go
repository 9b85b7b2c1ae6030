package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name string    `gorm:"size:100;not null;unique" json:"name"`

	// Suggested fee for students in this category, used to prefill the
	// generation form. The amount actually billed lives on each period.
	MonthlyFee float64 `gorm:"type:numeric(10,2);default:0.00" json:"monthly_fee"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
