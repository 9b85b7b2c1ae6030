package billing

import (
	"time"

	"academy_backend/models"
)

const (
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusOverdue  = "overdue"
	StatusExempted = "exempted"
)

// ValidStatus reports whether s is one of the four period statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue, StatusExempted:
		return true
	}
	return false
}

// IsTerminal reports whether s is a human-chosen final state. Nothing
// automated ever leaves paid or exempted.
func IsTerminal(s string) bool {
	return s == StatusPaid || s == StatusExempted
}

// EffectiveStatus derives the status shown to users. The stored value is
// authoritative only once terminal; pending-vs-overdue is a function of the
// due date versus today and is recomputed on every read, so a period marked
// pending yesterday reads as overdue today without any write having happened.
// A period due today is not yet overdue.
func EffectiveStatus(p models.PaymentPeriod, today time.Time) string {
	if p.Status == StatusPending && BeforeDay(p.PeriodDue, today) {
		return StatusOverdue
	}
	return p.Status
}
