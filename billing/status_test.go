package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"academy_backend/models"
)

func TestEffectiveStatus(t *testing.T) {
	today := Date(2024, time.June, 5)

	tests := []struct {
		name   string
		stored string
		due    time.Time
		want   string
	}{
		{"pending due yesterday reads overdue", StatusPending, Date(2024, time.June, 4), StatusOverdue},
		{"pending due today stays pending", StatusPending, Date(2024, time.June, 5), StatusPending},
		{"pending due tomorrow stays pending", StatusPending, Date(2024, time.June, 6), StatusPending},
		{"paid ignores the due date", StatusPaid, Date(2020, time.January, 1), StatusPaid},
		{"exempted ignores the due date", StatusExempted, Date(2020, time.January, 1), StatusExempted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.PaymentPeriod{Status: tt.stored, PeriodDue: tt.due}
			assert.Equal(t, tt.want, EffectiveStatus(p, today))
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusPaid, StatusOverdue, StatusExempted} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("cancelled"))
	assert.False(t, ValidStatus(""))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusPaid))
	assert.True(t, IsTerminal(StatusExempted))
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusOverdue))
}
