package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy_backend/models"
)

func newTestService(today time.Time) (*MemoryStore, *Service) {
	store := NewMemoryStore()
	return store, NewService(store, store, FixedClock{Day: today})
}

func seedPeriod(t *testing.T, store *MemoryStore, studentID uuid.UUID, year, month int, status string, due time.Time) models.PaymentPeriod {
	t.Helper()
	p := models.PaymentPeriod{
		StudentID:   studentID,
		Year:        year,
		Month:       month,
		Amount:      100,
		PeriodStart: Date(year, time.Month(month), 1),
		PeriodDue:   due,
		Status:      status,
	}
	require.NoError(t, store.Create(context.Background(), &p))
	return p
}

func TestListReturnsEffectiveStatusOnly(t *testing.T) {
	today := Date(2024, time.June, 5)
	store, svc := newTestService(today)
	st := newTestStudent(store, datePtr(2024, time.January, 1))

	seedPeriod(t, store, st.ID, 2024, 4, StatusPending, Date(2024, time.May, 1))  // past due
	seedPeriod(t, store, st.ID, 2024, 5, StatusPaid, Date(2024, time.June, 1))    // terminal
	seedPeriod(t, store, st.ID, 2024, 6, StatusPending, Date(2024, time.July, 1)) // current

	periods, err := svc.List(context.Background(), PeriodFilter{StudentID: &st.ID})
	require.NoError(t, err)
	require.Len(t, periods, 3)

	assert.Equal(t, StatusOverdue, periods[0].Status)
	assert.Equal(t, StatusPaid, periods[1].Status)
	assert.Equal(t, StatusPending, periods[2].Status)
}

func TestListFiltersOnEffectiveStatus(t *testing.T) {
	today := Date(2024, time.June, 5)
	store, svc := newTestService(today)
	st := newTestStudent(store, datePtr(2024, time.January, 1))

	seedPeriod(t, store, st.ID, 2024, 4, StatusPending, Date(2024, time.May, 1))
	seedPeriod(t, store, st.ID, 2024, 6, StatusPending, Date(2024, time.July, 1))

	overdue := StatusOverdue
	periods, err := svc.List(context.Background(), PeriodFilter{StudentID: &st.ID, Status: &overdue})
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, 4, periods[0].Month)

	// Filtering on pending must exclude the effectively overdue row even
	// though its stored status is pending.
	pending := StatusPending
	periods, err = svc.List(context.Background(), PeriodFilter{StudentID: &st.ID, Status: &pending})
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, 6, periods[0].Month)
}

func TestListByYear(t *testing.T) {
	today := Date(2024, time.June, 5)
	store, svc := newTestService(today)
	st := newTestStudent(store, datePtr(2023, time.November, 1))

	seedPeriod(t, store, st.ID, 2023, 12, StatusPaid, Date(2024, time.January, 1))
	seedPeriod(t, store, st.ID, 2024, 1, StatusPaid, Date(2024, time.February, 1))

	year := 2023
	periods, err := svc.List(context.Background(), PeriodFilter{Year: &year})
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, 2023, periods[0].Year)
}

func TestOverdueView(t *testing.T) {
	today := Date(2024, time.June, 5)
	store, svc := newTestService(today)

	catID := uuid.New()
	alice := models.Student{ID: uuid.New(), FullName: "Alice Navarro", IsActive: true, CategoryID: &catID}
	bob := models.Student{ID: uuid.New(), FullName: "Bob Okello", IsActive: true}
	store.AddStudent(alice)
	store.AddStudent(bob)

	seedPeriod(t, store, alice.ID, 2024, 4, StatusPending, Date(2024, time.May, 1))
	seedPeriod(t, store, bob.ID, 2024, 5, StatusPending, Date(2024, time.June, 1))
	seedPeriod(t, store, bob.ID, 2024, 6, StatusPending, Date(2024, time.July, 1)) // not due yet
	seedPeriod(t, store, alice.ID, 2024, 3, StatusPaid, Date(2024, time.April, 1)) // terminal

	all, err := svc.Overdue(context.Background(), OverdueFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, p := range all {
		assert.Equal(t, StatusOverdue, p.Status)
	}

	byName, err := svc.Overdue(context.Background(), OverdueFilter{StudentName: "navarro"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, alice.ID, byName[0].StudentID)

	byCategory, err := svc.Overdue(context.Background(), OverdueFilter{CategoryID: &catID})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, alice.ID, byCategory[0].StudentID)
}

func TestManualCreateDefaultsAndConflict(t *testing.T) {
	today := Date(2024, time.June, 5)
	store, svc := newTestService(today)
	st := newTestStudent(store, datePtr(2024, time.January, 1))

	p, err := svc.Create(context.Background(), CreatePeriodInput{
		StudentID: st.ID,
		Year:      2024,
		Month:     7,
		Amount:    120,
	})
	require.NoError(t, err)
	assert.Equal(t, Date(2024, time.July, 1), p.PeriodStart)
	assert.Equal(t, Date(2024, time.July, 31), p.PeriodDue)
	assert.Equal(t, StatusPending, p.Status)

	// Manual creation surfaces the conflict instead of skipping it.
	_, err = svc.Create(context.Background(), CreatePeriodInput{
		StudentID: st.ID,
		Year:      2024,
		Month:     7,
		Amount:    120,
	})
	assert.True(t, IsConflict(err))
}

func TestManualCreateValidation(t *testing.T) {
	today := Date(2024, time.June, 5)
	store, svc := newTestService(today)
	st := newTestStudent(store, datePtr(2024, time.January, 1))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePeriodInput{StudentID: st.ID, Year: 2024, Month: 13, Amount: 10})
	assert.True(t, IsValidation(err))

	_, err = svc.Create(ctx, CreatePeriodInput{StudentID: st.ID, Year: 2024, Month: 1, Amount: -10})
	assert.True(t, IsValidation(err))

	_, err = svc.Create(ctx, CreatePeriodInput{StudentID: uuid.New(), Year: 2024, Month: 1, Amount: 10})
	assert.True(t, IsNotFound(err))
}

func TestUpdateEditsOnlyMutableFields(t *testing.T) {
	today := Date(2024, time.June, 5)
	store, svc := newTestService(today)
	st := newTestStudent(store, datePtr(2024, time.January, 1))
	p := seedPeriod(t, store, st.ID, 2024, 6, StatusPending, Date(2024, time.July, 1))

	amount := 150.0
	notes := "sibling discount"
	updated, err := svc.Update(context.Background(), p.ID, UpdatePeriodInput{
		Amount: &amount,
		Notes:  &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, 150.0, updated.Amount)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "sibling discount", *updated.Notes)
	assert.Equal(t, p.StudentID, updated.StudentID)
	assert.Equal(t, p.Year, updated.Year)
	assert.Equal(t, p.Month, updated.Month)

	bad := -5.0
	_, err = svc.Update(context.Background(), p.ID, UpdatePeriodInput{Amount: &bad})
	assert.True(t, IsValidation(err))

	_, err = svc.Update(context.Background(), uuid.New(), UpdatePeriodInput{Amount: &amount})
	assert.True(t, IsNotFound(err))
}

func TestMarkPaidAndExempted(t *testing.T) {
	today := Date(2024, time.June, 5)
	store, svc := newTestService(today)
	st := newTestStudent(store, datePtr(2024, time.January, 1))
	ctx := context.Background()

	// Paying an effectively overdue period is legal: stored status is
	// still pending.
	late := seedPeriod(t, store, st.ID, 2024, 4, StatusPending, Date(2024, time.May, 1))
	receipt := "RCP-2024-0041"
	paid, err := svc.MarkPaid(ctx, late.ID, &receipt)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
	require.NotNil(t, paid.ReceiptNumber)
	assert.Equal(t, receipt, *paid.ReceiptNumber)

	// Terminal states stay put.
	_, err = svc.MarkPaid(ctx, late.ID, nil)
	assert.True(t, IsValidation(err))
	_, err = svc.MarkExempted(ctx, late.ID)
	assert.True(t, IsValidation(err))

	scholar := seedPeriod(t, store, st.ID, 2024, 5, StatusPending, Date(2024, time.June, 1))
	exempted, err := svc.MarkExempted(ctx, scholar.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExempted, exempted.Status)

	// And the reconciler respects both afterwards, past due or not.
	got, err := svc.Get(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, got.Status)
	got, err = svc.Get(ctx, scholar.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExempted, got.Status)
}

func TestDelete(t *testing.T) {
	today := Date(2024, time.June, 5)
	store, svc := newTestService(today)
	st := newTestStudent(store, datePtr(2024, time.January, 1))
	p := seedPeriod(t, store, st.ID, 2024, 6, StatusPending, Date(2024, time.July, 1))
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.True(t, IsNotFound(svc.Delete(ctx, p.ID)))

	// The month becomes generatable again once its row is gone.
	res, err := svc.Generate(ctx, st.ID, GenerateOptions{MonthlyAmount: 100})
	require.NoError(t, err)
	months := make([]int, 0, len(res.Created))
	for _, c := range res.Created {
		months = append(months, c.Month)
	}
	assert.Contains(t, months, 6)
}
