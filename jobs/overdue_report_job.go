package jobs

import (
	"context"
	"log"

	"academy_backend/billing"
)

var billingSvc *billing.Service

// Init wires the billing facade; called once from main.
func Init(svc *billing.Service) {
	billingSvc = svc
}

// ReportOverduePeriods logs the daily overdue roll-up for the alert panel.
// It only reads: overdue-ness is derived at read time, so there is nothing
// for a scheduled job to mutate.
func ReportOverduePeriods() {
	log.Println("Running job: ReportOverduePeriods...")

	periods, err := billingSvc.Overdue(context.Background(), billing.OverdueFilter{})
	if err != nil {
		log.Printf("Error listing overdue periods: %v", err)
		return
	}

	if len(periods) == 0 {
		log.Println("No overdue periods found.")
		return
	}

	var total float64
	students := make(map[string]bool)
	for _, p := range periods {
		total += p.Amount
		students[p.StudentID.String()] = true
	}

	log.Printf("%d overdue period(s) across %d student(s), %.2f outstanding.", len(periods), len(students), total)
}
