package handlers

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"academy_backend/billing"
	"academy_backend/database"
	"academy_backend/utils"
)

var billingSvc *billing.Service

// InitBilling wires the billing facade; called once from main.
func InitBilling(svc *billing.Service) {
	billingSvc = svc
}

func billingError(c *fiber.Ctx, err error) error {
	switch {
	case billing.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case billing.IsConflict(err):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case billing.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("🔥 Billing error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal error"})
}

type GenerateRequest struct {
	MonthlyAmount float64 `json:"monthly_amount" validate:"gte=0"`
	DueDay        int     `json:"due_day" validate:"gte=0,lte=28"`
}

func GeneratePeriods(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("studentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID format"})
	}

	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res, err := billingSvc.Generate(c.Context(), studentID, billing.GenerateOptions{
		MonthlyAmount: req.MonthlyAmount,
		DueDay:        req.DueDay,
	})
	if err != nil {
		return billingError(c, err)
	}
	return c.JSON(res)
}

func GeneratePeriodsForAll(c *fiber.Ctx) error {
	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res, err := billingSvc.GenerateForAll(c.Context(), billing.GenerateOptions{
		MonthlyAmount: req.MonthlyAmount,
		DueDay:        req.DueDay,
	})
	if err != nil {
		return billingError(c, err)
	}

	if len(res.Failures) > 0 {
		log.Printf("Bulk generation finished with %d failure(s) out of %d student(s)", len(res.Failures), res.StudentsProcessed)
	}
	return c.JSON(res)
}

func ListPeriods(c *fiber.Ctx) error {
	var filter billing.PeriodFilter

	if raw := c.Query("student_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student_id filter"})
		}
		filter.StudentID = &id
	}
	if raw := c.Query("status"); raw != "" {
		if !billing.ValidStatus(raw) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status filter"})
		}
		filter.Status = &raw
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid year filter"})
		}
		filter.Year = &year
	}

	periods, err := billingSvc.List(c.Context(), filter)
	if err != nil {
		return billingError(c, err)
	}
	return c.JSON(fiber.Map{"periods": periods, "count": len(periods)})
}

func ListOverduePeriods(c *fiber.Ctx) error {
	var filter billing.OverdueFilter
	filter.StudentName = c.Query("student_name")
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category_id filter"})
		}
		filter.CategoryID = &id
	}

	periods, err := billingSvc.Overdue(c.Context(), filter)
	if err != nil {
		return billingError(c, err)
	}
	return c.JSON(fiber.Map{"periods": periods, "count": len(periods)})
}

func GetPeriod(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid period ID format"})
	}
	period, err := billingSvc.Get(c.Context(), id)
	if err != nil {
		return billingError(c, err)
	}
	return c.JSON(period)
}

type CreatePeriodRequest struct {
	StudentID   string  `json:"student_id" validate:"required,uuid"`
	Year        int     `json:"year" validate:"required"`
	Month       int     `json:"month" validate:"required,min=1,max=12"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	PeriodStart *string `json:"period_start,omitempty"`
	PeriodDue   *string `json:"period_due,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func parseDatePtr(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := billing.ParseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func CreatePeriod(c *fiber.Ctx) error {
	var req CreatePeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	studentID, _ := uuid.Parse(req.StudentID)

	start, err := parseDatePtr(req.PeriodStart)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	due, err := parseDatePtr(req.PeriodDue)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	period, err := billingSvc.Create(c.Context(), billing.CreatePeriodInput{
		StudentID:   studentID,
		Year:        req.Year,
		Month:       req.Month,
		Amount:      req.Amount,
		PeriodStart: start,
		PeriodDue:   due,
		Notes:       req.Notes,
	})
	if err != nil {
		return billingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(period)
}

type UpdatePeriodRequest struct {
	Amount        *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`
	PeriodStart   *string  `json:"period_start,omitempty"`
	PeriodDue     *string  `json:"period_due,omitempty"`
	ReceiptNumber *string  `json:"receipt_number,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

func UpdatePeriod(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid period ID format"})
	}

	var req UpdatePeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	start, err := parseDatePtr(req.PeriodStart)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	due, err := parseDatePtr(req.PeriodDue)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	period, err := billingSvc.Update(c.Context(), id, billing.UpdatePeriodInput{
		Amount:        req.Amount,
		PeriodStart:   start,
		PeriodDue:     due,
		ReceiptNumber: req.ReceiptNumber,
		Notes:         req.Notes,
	})
	if err != nil {
		return billingError(c, err)
	}
	return c.JSON(period)
}

func DeletePeriod(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid period ID format"})
	}
	if err := billingSvc.Delete(c.Context(), id); err != nil {
		return billingError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Period deleted"})
}

type MarkPaidRequest struct {
	ReceiptNumber *string `json:"receipt_number,omitempty"`
}

func MarkPeriodPaid(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid period ID format"})
	}

	var req MarkPaidRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
	}

	receipt := req.ReceiptNumber
	if receipt == nil || *receipt == "" {
		generated, err := utils.GenerateReceiptNumber(database.DB)
		if err != nil {
			log.Printf("🔥 Failed to generate receipt number: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate receipt number"})
		}
		receipt = &generated
	}

	period, err := billingSvc.MarkPaid(c.Context(), id, receipt)
	if err != nil {
		return billingError(c, err)
	}
	return c.JSON(period)
}

func MarkPeriodExempted(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid period ID format"})
	}
	period, err := billingSvc.MarkExempted(c.Context(), id)
	if err != nil {
		return billingError(c, err)
	}
	return c.JSON(period)
}
