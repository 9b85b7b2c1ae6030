package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"academy_backend/billing"
	"academy_backend/database"
	"academy_backend/models"
)

type CreateStudentRequest struct {
	FullName       string  `json:"full_name" validate:"required,min=3"`
	GuardianName   *string `json:"guardian_name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	EnrollmentDate *string `json:"enrollment_date,omitempty"`
	CategoryID     *string `json:"category_id,omitempty"`
}

type UpdateStudentRequest struct {
	FullName       *string `json:"full_name,omitempty" validate:"omitempty,min=3"`
	GuardianName   *string `json:"guardian_name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	EnrollmentDate *string `json:"enrollment_date,omitempty"`
	CategoryID     *string `json:"category_id,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

func ListStudents(c *fiber.Ctx) error {
	q := database.DB.Model(&models.Student{}).Preload("Category")
	if c.Query("active") != "false" {
		q = q.Where("is_active = ?", true)
	}
	if name := c.Query("name"); name != "" {
		q = q.Where("full_name ILIKE ?", "%"+name+"%")
	}

	var students []models.Student
	if err := q.Order("full_name asc").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"students": students, "count": len(students)})
}

func GetStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID format"})
	}

	var student models.Student
	if err := database.DB.Preload("Category").First(&student, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(student)
}

func CreateStudent(c *fiber.Ctx) error {
	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	student := models.Student{
		FullName:     req.FullName,
		GuardianName: req.GuardianName,
		Phone:        req.Phone,
		IsActive:     true,
	}

	if req.EnrollmentDate != nil && *req.EnrollmentDate != "" {
		d, err := billing.ParseDate(*req.EnrollmentDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if d.After(time.Now()) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Enrollment date cannot be in the future"})
		}
		student.EnrollmentDate = &d
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		catID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category ID format"})
		}
		student.CategoryID = &catID
	}

	if err := database.DB.Create(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.Status(fiber.StatusCreated).JSON(student)
}

func UpdateStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID format"})
	}

	var student models.Student
	if err := database.DB.First(&student, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var req UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.FullName != nil {
		student.FullName = *req.FullName
	}
	if req.GuardianName != nil {
		student.GuardianName = req.GuardianName
	}
	if req.Phone != nil {
		student.Phone = req.Phone
	}
	if req.EnrollmentDate != nil {
		if *req.EnrollmentDate == "" {
			student.EnrollmentDate = nil
		} else {
			d, err := billing.ParseDate(*req.EnrollmentDate)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			student.EnrollmentDate = &d
		}
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			student.CategoryID = nil
		} else {
			catID, err := uuid.Parse(*req.CategoryID)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category ID format"})
			}
			student.CategoryID = &catID
		}
	}
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(student)
}

// DeactivateStudent removes a student from bulk generation without touching
// their billing history.
func DeactivateStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID format"})
	}

	res := database.DB.Model(&models.Student{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}
	return c.JSON(fiber.Map{"message": "Student deactivated"})
}
