package utils

import (
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"academy_backend/models"
)

const receiptCodeLength = 8
const receiptLetterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReceiptNumber produces a receipt code that no payment period is
// using yet, for payments recorded without an external receipt reference.
func GenerateReceiptNumber(db *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, receiptCodeLength)
		for i := range b {
			b[i] = receiptLetterBytes[seededRand.Intn(len(receiptLetterBytes))]
		}
		code := fmt.Sprintf("RCP-%s", string(b))

		var period models.PaymentPeriod
		err := db.Where("receipt_number = ?", code).First(&period).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return code, nil
			}
			return "", err
		}
	}
}
