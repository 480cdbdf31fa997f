package models

import "time"

// TherapistPayment is created when an invoice transitions to paid.
type TherapistPayment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TherapistID uint      `json:"therapistId"`
	Therapist   Therapist `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"therapist"`

	InvoiceID uint    `gorm:"index" json:"invoiceId"`
	Amount    float64 `json:"amount"`

	Status      string    `gorm:"size:20;default:'pending'" json:"status"`
	PaymentDate time.Time `json:"paymentDate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
