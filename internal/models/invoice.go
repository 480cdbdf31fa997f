package models

import "time"

type Invoice struct {
	ID uint `gorm:"primaryKey" json:"id"`

	InvoiceNumber string `gorm:"size:20;uniqueIndex;not null" json:"invoiceNumber"`

	PatientID uint    `json:"patientId"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient"`

	TherapistID uint      `json:"therapistId"`
	Therapist   Therapist `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"therapist"`

	// First appointment of the billed group.
	AppointmentID  uint   `gorm:"index" json:"appointmentId"`
	InvoiceGroupID string `gorm:"size:36;index" json:"invoiceGroupId,omitempty"`

	Amount      float64 `json:"amount"`
	TotalAmount float64 `json:"totalAmount"`

	Status    string    `gorm:"size:20;default:'pending'" json:"status"`
	IssueDate time.Time `json:"issueDate"`
	DueDate   time.Time `json:"dueDate"`

	Notes string `gorm:"type:text" json:"notes"`

	// Derived at read time from the billed group, never persisted.
	AppointmentDates []string `gorm:"-" json:"appointmentDates,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
