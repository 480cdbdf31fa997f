package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID uint    `json:"patientId"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient"`

	TherapistID uint      `json:"therapistId"`
	Therapist   Therapist `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"therapist"`

	// Wire formats: Date is DD/MM/YYYY, Time is H:MM from the half-hour
	// slot catalogue. Slot uniqueness is enforced by a partial unique
	// index on (therapist_id, date, time) excluding cancelled rows.
	Date string `gorm:"size:10;not null" json:"date"`
	Time string `gorm:"size:5;not null" json:"time"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	IsRecurring         bool   `json:"isRecurring"`
	RecurringFrequency  string `gorm:"size:20" json:"recurringFrequency,omitempty"`
	RecurringCount      int    `json:"recurringCount,omitempty"`
	ParentAppointmentID *uint  `gorm:"index" json:"parentAppointmentId"`

	// Appointments billed together share one InvoiceGroupID.
	InvoiceGroupID string `gorm:"size:36;index" json:"invoiceGroupId,omitempty"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
