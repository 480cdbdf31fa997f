package models

import "time"

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// admin, secretariat or therapist.
	Role string `gorm:"size:20;default:'secretariat'" json:"role"`

	// Set when Role is therapist; scopes which appointments the user sees.
	TherapistID *uint `json:"therapistId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
