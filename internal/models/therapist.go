package models

import "time"

// Therapist availability fields are advisory for the booking UI;
// the scheduling engine only enforces slot conflicts.
type Therapist struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FirstName string `gorm:"size:100;not null" json:"firstName"`
	LastName  string `gorm:"size:100;not null" json:"lastName"`
	Specialty string `gorm:"size:100" json:"specialty"`
	Color     string `gorm:"size:20" json:"color"`

	AvailableDays string `gorm:"size:100" json:"availableDays"`
	StartHour     string `gorm:"size:5" json:"startHour"`
	EndHour       string `gorm:"size:5" json:"endHour"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Therapist) FullName() string {
	return t.FirstName + " " + t.LastName
}
