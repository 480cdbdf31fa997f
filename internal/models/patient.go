package models

import "time"

type Patient struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FirstName string `gorm:"size:100;not null" json:"firstName"`
	LastName  string `gorm:"size:100;not null" json:"lastName"`
	Email     string `gorm:"size:100" json:"email"`
	Phone     string `gorm:"size:20" json:"phone"`
	Address   string `gorm:"size:255" json:"address"`
	BirthDate string `gorm:"size:10" json:"birthDate"`
	Notes     string `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
