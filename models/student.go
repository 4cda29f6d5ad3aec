package models

import "time"

type Student struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	AdmissionNumber string    `json:"admission_number" gorm:"size:20;uniqueIndex;not null"`
	FirstName       string    `json:"first_name" gorm:"size:50;not null"`
	LastName        string    `json:"last_name" gorm:"size:50;not null"`
	DateOfBirth     time.Time `json:"date_of_birth" gorm:"type:date"`
	Gender          string    `json:"gender" gorm:"size:10"`

	StandardID uint     `json:"standard_id" gorm:"not null;index"`
	Standard   Standard `json:"standard" gorm:"foreignKey:StandardID"`

	GuardianName  string `json:"guardian_name" gorm:"size:100"`
	GuardianPhone string `json:"guardian_phone" gorm:"size:15"`
	Address       string `json:"address"`
	Email         string `json:"email" gorm:"size:100"`

	AdmissionDate time.Time `json:"admission_date" gorm:"type:date"`
	IsActive      bool      `json:"is_active" gorm:"default:true;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
