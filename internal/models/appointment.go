package models

import "time"

// Appointment belongs to a lead, or is general when LeadID is nil.
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint  `gorm:"index;not null" json:"client_id"`
	LeadID   *uint `gorm:"index" json:"lead_id"`

	Title    string `gorm:"size:100;not null" json:"title"`
	Location string `gorm:"size:255" json:"location"`
	Notes    string `gorm:"size:255" json:"notes"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
