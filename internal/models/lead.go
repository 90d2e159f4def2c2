package models

import "time"

type Lead struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint   `gorm:"index;not null" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client"`

	ServiceID string `gorm:"size:36;index" json:"service_id"`

	// Form answers keyed by the service field name.
	Answers JSONMap `gorm:"type:jsonb" json:"answers"`

	Status string  `gorm:"size:20;default:'new'" json:"status"`
	Value  float64 `json:"value"`

	// Overrides CreatedAt for monthly revenue attribution when set.
	AttributionDate *time.Time `json:"attribution_date"`

	Notes        []LeadNote    `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE;" json:"notes,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:LeadID" json:"appointments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LeadNote struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	LeadID uint `gorm:"index;not null" json:"lead_id"`

	AuthorID uint   `json:"author_id"`
	Body     string `gorm:"type:text;not null" json:"body"`

	CreatedAt time.Time `json:"created_at"`
}
