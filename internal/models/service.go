package models

import "time"

// Field kinds accepted by a service schema.
const (
	FieldKindText     = "text"
	FieldKindNumber   = "number"
	FieldKindSelect   = "select"
	FieldKindDate     = "date"
	FieldKindCheckbox = "checkbox"
)

// Service is a per-client form schema used to capture lead answers.
type Service struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	ClientID uint   `gorm:"index;not null" json:"client_id"`

	Name string `gorm:"size:100;not null" json:"name"`

	Fields []ServiceField `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE;" json:"fields"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ServiceField struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	ServiceID string `gorm:"index;size:36;not null" json:"service_id"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Label    string `gorm:"size:100" json:"label"`
	Kind     string `gorm:"size:20;default:'text'" json:"kind"`
	Required bool   `gorm:"default:false" json:"required"`

	// Comma-separated choices, only meaningful for select fields.
	Options string `gorm:"size:1000" json:"options"`

	Position int `json:"position"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
