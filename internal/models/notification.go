package models

import "time"

// Notification is one row per recipient. Rows created by a single send share
// a BatchID; rows imported from before batch ids existed have it empty and
// are grouped by (title, message, minute) instead.
type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID  uint   `gorm:"index;not null" json:"user_id"`
	BatchID string `gorm:"size:36;index" json:"batch_id"`

	Title   string `gorm:"size:150;not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`

	Read   bool  `gorm:"default:false" json:"read"`
	LeadID *uint `json:"lead_id"`

	CreatedAt time.Time `json:"created_at"`
}
