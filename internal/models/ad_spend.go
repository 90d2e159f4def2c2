package models

import "time"

// AdSpend is an advertising expense netted against won-lead revenue.
type AdSpend struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClientID uint `gorm:"index;not null" json:"client_id"`

	Amount    float64   `json:"amount"`
	SpendDate time.Time `gorm:"index" json:"spend_date"`
	Note      string    `gorm:"size:255" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
