package models

import "time"

type Quote struct {
	ID uint `gorm:"primaryKey" json:"id"`

	LeadID uint `gorm:"index;not null" json:"lead_id"`
	Lead   Lead `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"lead"`

	ClientID uint `gorm:"index;not null" json:"client_id"`

	Status string `gorm:"size:20;default:'draft'" json:"status"`

	Items []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE;" json:"items"`

	Total float64 `json:"total"`

	SentAt *time.Time `json:"sent_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type QuoteItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	QuoteID uint `gorm:"index;not null" json:"quote_id"`

	// Items keep their insertion order; listings sort on Position.
	Position int `json:"position"`

	Description string  `gorm:"size:255;not null" json:"description"`
	Quantity    float64 `gorm:"default:1" json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}
