package models

import "time"

// Client is a managed business account. Every client is backed by exactly
// one login (UserID is unique); deleting the client removes that login too.
type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	BusinessName string `gorm:"size:100;not null" json:"business_name"`
	ContactName  string `gorm:"size:100" json:"contact_name"`
	Phone        string `gorm:"size:20" json:"phone"`
	Email        string `gorm:"size:100" json:"email"`

	QuoteWebhookURL string `gorm:"size:255" json:"quote_webhook_url"`
	Timezone        string `gorm:"size:50" json:"timezone"`

	// Commission terms: fixed monthly fee plus a percentage of profit.
	CommissionFee float64 `json:"commission_fee"`
	ProfitPercent float64 `json:"profit_percent"`

	Services []Service `gorm:"foreignKey:ClientID" json:"services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
