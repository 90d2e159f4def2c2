package models

import "time"

const (
	RevenueStatusUnpaid        = "unpaid"
	RevenueStatusPartiallyPaid = "partially_paid"
	RevenueStatusPaid          = "paid"
)

// MwsMonthlyRevenue holds the computed commission for one client and one
// calendar month. Month is always the first day of the month; the
// (client_id, month) pair is unique so recomputes upsert in place.
type MwsMonthlyRevenue struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint      `gorm:"uniqueIndex:idx_mws_client_month;not null" json:"client_id"`
	Month    time.Time `gorm:"uniqueIndex:idx_mws_client_month;not null" json:"month"`

	RevenueAmount float64 `json:"revenue_amount"`
	PaidAmount    float64 `json:"paid_amount"`
	Status        string  `gorm:"size:20;default:'unpaid'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
