package dto

import "time"

type QuoteListDTO struct {
	ID     uint    `json:"id"`
	Status string  `json:"status"`
	Total  float64 `json:"total"`

	LeadID     uint   `json:"lead_id"`
	LeadStatus string `json:"lead_status"`

	ClientID     uint   `json:"client_id"`
	BusinessName string `json:"business_name"`

	ItemCount int        `json:"item_count"`
	SentAt    *time.Time `json:"sent_at"`
	CreatedAt time.Time  `json:"created_at"`
}
