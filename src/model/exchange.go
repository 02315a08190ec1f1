package model

import "time"

const (
	ExchangeVariantGlobal = "binance"
	ExchangeVariantUS     = "binance_us"
)

// Exchange is one supported exchange variant. The variant decides the
// REST base URL the connector signs against.
type Exchange struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Variant   string    `gorm:"size:30;not null;uniqueIndex" json:"variant"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Exchange) TableName() string {
	return "exchanges"
}
