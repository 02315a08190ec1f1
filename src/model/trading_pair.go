package model

import "time"

// TradingPair is a user-configured symbol the dashboard tracks. Active
// pairs drive which symbols trade-history sync fetches.
type TradingPair struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_user_pair,unique" json:"user_id"`
	Symbol    string    `gorm:"size:32;not null;index:idx_user_pair,unique" json:"symbol"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TradingPair) TableName() string {
	return "trading_pairs"
}
