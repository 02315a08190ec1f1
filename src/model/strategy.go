package model

import "time"

const (
	StrategyKindDCA       = "dca"
	StrategyKindBollinger = "bollinger"
	StrategyKindMACross   = "ma_cross"
)

// Strategy is a stored trading-strategy configuration. These are plain
// records edited through the API; no execution engine consumes them.
type Strategy struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Kind      string         `gorm:"size:30;not null" json:"kind"`
	Symbol    string         `gorm:"size:32;not null" json:"symbol"`
	Config    map[string]any `gorm:"serializer:json" json:"config,omitempty"`
	Active    bool           `gorm:"not null;default:false" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Strategy) TableName() string {
	return "strategies"
}
