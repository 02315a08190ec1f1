package model

import "time"

// RemoteExecution is a single fill ingested from the exchange's trade
// history. Every execution belongs to a locally persisted RemoteOrder;
// fills whose parent order is unknown are dropped during sync, never
// stored as orphans.
type RemoteExecution struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index:idx_user_exchange_trade,unique" json:"user_id"`

	RemoteOrderID uint `gorm:"not null;index" json:"remote_order_id"`

	ExchangeTradeID string `gorm:"size:64;not null;index:idx_user_exchange_trade,unique" json:"exchange_trade_id"`

	Symbol   string  `gorm:"size:32;not null;index" json:"symbol"`
	Side     string  `gorm:"size:8;not null" json:"side"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	Fee      float64 `json:"fee"`
	FeeAsset string  `gorm:"size:16" json:"fee_asset"`
	IsMaker  bool    `json:"is_maker"`

	ExecutedAt time.Time `gorm:"index" json:"executed_at"`
	CreatedAt  time.Time `json:"created_at"`

	Order *RemoteOrder `gorm:"foreignKey:RemoteOrderID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RemoteExecution) TableName() string {
	return "remote_executions"
}
