package model

import "time"

// RemoteOrder is an order ingested from the exchange's order history.
// The exchange is the system of record; rows here are a local ledger keyed
// by the exchange order id. Identity fields are immutable after insert;
// only Status and FilledQty may be refreshed by a later sync pass.
type RemoteOrder struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index:idx_user_exchange_order,unique" json:"user_id"`

	ExchangeOrderID string `gorm:"size:64;not null;index:idx_user_exchange_order,unique" json:"exchange_order_id"`

	Symbol             string  `gorm:"size:32;not null;index" json:"symbol"`
	Side               string  `gorm:"size:8;not null" json:"side"`
	OrderType          string  `gorm:"size:24;not null" json:"order_type"`
	Status             string  `gorm:"size:24;not null" json:"status"`
	Price              float64 `json:"price"`
	OrigQty            float64 `json:"orig_qty"`
	FilledQty          float64 `json:"filled_qty"`
	CumulativeQuoteQty float64 `json:"cumulative_quote_qty"`
	TimeInForce        string  `gorm:"size:8" json:"time_in_force"`
	StopPrice          float64 `json:"stop_price"`

	PlacedAt  time.Time `gorm:"index" json:"placed_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Executions []RemoteExecution `gorm:"foreignKey:RemoteOrderID" json:"executions,omitempty"`
}

func (RemoteOrder) TableName() string {
	return "remote_orders"
}
