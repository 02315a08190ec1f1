package model

import "time"

// Capabilities are the scopes a credential was observed to hold on the
// exchange. They are set by the validation probe or an explicit edit,
// never by background sync.
type Capabilities struct {
	Spot     bool `json:"spot"`
	Margin   bool `json:"margin"`
	Futures  bool `json:"futures"`
	Withdraw bool `json:"withdraw"`
}

// Credential stores one user's API key pair for one exchange, encrypted
// at rest. One row per (user, exchange).
type Credential struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index:idx_user_exchange_cred,unique" json:"user_id"`

	ExchangeID uint `gorm:"not null;index:idx_user_exchange_cred,unique" json:"exchange_id"`

	Label              string `gorm:"size:100" json:"label"`
	EncryptedAPIKey    string `gorm:"column:api_key;type:text;not null" json:"-"`
	EncryptedAPISecret string `gorm:"column:api_secret;type:text;not null" json:"-"`

	CanSpot     bool `gorm:"not null;default:false" json:"can_spot"`
	CanMargin   bool `gorm:"not null;default:false" json:"can_margin"`
	CanFutures  bool `gorm:"not null;default:false" json:"can_futures"`
	CanWithdraw bool `gorm:"not null;default:false" json:"can_withdraw"`

	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Exchange *Exchange `gorm:"constraint:OnDelete:CASCADE" json:"exchange,omitempty"`
}

func (Credential) TableName() string {
	return "credentials"
}

func (c *Credential) Capabilities() Capabilities {
	return Capabilities{
		Spot:     c.CanSpot,
		Margin:   c.CanMargin,
		Futures:  c.CanFutures,
		Withdraw: c.CanWithdraw,
	}
}

func (c *Credential) SetCapabilities(caps Capabilities) {
	c.CanSpot = caps.Spot
	c.CanMargin = caps.Margin
	c.CanFutures = caps.Futures
	c.CanWithdraw = caps.Withdraw
}

// DecryptedCredential is the in-memory view handed to the connector.
// It never touches the database.
type DecryptedCredential struct {
	ID           uint
	UserID       uint
	APIKey       string
	APISecret    string
	Variant      string
	Capabilities Capabilities
}
