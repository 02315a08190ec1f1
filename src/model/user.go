package model

import "time"

// User owns credentials, trading pairs and strategies. Session handling
// lives upstream; the API only needs the owner identity and a token hash
// for the bearer middleware.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	APITokenHash string    `gorm:"column:api_token_hash;type:text" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
