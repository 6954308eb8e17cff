package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fine is a charge issued against a member by staff.
type Fine struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"user_id" gorm:"not null;index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Reason    string          `json:"reason" gorm:"size:255"`
	IssuedBy  string          `json:"issued_by" gorm:"size:80;not null"`
	Paid      bool            `json:"paid" gorm:"not null;index"`
	CreatedAt time.Time       `json:"created_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
