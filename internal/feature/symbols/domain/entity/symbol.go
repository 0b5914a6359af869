// Package entity defines the domain models for the symbols feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Symbol is a tradable instrument whose price can be streamed once it is public.
type Symbol struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Public bool   `gorm:"not null;default:false" json:"public"`
	// Price is the reference price ticks are simulated around.
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	CreatedAt time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
