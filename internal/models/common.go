// internal/models/common.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Enums
type ActorKind string

const (
	ActorSeller ActorKind = "seller"
	ActorBuyer  ActorKind = "buyer"
	ActorAdmin  ActorKind = "admin"
)

// ParseAccountKind accepts the two kinds that own an account table.
func ParseAccountKind(s string) (ActorKind, bool) {
	switch ActorKind(s) {
	case ActorSeller, ActorBuyer:
		return ActorKind(s), true
	}
	return "", false
}

// Table returns the account table backing the kind.
func (k ActorKind) Table() string {
	switch k {
	case ActorSeller:
		return "sellers"
	case ActorBuyer:
		return "buyers"
	}
	return ""
}
