package models

import (
	"time"

	"gorm.io/gorm"
)

// Player is the persisted record of a registered player. Accounts are created
// elsewhere; this service only reads names and bumps the victory counter.
type Player struct {
	ID        string         `json:"id" gorm:"primaryKey;size:64"`
	Name      string         `json:"name" gorm:"not null"`
	Victories int            `json:"victories" gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
