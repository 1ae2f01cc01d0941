package models

import (
	"time"

	"gorm.io/gorm"
)

type Word struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Text       string         `json:"text" gorm:"not null;uniqueIndex:idx_word_category"`
	Category   string         `json:"category" gorm:"not null;index;uniqueIndex:idx_word_category"`
	Difficulty string         `json:"difficulty" gorm:"not null;default:'facil'"`
	Hint       string         `json:"hint"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}
