package model

import (
	"time"

	"github.com/google/uuid"
)

// Founder is one founder extracted from a deck, owned by exactly one Deal.
type Founder struct {
	ID          uint      `gorm:"primaryKey"`
	DealID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Title       string    `gorm:"type:varchar(255)"`
	Background  string    `gorm:"type:text"`
	LinkedinURL string    `gorm:"type:varchar(255)"`

	// Order preserves the position in the deck; ties break on ID.
	Order int `gorm:"column:display_order;not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Founder) TableName() string {
	return "founders"
}
