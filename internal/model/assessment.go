package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Assessment holds the investment scores for a Deal, at most one per Deal.
type Assessment struct {
	ID     uint      `gorm:"primaryKey"`
	DealID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	// Sub-scores on a 1-10 scale.
	TeamStrength      int `gorm:"not null"`
	MarketOpportunity int `gorm:"not null"`
	ProductInnovation int `gorm:"not null"`
	BusinessModel     int `gorm:"not null"`

	OverallScore float64 `gorm:"not null"`

	Strengths        datatypes.JSON `gorm:"type:jsonb"`
	Concerns         datatypes.JSON `gorm:"type:jsonb"`
	InvestmentThesis string         `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Assessment) TableName() string {
	return "assessments"
}
