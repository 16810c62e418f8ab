package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DealStatus string

const (
	StatusPending    DealStatus = "pending"
	StatusUploaded   DealStatus = "uploaded"
	StatusProcessing DealStatus = "processing"
	StatusCompleted  DealStatus = "completed"
	StatusFailed     DealStatus = "failed"
)

// Deal represents one submitted pitch deck and its analysis outcome.
type Deal struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Status DealStatus `gorm:"type:varchar(20);not null;default:'pending';index"`

	// Object key of the uploaded deck in the document store.
	PitchDeckKey string `gorm:"type:varchar(512)"`

	// Company fields extracted by a successful analysis run. Overwritten,
	// never appended, on each run.
	CompanyName           string `gorm:"type:varchar(255)"`
	Website               string `gorm:"type:varchar(255)"`
	Location              string `gorm:"type:varchar(255)"`
	TechnologyDescription string `gorm:"type:text"`
	FundingAsk            string `gorm:"type:varchar(100)"`

	ErrorMessage string `gorm:"type:text"`
	RetryCount   int    `gorm:"not null;default:0"`

	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
	ProcessedAt sql.NullTime

	Founders   []Founder   `gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE"`
	Assessment *Assessment `gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE"`
}

func (Deal) TableName() string {
	return "deals"
}

func (d *Deal) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Terminal reports whether the deal reached a resting outcome.
func (d *Deal) Terminal() bool {
	return d.Status == StatusCompleted || d.Status == StatusFailed
}
