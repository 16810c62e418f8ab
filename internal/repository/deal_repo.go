package repository

import (
	"context"
	"time"

	"dealpipe/internal/model"
	"dealpipe/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DealRepository interface {
	Create(ctx context.Context, deal *model.Deal, opts ...utils.DBOption) error
	GetByID(ctx context.Context, id uuid.UUID, opts ...utils.DBOption) (*model.Deal, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*model.Deal, error)
	List(ctx context.Context, opts ...utils.DBOption) ([]model.Deal, error)
	UpdateColumns(ctx context.Context, id uuid.UUID, values map[string]interface{}, opts ...utils.DBOption) error
	ReplaceFounders(ctx context.Context, dealID uuid.UUID, founders []model.Founder, opts ...utils.DBOption) error
	UpsertAssessment(ctx context.Context, assessment *model.Assessment, opts ...utils.DBOption) error
	FindStuck(ctx context.Context, status model.DealStatus, olderThan time.Time, opts ...utils.DBOption) ([]model.Deal, error)
}

type dealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) DealRepository {
	return &dealRepository{db: db}
}

func (r *dealRepository) Create(ctx context.Context, deal *model.Deal, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(deal).Error
}

func (r *dealRepository) GetByID(ctx context.Context, id uuid.UUID, opts ...utils.DBOption) (*model.Deal, error) {
	var deal model.Deal
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("id = ?", id).
		First(&deal).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

// GetDetail loads the deal with its founders (in deck order) and assessment.
func (r *dealRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.Deal, error) {
	var deal model.Deal
	err := r.db.WithContext(ctx).
		Preload("Founders", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, id ASC")
		}).
		Preload("Assessment").
		Where("id = ?", id).
		First(&deal).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *dealRepository) List(ctx context.Context, opts ...utils.DBOption) ([]model.Deal, error) {
	var deals []model.Deal
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Order("created_at DESC").
		Find(&deals).Error
	if err != nil {
		return nil, err
	}
	return deals, nil
}

// UpdateColumns writes the given columns only. A column map is used instead
// of a struct update so zero values (cleared error message, reset status)
// are not dropped by gorm.
func (r *dealRepository) UpdateColumns(ctx context.Context, id uuid.UUID, values map[string]interface{}, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.Deal{}).
		Where("id = ?", id).
		Updates(values).Error
}

// ReplaceFounders swaps the full founder set of a deal. Callers that need
// atomicity must run this inside a unit of work.
func (r *dealRepository) ReplaceFounders(ctx context.Context, dealID uuid.UUID, founders []model.Founder, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	if err := db.Where("deal_id = ?", dealID).Delete(&model.Founder{}).Error; err != nil {
		return err
	}
	if len(founders) == 0 {
		return nil
	}
	for i := range founders {
		founders[i].DealID = dealID
	}
	return db.Create(&founders).Error
}

// UpsertAssessment creates or replaces the single assessment of a deal.
func (r *dealRepository) UpsertAssessment(ctx context.Context, assessment *model.Assessment, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "deal_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"team_strength",
				"market_opportunity",
				"product_innovation",
				"business_model",
				"overall_score",
				"strengths",
				"concerns",
				"investment_thesis",
				"updated_at",
			}),
		}).
		Create(assessment).Error
}

// FindStuck returns deals resting in the given status since before olderThan.
func (r *dealRepository) FindStuck(ctx context.Context, status model.DealStatus, olderThan time.Time, opts ...utils.DBOption) ([]model.Deal, error) {
	var deals []model.Deal
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("status = ? AND updated_at < ?", status, olderThan).
		Order("updated_at ASC").
		Find(&deals).Error
	if err != nil {
		return nil, err
	}
	return deals, nil
}
