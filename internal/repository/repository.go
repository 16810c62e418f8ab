package repository

import (
	"dealpipe/config"
	"dealpipe/pkg/cache"
	"dealpipe/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	DealRepo     DealRepository
	GeminiAIRepo AIRepository
	UnitOfWork   UnitOfWork
}

func NewRepository(cfg *config.Config, analysisCache cache.Cache, db *gorm.DB, log *logger.Logger) *Repository {
	return &Repository{
		DealRepo:     NewDealRepository(db),
		GeminiAIRepo: NewGeminiAIRepository(cfg, analysisCache, log),
		UnitOfWork:   NewUnitOfWork(db),
	}
}
