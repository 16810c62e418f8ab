package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dealpipe/internal/dto"
	"dealpipe/internal/model"
	"dealpipe/internal/repository"
	"dealpipe/pkg/logger"
	"dealpipe/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ResultPersister maps a typed analysis result onto the deal's durable
// record inside one atomic unit of work.
type ResultPersister interface {
	Persist(ctx context.Context, dealID uuid.UUID, analysis *dto.DeckAnalysis) error
}

type resultPersister struct {
	log      *logger.Logger
	dealRepo repository.DealRepository
	uow      repository.UnitOfWork
}

func NewResultPersister(log *logger.Logger, dealRepo repository.DealRepository, uow repository.UnitOfWork) ResultPersister {
	return &resultPersister{
		log:      log,
		dealRepo: dealRepo,
		uow:      uow,
	}
}

// Persist commits all result mutations or none of them. A failed analysis
// only marks the deal failed; founders and assessment stay untouched.
func (p *resultPersister) Persist(ctx context.Context, dealID uuid.UUID, analysis *dto.DeckAnalysis) error {
	now := time.Now().UTC()

	if !analysis.OK {
		message := analysis.Error
		if message == "" {
			message = "analysis failed"
		}
		return p.dealRepo.UpdateColumns(ctx, dealID, map[string]interface{}{
			"status":        model.StatusFailed,
			"error_message": message,
			"processed_at":  now,
		})
	}

	strengths, err := json.Marshal(emptyIfNil(analysis.Strengths))
	if err != nil {
		return fmt.Errorf("failed to encode strengths: %w", err)
	}
	concerns, err := json.Marshal(emptyIfNil(analysis.Concerns))
	if err != nil {
		return fmt.Errorf("failed to encode concerns: %w", err)
	}

	founders := make([]model.Founder, 0, len(analysis.Founders))
	for idx, f := range analysis.Founders {
		if f.Name == "" {
			continue
		}
		founders = append(founders, model.Founder{
			DealID:      dealID,
			Name:        f.Name,
			Title:       f.Title,
			Background:  f.Background,
			LinkedinURL: f.LinkedinURL,
			Order:       idx,
		})
	}

	assessment := &model.Assessment{
		DealID:            dealID,
		TeamStrength:      dto.ClampScore(analysis.Scores.TeamStrength),
		MarketOpportunity: dto.ClampScore(analysis.Scores.MarketOpportunity),
		ProductInnovation: dto.ClampScore(analysis.Scores.ProductInnovation),
		BusinessModel:     dto.ClampScore(analysis.Scores.BusinessModel),
		OverallScore:      dto.ClampOverall(analysis.Scores.OverallScore),
		Strengths:         datatypes.JSON(strengths),
		Concerns:          datatypes.JSON(concerns),
		InvestmentThesis:  analysis.InvestmentThesis,
	}

	err = p.uow.Run(func(opts ...utils.DBOption) error {
		if err := p.dealRepo.UpdateColumns(ctx, dealID, map[string]interface{}{
			"company_name":           analysis.Company.CompanyName,
			"website":                analysis.Company.Website,
			"location":               analysis.Company.Location,
			"technology_description": analysis.Company.TechnologyDescription,
			"funding_ask":            analysis.Company.FundingAsk,
			"status":                 model.StatusCompleted,
			"error_message":          "",
			"processed_at":           now,
		}, opts...); err != nil {
			return fmt.Errorf("failed to update deal: %w", err)
		}

		if err := p.dealRepo.ReplaceFounders(ctx, dealID, founders, opts...); err != nil {
			return fmt.Errorf("failed to replace founders: %w", err)
		}

		if err := p.dealRepo.UpsertAssessment(ctx, assessment, opts...); err != nil {
			return fmt.Errorf("failed to upsert assessment: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	p.log.InfoContext(ctx, "Saved analysis results",
		logger.StringField("deal_id", dealID.String()),
		logger.StringField("company_name", analysis.Company.CompanyName),
	)
	return nil
}

func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
