package http

import (
	"encoding/json"

	"dealpipe/internal/dto"
	"dealpipe/internal/model"
)

func toDealSummary(deal *model.Deal) dto.DealSummary {
	summary := dto.DealSummary{
		ID:          deal.ID.String(),
		Status:      string(deal.Status),
		CompanyName: deal.CompanyName,
		CreatedAt:   deal.CreatedAt,
	}
	if deal.ProcessedAt.Valid {
		summary.ProcessedAt = &deal.ProcessedAt.Time
	}
	return summary
}

func toDealDetail(deal *model.Deal) dto.DealDetail {
	detail := dto.DealDetail{
		ID:                    deal.ID.String(),
		Status:                string(deal.Status),
		CompanyName:           deal.CompanyName,
		Website:               deal.Website,
		Location:              deal.Location,
		TechnologyDescription: deal.TechnologyDescription,
		FundingAsk:            deal.FundingAsk,
		ErrorMessage:          deal.ErrorMessage,
		RetryCount:            deal.RetryCount,
		CreatedAt:             deal.CreatedAt,
		UpdatedAt:             deal.UpdatedAt,
		Founders:              make([]dto.FounderDetail, 0, len(deal.Founders)),
	}
	if deal.ProcessedAt.Valid {
		detail.ProcessedAt = &deal.ProcessedAt.Time
	}

	for _, f := range deal.Founders {
		detail.Founders = append(detail.Founders, dto.FounderDetail{
			Name:        f.Name,
			Title:       f.Title,
			Background:  f.Background,
			LinkedinURL: f.LinkedinURL,
			Order:       f.Order,
		})
	}

	if deal.Assessment != nil {
		view := &dto.AssessmentView{
			TeamStrength:      deal.Assessment.TeamStrength,
			MarketOpportunity: deal.Assessment.MarketOpportunity,
			ProductInnovation: deal.Assessment.ProductInnovation,
			BusinessModel:     deal.Assessment.BusinessModel,
			OverallScore:      deal.Assessment.OverallScore,
			InvestmentThesis:  deal.Assessment.InvestmentThesis,
			Strengths:         []string{},
			Concerns:          []string{},
		}
		_ = json.Unmarshal(deal.Assessment.Strengths, &view.Strengths)
		_ = json.Unmarshal(deal.Assessment.Concerns, &view.Concerns)
		detail.Assessment = view
	}

	return detail
}
