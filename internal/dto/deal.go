package dto

import "time"

// DealSummary is the list-view projection of a deal.
type DealSummary struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	CompanyName string     `json:"company_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// DealDetail is the full projection including founders and assessment.
type DealDetail struct {
	ID                    string           `json:"id"`
	Status                string           `json:"status"`
	CompanyName           string           `json:"company_name,omitempty"`
	Website               string           `json:"website,omitempty"`
	Location              string           `json:"location,omitempty"`
	TechnologyDescription string           `json:"technology_description,omitempty"`
	FundingAsk            string           `json:"funding_ask,omitempty"`
	ErrorMessage          string           `json:"error_message,omitempty"`
	RetryCount            int              `json:"retry_count"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
	ProcessedAt           *time.Time       `json:"processed_at,omitempty"`
	Founders              []FounderDetail  `json:"founders"`
	Assessment            *AssessmentView  `json:"assessment,omitempty"`
}

type FounderDetail struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Background  string `json:"background,omitempty"`
	LinkedinURL string `json:"linkedin_url,omitempty"`
	Order       int    `json:"order"`
}

type AssessmentView struct {
	TeamStrength      int      `json:"team_strength"`
	MarketOpportunity int      `json:"market_opportunity"`
	ProductInnovation int      `json:"product_innovation"`
	BusinessModel     int      `json:"business_model"`
	OverallScore      float64  `json:"overall_score"`
	Strengths         []string `json:"strengths"`
	Concerns          []string `json:"concerns"`
	InvestmentThesis  string   `json:"investment_thesis,omitempty"`
}

// DealStatusResponse backs the lightweight status polling endpoint.
type DealStatusResponse struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	CompanyName  string     `json:"company_name,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
}

// UploadDealResponse is returned after a successful upload.
type UploadDealResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
