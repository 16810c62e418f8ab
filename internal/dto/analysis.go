package dto

// ExtractionResult is the outcome of turning a stored deck into plain text.
type ExtractionResult struct {
	Text      string
	PageCount int
	OK        bool
	Error     string
}

type CompanyInfo struct {
	CompanyName           string `json:"company_name"`
	Website               string `json:"website"`
	Location              string `json:"location"`
	TechnologyDescription string `json:"technology_description"`
	FundingAsk            string `json:"funding_ask"`
}

type FounderInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Background  string `json:"background"`
	LinkedinURL string `json:"linkedin_url"`
}

type AssessmentScores struct {
	TeamStrength      int     `json:"team_strength"`
	MarketOpportunity int     `json:"market_opportunity"`
	ProductInnovation int     `json:"product_innovation"`
	BusinessModel     int     `json:"business_model"`
	OverallScore      float64 `json:"overall_score"`
}

// DeckAnalysis is the typed result of one analysis call. OK=false carries a
// human-readable Error plus the kind that produced it; the pipeline treats
// all kinds as expected business failures.
type DeckAnalysis struct {
	OK        bool
	Error     string
	ErrorKind AnalysisErrorKind

	Company          CompanyInfo
	Founders         []FounderInfo
	Scores           AssessmentScores
	Strengths        []string
	Concerns         []string
	InvestmentThesis string
}

// AnalysisFailure builds a failed DeckAnalysis of the given kind.
func AnalysisFailure(kind AnalysisErrorKind, message string) *DeckAnalysis {
	return &DeckAnalysis{
		OK:        false,
		Error:     message,
		ErrorKind: kind,
	}
}

// PipelineResult reports the outcome of one orchestrator run.
type PipelineResult struct {
	Success bool   `json:"success"`
	DealID  string `json:"deal_id"`
	Stage   Stage  `json:"stage,omitempty"`
	Error   string `json:"error,omitempty"`
}
