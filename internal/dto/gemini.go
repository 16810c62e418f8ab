package dto

type GeminiAPIRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type GenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type GeminiAPIResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is a candidate response from the Gemini API.
type Candidate struct {
	Content Content `json:"content"`
}

type Content struct {
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

// DeckAnalysisPayload is the strict shape the model must return. The four
// top-level sections are all required; anything else fails the parse.
type DeckAnalysisPayload struct {
	CompanyInfo *CompanyInfo         `json:"company_info"`
	Founders    []FounderInfo        `json:"founders"`
	Scores      *ScoresPayload       `json:"assessment_scores"`
	Analysis    *DeckAnalysisDetails `json:"analysis"`
}

// ScoresPayload uses pointers so a missing score (defaults to the scale
// midpoint) can be told apart from an out-of-range one (clamped to the
// nearest bound).
type ScoresPayload struct {
	TeamStrength      *int     `json:"team_strength"`
	MarketOpportunity *int     `json:"market_opportunity"`
	ProductInnovation *int     `json:"product_innovation"`
	BusinessModel     *int     `json:"business_model"`
	OverallScore      *float64 `json:"overall_score"`
}

type DeckAnalysisDetails struct {
	Strengths        []string `json:"strengths"`
	Concerns         []string `json:"concerns"`
	InvestmentThesis string   `json:"investment_thesis"`
}
