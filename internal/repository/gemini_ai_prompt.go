package repository

import "strings"

func (r *geminiAIRepository) promptAnalyzeDeck(deckText string) string {
	var sb strings.Builder

	sb.WriteString("You are a senior venture capital analyst. Analyze this pitch deck text and provide a comprehensive investment assessment.\n\n")

	sb.WriteString("PITCH DECK TEXT:\n")
	sb.WriteString(deckText)
	sb.WriteString("\n\n")

	sb.WriteString(`Provide your analysis in the following JSON format:

{
  "company_info": {
    "company_name": "extracted company name or 'Unknown'",
    "website": "company website if mentioned or ''",
    "location": "company location if mentioned or ''",
    "technology_description": "brief description of the technology/product",
    "funding_ask": "funding amount requested or ''"
  },
  "founders": [
    {
      "name": "founder name",
      "title": "founder title/role",
      "background": "relevant background/experience",
      "linkedin_url": "linkedin URL if mentioned or ''"
    }
  ],
  "assessment_scores": {
    "team_strength": 7,
    "market_opportunity": 8,
    "product_innovation": 6,
    "business_model": 7,
    "overall_score": 7.0
  },
  "analysis": {
    "strengths": ["strength 1", "strength 2", "strength 3"],
    "concerns": ["concern 1", "concern 2", "concern 3"],
    "investment_thesis": "2-3 paragraph investment thesis explaining the opportunity, risks, and recommendation"
  }
}

SCORING CRITERIA (1-10 scale):
- team_strength: quality and experience of the founding team
- market_opportunity: size and growth potential of the target market
- product_innovation: technical differentiation and uniqueness
- business_model: revenue viability and scalability
- overall_score: weighted average considering all factors

Respond only with valid JSON, no additional text.
`)

	return sb.String()
}
