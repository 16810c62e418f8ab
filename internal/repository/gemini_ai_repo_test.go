package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"dealpipe/config"
	"dealpipe/internal/dto"
	"dealpipe/pkg/cache"
	"dealpipe/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeminiRepo(t *testing.T) *geminiAIRepository {
	t.Helper()
	cfg := &config.Config{}
	cfg.Gemini.MaxInputChars = 8000
	cfg.Gemini.MaxRequestPerMinute = 15
	cfg.Gemini.Timeout = time.Second
	cfg.Cache.AnalysisTTL = time.Minute

	repo := NewGeminiAIRepository(cfg, cache.NewCache(time.Minute, time.Minute), logger.NewNop())
	return repo.(*geminiAIRepository)
}

func geminiResponse(body string) *dto.GeminiAPIResponse {
	return &dto.GeminiAPIResponse{
		Candidates: []dto.Candidate{
			{Content: dto.Content{Parts: []dto.Part{{Text: body}}}},
		},
	}
}

const validAnalysisBody = `{
	"company_info": {
		"company_name": "Acme Robotics",
		"website": "https://acme.example",
		"location": "Berlin",
		"technology_description": "Warehouse robotics",
		"funding_ask": "$2M seed"
	},
	"founders": [
		{"name": "Ada Lovelace", "title": "CEO", "background": "Ex-Bosch robotics lead", "linkedin_url": ""}
	],
	"assessment_scores": {
		"team_strength": 8,
		"market_opportunity": 7,
		"product_innovation": 9,
		"business_model": 6,
		"overall_score": 7.5
	},
	"analysis": {
		"strengths": ["experienced team"],
		"concerns": ["crowded market"],
		"investment_thesis": "Strong technical moat."
	}
}`

func TestGeminiAIRepository_ParseResponse(t *testing.T) {
	r := newTestGeminiRepo(t)

	t.Run("valid payload", func(t *testing.T) {
		got, failure := r.parseResponse(geminiResponse(validAnalysisBody))
		require.Nil(t, failure)
		assert.True(t, got.OK)
		assert.Equal(t, "Acme Robotics", got.Company.CompanyName)
		assert.Equal(t, 8, got.Scores.TeamStrength)
		assert.Equal(t, 7.5, got.Scores.OverallScore)
		require.Len(t, got.Founders, 1)
		assert.Equal(t, "Ada Lovelace", got.Founders[0].Name)
	})

	t.Run("markdown fenced payload", func(t *testing.T) {
		fenced := "```json\n" + validAnalysisBody + "\n```"
		got, failure := r.parseResponse(geminiResponse(fenced))
		require.Nil(t, failure)
		assert.True(t, got.OK)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, failure := r.parseResponse(&dto.GeminiAPIResponse{})
		require.NotNil(t, failure)
		assert.Equal(t, dto.AnalysisErrorParse, failure.ErrorKind)
	})

	t.Run("not json", func(t *testing.T) {
		_, failure := r.parseResponse(geminiResponse("I cannot analyze this deck."))
		require.NotNil(t, failure)
		assert.Equal(t, dto.AnalysisErrorParse, failure.ErrorKind)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		body := strings.Replace(validAnalysisBody, `"company_info"`, `"surprise": 1, "company_info"`, 1)
		_, failure := r.parseResponse(geminiResponse(body))
		require.NotNil(t, failure)
		assert.Equal(t, dto.AnalysisErrorParse, failure.ErrorKind)
	})

	t.Run("missing required section", func(t *testing.T) {
		body := `{"company_info": {"company_name": "Acme"}, "assessment_scores": {"team_strength": 5}}`
		_, failure := r.parseResponse(geminiResponse(body))
		require.NotNil(t, failure)
		assert.Equal(t, dto.AnalysisErrorParse, failure.ErrorKind)
	})

	t.Run("out of range scores clamped", func(t *testing.T) {
		body := strings.Replace(validAnalysisBody, `"team_strength": 8`, `"team_strength": 12`, 1)
		body = strings.Replace(body, `"business_model": 6`, `"business_model": 0`, 1)
		body = strings.Replace(body, `"overall_score": 7.5`, `"overall_score": 11.2`, 1)
		got, failure := r.parseResponse(geminiResponse(body))
		require.Nil(t, failure)
		assert.Equal(t, 10, got.Scores.TeamStrength)
		assert.Equal(t, 1, got.Scores.BusinessModel)
		assert.Equal(t, 10.0, got.Scores.OverallScore)
	})

	t.Run("missing scores default to midpoint", func(t *testing.T) {
		body := strings.Replace(validAnalysisBody,
			`"team_strength": 8,
		"market_opportunity": 7,
		"product_innovation": 9,
		"business_model": 6,
		"overall_score": 7.5`,
			`"team_strength": 8`, 1)
		got, failure := r.parseResponse(geminiResponse(body))
		require.Nil(t, failure)
		assert.Equal(t, 8, got.Scores.TeamStrength)
		assert.Equal(t, 5, got.Scores.MarketOpportunity)
		assert.Equal(t, 5, got.Scores.BusinessModel)
		assert.Equal(t, 5.0, got.Scores.OverallScore)
	})
}

func TestGeminiAIRepository_AnalyzeDeckFailureKinds(t *testing.T) {
	r := newTestGeminiRepo(t)

	t.Run("empty input", func(t *testing.T) {
		got := r.AnalyzeDeck(context.Background(), "   \n\t ")
		assert.False(t, got.OK)
		assert.Equal(t, dto.AnalysisErrorEmptyInput, got.ErrorKind)
	})

	t.Run("missing api key reports configuration failure", func(t *testing.T) {
		got := r.AnalyzeDeck(context.Background(), "Acme Robotics pitch deck")
		assert.False(t, got.OK)
		assert.Equal(t, dto.AnalysisErrorConfig, got.ErrorKind)
	})
}

func TestGeminiAIRepository_AnalyzeDeckUsesCache(t *testing.T) {
	r := newTestGeminiRepo(t)

	text := "Acme Robotics pitch deck"
	cached := &dto.DeckAnalysis{OK: true, Company: dto.CompanyInfo{CompanyName: "Acme Robotics"}}
	key := analysisCacheKey(truncateRunes(text, r.cfg.Gemini.MaxInputChars))
	r.analysisCache.Set(key, cached, time.Minute)

	// No client is configured, so a cache miss would fail with a
	// configuration error instead of returning the cached result.
	got := r.AnalyzeDeck(context.Background(), text)
	require.True(t, got.OK)
	assert.Equal(t, "Acme Robotics", got.Company.CompanyName)
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "under limit", in: "abc", limit: 10, want: "abc"},
		{name: "over limit", in: "abcdef", limit: 3, want: "abc"},
		{name: "zero limit disables truncation", in: "abcdef", limit: 0, want: "abcdef"},
		{name: "multibyte safe", in: "héllo wörld", limit: 4, want: "héll"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateRunes(tt.in, tt.limit))
		})
	}
}
