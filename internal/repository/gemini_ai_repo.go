package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dealpipe/config"
	"dealpipe/internal/dto"
	"dealpipe/pkg/cache"
	"dealpipe/pkg/httpclient"
	"dealpipe/pkg/logger"
	"dealpipe/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// AIRepository sends extracted deck text to the analysis model and returns a
// typed result. Every failure is reported inside DeckAnalysis, never as a Go
// error, so callers can treat all of them as expected business failures.
type AIRepository interface {
	AnalyzeDeck(ctx context.Context, text string) *dto.DeckAnalysis
}

type geminiAIRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     httpclient.HTTPClient
	analysisCache  cache.Cache
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates the analysis client. A missing API key is
// detected here and remembered: the repository stays constructible, but every
// call reports a configuration failure instead of reaching the network.
func NewGeminiAIRepository(cfg *config.Config, analysisCache cache.Cache, log *logger.Logger) AIRepository {
	secondsPerRequest := time.Minute / time.Duration(max(cfg.Gemini.MaxRequestPerMinute, 1))
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	var genAiClient *genai.Client
	if cfg.Gemini.APIKey == "" {
		log.Warn("GEMINI_API_KEY not set, analysis will be unavailable")
	} else {
		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			log.Error("Failed to create gemini client", logger.ErrorField(err))
		} else {
			genAiClient = client
		}
	}

	return &geminiAIRepository{
		cfg:            cfg,
		log:            log,
		httpClient:     httpclient.New(cfg.Gemini.BaseURL, cfg.Gemini.Timeout, ""),
		analysisCache:  analysisCache,
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.Gemini.MaxRequestPerMinute * 8000),
		requestLimiter: requestLimiter,
		genAiClient:    genAiClient,
	}
}

func (r *geminiAIRepository) AnalyzeDeck(ctx context.Context, text string) *dto.DeckAnalysis {
	if strings.TrimSpace(text) == "" {
		return dto.AnalysisFailure(dto.AnalysisErrorEmptyInput, "no valid text extracted from deck for analysis")
	}

	// Truncated silently, the prompt has a fixed input ceiling.
	text = truncateRunes(text, r.cfg.Gemini.MaxInputChars)

	cacheKey := analysisCacheKey(text)
	if cached, ok := cache.GetTyped[*dto.DeckAnalysis](r.analysisCache, cacheKey); ok {
		r.log.DebugContext(ctx, "Analysis cache hit", logger.StringField("key", cacheKey))
		return cached
	}

	if r.genAiClient == nil {
		return dto.AnalysisFailure(dto.AnalysisErrorConfig, "analysis client not available - check API key configuration")
	}

	prompt := r.promptAnalyzeDeck(text)

	response, failure := r.sendRequest(ctx, prompt)
	if failure != nil {
		return failure
	}

	result, failure := r.parseResponse(response)
	if failure != nil {
		return failure
	}

	r.analysisCache.Set(cacheKey, result, r.cfg.Cache.AnalysisTTL)
	return result
}

func (r *geminiAIRepository) sendRequest(ctx context.Context, prompt string) (*dto.GeminiAPIResponse, *dto.DeckAnalysis) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	tokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.BaseModel, contents, nil)
	if err != nil {
		return nil, dto.AnalysisFailure(dto.AnalysisErrorTransport, fmt.Sprintf("failed to count tokens: %v", err))
	}

	if err := r.tokenLimiter.Wait(ctx, int(tokenResp.TotalTokens)); err != nil {
		return nil, dto.AnalysisFailure(dto.AnalysisErrorTransport, fmt.Sprintf("token limit wait aborted: %v", err))
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, dto.AnalysisFailure(dto.AnalysisErrorTransport, fmt.Sprintf("request limit wait aborted: %v", err))
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
		GenerationConfig: &dto.GenerationConfig{
			Temperature:      0.3,
			ResponseMimeType: "application/json",
		},
	}

	apiURL := fmt.Sprintf("/%s:generateContent?key=%s", r.cfg.Gemini.BaseModel, r.cfg.Gemini.APIKey)

	callCtx, cancel := context.WithTimeout(ctx, r.cfg.Gemini.Timeout)
	defer cancel()

	apiResponse := dto.GeminiAPIResponse{}
	resp, err := r.httpClient.Post(callCtx, apiURL, payload, nil, &apiResponse)
	if err != nil {
		return nil, dto.AnalysisFailure(dto.AnalysisErrorTransport, fmt.Sprintf("analysis request failed: %v", err))
	}
	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Analysis service returned non-OK status", logger.IntField("status_code", resp.StatusCode))
		return nil, dto.AnalysisFailure(dto.AnalysisErrorTransport, fmt.Sprintf("analysis service returned status %d", resp.StatusCode))
	}

	return &apiResponse, nil
}

// parseResponse enforces the strict response schema and resolves scores.
func (r *geminiAIRepository) parseResponse(response *dto.GeminiAPIResponse) (*dto.DeckAnalysis, *dto.DeckAnalysis) {
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return nil, dto.AnalysisFailure(dto.AnalysisErrorParse, "invalid analysis response: no content found")
	}

	jsonString := response.Candidates[0].Content.Parts[0].Text
	jsonString = strings.TrimSpace(strings.Trim(jsonString, "`json\n`"))

	var payload dto.DeckAnalysisPayload
	decoder := json.NewDecoder(strings.NewReader(jsonString))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return nil, dto.AnalysisFailure(dto.AnalysisErrorParse, fmt.Sprintf("failed to parse analysis response: %v", err))
	}

	if payload.CompanyInfo == nil || payload.Scores == nil || payload.Analysis == nil {
		return nil, dto.AnalysisFailure(dto.AnalysisErrorParse, "analysis response missing required sections")
	}

	result := &dto.DeckAnalysis{
		OK:       true,
		Company:  *payload.CompanyInfo,
		Founders: payload.Founders,
		Scores: dto.AssessmentScores{
			TeamStrength:      resolveScore(payload.Scores.TeamStrength),
			MarketOpportunity: resolveScore(payload.Scores.MarketOpportunity),
			ProductInnovation: resolveScore(payload.Scores.ProductInnovation),
			BusinessModel:     resolveScore(payload.Scores.BusinessModel),
			OverallScore:      resolveOverall(payload.Scores.OverallScore),
		},
		Strengths:        payload.Analysis.Strengths,
		Concerns:         payload.Analysis.Concerns,
		InvestmentThesis: payload.Analysis.InvestmentThesis,
	}
	return result, nil
}

// resolveScore defaults a missing sub-score to the scale midpoint and clamps
// an out-of-range one to the nearest bound.
func resolveScore(v *int) int {
	if v == nil {
		return dto.ScoreDefault
	}
	return dto.ClampScore(*v)
}

func resolveOverall(v *float64) float64 {
	if v == nil {
		return float64(dto.ScoreDefault)
	}
	return dto.ClampOverall(*v)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func analysisCacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "deck_analysis:" + hex.EncodeToString(sum[:])
}
