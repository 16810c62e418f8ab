package dto

// Stage localizes where a pipeline run failed.
type Stage string

const (
	StageInitialization  Stage = "initialization"
	StageExtraction      Stage = "extraction"
	StageAnalysis        Stage = "analysis"
	StageSaving          Stage = "saving"
	StageUnexpectedError Stage = "unexpected_error"
)

// AnalysisErrorKind distinguishes the failure classes of the analysis client.
type AnalysisErrorKind string

const (
	AnalysisErrorNone       AnalysisErrorKind = ""
	AnalysisErrorEmptyInput AnalysisErrorKind = "empty_input"
	AnalysisErrorConfig     AnalysisErrorKind = "configuration"
	AnalysisErrorTransport  AnalysisErrorKind = "transport"
	AnalysisErrorParse      AnalysisErrorKind = "parse"
)

const (
	// ScoreMin and ScoreMax bound every assessment score.
	ScoreMin = 1
	ScoreMax = 10

	// ScoreDefault is used when the model omits a score.
	ScoreDefault = 5
)

// ClampScore bounds a sub-score to the 1-10 scale.
func ClampScore(v int) int {
	if v < ScoreMin {
		return ScoreMin
	}
	if v > ScoreMax {
		return ScoreMax
	}
	return v
}

// ClampOverall bounds the overall score to the 1.0-10.0 scale.
func ClampOverall(v float64) float64 {
	if v < float64(ScoreMin) {
		return float64(ScoreMin)
	}
	if v > float64(ScoreMax) {
		return float64(ScoreMax)
	}
	return v
}
