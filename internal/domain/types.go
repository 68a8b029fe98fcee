package domain

import "time"

// Verdict is the overall four-way assessment of a product.
type Verdict string

const (
	VerdictSafe    Verdict = "safe"
	VerdictCaution Verdict = "caution"
	VerdictMixed   Verdict = "mixed"
	VerdictAvoid   Verdict = "avoid"
)

// Valid reports whether v is one of the four known verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictSafe, VerdictCaution, VerdictMixed, VerdictAvoid:
		return true
	default:
		return false
	}
}

type AnalysisResult struct {
	Verdict      Verdict  `json:"verdict" yaml:"verdict"`
	Intent       string   `json:"intent" yaml:"intent"`
	WhatMatters  []string `json:"whatMatters" yaml:"whatMatters"`
	WhyItMatters []string `json:"whyItMatters" yaml:"whyItMatters"`
	Uncertainty  []string `json:"uncertainty" yaml:"uncertainty"`
	BottomLine   string   `json:"bottomLine" yaml:"bottomLine"`
}

// Normalize replaces nil list fields with empty slices so the result never
// encodes a list as null.
func (r *AnalysisResult) Normalize() {
	if r.WhatMatters == nil {
		r.WhatMatters = []string{}
	}
	if r.WhyItMatters == nil {
		r.WhyItMatters = []string{}
	}
	if r.Uncertainty == nil {
		r.Uncertainty = []string{}
	}
}

// Clone returns a deep copy of r.
func (r AnalysisResult) Clone() AnalysisResult {
	r.WhatMatters = append([]string{}, r.WhatMatters...)
	r.WhyItMatters = append([]string{}, r.WhyItMatters...)
	r.Uncertainty = append([]string{}, r.Uncertainty...)
	return r
}

type FollowUpResult struct {
	FollowUpAnswer string `json:"followUpAnswer"`
}

type AnalysisRequest struct {
	Ingredients string          `json:"ingredients"`
	FollowUp    string          `json:"followUp,omitempty"`
	Context     *AnalysisResult `json:"context,omitempty"`
}

// IsFollowUp reports whether the request is a second-turn question.
func (r *AnalysisRequest) IsFollowUp() bool {
	return r.FollowUp != ""
}

type ExtractionRequest struct {
	Image string `json:"image"`
}

// ExtractionResult carries either the extracted ingredient text or a
// user-facing error message, never both.
type ExtractionResult struct {
	Success     bool   `json:"success"`
	Ingredients string `json:"ingredients,omitempty"`
	Error       string `json:"error,omitempty"`
}

func ExtractionOK(ingredients string) ExtractionResult {
	return ExtractionResult{Success: true, Ingredients: ingredients}
}

func ExtractionFailed(msg string) ExtractionResult {
	return ExtractionResult{Success: false, Error: msg}
}

// Kind identifies which endpoint produced an Outcome.
type Kind string

const (
	KindAnalysis   Kind = "analysis"
	KindFollowUp   Kind = "followup"
	KindExtraction Kind = "extraction"
)

// Route records how a request was answered.
type Route string

const (
	RouteDemo     Route = "demo"
	RouteLive     Route = "live"
	RouteFallback Route = "fallback"
	RouteDefault  Route = "default"
	RouteFailed   Route = "failed"
)

// Outcome is an operational record of one handled request. It never holds
// ingredient text or model answers.
type Outcome struct {
	ID         string
	Kind       Kind
	Route      Route
	CatalogKey string
	Verdict    Verdict
	Error      string
	ArchiveKey string
	Duration   time.Duration
	CreatedAt  time.Time
}

// RouteSummary aggregates outcomes sharing a kind and route.
type RouteSummary struct {
	Kind          Kind    `json:"kind"`
	Route         Route   `json:"route"`
	Count         int64   `json:"count"`
	AvgDurationMS float64 `json:"avgDurationMs"`
}
