package model

import "strings"

type FitCategory string

const (
	FitStrong FitCategory = "Strong"
	FitMedium FitCategory = "Medium"
	FitLow    FitCategory = "Low"
)

func (c FitCategory) Valid() bool {
	return c == FitStrong || c == FitMedium || c == FitLow
}

func FitCategories() []FitCategory {
	return []FitCategory{FitStrong, FitMedium, FitLow}
}

func ParseFitCategory(s string) (FitCategory, bool) {
	for _, c := range FitCategories() {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}

type RecommendedAction string

const (
	ActionInterview RecommendedAction = "Interview"
	ActionReview    RecommendedAction = "Review"
	ActionReject    RecommendedAction = "Reject"
)

func (a RecommendedAction) Valid() bool {
	return a == ActionInterview || a == ActionReview || a == ActionReject
}

// CandidateSnapshot is descriptive only and never feeds a workflow decision.
type CandidateSnapshot struct {
	EstimatedSeniority string  `json:"estimated_seniority"`
	YearsOfExperience  float64 `json:"years_of_experience"`
	LastRole           string  `json:"last_role"`
}

// ScreeningResult is what the scoring provider returned. Category and
// recommended action are taken as given.
type ScreeningResult struct {
	FitScore          int                `json:"fit_score"`
	FitCategory       FitCategory        `json:"fit_category"`
	RecommendedAction RecommendedAction  `json:"recommended_action"`
	ScreeningSummary  string             `json:"screening_summary"`
	Strengths         []string           `json:"strengths"`
	Gaps              []string           `json:"gaps"`
	CandidateSnapshot *CandidateSnapshot `json:"candidate_snapshot,omitempty"`
}

func (r ScreeningResult) Clone() ScreeningResult {
	r.Strengths = append([]string{}, r.Strengths...)
	r.Gaps = append([]string{}, r.Gaps...)
	if r.CandidateSnapshot != nil {
		s := *r.CandidateSnapshot
		r.CandidateSnapshot = &s
	}
	return r
}
