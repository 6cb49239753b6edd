package service

import (
	"testing"

	"github.com/fadilmartias/recruitai/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScreeningPayload(t *testing.T) {
	raw := `{
		"fitScore": 72,
		"fitCategory": "Medium",
		"screeningSummary": "Solid backend background.",
		"strengths": ["Go", "Postgres"],
		"gaps": ["Kubernetes"],
		"recommendedAction": "Review",
		"candidateSnapshot": {"estimatedSeniority": "Mid", "yearsOfExperience": 4.5, "lastRole": "Backend Engineer"}
	}`

	result, err := ParseScreeningPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, 72, result.FitScore)
	assert.Equal(t, model.FitMedium, result.FitCategory)
	assert.Equal(t, model.ActionReview, result.RecommendedAction)
	assert.Equal(t, "Solid backend background.", result.ScreeningSummary)
	assert.Equal(t, []string{"Go", "Postgres"}, result.Strengths)
	assert.Equal(t, []string{"Kubernetes"}, result.Gaps)
	require.NotNil(t, result.CandidateSnapshot)
	assert.Equal(t, "Backend Engineer", result.CandidateSnapshot.LastRole)
	assert.InDelta(t, 4.5, result.CandidateSnapshot.YearsOfExperience, 0.001)
}

func TestParseScreeningPayloadDefaults(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		score int
	}{
		{
			name:  "missing strengths and gaps",
			raw:   `{"fitScore": 95, "fitCategory": "Strong", "recommendedAction": "Interview"}`,
			score: 95,
		},
		{
			name:  "null strengths and gaps",
			raw:   `{"fitScore": 10, "fitCategory": "Low", "recommendedAction": "Reject", "strengths": null, "gaps": null}`,
			score: 10,
		},
		{
			name:  "fenced and wrapped in array",
			raw:   "```json\n[{\"fitScore\": 64.6, \"fitCategory\": \"Medium\", \"recommendedAction\": \"Review\"}]\n```",
			score: 65,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseScreeningPayload(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.score, result.FitScore)
			assert.NotNil(t, result.Strengths)
			assert.NotNil(t, result.Gaps)
			assert.Nil(t, result.CandidateSnapshot)
		})
	}
}

func TestParseScreeningPayloadMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: "   "},
		{name: "not json", raw: "the candidate looks great"},
		{name: "empty array", raw: "[]"},
		{name: "missing score", raw: `{"fitCategory": "Strong", "recommendedAction": "Interview"}`},
		{name: "score as string", raw: `{"fitScore": "90", "fitCategory": "Strong", "recommendedAction": "Interview"}`},
		{name: "score out of range", raw: `{"fitScore": 140, "fitCategory": "Strong", "recommendedAction": "Interview"}`},
		{name: "unknown category", raw: `{"fitScore": 50, "fitCategory": "Great", "recommendedAction": "Review"}`},
		{name: "unknown action", raw: `{"fitScore": 50, "fitCategory": "Medium", "recommendedAction": "Hire"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScreeningPayload(tt.raw)
			require.Error(t, err)
			var payloadErr *PayloadError
			assert.ErrorAs(t, err, &payloadErr)
		})
	}
}
