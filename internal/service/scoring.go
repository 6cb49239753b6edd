package service

import (
	"context"
	_ "embed"
	"fmt"
	"math"
	"strings"

	"github.com/fadilmartias/recruitai/internal/model"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// ScoringGateway sends a job description and resume text to the scoring
// provider. It forwards whatever it receives and makes exactly one call.
type ScoringGateway interface {
	Score(ctx context.Context, jobDescription, resumeText string) (*model.ScreeningResult, error)
}

// StatusError is returned when a remote call completes with a non-success status.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
}

// PayloadError is returned when the provider answered but the body does not
// match the screening contract.
type PayloadError struct {
	Message string
	Cause   error
}

func (e *PayloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed screening payload: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed screening payload: %s", e.Message)
}

func (e *PayloadError) Unwrap() error {
	return e.Cause
}

//go:embed screening_response.schema.json
var screeningSchema string

var screeningSchemaLoader = gojsonschema.NewStringLoader(screeningSchema)

// ParseScreeningPayload validates a provider body against the screening
// schema and extracts a ScreeningResult. Code fences around the JSON and a
// single-element array wrapper are tolerated.
func ParseScreeningPayload(raw string) (*model.ScreeningResult, error) {
	body := extractJSON(raw)
	if body == "" {
		return nil, &PayloadError{Message: "empty body"}
	}
	if !gjson.Valid(body) {
		return nil, &PayloadError{Message: "body is not valid JSON"}
	}

	doc := gjson.Parse(body)
	if doc.IsArray() {
		items := doc.Array()
		if len(items) == 0 {
			return nil, &PayloadError{Message: "empty array"}
		}
		doc = items[0]
	}

	result, err := gojsonschema.Validate(screeningSchemaLoader, gojsonschema.NewStringLoader(doc.Raw))
	if err != nil {
		return nil, &PayloadError{Message: "schema validation", Cause: err}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
		}
		return nil, &PayloadError{Message: strings.Join(msgs, "; ")}
	}

	screening := &model.ScreeningResult{
		FitScore:          int(math.Round(doc.Get("fitScore").Float())),
		FitCategory:       model.FitCategory(doc.Get("fitCategory").String()),
		RecommendedAction: model.RecommendedAction(doc.Get("recommendedAction").String()),
		ScreeningSummary:  doc.Get("screeningSummary").String(),
		Strengths:         stringArray(doc.Get("strengths")),
		Gaps:              stringArray(doc.Get("gaps")),
	}

	if snap := doc.Get("candidateSnapshot"); snap.IsObject() {
		screening.CandidateSnapshot = &model.CandidateSnapshot{
			EstimatedSeniority: snap.Get("estimatedSeniority").String(),
			YearsOfExperience:  snap.Get("yearsOfExperience").Float(),
			LastRole:           snap.Get("lastRole").String(),
		}
	}

	return screening, nil
}

func stringArray(v gjson.Result) []string {
	out := []string{}
	for _, item := range v.Array() {
		if s := strings.TrimSpace(item.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
