package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fadilmartias/recruitai/internal/model"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GeminiScoringService asks an LLM for the same payload the screening
// webhook returns and parses it with the same contract.
type GeminiScoringService struct {
	generator contentGenerator
}

func NewGeminiScoringService(generator contentGenerator) *GeminiScoringService {
	return &GeminiScoringService{generator: generator}
}

func (s *GeminiScoringService) Score(ctx context.Context, jobDescription, resumeText string) (*model.ScreeningResult, error) {
	raw, err := s.generator.GenerateContent(ctx, buildScreeningPrompt(jobDescription, resumeText))
	if err != nil {
		return nil, fmt.Errorf("gemini screening failed: %w", err)
	}
	return ParseScreeningPayload(raw)
}

const screeningPrompt = `You are an experienced technical recruiter. Compare the resume with the job description.

Return your answer STRICTLY as one JSON object with this schema:
{
  "fitScore": <integer 0-100>,
  "fitCategory": "Strong" | "Medium" | "Low",
  "screeningSummary": "<two or three sentences>",
  "strengths": ["<strength>", ...],
  "gaps": ["<gap>", ...],
  "recommendedAction": "Interview" | "Review" | "Reject",
  "candidateSnapshot": {
    "estimatedSeniority": "<Junior | Mid | Senior | Lead>",
    "yearsOfExperience": <number>,
    "lastRole": "<most recent title>"
  }
}

Job description:
{{JD}}

Resume:
{{RESUME}}
`

func buildScreeningPrompt(jobDescription, resumeText string) string {
	prompt := strings.ReplaceAll(screeningPrompt, "{{JD}}", strings.TrimSpace(jobDescription))
	return strings.ReplaceAll(prompt, "{{RESUME}}", strings.TrimSpace(resumeText))
}
