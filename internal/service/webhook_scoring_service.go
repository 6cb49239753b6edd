package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/recruitai/internal/config"
	"github.com/fadilmartias/recruitai/internal/model"
	"github.com/go-resty/resty/v2"
)

type screeningRequest struct {
	JD     string `json:"jd"`
	Resume string `json:"resume"`
}

// WebhookScoringService calls the remote screening workflow over HTTP.
type WebhookScoringService struct {
	client *resty.Client
	url    string
}

func NewWebhookScoringService(cfg *config.ScoringConfig) (*WebhookScoringService, error) {
	if strings.TrimSpace(cfg.WebhookURL) == "" {
		return nil, fmt.Errorf("SCORING_WEBHOOK_URL not set")
	}
	return &WebhookScoringService{
		client: newRestyClient(cfg.Timeout, cfg.MaxRetries),
		url:    cfg.WebhookURL,
	}, nil
}

func (s *WebhookScoringService) Score(ctx context.Context, jobDescription, resumeText string) (*model.ScreeningResult, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(screeningRequest{JD: jobDescription, Resume: resumeText}).
		Post(s.url)
	if err != nil {
		return nil, fmt.Errorf("screening request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{Service: "scoring provider", StatusCode: resp.StatusCode(), Body: truncateBody(resp.String())}
	}
	return ParseScreeningPayload(resp.String())
}

func newRestyClient(timeout time.Duration, retries int) *resty.Client {
	client := resty.New().SetTimeout(timeout)
	if retries > 0 {
		client.SetRetryCount(retries).
			SetRetryWaitTime(500 * time.Millisecond).
			SetRetryMaxWaitTime(5 * time.Second).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() == 429 || r.StatusCode() >= 500
			})
	}
	return client
}

func truncateBody(body string) string {
	body = strings.TrimSpace(body)
	if len(body) > 512 {
		return body[:512] + "..."
	}
	return body
}
