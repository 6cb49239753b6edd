package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fadilmartias/recruitai/internal/config"
	"github.com/go-resty/resty/v2"
)

type NotificationKind string

const (
	NotificationInvite    NotificationKind = "invite"
	NotificationRejection NotificationKind = "rejection"
)

type NotificationCandidate struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NotificationRequest is the body sent for both invites and rejections.
type NotificationRequest struct {
	Candidate   NotificationCandidate `json:"candidate"`
	JobTitle    string                `json:"jobTitle"`
	CompanyName string                `json:"companyName"`
}

// NotificationDispatcher delivers candidate-facing messages. It only reports
// success or failure.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, kind NotificationKind, req NotificationRequest) error
}

type WebhookNotificationService struct {
	client *resty.Client
	urls   map[NotificationKind]string
}

func NewWebhookNotificationService(cfg *config.NotificationConfig) *WebhookNotificationService {
	return &WebhookNotificationService{
		client: newNotificationClient(cfg.Timeout, cfg.MaxRetries),
		urls: map[NotificationKind]string{
			NotificationInvite:    strings.TrimSpace(cfg.InviteURL),
			NotificationRejection: strings.TrimSpace(cfg.RejectionURL),
		},
	}
}

// newNotificationClient only retries when the request provably did not
// reach the mail step: transport errors and 429. A 5xx may already have
// sent the message.
func newNotificationClient(timeout time.Duration, retries int) *resty.Client {
	client := resty.New().SetTimeout(timeout)
	if retries > 0 {
		client.SetRetryCount(retries).
			SetRetryWaitTime(500 * time.Millisecond).
			SetRetryMaxWaitTime(5 * time.Second).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() == http.StatusTooManyRequests
			})
	}
	return client
}

func (s *WebhookNotificationService) Dispatch(ctx context.Context, kind NotificationKind, req NotificationRequest) error {
	url, ok := s.urls[kind]
	if !ok {
		return fmt.Errorf("unknown notification kind %q", kind)
	}
	if url == "" {
		return fmt.Errorf("%s webhook url not configured", kind)
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(url)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", kind, err)
	}
	if !resp.IsSuccess() {
		return &StatusError{Service: string(kind) + " webhook", StatusCode: resp.StatusCode(), Body: truncateBody(resp.String())}
	}
	return nil
}
