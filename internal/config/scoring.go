package config

import (
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	ScoringProviderWebhook = "webhook"
	ScoringProviderGemini  = "gemini"
)

type ScoringConfig struct {
	Provider   string
	WebhookURL string
	Timeout    time.Duration
	MaxRetries int
}

var (
	scoringConfig *ScoringConfig
	scoringOnce   sync.Once
)

func LoadScoringConfig() *ScoringConfig {
	scoringOnce.Do(func() {
		provider := strings.ToLower(getEnv("SCORING_PROVIDER", ScoringProviderWebhook))
		if provider != ScoringProviderWebhook && provider != ScoringProviderGemini {
			log.Printf("Warning: unknown SCORING_PROVIDER %q, defaulting to %s", provider, ScoringProviderWebhook)
			provider = ScoringProviderWebhook
		}
		scoringConfig = &ScoringConfig{
			Provider:   provider,
			WebhookURL: os.Getenv("SCORING_WEBHOOK_URL"),
			Timeout:    getEnvDuration("SCORING_TIMEOUT", 60*time.Second),
			MaxRetries: getEnvInt("SCORING_MAX_RETRIES", 0),
		}
	})
	return scoringConfig
}
