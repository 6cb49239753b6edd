package config

import (
	"os"
	"sync"
	"time"
)

type NotificationConfig struct {
	InviteURL    string
	RejectionURL string
	Timeout      time.Duration
	MaxRetries   int
	CompanyName  string
}

var (
	notificationConfig *NotificationConfig
	notificationOnce   sync.Once
)

func LoadNotificationConfig() *NotificationConfig {
	notificationOnce.Do(func() {
		notificationConfig = &NotificationConfig{
			InviteURL:    os.Getenv("NOTIFY_INVITE_URL"),
			RejectionURL: os.Getenv("NOTIFY_REJECTION_URL"),
			Timeout:      getEnvDuration("NOTIFY_TIMEOUT", 30*time.Second),
			MaxRetries:   getEnvInt("NOTIFY_MAX_RETRIES", 0),
			CompanyName:  getEnv("COMPANY_NAME", "Your Company"),
		}
	})
	return notificationConfig
}
