package config

import (
	"log"
	"sync"
)

const (
	DefaultInviteThreshold = 90
	DefaultRejectThreshold = 40
)

// PolicyConfig holds the auto-decision thresholds. Both bounds are inclusive.
type PolicyConfig struct {
	InviteThreshold int
	RejectThreshold int
}

var (
	policyConfig *PolicyConfig
	policyOnce   sync.Once
)

func LoadPolicyConfig() *PolicyConfig {
	policyOnce.Do(func() {
		policyConfig = NormalizePolicy(&PolicyConfig{
			InviteThreshold: getEnvInt("POLICY_INVITE_THRESHOLD", DefaultInviteThreshold),
			RejectThreshold: getEnvInt("POLICY_REJECT_THRESHOLD", DefaultRejectThreshold),
		})
	})
	return policyConfig
}

// NormalizePolicy falls back to the defaults when the configured bands
// would overlap or leave the 0..100 range.
func NormalizePolicy(c *PolicyConfig) *PolicyConfig {
	valid := c.RejectThreshold >= 0 && c.InviteThreshold <= 100 && c.RejectThreshold < c.InviteThreshold
	if !valid {
		log.Printf("Warning: invalid policy thresholds invite=%d reject=%d, using %d/%d",
			c.InviteThreshold, c.RejectThreshold, DefaultInviteThreshold, DefaultRejectThreshold)
		return &PolicyConfig{InviteThreshold: DefaultInviteThreshold, RejectThreshold: DefaultRejectThreshold}
	}
	return c
}
