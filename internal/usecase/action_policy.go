package usecase

import (
	"fmt"

	"github.com/fadilmartias/recruitai/internal/config"
	"github.com/fadilmartias/recruitai/internal/model"
	"github.com/fadilmartias/recruitai/internal/service"
)

// ActionItemDraft is an action item the policy wants created; the engine
// fills in identity and candidate fields.
type ActionItemDraft struct {
	Type        model.ActionItemType
	Priority    model.Priority
	Description string
}

type Decision struct {
	Status               model.CandidateStatus
	RequiresManualAction bool
	ActionItems          []ActionItemDraft

	// Notification is empty unless an auto-decision fired.
	Notification service.NotificationKind
}

func (d Decision) AutoDecided() bool {
	return d.Notification != ""
}

// ActionPolicy maps a screening result to a workflow decision. It is the
// only place thresholds are applied; the submit path and the manual paths
// both go through it.
type ActionPolicy struct {
	InviteThreshold int
	RejectThreshold int
}

func NewActionPolicy(cfg *config.PolicyConfig) ActionPolicy {
	cfg = config.NormalizePolicy(cfg)
	return ActionPolicy{InviteThreshold: cfg.InviteThreshold, RejectThreshold: cfg.RejectThreshold}
}

func DefaultActionPolicy() ActionPolicy {
	return ActionPolicy{InviteThreshold: config.DefaultInviteThreshold, RejectThreshold: config.DefaultRejectThreshold}
}

// StatusForScore applies the score thresholds alone. Both bounds are inclusive.
func (p ActionPolicy) StatusForScore(fitScore int) model.CandidateStatus {
	switch {
	case fitScore >= p.InviteThreshold:
		return model.StatusInvited
	case fitScore <= p.RejectThreshold:
		return model.StatusRejected
	default:
		return model.StatusScreened
	}
}

func (p ActionPolicy) Decide(result model.ScreeningResult) Decision {
	d := Decision{Status: p.StatusForScore(result.FitScore)}

	d.Notification = NotificationFor(d.Status)
	if !d.AutoDecided() {
		d.RequiresManualAction = true
	}

	// Evaluated independently of the thresholds.
	if result.FitCategory == model.FitMedium {
		d.ActionItems = append(d.ActionItems, ActionItemDraft{
			Type:        model.ItemReview,
			Priority:    model.PriorityMedium,
			Description: fmt.Sprintf("Medium fit candidate requires manual review. Score: %d/100", result.FitScore),
		})
	}

	// Provider hints only queue work for a candidate that is still open.
	if !d.AutoDecided() {
		switch result.RecommendedAction {
		case model.ActionInterview:
			d.ActionItems = append(d.ActionItems, ActionItemDraft{
				Type:        model.ItemPendingInvite,
				Priority:    model.PriorityHigh,
				Description: fmt.Sprintf("Strong fit - ready to send interview invite. Score: %d/100", result.FitScore),
			})
		case model.ActionReject:
			d.ActionItems = append(d.ActionItems, ActionItemDraft{
				Type:        model.ItemPendingRejection,
				Priority:    model.PriorityLow,
				Description: fmt.Sprintf("Low fit - confirm rejection. Score: %d/100", result.FitScore),
			})
		}
	}

	return d
}

// NotificationFor returns the message a candidate receives on entering
// status, or "" when the status sends nothing.
func NotificationFor(status model.CandidateStatus) service.NotificationKind {
	switch status {
	case model.StatusInvited:
		return service.NotificationInvite
	case model.StatusRejected:
		return service.NotificationRejection
	default:
		return ""
	}
}
