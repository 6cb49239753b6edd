package model

import (
	"time"

	"github.com/google/uuid"
)

type ActionItemType string

const (
	ItemReview           ActionItemType = "Review"
	ItemPendingInvite    ActionItemType = "Pending Invite"
	ItemPendingRejection ActionItemType = "Pending Rejection"
	ItemResponsePending  ActionItemType = "Response Pending"
	ItemDuplicate        ActionItemType = "Duplicate"
	ItemInviteFailed     ActionItemType = "Invite Failed"
)

var actionItemTypes = []ActionItemType{
	ItemReview, ItemPendingInvite, ItemPendingRejection, ItemResponsePending, ItemDuplicate, ItemInviteFailed,
}

func ActionItemTypes() []ActionItemType {
	return append([]ActionItemType{}, actionItemTypes...)
}

func ParseActionItemType(s string) (ActionItemType, bool) {
	for _, t := range actionItemTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// DecisionItemTypes are the items that become moot once a candidate reaches
// a terminal status.
var DecisionItemTypes = []ActionItemType{ItemReview, ItemPendingInvite, ItemPendingRejection}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type ActionItem struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CandidateID   uuid.UUID      `gorm:"type:uuid;index;not null" json:"candidate_id"`
	CandidateName string         `gorm:"type:varchar(255)" json:"candidate_name"`
	Type          ActionItemType `gorm:"type:varchar(50);index;not null" json:"type"`
	Description   string         `gorm:"type:text" json:"description"`
	Priority      Priority       `gorm:"type:varchar(20)" json:"priority"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (a *ActionItem) TableName() string {
	return "action_items"
}
