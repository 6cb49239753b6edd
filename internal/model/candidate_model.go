package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type CandidateStatus string

const (
	StatusPending  CandidateStatus = "Pending"
	StatusScreened CandidateStatus = "Screened"
	StatusInvited  CandidateStatus = "Invited"
	StatusRejected CandidateStatus = "Rejected"
)

// forward edges of the candidate lifecycle; Invited and Rejected have none
var candidateTransitions = map[CandidateStatus][]CandidateStatus{
	StatusPending:  {StatusScreened, StatusInvited, StatusRejected},
	StatusScreened: {StatusInvited, StatusRejected},
}

func CandidateStatuses() []CandidateStatus {
	return []CandidateStatus{StatusPending, StatusScreened, StatusInvited, StatusRejected}
}

func ParseCandidateStatus(s string) (CandidateStatus, bool) {
	for _, st := range CandidateStatuses() {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further transition is defined from s.
func (s CandidateStatus) IsTerminal() bool {
	return s == StatusInvited || s == StatusRejected
}

func (s CandidateStatus) CanTransitionTo(next CandidateStatus) bool {
	for _, allowed := range candidateTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Candidate struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string           `gorm:"type:varchar(255);not null" json:"name"`
	Email           string           `gorm:"type:varchar(255);index" json:"email"`
	JobTitle        string           `gorm:"type:varchar(255);index" json:"job_title"`
	JobDescription  string           `gorm:"type:text" json:"job_description"`
	ResumeText      string           `gorm:"type:text" json:"resume_text"`
	Status          CandidateStatus  `gorm:"type:varchar(20);index;not null" json:"status"`
	ScreeningResult *ScreeningResult `gorm:"type:jsonb;serializer:json" json:"screening_result,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (c *Candidate) TableName() string {
	return "candidates"
}

// ApplyScreening attaches a scoring result together with the status it
// produced so the two are always written as one unit.
func (c *Candidate) ApplyScreening(result ScreeningResult, status CandidateStatus) error {
	if c.Status.IsTerminal() {
		return &TransitionError{From: c.Status, To: status}
	}
	if status == StatusPending {
		return &TransitionError{From: c.Status, To: status}
	}
	// re-scoring a screened candidate keeps it screened or moves it forward
	if c.Status != status && !c.Status.CanTransitionTo(status) {
		return &TransitionError{From: c.Status, To: status}
	}
	r := result.Clone()
	c.ScreeningResult = &r
	c.Status = status
	return nil
}

// TransitionTo moves a screened candidate to a terminal decision.
func (c *Candidate) TransitionTo(next CandidateStatus) error {
	if c.ScreeningResult == nil || !c.Status.CanTransitionTo(next) || c.Status == StatusPending {
		return &TransitionError{From: c.Status, To: next}
	}
	c.Status = next
	return nil
}

// Consistent reports whether the status and the attached result agree.
func (c *Candidate) Consistent() bool {
	return (c.ScreeningResult != nil) == (c.Status != StatusPending)
}

func (c Candidate) Clone() Candidate {
	if c.ScreeningResult != nil {
		r := c.ScreeningResult.Clone()
		c.ScreeningResult = &r
	}
	return c
}

type TransitionError struct {
	From CandidateStatus
	To   CandidateStatus
}

func (e *TransitionError) Error() string {
	return "cannot move candidate from " + string(e.From) + " to " + string(e.To)
}
