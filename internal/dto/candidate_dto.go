package dto

import (
	"time"

	"github.com/fadilmartias/recruitai/internal/model"
	"github.com/google/uuid"
)

type ActionItemDTO struct {
	ID            uuid.UUID `json:"id"`
	CandidateID   uuid.UUID `json:"candidate_id"`
	CandidateName string    `json:"candidate_name"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	Priority      string    `json:"priority"`
	CreatedAt     time.Time `json:"created_at"`
}

type CandidateDTO struct {
	ID              uuid.UUID              `json:"id"`
	Name            string                 `json:"name"`
	Email           string                 `json:"email"`
	JobTitle        string                 `json:"job_title"`
	Status          string                 `json:"status"`
	ScreeningResult *model.ScreeningResult `json:"screening_result,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// CandidateDetailDTO adds the source texts and outstanding items to a candidate.
type CandidateDetailDTO struct {
	CandidateDTO
	JobDescription string          `json:"job_description"`
	ResumeText     string          `json:"resume_text"`
	ActionItems    []ActionItemDTO `json:"action_items"`
}

type ScreeningResponse struct {
	Candidate            CandidateDTO    `json:"candidate"`
	RequiresManualAction bool            `json:"requires_manual_action"`
	ActionItems          []ActionItemDTO `json:"action_items"`
	Warning              string          `json:"warning,omitempty"`
}

type StatsDTO struct {
	TotalCandidates  int64            `json:"total_candidates"`
	ByStatus         map[string]int64 `json:"by_status"`
	ByFitCategory    map[string]int64 `json:"by_fit_category"`
	TotalActionItems int64            `json:"total_action_items"`
	ByActionItemType map[string]int64 `json:"by_action_item_type"`
}

func NewCandidateDTO(c *model.Candidate) CandidateDTO {
	return CandidateDTO{
		ID:              c.ID,
		Name:            c.Name,
		Email:           c.Email,
		JobTitle:        c.JobTitle,
		Status:          string(c.Status),
		ScreeningResult: c.ScreeningResult,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func NewCandidateDTOs(cs []model.Candidate) []CandidateDTO {
	out := make([]CandidateDTO, 0, len(cs))
	for i := range cs {
		out = append(out, NewCandidateDTO(&cs[i]))
	}
	return out
}

func NewCandidateDetailDTO(c *model.Candidate, items []model.ActionItem) CandidateDetailDTO {
	return CandidateDetailDTO{
		CandidateDTO:   NewCandidateDTO(c),
		JobDescription: c.JobDescription,
		ResumeText:     c.ResumeText,
		ActionItems:    NewActionItemDTOs(items),
	}
}

func NewActionItemDTO(item model.ActionItem) ActionItemDTO {
	return ActionItemDTO{
		ID:            item.ID,
		CandidateID:   item.CandidateID,
		CandidateName: item.CandidateName,
		Type:          string(item.Type),
		Description:   item.Description,
		Priority:      string(item.Priority),
		CreatedAt:     item.CreatedAt,
	}
}

func NewActionItemDTOs(items []model.ActionItem) []ActionItemDTO {
	out := make([]ActionItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, NewActionItemDTO(item))
	}
	return out
}

func NewStatsDTO(byStatus map[model.CandidateStatus]int64, byFit map[model.FitCategory]int64, byType map[model.ActionItemType]int64, totalCandidates, totalItems int64) StatsDTO {
	s := StatsDTO{
		TotalCandidates:  totalCandidates,
		ByStatus:         make(map[string]int64, len(byStatus)),
		ByFitCategory:    make(map[string]int64, len(byFit)),
		TotalActionItems: totalItems,
		ByActionItemType: make(map[string]int64, len(byType)),
	}
	for k, v := range byStatus {
		s.ByStatus[string(k)] = v
	}
	for k, v := range byFit {
		s.ByFitCategory[string(k)] = v
	}
	for k, v := range byType {
		s.ByActionItemType[string(k)] = v
	}
	return s
}
