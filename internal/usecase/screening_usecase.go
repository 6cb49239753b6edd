package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/recruitai/internal/logger"
	"github.com/fadilmartias/recruitai/internal/model"
	"github.com/fadilmartias/recruitai/internal/repository"
	"github.com/fadilmartias/recruitai/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitInput describes one screening request. A zero CandidateID creates a
// new candidate; otherwise the existing draft is re-scored.
type SubmitInput struct {
	CandidateID    uuid.UUID
	Name           string
	Email          string
	JobTitle       string
	JobDescription string
	ResumeText     string
}

type SubmitResult struct {
	Candidate            *model.Candidate
	RequiresManualAction bool
	ActionItems          []model.ActionItem
	// Warning holds a *NotificationError when the auto-decision was
	// committed but the candidate could not be notified.
	Warning error
}

// ScreeningUsecase runs the screening workflow: scoring, the action
// policy, status changes, action items and notifications.
type ScreeningUsecase struct {
	store       repository.Store
	scorer      service.ScoringGateway
	notifier    service.NotificationDispatcher
	policy      ActionPolicy
	companyName string
	logger      *zap.Logger
	locks       *keyedMutex
	now         func() time.Time
}

func NewScreeningUsecase(store repository.Store, scorer service.ScoringGateway, notifier service.NotificationDispatcher, policy ActionPolicy, companyName string, log *zap.Logger) *ScreeningUsecase {
	return &ScreeningUsecase{
		store:       store,
		scorer:      scorer,
		notifier:    notifier,
		policy:      policy,
		companyName: companyName,
		logger:      logger.WithFields(log),
		locks:       newKeyedMutex(),
		now:         time.Now,
	}
}

// SubmitForScreening scores a candidate and applies the resulting decision.
// The call is not cancellable once started: scoring and notification run
// to completion even if ctx is cancelled.
func (uc *ScreeningUsecase) SubmitForScreening(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	ctx = context.WithoutCancel(ctx)

	id := in.CandidateID
	isNew := id == uuid.Nil
	if isNew {
		id = uuid.New()
	}

	unlock := uc.locks.Lock(id.String())
	defer unlock()

	candidate, duplicates, err := uc.prepareCandidate(ctx, id, isNew, in)
	if err != nil {
		return nil, err
	}
	log := logger.WithCandidate(uc.logger, id.String(), string(candidate.Status))

	result, err := uc.scorer.Score(ctx, candidate.JobDescription, candidate.ResumeText)
	if err != nil {
		log.Warn("scoring failed", zap.Error(err))
		return nil, &ScoringError{CandidateID: id, Cause: err}
	}

	decision := uc.policy.Decide(*result)
	if err := candidate.ApplyScreening(*result, decision.Status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	items := uc.buildActionItems(candidate, decision.ActionItems)
	if len(duplicates) > 0 {
		items = append(items, uc.newActionItem(candidate, model.ItemDuplicate, model.PriorityLow,
			fmt.Sprintf("Possible duplicate: %d earlier application(s) from %s for %s", len(duplicates), candidate.Email, candidate.JobTitle)))
	}

	// The notification goes out before anything is written so the terminal
	// status and a possible Invite Failed item land in the same transaction.
	var warning *NotificationError
	if decision.AutoDecided() {
		if err := uc.notifier.Dispatch(ctx, decision.Notification, uc.notificationRequest(candidate)); err != nil {
			warning = &NotificationError{Kind: decision.Notification, Cause: err}
			log.Warn("auto-decision notification failed",
				zap.String(logger.FieldNotificationKind, string(decision.Notification)),
				zap.Error(err),
			)
			items = append(items, uc.newActionItem(candidate, model.ItemInviteFailed, model.PriorityHigh,
				fmt.Sprintf("Automatic %s notification failed: %v", decision.Notification, err)))
		}
	}

	err = uc.store.Atomic(ctx, func(tx repository.Store) error {
		if err := tx.Candidates().Update(ctx, candidate); err != nil {
			return err
		}
		if !isNew {
			if _, err := tx.ActionItems().DeleteByCandidate(ctx, id, model.DecisionItemTypes...); err != nil {
				return err
			}
		}
		for i := range items {
			if err := tx.ActionItems().Create(ctx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("saving screening result failed", zap.Error(err))
		if warning != nil {
			err = errors.Join(err, warning)
		}
		return nil, &PersistenceError{Op: "save screening result", Cause: err}
	}

	log = logger.WithCandidate(uc.logger, id.String(), string(candidate.Status))
	log.Info("candidate screened",
		zap.Int(logger.FieldFitScore, result.FitScore),
		zap.String("fit_category", string(result.FitCategory)),
		zap.Int("action_items", len(items)),
		zap.Bool("auto_decided", decision.AutoDecided()),
	)

	res := &SubmitResult{Candidate: candidate, ActionItems: items}
	if warning != nil {
		res.Warning = warning
	}

	res.RequiresManualAction = decision.RequiresManualAction || len(res.ActionItems) > 0
	return res, nil
}

func (uc *ScreeningUsecase) prepareCandidate(ctx context.Context, id uuid.UUID, isNew bool, in SubmitInput) (*model.Candidate, []model.Candidate, error) {
	if !isNew {
		candidate, err := uc.loadCandidate(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if candidate.Status.IsTerminal() {
			return nil, nil, fmt.Errorf("%w: candidate is %s", ErrCandidateFinalized, candidate.Status)
		}
		overwrite(&candidate.Name, in.Name)
		overwrite(&candidate.Email, in.Email)
		overwrite(&candidate.JobTitle, in.JobTitle)
		overwrite(&candidate.JobDescription, in.JobDescription)
		overwrite(&candidate.ResumeText, in.ResumeText)
		return candidate, nil, nil
	}

	duplicates, err := uc.store.Candidates().FindByEmailAndJobTitle(ctx, in.Email, in.JobTitle)
	if err != nil {
		return nil, nil, &PersistenceError{Op: "check duplicates", Cause: err}
	}

	candidate := &model.Candidate{
		ID:             id,
		Name:           strings.TrimSpace(in.Name),
		Email:          strings.TrimSpace(in.Email),
		JobTitle:       strings.TrimSpace(in.JobTitle),
		JobDescription: in.JobDescription,
		ResumeText:     in.ResumeText,
		Status:         model.StatusPending,
		CreatedAt:      uc.now(),
	}
	if err := uc.store.Candidates().Create(ctx, candidate); err != nil {
		return nil, nil, &PersistenceError{Op: "create candidate", Cause: err}
	}
	return candidate, duplicates, nil
}

// ResolveManualInvite invites a screened candidate. The status only changes
// after the invite was delivered.
func (uc *ScreeningUsecase) ResolveManualInvite(ctx context.Context, candidateID uuid.UUID) (*model.Candidate, error) {
	return uc.resolveManual(ctx, candidateID, model.StatusInvited)
}

// ResolveManualReject rejects a screened candidate. The status only changes
// after the rejection was delivered.
func (uc *ScreeningUsecase) ResolveManualReject(ctx context.Context, candidateID uuid.UUID) (*model.Candidate, error) {
	return uc.resolveManual(ctx, candidateID, model.StatusRejected)
}

func (uc *ScreeningUsecase) resolveManual(ctx context.Context, candidateID uuid.UUID, target model.CandidateStatus) (*model.Candidate, error) {
	ctx = context.WithoutCancel(ctx)

	unlock := uc.locks.Lock(candidateID.String())
	defer unlock()

	candidate, err := uc.loadCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	log := logger.WithCandidate(uc.logger, candidateID.String(), string(candidate.Status))

	next := candidate.Clone()
	if candidate.Status != model.StatusScreened {
		return nil, fmt.Errorf("%w: candidate is %s", ErrInvalidTransition, candidate.Status)
	}
	if err := next.TransitionTo(target); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	kind := NotificationFor(target)
	if err := uc.notifier.Dispatch(ctx, kind, uc.notificationRequest(candidate)); err != nil {
		log.Warn("manual notification failed", zap.String(logger.FieldNotificationKind, string(kind)), zap.Error(err))
		return nil, &NotificationError{Kind: kind, Cause: err}
	}

	err = uc.store.Atomic(ctx, func(tx repository.Store) error {
		if err := tx.Candidates().Update(ctx, &next); err != nil {
			return err
		}
		_, err := tx.ActionItems().DeleteByCandidate(ctx, candidateID, model.DecisionItemTypes...)
		return err
	})
	if err != nil {
		log.Error("saving manual decision failed", zap.Error(err))
		return nil, &PersistenceError{Op: "save manual decision", Cause: err}
	}

	log.Info("manual decision applied", zap.String("decision", string(target)))
	return &next, nil
}

// ResolveGeneric dismisses an action item without touching the candidate.
func (uc *ScreeningUsecase) ResolveGeneric(ctx context.Context, actionItemID uuid.UUID) error {
	item, err := uc.loadActionItem(ctx, actionItemID)
	if err != nil {
		return err
	}

	unlock := uc.locks.Lock(item.CandidateID.String())
	defer unlock()

	if err := uc.store.ActionItems().Delete(ctx, actionItemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrActionItemNotFound
		}
		return &PersistenceError{Op: "delete action item", Cause: err}
	}

	uc.logger.Info("action item resolved",
		zap.String(logger.FieldActionItemID, actionItemID.String()),
		zap.String(logger.FieldCandidateID, item.CandidateID.String()),
		zap.String("type", string(item.Type)),
	)
	return nil
}

// RetryNotification re-sends the notification behind an Invite Failed item.
// The item is removed only when delivery succeeds.
func (uc *ScreeningUsecase) RetryNotification(ctx context.Context, actionItemID uuid.UUID) error {
	ctx = context.WithoutCancel(ctx)

	item, err := uc.loadActionItem(ctx, actionItemID)
	if err != nil {
		return err
	}
	if item.Type != model.ItemInviteFailed {
		return fmt.Errorf("%w: item is %s", ErrNotRetryable, item.Type)
	}

	unlock := uc.locks.Lock(item.CandidateID.String())
	defer unlock()

	// a concurrent retry may have delivered and removed it while we waited
	if _, err := uc.loadActionItem(ctx, actionItemID); err != nil {
		return err
	}

	candidate, err := uc.loadCandidate(ctx, item.CandidateID)
	if err != nil {
		return err
	}
	kind := NotificationFor(candidate.Status)
	if kind == "" {
		return fmt.Errorf("%w: candidate is %s", ErrNotRetryable, candidate.Status)
	}

	if err := uc.notifier.Dispatch(ctx, kind, uc.notificationRequest(candidate)); err != nil {
		uc.logger.Warn("notification retry failed",
			zap.String(logger.FieldActionItemID, actionItemID.String()),
			zap.String(logger.FieldNotificationKind, string(kind)),
			zap.Error(err),
		)
		return &NotificationError{Kind: kind, Cause: err}
	}

	if err := uc.store.ActionItems().Delete(ctx, actionItemID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return &PersistenceError{Op: "delete action item", Cause: err}
	}
	return nil
}

func (uc *ScreeningUsecase) loadCandidate(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	candidate, err := uc.store.Candidates().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load candidate", Cause: err}
	}
	return candidate, nil
}

func (uc *ScreeningUsecase) loadActionItem(ctx context.Context, id uuid.UUID) (*model.ActionItem, error) {
	item, err := uc.store.ActionItems().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrActionItemNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load action item", Cause: err}
	}
	return item, nil
}

func (uc *ScreeningUsecase) buildActionItems(candidate *model.Candidate, drafts []ActionItemDraft) []model.ActionItem {
	items := make([]model.ActionItem, 0, len(drafts))
	for _, d := range drafts {
		items = append(items, uc.newActionItem(candidate, d.Type, d.Priority, d.Description))
	}
	return items
}

func (uc *ScreeningUsecase) newActionItem(candidate *model.Candidate, t model.ActionItemType, p model.Priority, description string) model.ActionItem {
	return model.ActionItem{
		ID:            uuid.New(),
		CandidateID:   candidate.ID,
		CandidateName: candidate.Name,
		Type:          t,
		Description:   description,
		Priority:      p,
		CreatedAt:     uc.now(),
	}
}

func (uc *ScreeningUsecase) notificationRequest(c *model.Candidate) service.NotificationRequest {
	return service.NotificationRequest{
		Candidate:   service.NotificationCandidate{Email: c.Email, Name: c.Name},
		JobTitle:    c.JobTitle,
		CompanyName: uc.companyName,
	}
}

func overwrite(dst *string, v string) {
	if s := strings.TrimSpace(v); s != "" {
		*dst = s
	}
}
