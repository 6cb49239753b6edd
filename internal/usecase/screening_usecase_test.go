package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fadilmartias/recruitai/internal/model"
	"github.com/fadilmartias/recruitai/internal/repository"
	"github.com/fadilmartias/recruitai/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubScorer struct {
	mu      sync.Mutex
	calls   int
	results []*model.ScreeningResult
	err     error
}

func (s *stubScorer) Score(ctx context.Context, jd, resume string) (*model.ScreeningResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	r := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	out := r.Clone()
	return &out, nil
}

type sentNotification struct {
	kind service.NotificationKind
	req  service.NotificationRequest
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (n *stubNotifier) Dispatch(ctx context.Context, kind service.NotificationKind, req service.NotificationRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentNotification{kind: kind, req: req})
	return nil
}

func (n *stubNotifier) setErr(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.err = err
}

func (n *stubNotifier) kinds() []service.NotificationKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]service.NotificationKind, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, s.kind)
	}
	return out
}

type fixture struct {
	uc       *ScreeningUsecase
	store    *repository.MemoryStore
	scorer   *stubScorer
	notifier *stubNotifier
	logs     *observer.ObservedLogs
}

func newFixture(t *testing.T, results ...*model.ScreeningResult) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{
		store:    repository.NewMemoryStore(),
		scorer:   &stubScorer{results: results},
		notifier: &stubNotifier{},
		logs:     logs,
	}
	f.uc = NewScreeningUsecase(f.store, f.scorer, f.notifier, DefaultActionPolicy(), "Acme", zap.New(core))
	return f
}

func result(score int, category model.FitCategory, action model.RecommendedAction) *model.ScreeningResult {
	r := screening(score, category, action)
	r.ScreeningSummary = "summary"
	return &r
}

func submission() SubmitInput {
	return SubmitInput{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		JobTitle:       "Backend Engineer",
		JobDescription: "Build and operate Go services.",
		ResumeText:     "Five years of Go.",
	}
}

func (f *fixture) items(t *testing.T, candidateID uuid.UUID) []model.ActionItem {
	t.Helper()
	items, err := f.store.ActionItems().ListByCandidate(context.Background(), candidateID)
	require.NoError(t, err)
	return items
}

func typesOf(items []model.ActionItem) []model.ActionItemType {
	out := make([]model.ActionItemType, 0, len(items))
	for _, it := range items {
		out = append(out, it.Type)
	}
	return out
}

func TestSubmitForScreening_AutoInvite(t *testing.T) {
	f := newFixture(t, result(95, model.FitStrong, model.ActionInterview))

	res, err := f.uc.SubmitForScreening(context.Background(), submission())
	require.NoError(t, err)

	assert.Equal(t, model.StatusInvited, res.Candidate.Status)
	assert.False(t, res.RequiresManualAction)
	assert.Empty(t, res.ActionItems)
	assert.NoError(t, res.Warning)
	assert.Equal(t, []service.NotificationKind{service.NotificationInvite}, f.notifier.kinds())
	assert.Equal(t, service.NotificationRequest{
		Candidate:   service.NotificationCandidate{Email: "jane@example.com", Name: "Jane Doe"},
		JobTitle:    "Backend Engineer",
		CompanyName: "Acme",
	}, f.notifier.sent[0].req)

	stored, err := f.store.Candidates().FindByID(context.Background(), res.Candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInvited, stored.Status)
	require.NotNil(t, stored.ScreeningResult)
	assert.Equal(t, 95, stored.ScreeningResult.FitScore)
	assert.Empty(t, f.items(t, res.Candidate.ID))
}

func TestSubmitForScreening_AutoReject(t *testing.T) {
	f := newFixture(t, result(35, model.FitLow, model.ActionReject))

	res, err := f.uc.SubmitForScreening(context.Background(), submission())
	require.NoError(t, err)

	assert.Equal(t, model.StatusRejected, res.Candidate.Status)
	assert.False(t, res.RequiresManualAction)
	assert.Equal(t, []service.NotificationKind{service.NotificationRejection}, f.notifier.kinds())
	assert.Empty(t, f.items(t, res.Candidate.ID))
}

func TestSubmitForScreening_MediumFitNeedsReview(t *testing.T) {
	f := newFixture(t, result(65, model.FitMedium, model.ActionReview))

	res, err := f.uc.SubmitForScreening(context.Background(), submission())
	require.NoError(t, err)

	assert.Equal(t, model.StatusScreened, res.Candidate.Status)
	assert.True(t, res.RequiresManualAction)
	assert.Empty(t, f.notifier.kinds())

	items := f.items(t, res.Candidate.ID)
	require.Len(t, items, 1)
	assert.Equal(t, model.ItemReview, items[0].Type)
	assert.Equal(t, model.PriorityMedium, items[0].Priority)
	assert.Equal(t, "Jane Doe", items[0].CandidateName)
}

func TestSubmitForScreening_InterviewHintQueuesInvite(t *testing.T) {
	f := newFixture(t, result(70, model.FitStrong, model.ActionInterview))

	res, err := f.uc.SubmitForScreening(context.Background(), submission())
	require.NoError(t, err)

	assert.Equal(t, model.StatusScreened, res.Candidate.Status)
	items := f.items(t, res.Candidate.ID)
	require.Len(t, items, 1)
	assert.Equal(t, model.ItemPendingInvite, items[0].Type)
	assert.Equal(t, model.PriorityHigh, items[0].Priority)
}

func TestSubmitForScreening_ScoringFailure(t *testing.T) {
	f := newFixture(t)
	f.scorer.err = &service.StatusError{Service: "scoring", StatusCode: 500, Body: "boom"}

	res, err := f.uc.SubmitForScreening(context.Background(), submission())
	require.Error(t, err)
	assert.Nil(t, res)

	var scoringErr *ScoringError
	require.ErrorAs(t, err, &scoringErr)
	var statusErr *service.StatusError
	assert.ErrorAs(t, err, &statusErr)

	stored, err := f.store.Candidates().FindByID(context.Background(), scoringErr.CandidateID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored.Status)
	assert.Nil(t, stored.ScreeningResult)
	assert.Empty(t, f.items(t, scoringErr.CandidateID))
	assert.Empty(t, f.notifier.kinds())
	assert.Equal(t, 1, f.scorer.calls)
}

func TestSubmitForScreening_AutoInviteNotificationFails(t *testing.T) {
	f := newFixture(t, result(92, model.FitStrong, model.ActionInterview))
	f.notifier.setErr(errors.New("smtp down"))

	res, err := f.uc.SubmitForScreening(context.Background(), submission())
	require.NoError(t, err)

	assert.Equal(t, model.StatusInvited, res.Candidate.Status)
	assert.True(t, res.RequiresManualAction)

	var notifyErr *NotificationError
	require.ErrorAs(t, res.Warning, &notifyErr)
	assert.Equal(t, service.NotificationInvite, notifyErr.Kind)

	items := f.items(t, res.Candidate.ID)
	require.Len(t, items, 1)
	assert.Equal(t, model.ItemInviteFailed, items[0].Type)
	assert.Equal(t, model.PriorityHigh, items[0].Priority)
	assert.Contains(t, items[0].Description, "smtp down")

	stored, err := f.store.Candidates().FindByID(context.Background(), res.Candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInvited, stored.Status)

	warn := f.logs.FilterMessage("auto-decision notification failed").All()
	require.Len(t, warn, 1)
	assert.Equal(t, zapcore.WarnLevel, warn[0].Level)
}

func TestSubmitForScreening_DuplicateApplication(t *testing.T) {
	f := newFixture(t, result(60, model.FitStrong, model.ActionReview))

	first, err := f.uc.SubmitForScreening(context.Background(), submission())
	require.NoError(t, err)
	assert.Empty(t, first.ActionItems)

	in := submission()
	in.Email = "JANE@example.com"
	second, err := f.uc.SubmitForScreening(context.Background(), in)
	require.NoError(t, err)

	assert.NotEqual(t, first.Candidate.ID, second.Candidate.ID)
	assert.True(t, second.RequiresManualAction)
	items := f.items(t, second.Candidate.ID)
	require.Len(t, items, 1)
	assert.Equal(t, model.ItemDuplicate, items[0].Type)
	assert.Equal(t, model.PriorityLow, items[0].Priority)
}

func TestSubmitForScreening_RescreenReplacesDecisionItems(t *testing.T) {
	f := newFixture(t,
		result(65, model.FitMedium, model.ActionInterview),
		result(55, model.FitStrong, model.ActionReject),
	)

	first, err := f.uc.SubmitForScreening(context.Background(), submission())
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]model.ActionItemType{model.ItemReview, model.ItemPendingInvite},
		typesOf(f.items(t, first.Candidate.ID)))

	second, err := f.uc.SubmitForScreening(context.Background(), SubmitInput{
		CandidateID: first.Candidate.ID,
		ResumeText:  "Updated resume.",
	})
	require.NoError(t, err)

	assert.Equal(t, first.Candidate.ID, second.Candidate.ID)
	assert.Equal(t, "Updated resume.", second.Candidate.ResumeText)
	assert.Equal(t, "Jane Doe", second.Candidate.Name)
	assert.Equal(t, 55, second.Candidate.ScreeningResult.FitScore)
	assert.Equal(t, []model.ActionItemType{model.ItemPendingRejection}, typesOf(f.items(t, first.Candidate.ID)))
}

func TestSubmitForScreening_RescreenFinalizedCandidate(t *testing.T) {
	f := newFixture(t, result(95, model.FitStrong, model.ActionInterview))

	first, err := f.uc.SubmitForScreening(context.Background(), submission())
	require.NoError(t, err)

	_, err = f.uc.SubmitForScreening(context.Background(), SubmitInput{CandidateID: first.Candidate.ID})
	assert.ErrorIs(t, err, ErrCandidateFinalized)
	assert.Equal(t, 1, f.scorer.calls)
}

func TestSubmitForScreening_UnknownCandidate(t *testing.T) {
	f := newFixture(t, result(95, model.FitStrong, model.ActionInterview))

	_, err := f.uc.SubmitForScreening(context.Background(), SubmitInput{CandidateID: uuid.New()})
	assert.ErrorIs(t, err, ErrCandidateNotFound)
	assert.Zero(t, f.scorer.calls)
}

func TestSubmitForScreening_IgnoresCancellation(t *testing.T) {
	f := newFixture(t, result(95, model.FitStrong, model.ActionInterview))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.uc.SubmitForScreening(ctx, submission())
	require.NoError(t, err)
	assert.Equal(t, model.StatusInvited, res.Candidate.Status)
}

func TestSubmitForScreening_ConcurrentSubmissionsStayConsistent(t *testing.T) {
	f := newFixture(t,
		result(95, model.FitStrong, model.ActionInterview),
		result(65, model.FitMedium, model.ActionReview),
		result(20, model.FitLow, model.ActionReject),
		result(70, model.FitStrong, model.ActionInterview),
	)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := submission()
			in.Email = fmt.Sprintf("c%d@example.com", i)
			_, err := f.uc.SubmitForScreening(context.Background(), in)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	page, err := f.uc.ListCandidates(context.Background(), repository.CandidateFilter{PageSize: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 20, page.Total)
	for _, c := range page.Candidates {
		assert.True(t, c.Consistent(), "candidate %s", c.ID)
		assert.NotEqual(t, model.StatusPending, c.Status)
	}
}

func screenedCandidate(t *testing.T, f *fixture) uuid.UUID {
	t.Helper()
	res, err := f.uc.SubmitForScreening(context.Background(), submission())
	require.NoError(t, err)
	require.Equal(t, model.StatusScreened, res.Candidate.Status)
	return res.Candidate.ID
}

func TestResolveManualInvite(t *testing.T) {
	f := newFixture(t, result(65, model.FitMedium, model.ActionInterview))
	id := screenedCandidate(t, f)

	c, err := f.uc.ResolveManualInvite(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInvited, c.Status)
	assert.Equal(t, []service.NotificationKind{service.NotificationInvite}, f.notifier.kinds())
	assert.Empty(t, f.items(t, id))

	_, err = f.uc.ResolveManualReject(context.Background(), id)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestResolveManualReject(t *testing.T) {
	f := newFixture(t, result(50, model.FitLow, model.ActionReject))
	id := screenedCandidate(t, f)

	c, err := f.uc.ResolveManualReject(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, c.Status)
	assert.Equal(t, []service.NotificationKind{service.NotificationRejection}, f.notifier.kinds())
	assert.Empty(t, f.items(t, id))
}

func TestResolveManual_KeepsUnrelatedItems(t *testing.T) {
	f := newFixture(t, result(60, model.FitStrong, model.ActionInterview))
	_ = screenedCandidate(t, f)
	id := screenedCandidate(t, f)
	require.ElementsMatch(t,
		[]model.ActionItemType{model.ItemPendingInvite, model.ItemDuplicate},
		typesOf(f.items(t, id)))

	_, err := f.uc.ResolveManualInvite(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []model.ActionItemType{model.ItemDuplicate}, typesOf(f.items(t, id)))
}

func TestResolveManualInvite_NotificationFailureLeavesCandidate(t *testing.T) {
	f := newFixture(t, result(70, model.FitStrong, model.ActionInterview))
	id := screenedCandidate(t, f)
	f.notifier.setErr(errors.New("unreachable"))

	_, err := f.uc.ResolveManualInvite(context.Background(), id)
	var notifyErr *NotificationError
	require.ErrorAs(t, err, &notifyErr)

	stored, err := f.store.Candidates().FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusScreened, stored.Status)
	assert.Equal(t, []model.ActionItemType{model.ItemPendingInvite}, typesOf(f.items(t, id)))
}

func TestResolveManual_Errors(t *testing.T) {
	f := newFixture(t, result(95, model.FitStrong, model.ActionInterview))

	_, err := f.uc.ResolveManualInvite(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCandidateNotFound)

	res, err := f.uc.SubmitForScreening(context.Background(), submission())
	require.NoError(t, err)
	_, err = f.uc.ResolveManualReject(context.Background(), res.Candidate.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, []service.NotificationKind{service.NotificationInvite}, f.notifier.kinds())
}

func TestResolveGeneric(t *testing.T) {
	f := newFixture(t, result(65, model.FitMedium, model.ActionReview))
	id := screenedCandidate(t, f)
	items := f.items(t, id)
	require.Len(t, items, 1)

	require.NoError(t, f.uc.ResolveGeneric(context.Background(), items[0].ID))
	assert.Empty(t, f.items(t, id))

	err := f.uc.ResolveGeneric(context.Background(), items[0].ID)
	assert.ErrorIs(t, err, ErrActionItemNotFound)

	stored, err := f.store.Candidates().FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusScreened, stored.Status)

	assert.Equal(t, 1, f.logs.FilterMessage("action item resolved").Len())
}

func TestRetryNotification(t *testing.T) {
	f := newFixture(t, result(92, model.FitStrong, model.ActionInterview))
	f.notifier.setErr(errors.New("timeout"))

	res, err := f.uc.SubmitForScreening(context.Background(), submission())
	require.NoError(t, err)
	items := f.items(t, res.Candidate.ID)
	require.Len(t, items, 1)

	err = f.uc.RetryNotification(context.Background(), items[0].ID)
	var notifyErr *NotificationError
	require.ErrorAs(t, err, &notifyErr)
	assert.Len(t, f.items(t, res.Candidate.ID), 1)

	f.notifier.setErr(nil)
	require.NoError(t, f.uc.RetryNotification(context.Background(), items[0].ID))
	assert.Empty(t, f.items(t, res.Candidate.ID))
	assert.Equal(t, []service.NotificationKind{service.NotificationInvite}, f.notifier.kinds())
}

func TestRetryNotification_RejectsOtherItems(t *testing.T) {
	f := newFixture(t, result(65, model.FitMedium, model.ActionReview))
	id := screenedCandidate(t, f)
	items := f.items(t, id)
	require.Len(t, items, 1)

	err := f.uc.RetryNotification(context.Background(), items[0].ID)
	assert.ErrorIs(t, err, ErrNotRetryable)

	err = f.uc.RetryNotification(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrActionItemNotFound)
}

func TestGetCandidateAndStats(t *testing.T) {
	f := newFixture(t,
		result(65, model.FitMedium, model.ActionInterview),
		result(95, model.FitStrong, model.ActionInterview),
	)
	id := screenedCandidate(t, f)
	in := submission()
	in.Email = "other@example.com"
	_, err := f.uc.SubmitForScreening(context.Background(), in)
	require.NoError(t, err)

	detail, err := f.uc.GetCandidate(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, detail.Candidate.ID)
	assert.Len(t, detail.ActionItems, 2)

	_, err = f.uc.GetCandidate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCandidateNotFound)

	stats, err := f.uc.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalCandidates)
	assert.EqualValues(t, 1, stats.ByStatus[model.StatusScreened])
	assert.EqualValues(t, 1, stats.ByStatus[model.StatusInvited])
	assert.Contains(t, stats.ByStatus, model.StatusPending)
	assert.EqualValues(t, 2, stats.TotalActionItems)
	assert.Len(t, stats.ByActionItemType, len(model.ActionItemTypes()))

	page, err := f.uc.ListActionItems(context.Background(), repository.ActionItemFilter{Type: model.ItemReview})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
}

type gatedNotifier struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (n *gatedNotifier) Dispatch(ctx context.Context, kind service.NotificationKind, req service.NotificationRequest) error {
	n.mu.Lock()
	n.calls++
	first := n.calls == 1
	n.mu.Unlock()
	if first {
		close(n.entered)
		<-n.release
	}
	return nil
}

func (km *keyedMutex) refs(key string) int {
	km.mu.Lock()
	defer km.mu.Unlock()
	if e, ok := km.locks[key]; ok {
		return e.refs
	}
	return 0
}

func TestRetryNotification_ConcurrentRetriesSendOnce(t *testing.T) {
	f := newFixture(t, result(92, model.FitStrong, model.ActionInterview))
	f.notifier.setErr(errors.New("timeout"))
	res, err := f.uc.SubmitForScreening(context.Background(), submission())
	require.NoError(t, err)
	items := f.items(t, res.Candidate.ID)
	require.Len(t, items, 1)

	gate := &gatedNotifier{entered: make(chan struct{}), release: make(chan struct{})}
	f.uc.notifier = gate

	firstErr := make(chan error, 1)
	go func() { firstErr <- f.uc.RetryNotification(context.Background(), items[0].ID) }()
	<-gate.entered

	secondErr := make(chan error, 1)
	go func() { secondErr <- f.uc.RetryNotification(context.Background(), items[0].ID) }()
	key := res.Candidate.ID.String()
	require.Eventually(t, func() bool { return f.uc.locks.refs(key) == 2 }, time.Second, time.Millisecond)

	close(gate.release)
	require.NoError(t, <-firstErr)
	assert.ErrorIs(t, <-secondErr, ErrActionItemNotFound)
	assert.Equal(t, 1, gate.calls)
	assert.Empty(t, f.items(t, res.Candidate.ID))
}

func TestListCandidates_SearchAndFitCategory(t *testing.T) {
	f := newFixture(t,
		result(65, model.FitMedium, model.ActionReview),
		result(95, model.FitStrong, model.ActionInterview),
		result(30, model.FitLow, model.ActionReject),
	)
	for _, in := range []SubmitInput{
		{Name: "Ada Lovelace", Email: "ada@example.com", JobTitle: "Backend Engineer", JobDescription: "jd", ResumeText: "cv"},
		{Name: "Grace Hopper", Email: "grace@example.com", JobTitle: "Compiler Engineer", JobDescription: "jd", ResumeText: "cv"},
		{Name: "Alan Turing", Email: "alan@example.com", JobTitle: "Data Scientist", JobDescription: "jd", ResumeText: "cv"},
	} {
		_, err := f.uc.SubmitForScreening(context.Background(), in)
		require.NoError(t, err)
	}

	page, err := f.uc.ListCandidates(context.Background(), repository.CandidateFilter{Search: "ENGINEER"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = f.uc.ListCandidates(context.Background(), repository.CandidateFilter{Search: "turing"})
	require.NoError(t, err)
	require.Len(t, page.Candidates, 1)
	assert.Equal(t, "Alan Turing", page.Candidates[0].Name)

	page, err = f.uc.ListCandidates(context.Background(), repository.CandidateFilter{FitCategory: model.FitStrong, Search: "engineer"})
	require.NoError(t, err)
	require.Len(t, page.Candidates, 1)
	assert.Equal(t, "Grace Hopper", page.Candidates[0].Name)

	stats, err := f.uc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[model.FitCategory]int64{model.FitStrong: 1, model.FitMedium: 1, model.FitLow: 1}, stats.ByFitCategory)
}
