package pipeline

import (
	"context"
	"slices"

	"github.com/glabrego/stackit-cli/internal/gateway"
	"github.com/glabrego/stackit-cli/internal/intent"
	"github.com/glabrego/stackit-cli/internal/stackexchange"
)

type AnswersGateway interface {
	FetchAnswers(ctx context.Context, req gateway.Request) (gateway.Result[stackexchange.Answer], error)
}

type AnswersState struct {
	Answers      []stackexchange.Answer
	Loading      Sections
	ShowLoadMore bool
	Loaded       bool
	Intent       intent.Answers
}

// AnswersManager owns the answers channel of the question being read.
type AnswersManager struct {
	base
	gateway AnswersGateway
	sw      switcher

	answers      []stackexchange.Answer
	showLoadMore bool
	loaded       bool
	current      intent.Answers

	subs broadcaster[AnswersState]
}

func NewAnswersManager(gw AnswersGateway, opts Options) *AnswersManager {
	opts = opts.withDefaults()
	return &AnswersManager{
		base:    newBase(opts),
		gateway: gw,
	}
}

func (m *AnswersManager) Submit(in intent.Answers) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitLocked(in)
}

func (m *AnswersManager) LoadMore() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.showLoadMore || m.closed || m.loading.Contains(intent.ChannelAnswers) {
		return false
	}
	m.submitLocked(m.current.NextPage())
	return true
}

func (m *AnswersManager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitLocked(m.current.Refreshed())
}

func (m *AnswersManager) State() AnswersState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *AnswersManager) Subscribe() (<-chan AnswersState, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subs.subscribe(m.snapshotLocked())
}

func (m *AnswersManager) Close() {
	m.shutdown(&m.sw)
	m.subs.closeAll()
}

func (m *AnswersManager) submitLocked(in intent.Answers) {
	if m.closed {
		return
	}
	if in.QuestionID != m.current.QuestionID {
		// A different question: drop what belongs to the previous one.
		m.answers = nil
		m.showLoadMore = false
		m.loaded = false
	}
	m.current = in
	m.loading.insert(intent.ChannelAnswers)

	req := gateway.Request{
		Category:   gateway.CategoryAnswers,
		QuestionID: in.QuestionID,
		Action:     in.Action,
	}
	dispatch(&m.base, &m.sw, intent.ChannelAnswers, in.Action,
		func(ctx context.Context) (gateway.Result[stackexchange.Answer], error) {
			return m.gateway.FetchAnswers(ctx, req)
		},
		func(res gateway.Result[stackexchange.Answer], err error) {
			if err != nil {
				res = gateway.Result[stackexchange.Answer]{}
			}
			m.loading.remove(intent.ChannelAnswers)
			m.answers = res.Items
			m.showLoadMore = res.HasMore && res.QuotaRemaining > 0
			m.loaded = true
			m.publishLocked()
		})
	m.publishLocked()
}

func (m *AnswersManager) snapshotLocked() AnswersState {
	return AnswersState{
		Answers:      slices.Clone(m.answers),
		Loading:      m.loading.clone(),
		ShowLoadMore: m.showLoadMore,
		Loaded:       m.loaded,
		Intent:       m.current,
	}
}

func (m *AnswersManager) publishLocked() {
	m.subs.publish(m.snapshotLocked())
}
