package pipeline

import (
	"context"
	"slices"

	"github.com/glabrego/stackit-cli/internal/gateway"
	"github.com/glabrego/stackit-cli/internal/intent"
	"github.com/glabrego/stackit-cli/internal/stackexchange"
)

type CommentsGateway interface {
	FetchComments(ctx context.Context, req gateway.Request) (gateway.Result[stackexchange.Comment], error)
}

type CommentsState struct {
	Comments     []stackexchange.Comment
	Loading      Sections
	ShowLoadMore bool
	Loaded       bool
	Intent       intent.Comments
}

// CommentsManager owns the comments channel of one question or answer.
type CommentsManager struct {
	base
	gateway CommentsGateway
	sw      switcher

	comments     []stackexchange.Comment
	showLoadMore bool
	loaded       bool
	current      intent.Comments

	subs broadcaster[CommentsState]
}

func NewCommentsManager(gw CommentsGateway, opts Options) *CommentsManager {
	opts = opts.withDefaults()
	return &CommentsManager{
		base:    newBase(opts),
		gateway: gw,
	}
}

func (m *CommentsManager) Submit(in intent.Comments) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitLocked(in)
}

func (m *CommentsManager) LoadMore() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.showLoadMore || m.closed || m.loading.Contains(intent.ChannelComments) {
		return false
	}
	m.submitLocked(m.current.NextPage())
	return true
}

func (m *CommentsManager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitLocked(m.current.Refreshed())
}

func (m *CommentsManager) State() CommentsState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *CommentsManager) Subscribe() (<-chan CommentsState, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subs.subscribe(m.snapshotLocked())
}

func (m *CommentsManager) Close() {
	m.shutdown(&m.sw)
	m.subs.closeAll()
}

func (m *CommentsManager) submitLocked(in intent.Comments) {
	if m.closed {
		return
	}
	if in.Target != m.current.Target {
		m.comments = nil
		m.showLoadMore = false
		m.loaded = false
	}
	m.current = in
	m.loading.insert(intent.ChannelComments)

	req := gateway.Request{Category: gateway.CategoryQuestionComments, Action: in.Action}
	if in.Target.Kind == intent.TargetAnswer {
		req.Category = gateway.CategoryAnswerComments
		req.AnswerID = in.Target.ID
	} else {
		req.QuestionID = in.Target.ID
	}
	dispatch(&m.base, &m.sw, intent.ChannelComments, in.Action,
		func(ctx context.Context) (gateway.Result[stackexchange.Comment], error) {
			return m.gateway.FetchComments(ctx, req)
		},
		func(res gateway.Result[stackexchange.Comment], err error) {
			if err != nil {
				res = gateway.Result[stackexchange.Comment]{}
			}
			m.loading.remove(intent.ChannelComments)
			m.comments = res.Items
			m.showLoadMore = res.HasMore
			m.loaded = true
			m.publishLocked()
		})
	m.publishLocked()
}

func (m *CommentsManager) snapshotLocked() CommentsState {
	return CommentsState{
		Comments:     slices.Clone(m.comments),
		Loading:      m.loading.clone(),
		ShowLoadMore: m.showLoadMore,
		Loaded:       m.loaded,
		Intent:       m.current,
	}
}

func (m *CommentsManager) publishLocked() {
	m.subs.publish(m.snapshotLocked())
}
