package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glabrego/stackit-cli/internal/gateway"
	"github.com/glabrego/stackit-cli/internal/intent"
	"github.com/glabrego/stackit-cli/internal/stackexchange"
)

func TestComments_TargetSelectsEndpoint(t *testing.T) {
	g := newFakeGateway()
	m := NewCommentsManager(g, Options{})
	t.Cleanup(m.Close)

	m.Submit(intent.Comments{Target: intent.OnQuestion(5)})
	p := next(t, g.comments)
	require.Equal(t, gateway.CategoryQuestionComments, p.Req.Category)
	require.Equal(t, int64(5), p.Req.QuestionID)

	m.Submit(intent.Comments{Target: intent.OnAnswer(9)})
	p = next(t, g.comments)
	require.Equal(t, gateway.CategoryAnswerComments, p.Req.Category)
	require.Equal(t, int64(9), p.Req.AnswerID)
}

func TestComments_LoadMoreIgnoresQuota(t *testing.T) {
	g := newFakeGateway()
	m := NewCommentsManager(g, Options{})
	t.Cleanup(m.Close)

	m.Submit(intent.Comments{Target: intent.OnAnswer(9)})
	next(t, g.comments).respond([]stackexchange.Comment{{ID: 1, PostID: 9}}, true, 0)

	state := waitFor(t, m.State, func(s CommentsState) bool { return s.Loaded })
	require.True(t, state.ShowLoadMore)

	require.True(t, m.LoadMore())
	p := next(t, g.comments)
	require.Equal(t, intent.ActionPaging, p.Req.Action.Kind)
	require.Equal(t, 2, p.Req.Action.Page())
	require.Equal(t, int64(9), p.Req.AnswerID)

	m.Refresh()
	p = next(t, g.comments)
	require.Equal(t, intent.ActionRefresh, p.Req.Action.Kind)
}

func TestComments_LoadMoreRefusedWhilePageInFlight(t *testing.T) {
	g := newFakeGateway()
	m := NewCommentsManager(g, Options{})
	t.Cleanup(m.Close)

	m.Submit(intent.Comments{Target: intent.OnQuestion(3)})
	next(t, g.comments).respond([]stackexchange.Comment{{ID: 1, PostID: 3}}, true, 0)
	waitFor(t, m.State, func(s CommentsState) bool { return s.Loaded })

	require.True(t, m.LoadMore())
	p := next(t, g.comments)
	require.False(t, m.LoadMore())
	noFetch(t, g.comments)
	require.NoError(t, p.Ctx.Err())
}
