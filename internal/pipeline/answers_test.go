package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glabrego/stackit-cli/internal/gateway"
	"github.com/glabrego/stackit-cli/internal/intent"
	"github.com/glabrego/stackit-cli/internal/stackexchange"
)

func answers(questionID int64, ids ...int64) []stackexchange.Answer {
	out := make([]stackexchange.Answer, 0, len(ids))
	for _, id := range ids {
		out = append(out, stackexchange.Answer{ID: id, QuestionID: questionID})
	}
	return out
}

func TestAnswers_PagingAndQuotaGate(t *testing.T) {
	g := newFakeGateway()
	m := NewAnswersManager(g, Options{})
	t.Cleanup(m.Close)

	m.Submit(intent.Answers{QuestionID: 7})
	require.True(t, m.State().Loading.Contains(intent.ChannelAnswers))

	p := next(t, g.answers)
	require.Equal(t, gateway.CategoryAnswers, p.Req.Category)
	require.Equal(t, int64(7), p.Req.QuestionID)
	p.respond(answers(7, 1, 2), true, 1)

	state := waitFor(t, m.State, func(s AnswersState) bool { return s.Loaded })
	require.Len(t, state.Answers, 2)
	require.True(t, state.ShowLoadMore)
	require.True(t, state.Loading.Empty())

	require.True(t, m.LoadMore())
	p = next(t, g.answers)
	require.Equal(t, 2, p.Req.Action.Page())
	p.respond(answers(7, 1, 2, 3), true, 0)

	state = waitFor(t, m.State, func(s AnswersState) bool { return len(s.Answers) == 3 })
	require.False(t, state.ShowLoadMore)
	require.False(t, m.LoadMore())
}

func TestAnswers_SwitchingQuestionDropsPreviousAnswers(t *testing.T) {
	g := newFakeGateway()
	rec := newCountingRecorder()
	m := NewAnswersManager(g, Options{Recorder: rec})
	t.Cleanup(m.Close)

	m.Submit(intent.Answers{QuestionID: 1})
	next(t, g.answers).respond(answers(1, 10), false, 5)
	waitFor(t, m.State, func(s AnswersState) bool { return s.Loaded })

	m.Submit(intent.Answers{QuestionID: 2})
	state := m.State()
	require.Empty(t, state.Answers)
	require.False(t, state.Loaded)
	require.Equal(t, int64(2), state.Intent.QuestionID)

	m.Submit(intent.Answers{QuestionID: 3})
	next(t, g.answers)
	last := next(t, g.answers)
	require.Equal(t, int64(3), last.Req.QuestionID)
	last.respond(answers(3, 30), false, 5)

	state = waitFor(t, m.State, func(s AnswersState) bool { return s.Loaded })
	require.Equal(t, int64(30), state.Answers[0].ID)
	require.Eventually(t, func() bool { return rec.fetchCount("answers/stale") == 1 }, waitTimeout, waitTick)
}

func TestAnswers_FailureClearsLoading(t *testing.T) {
	g := newFakeGateway()
	m := NewAnswersManager(g, Options{})
	t.Cleanup(m.Close)

	m.Submit(intent.Answers{QuestionID: 7})
	next(t, g.answers).fail(errors.New("boom"))

	state := waitFor(t, m.State, func(s AnswersState) bool { return s.Loaded })
	require.Empty(t, state.Answers)
	require.True(t, state.Loading.Empty())
	require.False(t, state.ShowLoadMore)
}

func TestAnswers_LoadMoreRefusedWhilePageInFlight(t *testing.T) {
	g := newFakeGateway()
	m := NewAnswersManager(g, Options{})
	t.Cleanup(m.Close)

	m.Submit(intent.Answers{QuestionID: 7})
	next(t, g.answers).respond(answers(7, 1), true, 5)
	waitFor(t, m.State, func(s AnswersState) bool { return s.Loaded })

	require.True(t, m.LoadMore())
	p := next(t, g.answers)
	require.False(t, m.LoadMore())
	noFetch(t, g.answers)
	require.NoError(t, p.Ctx.Err(), "page 2 must not be superseded")

	p.respond(answers(7, 1, 2), true, 5)
	waitFor(t, m.State, func(s AnswersState) bool { return len(s.Answers) == 2 && s.Loading.Empty() })
	require.True(t, m.LoadMore())
	require.Equal(t, 3, next(t, g.answers).Req.Action.Page())
}
