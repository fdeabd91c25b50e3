package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/stackit-cli/internal/intent"
	"github.com/glabrego/stackit-cli/internal/pipeline"
	"github.com/glabrego/stackit-cli/internal/stackexchange"
	"github.com/glabrego/stackit-cli/internal/tui/actions"
	"github.com/glabrego/stackit-cli/internal/tui/platform"
	tuistate "github.com/glabrego/stackit-cli/internal/tui/state"
	tuitheme "github.com/glabrego/stackit-cli/internal/tui/theme"
	"github.com/glabrego/stackit-cli/internal/tui/view"
)

// Questions is the part of the questions manager the TUI drives.
type Questions interface {
	LoadTags()
	Submit(intent.Questions)
	LoadMore() bool
	Refresh()
	Reset()
	ToggleFavorite(id string)
	ToggleFilter(pipeline.Filter)
	Subscribe() (<-chan pipeline.QuestionsState, func())
}

type Answers interface {
	Submit(intent.Answers)
	LoadMore() bool
	Refresh()
	Subscribe() (<-chan pipeline.AnswersState, func())
}

type Comments interface {
	Submit(intent.Comments)
	LoadMore() bool
	Refresh()
	Subscribe() (<-chan pipeline.CommentsState, func())
}

type promptKind int

const (
	promptNone promptKind = iota
	promptSearch
	promptTag
)

type Model struct {
	questions Questions
	answers   Answers
	comments  Comments

	questionUpdates <-chan pipeline.QuestionsState
	answerUpdates   <-chan pipeline.AnswersState
	commentUpdates  <-chan pipeline.CommentsState
	unsubscribe     []func()

	qs pipeline.QuestionsState
	as pipeline.AnswersState
	cs pipeline.CommentsState

	screen       view.Screen
	commentsBack view.Screen
	cursor       int
	answerCursor int
	reading      stackexchange.Question
	top          int

	prompt promptKind
	input  textinput.Model

	width  int
	height int
	status string
	theme  tuitheme.Theme

	nowFn     func() time.Time
	openURLFn func(string) error
	copyURLFn func(string) error
}

func NewModel(questions Questions, answers Answers, comments Comments) Model {
	input := textinput.New()
	input.CharLimit = 140

	m := Model{
		questions: questions,
		answers:   answers,
		comments:  comments,
		screen:    view.ScreenQuestions,
		input:     input,
		theme:     tuitheme.Default(),
		nowFn:     time.Now,
		openURLFn: platform.OpenInBrowser,
		copyURLFn: platform.CopyToClipboard,
	}
	if questions != nil {
		ch, cancel := questions.Subscribe()
		m.questionUpdates = ch
		m.unsubscribe = append(m.unsubscribe, cancel)
	}
	if answers != nil {
		ch, cancel := answers.Subscribe()
		m.answerUpdates = ch
		m.unsubscribe = append(m.unsubscribe, cancel)
	}
	if comments != nil {
		ch, cancel := comments.Subscribe()
		m.commentUpdates = ch
		m.unsubscribe = append(m.unsubscribe, cancel)
	}
	return m
}

// Close drops the state subscriptions.
func (m Model) Close() {
	for _, cancel := range m.unsubscribe {
		cancel()
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		actions.WaitQuestions(m.questionUpdates),
		actions.WaitAnswers(m.answerUpdates),
		actions.WaitComments(m.commentUpdates),
	}
	if m.questions != nil {
		questions := m.questions
		cmds = append(cmds, func() tea.Msg {
			questions.LoadTags()
			return nil
		})
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-12)
		return m, nil
	case actions.QuestionsStateMsg:
		m.qs = msg.State
		m.cursor = tuistate.ClampCursor(m.cursor, len(m.qs.Questions))
		return m, actions.WaitQuestions(m.questionUpdates)
	case actions.AnswersStateMsg:
		m.as = msg.State
		m.answerCursor = tuistate.ClampCursor(m.answerCursor, len(m.as.Answers))
		return m, actions.WaitAnswers(m.answerUpdates)
	case actions.CommentsStateMsg:
		m.cs = msg.State
		return m, actions.WaitComments(m.commentUpdates)
	case actions.LinkSuccessMsg:
		m.status = msg.Status
		return m, nil
	case actions.LinkErrorMsg:
		m.status = msg.Err.Error()
		return m, nil
	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
		switch m.screen {
		case view.ScreenAnswers:
			return m.updateAnswers(msg)
		case view.ScreenComments:
			return m.updateComments(msg)
		default:
			return m.updateQuestions(msg)
		}
	}
	return m, nil
}

func (m Model) updateQuestions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "j", "down":
		m.cursor = tuistate.ClampCursor(m.cursor+1, len(m.qs.Questions))
	case "k", "up":
		m.cursor = tuistate.ClampCursor(m.cursor-1, len(m.qs.Questions))
	case "pgdown":
		m.cursor = tuistate.ClampCursor(m.cursor+tuistate.PageStep(m.height, false), len(m.qs.Questions))
	case "pgup":
		m.cursor = tuistate.ClampCursor(m.cursor-tuistate.PageStep(m.height, false), len(m.qs.Questions))
	case "g":
		m.cursor = 0
	case "G":
		m.cursor = tuistate.ClampCursor(len(m.qs.Questions)-1, len(m.qs.Questions))
	case "1", "2", "3", "4", "5", "6":
		trending := intent.AllTrending[int(key[0]-'1')]
		m.submitQuestions(intent.Questions{Subsection: intent.TrendingSort(trending)})
	case "/":
		return m.openPrompt(promptSearch, "search: ")
	case "#":
		return m.openPrompt(promptTag, "tag: ")
	case "F":
		m.submitQuestions(intent.Questions{Subsection: intent.Favorites()})
	case "f":
		if q, ok := m.selectedQuestion(); ok && m.questions != nil {
			m.questions.ToggleFavorite(q.FavoriteKey())
		}
	case "u":
		m.toggleFilter(pipeline.FilterUnanswered)
	case "a":
		m.toggleFilter(pipeline.FilterAccepted)
	case "n":
		if m.questions == nil || len(m.qs.Filters) > 0 || !m.qs.ShowLoadMore || m.qs.Loading.Contains(intent.ChannelQuestions) {
			return m, nil
		}
		if m.questions.LoadMore() {
			m.status = "Loading more questions"
		}
	case "r":
		if m.questions != nil {
			m.questions.Refresh()
			m.status = "Refreshing"
		}
	case "x":
		if m.questions != nil {
			m.questions.Reset()
			m.cursor = 0
			m.status = "Tag selection cleared"
		}
	case "enter":
		if q, ok := m.selectedQuestion(); ok && m.answers != nil {
			m.reading = q
			m.answerCursor = 0
			m.top = 0
			m.answers.Submit(intent.Answers{QuestionID: q.ID})
			m.screen = view.ScreenAnswers
		}
	case "c":
		if q, ok := m.selectedQuestion(); ok {
			m.reading = q
			return m.openComments(intent.OnQuestion(q.ID), view.ScreenQuestions)
		}
	case "o":
		if q, ok := m.selectedQuestion(); ok {
			return m.openLink(q.Link)
		}
	case "y":
		if q, ok := m.selectedQuestion(); ok {
			return m.copyLink(q.Link)
		}
	}
	return m, nil
}

func (m Model) updateAnswers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.screen = view.ScreenQuestions
		m.top = 0
	case "j", "down":
		m.top = tuistate.ClampScroll(m.top+1, len(m.answersLines()), m.bodyHeight())
	case "k", "up":
		m.top = tuistate.ClampScroll(m.top-1, len(m.answersLines()), m.bodyHeight())
	case "pgdown", " ":
		m.top = tuistate.ClampScroll(m.top+tuistate.PageStep(m.height, false), len(m.answersLines()), m.bodyHeight())
	case "pgup":
		m.top = tuistate.ClampScroll(m.top-tuistate.PageStep(m.height, false), len(m.answersLines()), m.bodyHeight())
	case "tab":
		m.answerCursor = tuistate.ClampCursor(m.answerCursor+1, len(m.as.Answers))
	case "shift+tab":
		m.answerCursor = tuistate.ClampCursor(m.answerCursor-1, len(m.as.Answers))
	case "c":
		if len(m.as.Answers) > 0 {
			return m.openComments(intent.OnAnswer(m.as.Answers[m.answerCursor].ID), view.ScreenAnswers)
		}
		return m.openComments(intent.OnQuestion(m.reading.ID), view.ScreenAnswers)
	case "n":
		if m.answers != nil && m.as.ShowLoadMore && !m.as.Loading.Contains(intent.ChannelAnswers) && m.answers.LoadMore() {
			m.status = "Loading more answers"
		}
	case "r":
		if m.answers != nil {
			m.answers.Refresh()
		}
	case "o":
		return m.openLink(m.reading.Link)
	case "y":
		return m.copyLink(m.reading.Link)
	}
	return m, nil
}

func (m Model) updateComments(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.screen = m.commentsBack
		m.top = 0
	case "j", "down":
		m.top = tuistate.ClampScroll(m.top+1, len(m.commentsLines()), m.bodyHeight())
	case "k", "up":
		m.top = tuistate.ClampScroll(m.top-1, len(m.commentsLines()), m.bodyHeight())
	case "n":
		if m.comments != nil && m.cs.ShowLoadMore && !m.cs.Loading.Contains(intent.ChannelComments) && m.comments.LoadMore() {
			m.status = "Loading more comments"
		}
	case "r":
		if m.comments != nil {
			m.comments.Refresh()
		}
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompt = promptNone
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		kind := m.prompt
		m.prompt = promptNone
		m.input.Blur()
		m.input.Reset()
		if value == "" {
			return m, nil
		}
		switch kind {
		case promptSearch:
			m.submitQuestions(intent.Questions{Subsection: intent.Search(value)})
			m.status = fmt.Sprintf("Searching %q", value)
		case promptTag:
			m.submitQuestions(intent.Questions{Subsection: intent.Tag(value)})
			m.status = "Toggled tag " + value
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) openPrompt(kind promptKind, label string) (tea.Model, tea.Cmd) {
	m.prompt = kind
	m.input.Prompt = label
	m.input.Reset()
	return m, m.input.Focus()
}

func (m Model) openComments(target intent.Target, back view.Screen) (tea.Model, tea.Cmd) {
	if m.comments == nil {
		return m, nil
	}
	m.comments.Submit(intent.Comments{Target: target})
	m.commentsBack = back
	m.screen = view.ScreenComments
	m.top = 0
	return m, nil
}

func (m Model) openLink(link string) (tea.Model, tea.Cmd) {
	valid, err := platform.ValidateLink(link)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	return m, actions.OpenLinkCmd(valid, m.openURLFn, m.copyURLFn)
}

func (m Model) copyLink(link string) (tea.Model, tea.Cmd) {
	valid, err := platform.ValidateLink(link)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	return m, actions.CopyLinkCmd(valid, m.copyURLFn)
}

func (m *Model) submitQuestions(in intent.Questions) {
	if m.questions == nil {
		return
	}
	m.questions.Submit(in)
	m.cursor = 0
	m.status = ""
}

func (m *Model) toggleFilter(f pipeline.Filter) {
	if m.questions == nil {
		return
	}
	m.questions.ToggleFilter(f)
	m.cursor = 0
}

func (m Model) selectedQuestion() (stackexchange.Question, bool) {
	if len(m.qs.Questions) == 0 {
		return stackexchange.Question{}, false
	}
	return m.qs.Questions[tuistate.ClampCursor(m.cursor, len(m.qs.Questions))], true
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(view.Header(m.qs.Intent.Subsection, m.qs.Trending, m.qs.Tags, m.theme))
	b.WriteString("\n\n")

	switch m.screen {
	case view.ScreenAnswers:
		b.WriteString(renderWindow(m.answersLines(), m.top, m.bodyHeight()))
	case view.ScreenComments:
		b.WriteString(renderWindow(m.commentsLines(), m.top, m.bodyHeight()))
	default:
		b.WriteString(m.questionsList())
	}

	b.WriteString("\n\n")
	if m.prompt != promptNone {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString(view.Footer(filterNames(m.qs.Filters), len(m.qs.Questions), m.qs.ShowLoadMore, m.theme))
	b.WriteString("\n")
	b.WriteString(view.Message(m.loading(), m.status, m.theme))
	b.WriteString("\n")
	b.WriteString(m.theme.MetaLabel.Render(view.Toolbar(m.screen)))
	return b.String()
}

func (m Model) questionsList() string {
	if len(m.qs.Questions) == 0 {
		switch {
		case m.qs.Loading.Contains(intent.ChannelQuestions) || m.qs.Loading.Contains(intent.ChannelTags):
			return m.theme.Placeholder.Render(skeleton(min(5, max(1, m.bodyHeight())), m.contentWidth()))
		case m.qs.NoMatches:
			return m.theme.Placeholder.Render("No question matches the active filters.")
		case m.qs.Loaded:
			return m.theme.Placeholder.Render("No questions.")
		default:
			return m.theme.Placeholder.Render("Waiting for questions...")
		}
	}

	start, end := tuistate.CenteredWindow(len(m.qs.Questions), m.cursor, m.bodyHeight())
	lines := make([]string, 0, end-start)
	now := m.nowFn()
	for i := start; i < end; i++ {
		lines = append(lines, view.RenderQuestionLine(view.QuestionLineParams{
			Question: m.qs.Questions[i],
			Now:      now,
			Active:   i == m.cursor,
			Width:    m.contentWidth(),
		}, m.theme))
	}
	if m.qs.ShowLoadMore && len(m.qs.Filters) == 0 && end == len(m.qs.Questions) {
		lines = append(lines, m.theme.MetaLabel.Render("   n: load more"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) answersLines() []string {
	width := m.contentWidth()
	now := m.nowFn()
	lines := view.QuestionLines(m.reading, now, width, m.theme)
	lines = append(lines, "", m.theme.Section.Render(fmt.Sprintf("%d answers", len(m.as.Answers))), "")
	if len(m.as.Answers) == 0 && m.as.Loading.Contains(intent.ChannelAnswers) {
		lines = append(lines, m.theme.Placeholder.Render("Loading answers..."))
	}
	for i, a := range m.as.Answers {
		if i > 0 {
			lines = append(lines, "", strings.Repeat("─", max(1, min(width, 40))), "")
		}
		lines = append(lines, view.AnswerLines(a, i == m.answerCursor, now, width, m.theme)...)
	}
	if m.as.ShowLoadMore {
		lines = append(lines, "", m.theme.MetaLabel.Render("n: load more answers"))
	}
	return lines
}

func (m Model) commentsLines() []string {
	width := m.contentWidth()
	now := m.nowFn()
	lines := []string{m.theme.Section.Render(fmt.Sprintf("Comments on %s", targetLabel(m.cs.Intent.Target))), ""}
	switch {
	case len(m.cs.Comments) == 0 && m.cs.Loading.Contains(intent.ChannelComments):
		lines = append(lines, m.theme.Placeholder.Render("Loading comments..."))
	case len(m.cs.Comments) == 0 && m.cs.Loaded:
		lines = append(lines, m.theme.Placeholder.Render("No comments."))
	}
	for _, c := range m.cs.Comments {
		lines = append(lines, view.CommentLines(c, now, width, m.theme)...)
		lines = append(lines, "")
	}
	if m.cs.ShowLoadMore {
		lines = append(lines, m.theme.MetaLabel.Render("n: load more comments"))
	}
	return lines
}

func (m Model) loading() bool {
	switch m.screen {
	case view.ScreenAnswers:
		return !m.as.Loading.Empty()
	case view.ScreenComments:
		return !m.cs.Loading.Empty()
	default:
		return !m.qs.Loading.Empty()
	}
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 100
	}
	return m.width
}

func (m Model) bodyHeight() int {
	if m.height <= 0 {
		return 20
	}
	return max(3, m.height-7)
}

func renderWindow(lines []string, top, height int) string {
	top = tuistate.ClampScroll(top, len(lines), height)
	end := min(len(lines), top+height)
	return strings.Join(lines[top:end], "\n")
}

func skeleton(rows, width int) string {
	size := max(1, min(width-6, 60))
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = "   " + strings.Repeat("░", max(1, size-(i%3)*4))
	}
	return strings.Join(lines, "\n")
}

func filterNames(filters []pipeline.Filter) []string {
	names := make([]string, 0, len(filters))
	for _, f := range filters {
		names = append(names, string(f))
	}
	return names
}

func targetLabel(t intent.Target) string {
	if t.Kind == intent.TargetAnswer {
		return fmt.Sprintf("answer %d", t.ID)
	}
	return fmt.Sprintf("question %d", t.ID)
}
