package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/glabrego/stackit-cli/internal/stackexchange"
)

func TestStyleQuestionTitle_ByAnswerState(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()

	cases := map[string]stackexchange.Question{
		"Open":     {},
		"Answered": {AnswerCount: 2},
		"Accepted": {AnswerCount: 2, AcceptedAnswerID: 9},
	}
	for title, q := range cases {
		got := th.StyleQuestionTitle(q, title)
		if !strings.Contains(got, "\x1b[") || !strings.Contains(got, title) {
			t.Fatalf("expected styled %s title, got %q", title, got)
		}
	}
	if got := th.StyleQuestionTitle(stackexchange.Question{}, ""); got != "" {
		t.Fatalf("expected empty title untouched, got %q", got)
	}
}

func TestRenderTag_Selection(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()

	on := th.RenderTag(stackexchange.Tag{Name: "go", IsFavorite: true})
	off := th.RenderTag(stackexchange.Tag{Name: "go"})
	if on == off {
		t.Fatalf("expected selected and unselected tags to differ, got %q", on)
	}
	if !strings.Contains(on, "go") || !strings.Contains(off, "go") {
		t.Fatalf("expected tag name in both renderings: %q %q", on, off)
	}
}
