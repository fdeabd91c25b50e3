package view

import (
	"strings"
	"testing"
	"time"

	"github.com/glabrego/stackit-cli/internal/stackexchange"
	tuitheme "github.com/glabrego/stackit-cli/internal/tui/theme"
)

func TestRenderQuestionLine_Markers(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	th := tuitheme.Default()

	line := stripANSI(RenderQuestionLine(QuestionLineParams{
		Question: stackexchange.Question{
			ID:               42,
			Title:            "How do I use generics &amp; interfaces?",
			Score:            1234,
			AnswerCount:      3,
			AcceptedAnswerID: 7,
			CreationDate:     now.Add(-2 * time.Hour).Unix(),
			IsFavorite:       true,
		},
		Now:    now,
		Active: true,
		Width:  100,
	}, th))

	for _, want := range []string{">★", "1,234", "✓3", "generics & interfaces", "[2 hours ago]"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in line, got %q", want, line)
		}
	}
	if got := visibleLen(line); got != 100 {
		t.Fatalf("expected line padded to width 100, got %d: %q", got, line)
	}
}

func TestRenderQuestionLine_TruncatesTitle(t *testing.T) {
	th := tuitheme.Default()
	line := stripANSI(RenderQuestionLine(QuestionLineParams{
		Question: stackexchange.Question{Title: strings.Repeat("long ", 40)},
		Width:    50,
	}, th))
	if !strings.Contains(line, "...") {
		t.Fatalf("expected truncated title, got %q", line)
	}
	if !strings.Contains(line, "[unknown]") {
		t.Fatalf("expected unknown date for missing creation date, got %q", line)
	}
}

func TestRelativeTimeLabel(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		then time.Time
		want string
	}{
		{then: time.Time{}, want: "unknown"},
		{then: now.Add(10 * time.Second), want: "just now"},
		{then: now.Add(-30 * time.Second), want: "just now"},
		{then: now.Add(-3 * time.Hour), want: "3 hours ago"},
		{then: now.Add(-48 * time.Hour), want: "2 days ago"},
	}
	for _, tc := range cases {
		if got := RelativeTimeLabel(now, tc.then); got != tc.want {
			t.Fatalf("RelativeTimeLabel(%v) = %q, want %q", tc.then, got, tc.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("héllo world", 8); got != "héllo..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncateRunes("abc", 2); got != ".." {
		t.Fatalf("unexpected short truncation: %q", got)
	}
}
