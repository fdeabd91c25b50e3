package view

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/glabrego/stackit-cli/internal/stackexchange"
	tuitheme "github.com/glabrego/stackit-cli/internal/tui/theme"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type QuestionLineParams struct {
	Question stackexchange.Question
	Now      time.Time
	Active   bool
	Width    int
}

// RenderQuestionLine lays out one row: cursor, favorite star, score,
// answer count, title, and the relative creation date flush right.
func RenderQuestionLine(p QuestionLineParams, th tuitheme.Theme) string {
	cursor := " "
	if p.Active {
		cursor = ">"
	}
	star := " "
	if p.Question.IsFavorite {
		star = th.Favorite.Render("★")
	}
	answered := " "
	if p.Question.AcceptedAnswerID != 0 {
		answered = "✓"
	}

	score := th.Score.Render(fmt.Sprintf("%5s", humanize.Comma(int64(p.Question.Score))))
	prefix := fmt.Sprintf(" %s%s %s %s%-3d ", cursor, star, score, answered, p.Question.AnswerCount)
	dateLabel := "[" + RelativeTimeLabel(p.Now, created(p.Question.CreationDate)) + "]"

	available := p.Width - visibleLen(prefix) - 1 - visibleLen(dateLabel)
	if available < 1 {
		available = 1
	}
	label := truncateRunes(html.UnescapeString(strings.TrimSpace(p.Question.Title)), available)
	styled := th.StyleQuestionTitle(p.Question, label)
	gap := p.Width - visibleLen(prefix) - visibleLen(label) - visibleLen(dateLabel)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(p.Active, prefix+styled+strings.Repeat(" ", gap)+dateLabel)
}

// RelativeTimeLabel renders then relative to now, e.g. "3 hours ago".
func RelativeTimeLabel(now, then time.Time) string {
	if then.IsZero() {
		return "unknown"
	}
	if now.IsZero() {
		now = time.Now()
	}
	if !then.Before(now) || now.Sub(then) < time.Minute {
		return "just now"
	}
	return humanize.RelTime(then, now, "ago", "from now")
}

func created(unix int64) time.Time {
	if unix == 0 {
		return time.Time{}
	}
	return time.Unix(unix, 0).UTC()
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSIText(s))
}

func stripANSIText(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
