package view

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/glabrego/stackit-cli/internal/render/post"
	"github.com/glabrego/stackit-cli/internal/stackexchange"
	tuitheme "github.com/glabrego/stackit-cli/internal/tui/theme"
)

// QuestionLines renders the question being read: title, metadata and body.
func QuestionLines(q stackexchange.Question, now time.Time, width int, th tuitheme.Theme) []string {
	title := html.UnescapeString(q.Title)
	lines := make([]string, 0, 32)
	for _, line := range post.Lines([]post.Block{{Kind: post.KindText, Text: title}}, width) {
		lines = append(lines, th.Title.Render(line))
	}
	lines = append(lines, strings.Repeat("=", max(1, min(width, len([]rune(title))))))

	meta := fmt.Sprintf("%s %s  %s %s  %s %s",
		th.MetaLabel.Render("score"), th.MetaValue.Render(humanize.Comma(int64(q.Score))),
		th.MetaLabel.Render("views"), th.MetaValue.Render(humanize.Comma(int64(q.ViewCount))),
		th.MetaLabel.Render("asked"), th.MetaValue.Render(RelativeTimeLabel(now, created(q.CreationDate))),
	)
	lines = append(lines, meta)
	if q.Owner.DisplayName != "" {
		lines = append(lines, th.MetaLabel.Render("by")+" "+th.MetaValue.Render(ownerLabel(q.Owner)))
	}
	if len(q.Tags) > 0 {
		lines = append(lines, th.MetaLabel.Render("tags")+" "+th.MetaValue.Render(strings.Join(q.Tags, ", ")))
	}
	lines = append(lines, "")
	lines = append(lines, post.Render(q.Body, width)...)
	return lines
}

// AnswerLines renders one answer with a header line highlighted when active.
func AnswerLines(a stackexchange.Answer, active bool, now time.Time, width int, th tuitheme.Theme) []string {
	accepted := ""
	if a.IsAccepted {
		accepted = " ✓ accepted"
	}
	header := fmt.Sprintf("▲ %s%s · %s · %s",
		humanize.Comma(int64(a.Score)), accepted, ownerLabel(a.Owner), RelativeTimeLabel(now, created(a.CreationDate)))
	if active {
		header = th.ActiveLine.Render("> " + header)
	} else {
		header = th.Section.Render("  " + header)
	}
	lines := []string{header, ""}
	return append(lines, post.Render(a.Body, width)...)
}

func CommentLines(c stackexchange.Comment, now time.Time, width int, th tuitheme.Theme) []string {
	header := fmt.Sprintf("%s · %s", ownerLabel(c.Owner), RelativeTimeLabel(now, created(c.CreationDate)))
	if c.Score != 0 {
		header = fmt.Sprintf("▲ %d · %s", c.Score, header)
	}
	lines := []string{th.MetaLabel.Render(header)}
	for _, line := range post.Render(c.Body, max(1, width-2)) {
		lines = append(lines, "  "+line)
	}
	return lines
}

func ownerLabel(o stackexchange.Owner) string {
	name := html.UnescapeString(strings.TrimSpace(o.DisplayName))
	if name == "" {
		name = "anonymous"
	}
	if o.Reputation > 0 {
		return fmt.Sprintf("%s (%s)", name, humanize.Comma(int64(o.Reputation)))
	}
	return name
}
