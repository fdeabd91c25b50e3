package view

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/glabrego/stackit-cli/internal/intent"
	"github.com/glabrego/stackit-cli/internal/stackexchange"
	tuitheme "github.com/glabrego/stackit-cli/internal/tui/theme"
)

type Screen string

const (
	ScreenQuestions Screen = "questions"
	ScreenAnswers   Screen = "answers"
	ScreenComments  Screen = "comments"
)

func Toolbar(screen Screen) string {
	switch screen {
	case ScreenAnswers:
		return "j/k scroll | tab answer | c comments | n more | r refresh | o open | y copy | esc back | q quit"
	case ScreenComments:
		return "j/k scroll | n more | r refresh | esc back | q quit"
	default:
		return "j/k move | enter answers | c comments | 1-6 sort | / search | # tag | F favorites | f star | u/a filter | n more | r refresh | x reset | q quit"
	}
}

// Header shows the browsing mode and the tag selection.
func Header(sub intent.Subsection, trending intent.Trending, tags []stackexchange.Tag, th tuitheme.Theme) string {
	mode := "tags"
	switch sub.Kind {
	case intent.SubsectionSearch:
		mode = fmt.Sprintf("search %q", sub.Keywords)
	case intent.SubsectionFavorites:
		mode = "favorites"
	case intent.SubsectionTrending:
		mode = "trending"
	}
	if trending != "" && sub.Kind != intent.SubsectionSearch && sub.Kind != intent.SubsectionFavorites {
		mode += " · " + string(trending)
	}
	line := th.Title.Render("StackIT") + " " + th.ModePill.Render(mode)

	var rendered []string
	for _, tag := range tags {
		if tag.IsFavorite {
			rendered = append(rendered, th.RenderTag(tag))
		}
	}
	if len(rendered) > 0 {
		line += " " + strings.Join(rendered, " ")
	}
	return line
}

func Footer(filters []string, shown int, showLoadMore bool, th tuitheme.Theme) string {
	filter := "none"
	if len(filters) > 0 {
		filter = strings.Join(filters, "+")
	}
	more := "no"
	if showLoadMore {
		more = "yes"
	}
	parts := []string{
		th.MetaLabel.Render("filter") + " " + th.MetaValue.Render(filter),
		th.MetaValue.Render(humanize.Comma(int64(shown)) + " shown"),
		th.MetaLabel.Render("more") + " " + th.MetaValue.Render(more),
	}
	return strings.Join(parts, " • ")
}

func Message(loading bool, status string, th tuitheme.Theme) string {
	state := "idle"
	label := th.StateIdle.Render("state")
	if loading {
		state = "loading"
		label = th.StateLoad.Render("state")
	}
	main := "Ready"
	if status != "" {
		main = status
	}
	return fmt.Sprintf("%s: %s | %s", label, state, th.MetaValue.Render(main))
}
