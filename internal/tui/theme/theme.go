package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/stackit-cli/internal/stackexchange"
)

type Theme struct {
	Title      lipgloss.Style
	ModePill   lipgloss.Style
	Section    lipgloss.Style
	Score      lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style
	TagOn      lipgloss.Style
	TagOff     lipgloss.Style

	Placeholder lipgloss.Style

	TitleOpen     lipgloss.Style
	TitleAnswered lipgloss.Style
	TitleAccepted lipgloss.Style
	Favorite      lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay0 := lipgloss.Color("#6c7086")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:    lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Section:     lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		Score:       lipgloss.NewStyle().Foreground(cpYellow).Bold(true),
		ActiveLine:  lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:   lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:   lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:   lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:   lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:   lipgloss.NewStyle().Foreground(cpPeach),
		TagOn:       lipgloss.NewStyle().Bold(true).Foreground(cpSurface0).Background(cpTeal).Padding(0, 1),
		TagOff:      lipgloss.NewStyle().Foreground(cpSubtext0).Padding(0, 1),
		Placeholder: lipgloss.NewStyle().Italic(true).Foreground(cpOverlay0),

		TitleOpen:     lipgloss.NewStyle().Bold(true).Foreground(cpText),
		TitleAnswered: lipgloss.NewStyle().Foreground(cpSubtext1),
		TitleAccepted: lipgloss.NewStyle().Foreground(cpGreen),
		Favorite:      lipgloss.NewStyle().Foreground(cpYellow),
	}
}

// StyleQuestionTitle colors a title by answer state: accepted, answered or
// still open.
func (t Theme) StyleQuestionTitle(q stackexchange.Question, title string) string {
	if title == "" {
		return title
	}
	switch {
	case q.AcceptedAnswerID != 0:
		return t.TitleAccepted.Render(title)
	case q.AnswerCount > 0:
		return t.TitleAnswered.Render(title)
	default:
		return t.TitleOpen.Render(title)
	}
}

func (t Theme) RenderTag(tag stackexchange.Tag) string {
	if tag.IsFavorite {
		return t.TagOn.Render(tag.Name)
	}
	return t.TagOff.Render(tag.Name)
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
