package post

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	codeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387"))
	imageLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("#cba6f7")).Faint(true).Italic(true)
	legendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#bac2de")).Italic(true)
	quotePrefix = "│ "
)

// Render parses body and lays it out for width columns.
func Render(body string, width int) []string {
	return Lines(Parse(body), width)
}

// Lines lays blocks out for width columns with a blank line between
// blocks. Code is indented and never wrapped.
func Lines(blocks []Block, width int) []string {
	width = max(1, width)
	var out []string
	for _, b := range blocks {
		var block []string
		switch b.Kind {
		case KindText:
			for _, p := range strings.Split(b.Text, "\n") {
				block = append(block, wrapText(p, width)...)
			}
		case KindCode:
			for _, line := range strings.Split(b.Code, "\n") {
				line = strings.TrimRight(line, " \t")
				if line == "" {
					block = append(block, "")
					continue
				}
				block = append(block, codeStyle.Render("    "+line))
			}
		case KindImage:
			block = append(block, imageLabel.Render("[image]")+" "+b.URL)
			if b.Legend != "" {
				for _, line := range wrapText(b.Legend, max(1, width-2)) {
					block = append(block, "  "+legendStyle.Render(line))
				}
			}
		}
		if len(block) == 0 {
			continue
		}
		if len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, block...)
	}
	return out
}

func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var (
		out  []string
		line string
	)
	for _, word := range words {
		for len([]rune(word)) > width {
			if line != "" {
				out = append(out, line)
				line = ""
			}
			r := []rune(word)
			out = append(out, string(r[:width]))
			word = string(r[width:])
		}
		switch {
		case word == "":
		case line == "":
			line = word
		case len([]rune(line))+1+len([]rune(word)) <= width:
			line += " " + word
		default:
			out = append(out, line)
			line = word
		}
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}
