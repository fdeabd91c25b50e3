// Package actions holds the tea commands that bridge the query pipeline
// and the host platform into the TUI event loop.
package actions

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/stackit-cli/internal/pipeline"
)

type QuestionsStateMsg struct {
	State pipeline.QuestionsState
}

type AnswersStateMsg struct {
	State pipeline.AnswersState
}

type CommentsStateMsg struct {
	State pipeline.CommentsState
}

type LinkSuccessMsg struct {
	Status string
}

type LinkErrorMsg struct {
	Err error
}

// WaitQuestions delivers the next published questions state. It returns nil
// once the subscription is closed, which ends the wait loop.
func WaitQuestions(updates <-chan pipeline.QuestionsState) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return nil
		}
		return QuestionsStateMsg{State: s}
	}
}

func WaitAnswers(updates <-chan pipeline.AnswersState) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return nil
		}
		return AnswersStateMsg{State: s}
	}
}

func WaitComments(updates <-chan pipeline.CommentsState) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return nil
		}
		return CommentsStateMsg{State: s}
	}
}

// OpenLinkCmd opens link in the browser, falling back to the clipboard.
func OpenLinkCmd(link string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(link); err == nil {
				return LinkSuccessMsg{Status: "Opened link in browser"}
			}
		}
		if copyFn != nil {
			if err := copyFn(link); err == nil {
				return LinkSuccessMsg{Status: "Could not open browser, link copied to clipboard"}
			}
		}
		return LinkErrorMsg{Err: fmt.Errorf("could not open link or copy to clipboard")}
	}
}

func CopyLinkCmd(link string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(link); err == nil {
				return LinkSuccessMsg{Status: "Link copied to clipboard"}
			}
		}
		return LinkErrorMsg{Err: fmt.Errorf("could not copy link to clipboard")}
	}
}
