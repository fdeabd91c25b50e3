package actions

import (
	"errors"
	"testing"

	"github.com/glabrego/stackit-cli/internal/pipeline"
	"github.com/glabrego/stackit-cli/internal/stackexchange"
)

func TestWaitQuestions_DeliversState(t *testing.T) {
	updates := make(chan pipeline.QuestionsState, 1)
	updates <- pipeline.QuestionsState{Questions: []stackexchange.Question{{ID: 42}}, Loaded: true}

	msg := WaitQuestions(updates)()
	got, ok := msg.(QuestionsStateMsg)
	if !ok {
		t.Fatalf("expected QuestionsStateMsg, got %T", msg)
	}
	if !got.State.Loaded || got.State.Questions[0].ID != 42 {
		t.Fatalf("unexpected state: %+v", got.State)
	}
}

func TestWaitCommands_StopOnClosedSubscription(t *testing.T) {
	questions := make(chan pipeline.QuestionsState)
	answers := make(chan pipeline.AnswersState)
	comments := make(chan pipeline.CommentsState)
	close(questions)
	close(answers)
	close(comments)

	if msg := WaitQuestions(questions)(); msg != nil {
		t.Fatalf("expected nil msg, got %T", msg)
	}
	if msg := WaitAnswers(answers)(); msg != nil {
		t.Fatalf("expected nil msg, got %T", msg)
	}
	if msg := WaitComments(comments)(); msg != nil {
		t.Fatalf("expected nil msg, got %T", msg)
	}
	if WaitQuestions(nil) != nil {
		t.Fatal("expected nil command without a subscription")
	}
}

func TestWaitAnswersAndComments(t *testing.T) {
	answers := make(chan pipeline.AnswersState, 1)
	answers <- pipeline.AnswersState{Answers: []stackexchange.Answer{{ID: 1}}}
	if _, ok := WaitAnswers(answers)().(AnswersStateMsg); !ok {
		t.Fatal("expected AnswersStateMsg")
	}

	comments := make(chan pipeline.CommentsState, 1)
	comments <- pipeline.CommentsState{Comments: []stackexchange.Comment{{ID: 1}}}
	if _, ok := WaitComments(comments)().(CommentsStateMsg); !ok {
		t.Fatal("expected CommentsStateMsg")
	}
}

func TestOpenLinkCmd_FallsBackToClipboard(t *testing.T) {
	var copied string
	msg := OpenLinkCmd("https://stackoverflow.com/q/1",
		func(string) error { return errors.New("no browser") },
		func(link string) error { copied = link; return nil },
	)()
	success, ok := msg.(LinkSuccessMsg)
	if !ok {
		t.Fatalf("expected LinkSuccessMsg, got %T", msg)
	}
	if copied != "https://stackoverflow.com/q/1" {
		t.Fatalf("expected link copied, got %q", copied)
	}
	if success.Status != "Could not open browser, link copied to clipboard" {
		t.Fatalf("unexpected status: %q", success.Status)
	}
}

func TestOpenLinkCmd_BothFail(t *testing.T) {
	fail := func(string) error { return errors.New("nope") }
	if _, ok := OpenLinkCmd("https://x.test", fail, fail)().(LinkErrorMsg); !ok {
		t.Fatal("expected LinkErrorMsg")
	}
}

func TestCopyLinkCmd(t *testing.T) {
	msg := CopyLinkCmd("https://x.test", func(string) error { return nil })()
	if got, ok := msg.(LinkSuccessMsg); !ok || got.Status != "Link copied to clipboard" {
		t.Fatalf("unexpected msg: %#v", msg)
	}
	if _, ok := CopyLinkCmd("https://x.test", nil)().(LinkErrorMsg); !ok {
		t.Fatal("expected LinkErrorMsg without a clipboard")
	}
}
