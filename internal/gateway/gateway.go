// Package gateway adapts the Stack Exchange client to the fetch contract
// used by the query pipeline: one request in, one complete result set out.
//
// Paging requests are answered with the union of every page fetched so far
// for the same base request, so consumers only ever replace their state.
package gateway

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/glabrego/stackit-cli/internal/intent"
	"github.com/glabrego/stackit-cli/internal/stackexchange"
)

type Category string

const (
	CategoryTags             Category = "tags"
	CategoryQuestions        Category = "questions"
	CategorySearch           Category = "search"
	CategoryQuestionsByIDs   Category = "questions_by_ids"
	CategoryAnswers          Category = "answers"
	CategoryQuestionComments Category = "question_comments"
	CategoryAnswerComments   Category = "answer_comments"
)

// DefaultSort is used for tag browsing when no trending sort is selected.
const DefaultSort = intent.TrendingVotes

// Request is a concrete fetch derived from an intent.
type Request struct {
	Category   Category
	Sort       intent.Trending
	Tags       []string
	Keywords   string
	IDs        []string
	QuestionID int64
	AnswerID   int64
	Action     intent.Action
}

// key identifies the base request, ignoring the action. The favorite id list
// is left out so toggling a favorite keeps the pages already loaded.
func (r Request) key() string {
	var b strings.Builder
	b.WriteString(string(r.Category))
	b.WriteString("|")
	b.WriteString(string(r.Sort))
	b.WriteString("|")
	b.WriteString(strings.Join(r.Tags, ";"))
	b.WriteString("|")
	b.WriteString(r.Keywords)
	b.WriteString("|")
	b.WriteString(strconv.FormatInt(r.QuestionID, 10))
	b.WriteString("|")
	b.WriteString(strconv.FormatInt(r.AnswerID, 10))
	return b.String()
}

// Result is a complete result set plus paging metadata.
type Result[T any] struct {
	Items          []T
	HasMore        bool
	QuotaRemaining int
}

type Client interface {
	ListTags(ctx context.Context, page, pageSize int) (stackexchange.Page[stackexchange.Tag], error)
	ListQuestions(ctx context.Context, tags []string, sort string, page, pageSize int) (stackexchange.Page[stackexchange.Question], error)
	SearchQuestions(ctx context.Context, keywords string, page, pageSize int) (stackexchange.Page[stackexchange.Question], error)
	QuestionsByIDs(ctx context.Context, ids []string, page, pageSize int) (stackexchange.Page[stackexchange.Question], error)
	AnswersByQuestion(ctx context.Context, questionID int64, page, pageSize int) (stackexchange.Page[stackexchange.Answer], error)
	CommentsByQuestion(ctx context.Context, questionID int64, page, pageSize int) (stackexchange.Page[stackexchange.Comment], error)
	CommentsByAnswer(ctx context.Context, answerID int64, page, pageSize int) (stackexchange.Page[stackexchange.Comment], error)
}

type Gateway struct {
	client   Client
	pageSize int

	questions accumulator[stackexchange.Question]
	answers   accumulator[stackexchange.Answer]
	comments  accumulator[stackexchange.Comment]
	tags      accumulator[stackexchange.Tag]
}

func New(client Client, pageSize int) *Gateway {
	if pageSize < 1 {
		pageSize = 20
	}
	return &Gateway{client: client, pageSize: pageSize}
}

func (g *Gateway) FetchTags(ctx context.Context, req Request) (Result[stackexchange.Tag], error) {
	page, err := g.client.ListTags(ctx, req.Action.Page(), g.pageSize)
	if err != nil {
		return Result[stackexchange.Tag]{}, err
	}
	return g.tags.merge(ctx, req, page), nil
}

func (g *Gateway) FetchQuestions(ctx context.Context, req Request) (Result[stackexchange.Question], error) {
	var (
		page stackexchange.Page[stackexchange.Question]
		err  error
	)
	switch req.Category {
	case CategoryQuestions:
		sort := req.Sort
		if sort == "" {
			sort = DefaultSort
		}
		page, err = g.client.ListQuestions(ctx, req.Tags, string(sort), req.Action.Page(), g.pageSize)
	case CategorySearch:
		page, err = g.client.SearchQuestions(ctx, req.Keywords, req.Action.Page(), g.pageSize)
	case CategoryQuestionsByIDs:
		if len(req.IDs) == 0 {
			g.questions.reset()
			return Result[stackexchange.Question]{}, nil
		}
		page, err = g.client.QuestionsByIDs(ctx, req.IDs, req.Action.Page(), g.pageSize)
	default:
		return Result[stackexchange.Question]{}, fmt.Errorf("unsupported questions category %q", req.Category)
	}
	if err != nil {
		return Result[stackexchange.Question]{}, err
	}
	return g.questions.merge(ctx, req, page), nil
}

func (g *Gateway) FetchAnswers(ctx context.Context, req Request) (Result[stackexchange.Answer], error) {
	page, err := g.client.AnswersByQuestion(ctx, req.QuestionID, req.Action.Page(), g.pageSize)
	if err != nil {
		return Result[stackexchange.Answer]{}, err
	}
	return g.answers.merge(ctx, req, page), nil
}

func (g *Gateway) FetchComments(ctx context.Context, req Request) (Result[stackexchange.Comment], error) {
	var (
		page stackexchange.Page[stackexchange.Comment]
		err  error
	)
	switch req.Category {
	case CategoryQuestionComments:
		page, err = g.client.CommentsByQuestion(ctx, req.QuestionID, req.Action.Page(), g.pageSize)
	case CategoryAnswerComments:
		page, err = g.client.CommentsByAnswer(ctx, req.AnswerID, req.Action.Page(), g.pageSize)
	default:
		return Result[stackexchange.Comment]{}, fmt.Errorf("unsupported comments category %q", req.Category)
	}
	if err != nil {
		return Result[stackexchange.Comment]{}, err
	}
	return g.comments.merge(ctx, req, page), nil
}

// accumulator keeps the union of pages fetched for the latest base request.
type accumulator[T any] struct {
	mu    sync.Mutex
	key   string
	items []T
}

func (a *accumulator[T]) reset() {
	a.mu.Lock()
	a.key = ""
	a.items = nil
	a.mu.Unlock()
}

func (a *accumulator[T]) merge(ctx context.Context, req Request, page stackexchange.Page[T]) Result[T] {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := req.key()
	var items []T
	if req.Action.Kind == intent.ActionPaging && a.key == key {
		items = make([]T, 0, len(a.items)+len(page.Items))
		items = append(items, a.items...)
	}
	items = append(items, page.Items...)

	// A superseded fetch must not leak into the next page's union.
	if ctx.Err() == nil {
		a.key = key
		a.items = items
	}

	out := make([]T, len(items))
	copy(out, items)
	return Result[T]{
		Items:          out,
		HasMore:        page.HasMore,
		QuotaRemaining: page.QuotaRemaining,
	}
}
