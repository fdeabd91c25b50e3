package pipeline

import (
	"slices"

	"github.com/glabrego/stackit-cli/internal/stackexchange"
)

// Filter narrows the cached questions locally, without a fetch.
type Filter string

const (
	FilterUnanswered Filter = "unanswered"
	FilterAccepted   Filter = "accepted"
)

var AllFilters = []Filter{FilterUnanswered, FilterAccepted}

func ParseFilter(s string) (Filter, bool) {
	for _, f := range AllFilters {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

func (f Filter) matches(q stackexchange.Question) bool {
	switch f {
	case FilterUnanswered:
		return q.AnswerCount == 0
	case FilterAccepted:
		return q.AcceptedAnswerID != 0
	default:
		return true
	}
}

// ApplyFilters keeps the questions matching every filter, in order. With no
// filters the result equals questions.
func ApplyFilters(questions []stackexchange.Question, filters []Filter) []stackexchange.Question {
	if len(filters) == 0 {
		return slices.Clone(questions)
	}
	out := make([]stackexchange.Question, 0, len(questions))
	for _, q := range questions {
		keep := true
		for _, f := range filters {
			if !f.matches(q) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, q)
		}
	}
	return out
}
