// Package favorites holds locally favorited entity ids, their persisted
// form, and the projector that annotates fetched records with them.
package favorites

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Storage keys of the two independent favorite blobs.
const (
	TagsKey      = "favoritesTags"
	QuestionsKey = "favoritesQuestions"
)

// Set is an ordered list of unique ids. The zero value is empty and ready
// to use. Methods never mutate the receiver.
type Set struct {
	ids []string
}

func NewSet(ids ...string) Set {
	var s Set
	for _, id := range ids {
		if !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// Decode reads a persisted blob: a JSON array of strings. An absent blob
// decodes to the empty set.
func Decode(data []byte) (Set, error) {
	if len(data) == 0 {
		return Set{}, nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return Set{}, fmt.Errorf("decode favorites: %w", err)
	}
	return NewSet(ids...), nil
}

func (s Set) Encode() []byte {
	ids := s.ids
	if ids == nil {
		ids = []string{}
	}
	data, _ := json.Marshal(ids)
	return data
}

func (s Set) Contains(id string) bool {
	return slices.Contains(s.ids, id)
}

// Toggle removes id when present and appends it otherwise.
func (s Set) Toggle(id string) Set {
	if i := slices.Index(s.ids, id); i >= 0 {
		return Set{ids: slices.Delete(slices.Clone(s.ids), i, i+1)}
	}
	ids := make([]string, 0, len(s.ids)+1)
	ids = append(ids, s.ids...)
	return Set{ids: append(ids, id)}
}

func (s Set) IDs() []string {
	return slices.Clone(s.ids)
}

func (s Set) Len() int {
	return len(s.ids)
}

// Equal reports membership equality, ignoring order.
func (s Set) Equal(other Set) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for _, id := range s.ids {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}
