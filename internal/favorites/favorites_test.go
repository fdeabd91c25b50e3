package favorites

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id  int
	fav bool
}

func (i item) FavoriteKey() string { return strconv.Itoa(i.id) }

func (i item) WithFavorite(v bool) item {
	i.fav = v
	return i
}

func isFav(i item) bool { return i.fav }

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func items(ids ...int) []item {
	out := make([]item, 0, len(ids))
	for _, id := range ids {
		out = append(out, item{id: id})
	}
	return out
}

type memoryStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	saves   int
	saveErr error
	loadErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data[key], nil
}

func (m *memoryStore) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = append([]byte(nil), data...)
	return nil
}

type failureCounter struct {
	mu   sync.Mutex
	keys []string
}

func (f *failureCounter) RecordPersistenceFailure(key string) {
	f.mu.Lock()
	f.keys = append(f.keys, key)
	f.mu.Unlock()
}

func TestSet_ToggleAppendsThenRemoves(t *testing.T) {
	s := NewSet("Q42")

	added := s.Toggle("Q123")
	assert.Equal(t, []string{"Q42", "Q123"}, added.IDs())
	assert.Equal(t, []string{"Q42"}, s.IDs(), "toggle must not mutate the receiver")

	back := added.Toggle("Q123")
	assert.Equal(t, s.IDs(), back.IDs())
	assert.True(t, back.Equal(s))
}

func TestSet_ToggleRoundTripKeepsMembership(t *testing.T) {
	s := NewSet("a", "b", "c")
	round := s.Toggle("b").Toggle("b")
	assert.True(t, round.Equal(s))
	assert.Equal(t, 3, round.Len())
}

func TestSet_EncodeDecode(t *testing.T) {
	s := NewSet("go", "swift", "go")
	assert.Equal(t, `["go","swift"]`, string(s.Encode()))
	assert.Equal(t, `[]`, string(Set{}.Encode()))

	decoded, err := Decode(s.Encode())
	require.NoError(t, err)
	assert.Equal(t, s.IDs(), decoded.IDs())

	empty, err := Decode(nil)
	require.NoError(t, err)
	assert.Zero(t, empty.Len())

	_, err = Decode([]byte("{"))
	assert.Error(t, err)
}

func TestAnnotate_SetsFlagsByMembership(t *testing.T) {
	in := []item{{id: 1, fav: true}, {id: 2}, {id: 3}}
	out := Annotate(in, NewSet("2"))

	assert.Equal(t, []item{{id: 1}, {id: 2, fav: true}, {id: 3}}, out)
	assert.True(t, in[0].fav, "annotate must copy, not alias")
}

func TestAnnotate_Idempotent(t *testing.T) {
	sets := []Set{{}, NewSet("1"), NewSet("1", "3", "9")}
	inputs := [][]item{nil, items(1), items(1, 2, 3), {{id: 3, fav: true}, {id: 4, fav: true}}}
	for _, set := range sets {
		for _, in := range inputs {
			once := Annotate(in, set)
			assert.Equal(t, once, Annotate(once, set))
		}
	}
}

func TestMarked_CollectsFavoriteKeysInOrder(t *testing.T) {
	got := Marked([]item{{id: 5, fav: true}, {id: 1}, {id: 3, fav: true}}, isFav)
	assert.Equal(t, []string{"5", "3"}, got.IDs())
}

func TestLoadSet_DegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.data[QuestionsKey] = []byte(`["Q42"]`)
	store.data[TagsKey] = []byte(`not json`)

	assert.Equal(t, []string{"Q42"}, LoadSet(ctx, store, QuestionsKey, discardLogger()).IDs())
	assert.Zero(t, LoadSet(ctx, store, TagsKey, discardLogger()).Len())
	assert.Zero(t, LoadSet(ctx, nil, TagsKey, discardLogger()).Len())

	store.loadErr = errors.New("disk gone")
	assert.Zero(t, LoadSet(ctx, store, QuestionsKey, discardLogger()).Len())
}

func TestWriter_PersistsLatestValue(t *testing.T) {
	store := newMemoryStore()
	w := NewWriter(store, nil, nil)

	w.Save(QuestionsKey, NewSet("Q42"))
	w.Save(QuestionsKey, NewSet("Q42", "Q123"))
	w.Save(TagsKey, NewSet("go"))
	w.Flush()

	assert.Equal(t, `["Q42","Q123"]`, string(store.data[QuestionsKey]))
	assert.Equal(t, `["go"]`, string(store.data[TagsKey]))
	assert.LessOrEqual(t, store.saves, 3)
}

func TestWriter_FailureIsRecordedNotRetried(t *testing.T) {
	store := newMemoryStore()
	store.saveErr = errors.New("read-only")
	failures := &failureCounter{}
	w := NewWriter(store, nil, failures)

	w.Save(QuestionsKey, NewSet("Q1"))
	w.Flush()

	assert.Equal(t, 1, store.saves)
	assert.Equal(t, []string{QuestionsKey}, failures.keys)
}

func TestWriter_NilSafe(t *testing.T) {
	var w *Writer
	w.Save(QuestionsKey, NewSet("x"))
	w.Flush()

	NewWriter(nil, nil, nil).Save(QuestionsKey, NewSet("x"))
}
