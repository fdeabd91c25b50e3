package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrPersistence marks a favorite set that could not be written or read.
var ErrPersistence = errors.New("persistence failure")

// Store is a durable get/set byte-blob store. Load returns nil data and a
// nil error when the key was never saved.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// LoadSet reads one favorite set. Failures degrade to the empty set.
func LoadSet(ctx context.Context, store Store, key string, logger *slog.Logger) Set {
	if store == nil {
		return Set{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	data, err := store.Load(ctx, key)
	if err != nil {
		logger.Warn("load favorites failed", "key", key, "error", fmt.Errorf("%w: %w", ErrPersistence, err))
		return Set{}
	}
	set, err := Decode(data)
	if err != nil {
		logger.Warn("discarding corrupt favorites", "key", key, "error", err)
		return Set{}
	}
	return set
}

// FailureRecorder is notified about writes that did not persist.
type FailureRecorder interface {
	RecordPersistenceFailure(key string)
}

// Writer persists favorite sets in the background. Save never blocks on
// the store; only the latest pending value per key is written, and writes
// happen one at a time in submission order of keys.
type Writer struct {
	store    Store
	logger   *slog.Logger
	failures FailureRecorder
	timeout  time.Duration

	mu      sync.Mutex
	pending map[string][]byte
	order   []string
	running bool
	idle    *sync.Cond
}

func NewWriter(store Store, logger *slog.Logger, failures FailureRecorder) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w := &Writer{
		store:    store,
		logger:   logger,
		failures: failures,
		timeout:  5 * time.Second,
		pending:  make(map[string][]byte),
	}
	w.idle = sync.NewCond(&w.mu)
	return w
}

func (w *Writer) Save(key string, set Set) {
	if w == nil || w.store == nil {
		return
	}
	data := set.Encode()

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, queued := w.pending[key]; !queued {
		w.order = append(w.order, key)
	}
	w.pending[key] = data
	if !w.running {
		w.running = true
		go w.drain()
	}
}

// Flush blocks until every queued write has been attempted.
func (w *Writer) Flush() {
	if w == nil {
		return
	}
	w.mu.Lock()
	for w.running {
		w.idle.Wait()
	}
	w.mu.Unlock()
}

func (w *Writer) drain() {
	for {
		w.mu.Lock()
		if len(w.order) == 0 {
			w.running = false
			w.idle.Broadcast()
			w.mu.Unlock()
			return
		}
		key := w.order[0]
		w.order = w.order[1:]
		data := w.pending[key]
		delete(w.pending, key)
		w.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		err := w.store.Save(ctx, key, data)
		cancel()
		if err != nil {
			w.logger.Error("persist favorites failed", "key", key, "error", fmt.Errorf("%w: %w", ErrPersistence, err))
			if w.failures != nil {
				w.failures.RecordPersistenceFailure(key)
			}
			continue
		}
		w.logger.Debug("persisted favorites", "key", key, "bytes", len(data))
	}
}
