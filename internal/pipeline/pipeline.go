// Package pipeline turns streams of fetch intents into always-current
// published state, one manager per content area.
//
// Every channel follows a switch-to-latest discipline: a new intent cancels
// the fetch in flight and bumps the channel generation, and a completing
// fetch is published only while its generation is still current. All state
// is mutated under the owning manager's mutex; fetches run on their own
// goroutines and never touch state until they re-acquire it.
package pipeline

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glabrego/stackit-cli/internal/favorites"
	"github.com/glabrego/stackit-cli/internal/gateway"
	"github.com/glabrego/stackit-cli/internal/intent"
	"github.com/glabrego/stackit-cli/internal/metrics"
)

type Options struct {
	// Context bounds every fetch; Close cancels it regardless.
	Context   context.Context
	Logger    *slog.Logger
	Recorder  metrics.Recorder
	Favorites favorites.Store
}

func (o Options) withDefaults() Options {
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Recorder == nil {
		o.Recorder = metrics.Nop{}
	}
	return o
}

// Sections is the set of channels currently awaiting a response.
type Sections map[intent.Channel]struct{}

func (s Sections) Contains(c intent.Channel) bool {
	_, ok := s[c]
	return ok
}

func (s Sections) Empty() bool {
	return len(s) == 0
}

func (s Sections) List() []intent.Channel {
	return slices.Sorted(maps.Keys(s))
}

func (s Sections) insert(c intent.Channel) {
	s[c] = struct{}{}
}

func (s Sections) remove(c intent.Channel) {
	delete(s, c)
}

func (s Sections) clone() Sections {
	return maps.Clone(s)
}

// switcher tracks the single observable fetch of one channel.
type switcher struct {
	generation uint64
	cancel     context.CancelFunc
}

// begin supersedes any fetch in flight.
func (s *switcher) begin(parent context.Context) (context.Context, uint64) {
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.generation++
	s.cancel = cancel
	return ctx, s.generation
}

// settle reports whether gen is still the latest fetch and releases it.
func (s *switcher) settle(gen uint64) bool {
	if gen != s.generation {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}

func (s *switcher) stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
}

// base is the state shared by every manager. mu guards everything below it
// and in the embedding manager.
type base struct {
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *slog.Logger
	recorder metrics.Recorder
	wg       sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	loading Sections
}

func newBase(opts Options) base {
	ctx, cancel := context.WithCancel(opts.Context)
	return base{
		ctx:      ctx,
		cancel:   cancel,
		logger:   opts.Logger,
		recorder: opts.Recorder,
		loading:  make(Sections),
	}
}

// shutdown stops every switcher and waits for fetch goroutines to return.
func (b *base) shutdown(switchers ...*switcher) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, sw := range switchers {
		sw.stop()
	}
	b.cancel()
	b.mu.Unlock()
	b.wg.Wait()
}

type fetchFunc[T any] func(ctx context.Context) (gateway.Result[T], error)

// dispatch starts fetch for channel. Callers hold b.mu. apply runs under
// b.mu, and only if no later dispatch on sw happened in the meantime; a
// failed fetch reaches apply with a non-nil error.
func dispatch[T any](b *base, sw *switcher, channel intent.Channel, action intent.Action, fetch fetchFunc[T], apply func(gateway.Result[T], error)) {
	ctx, gen := sw.begin(b.ctx)
	log := b.logger.With("channel", string(channel), "fetch_id", uuid.NewString())
	log.Debug("dispatch fetch", "action", action.String(), "page", action.Page(), "generation", gen)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		start := time.Now()
		res, err := fetch(ctx)
		elapsed := time.Since(start)

		b.mu.Lock()
		defer b.mu.Unlock()
		if !sw.settle(gen) {
			b.recorder.RecordFetch(string(channel), metrics.OutcomeStale, elapsed)
			log.Debug("discard superseded fetch", "generation", gen, "duration", elapsed)
			return
		}
		if err != nil {
			b.recorder.RecordFetch(string(channel), metrics.OutcomeFailure, elapsed)
			log.Warn("fetch failed, publishing empty result", "error", err, "duration", elapsed)
		} else {
			b.recorder.RecordFetch(string(channel), metrics.OutcomeSuccess, elapsed)
			log.Debug("fetch completed", "items", len(res.Items), "has_more", res.HasMore, "quota_remaining", res.QuotaRemaining, "duration", elapsed)
		}
		apply(res, err)
	}()
}

// broadcaster delivers the latest state to each subscriber. Each
// subscription buffers one value; a newer state replaces an unread one.
type broadcaster[S any] struct {
	mu   sync.Mutex
	next int
	subs map[int]chan S
}

func (b *broadcaster[S]) subscribe(initial S) (<-chan S, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[int]chan S)
	}
	id := b.next
	b.next++
	ch := make(chan S, 1)
	ch <- initial
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

func (b *broadcaster[S]) publish(s S) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

func (b *broadcaster[S]) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
