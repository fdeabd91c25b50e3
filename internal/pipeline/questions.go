package pipeline

import (
	"context"
	"slices"

	"github.com/glabrego/stackit-cli/internal/favorites"
	"github.com/glabrego/stackit-cli/internal/gateway"
	"github.com/glabrego/stackit-cli/internal/intent"
	"github.com/glabrego/stackit-cli/internal/stackexchange"
)

type QuestionsGateway interface {
	FetchTags(ctx context.Context, req gateway.Request) (gateway.Result[stackexchange.Tag], error)
	FetchQuestions(ctx context.Context, req gateway.Request) (gateway.Result[stackexchange.Question], error)
}

// QuestionsState is a published snapshot. It shares nothing with the
// manager.
type QuestionsState struct {
	Questions []stackexchange.Question
	Tags      []stackexchange.Tag
	// Trending is empty when no trending sort is selected.
	Trending     intent.Trending
	Filters      []Filter
	Loading      Sections
	ShowLoadMore bool
	// Loaded is set once any questions fetch has completed.
	Loaded bool
	// NoMatches is set when filters hid every cached question.
	NoMatches bool
	Intent    intent.Questions
}

// SelectedTags returns the names of the favorite tags, in tag order.
func (s QuestionsState) SelectedTags() []string {
	return favoriteTagNames(s.Tags)
}

// QuestionsManager owns the questions and tags channels.
type QuestionsManager struct {
	base
	gateway QuestionsGateway
	writer  *favorites.Writer

	questionsSwitch switcher
	tagsSwitch      switcher

	tags         []stackexchange.Tag
	trending     intent.Trending
	favorites    favorites.Set
	cached       []stackexchange.Question
	visible      []stackexchange.Question
	filters      []Filter
	showLoadMore bool
	loaded       bool
	current      intent.Questions

	subs broadcaster[QuestionsState]
}

// NewQuestionsManager loads both favorite sets from opts.Favorites once.
// Persisted favorite tags are selected before the tag list arrives.
func NewQuestionsManager(gw QuestionsGateway, opts Options) *QuestionsManager {
	opts = opts.withDefaults()
	m := &QuestionsManager{
		base:    newBase(opts),
		gateway: gw,
		writer:  favorites.NewWriter(opts.Favorites, opts.Logger, opts.Recorder),
		current: intent.DefaultQuestions(),
	}
	favTags := favorites.LoadSet(opts.Context, opts.Favorites, favorites.TagsKey, opts.Logger)
	for _, name := range favTags.IDs() {
		m.tags = append(m.tags, stackexchange.Tag{Name: name, IsFavorite: true})
	}
	m.favorites = favorites.LoadSet(opts.Context, opts.Favorites, favorites.QuestionsKey, opts.Logger)
	return m
}

// LoadTags fetches the tag list and then submits the default questions
// intent, whether or not the tag fetch succeeded.
func (m *QuestionsManager) LoadTags() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.loading.insert(intent.ChannelTags)
	m.loading.insert(intent.ChannelQuestions)

	req := gateway.Request{Category: gateway.CategoryTags}
	dispatch(&m.base, &m.tagsSwitch, intent.ChannelTags, req.Action,
		func(ctx context.Context) (gateway.Result[stackexchange.Tag], error) {
			return m.gateway.FetchTags(ctx, req)
		},
		func(res gateway.Result[stackexchange.Tag], err error) {
			m.loading.remove(intent.ChannelTags)
			if err == nil {
				m.tags = mergeTags(res.Items, m.tags)
			}
			m.submitLocked(intent.DefaultQuestions())
		})
	m.publishLocked()
}

// Submit replaces the questions fetch in flight with one for in.
func (m *QuestionsManager) Submit(in intent.Questions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitLocked(in)
}

// LoadMore requests the next page of the current intent. It reports false
// when there is nothing more to load or a page is still in flight; the
// gateway only unions pages that settled.
func (m *QuestionsManager) LoadMore() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.showLoadMore || m.closed || m.loading.Contains(intent.ChannelQuestions) {
		return false
	}
	m.submitLocked(m.current.NextPage())
	return true
}

func (m *QuestionsManager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitLocked(m.current.Refreshed())
}

// Reset clears every tag selection, persists that, and returns to the
// default intent.
func (m *QuestionsManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.clearTagsLocked()
	m.writer.Save(favorites.TagsKey, favorites.Set{})
	m.submitLocked(intent.DefaultQuestions())
}

// ToggleFavorite flips a question's favorite flag and persists the set in
// the background. The published state reflects the change immediately.
func (m *QuestionsManager) ToggleFavorite(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.favorites = m.favorites.Toggle(id)
	flipFavorite(m.cached, id)
	flipFavorite(m.visible, id)
	m.writer.Save(favorites.QuestionsKey, m.favorites)
	m.recorder.RecordFavoriteToggle(favorites.QuestionsKey)
	m.logger.Debug("toggled favorite question", "id", id, "favorite", m.favorites.Contains(id))
	m.publishLocked()
}

// ToggleFilter adds or removes f and recomputes the visible questions from
// the cache.
func (m *QuestionsManager) ToggleFilter(f Filter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := slices.Index(m.filters, f); i >= 0 {
		m.filters = slices.Delete(m.filters, i, i+1)
	} else {
		m.filters = append(m.filters, f)
	}
	m.visible = ApplyFilters(m.cached, m.filters)
	m.publishLocked()
}

func (m *QuestionsManager) FavoriteQuestions() favorites.Set {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.favorites
}

func (m *QuestionsManager) State() QuestionsState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe returns a channel carrying the current state and then every
// later one. A slow reader only ever sees the newest state. The returned
// func unsubscribes and closes the channel.
func (m *QuestionsManager) Subscribe() (<-chan QuestionsState, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subs.subscribe(m.snapshotLocked())
}

// Close cancels outstanding fetches, waits for them, and flushes pending
// favorite writes.
func (m *QuestionsManager) Close() {
	m.shutdown(&m.questionsSwitch, &m.tagsSwitch)
	m.writer.Flush()
	m.subs.closeAll()
}

// Flush waits for queued favorite writes.
func (m *QuestionsManager) Flush() {
	m.writer.Flush()
}

func (m *QuestionsManager) submitLocked(in intent.Questions) {
	if m.closed {
		return
	}
	m.applySelectionLocked(in)
	m.current = in
	m.loading.insert(intent.ChannelQuestions)

	req := m.requestLocked(in)
	sub := in.Subsection
	dispatch(&m.base, &m.questionsSwitch, intent.ChannelQuestions, in.Action,
		func(ctx context.Context) (gateway.Result[stackexchange.Question], error) {
			return m.gateway.FetchQuestions(ctx, req)
		},
		func(res gateway.Result[stackexchange.Question], err error) {
			if err != nil {
				res = gateway.Result[stackexchange.Question]{}
			}
			m.loading.remove(intent.ChannelQuestions)
			m.cached = favorites.Annotate(res.Items, m.favorites)
			m.visible = ApplyFilters(m.cached, m.filters)
			m.showLoadMore = showLoadMore(sub, res)
			m.loaded = true
			m.publishLocked()
		})
	m.publishLocked()
}

// applySelectionLocked applies the local side effects of selecting a
// subsection. Paging and refresh keep the current selection.
func (m *QuestionsManager) applySelectionLocked(in intent.Questions) {
	switch in.Subsection.Kind {
	case intent.SubsectionTrending:
		if in.Action.Kind != intent.ActionNone {
			return
		}
		if m.trending == in.Subsection.Trending {
			m.trending = ""
		} else {
			m.trending = in.Subsection.Trending
		}
	case intent.SubsectionTag:
		if in.Action.Kind != intent.ActionNone || in.Subsection.Tag == "" {
			return
		}
		m.toggleTagLocked(in.Subsection.Tag)
		marked := favorites.Marked(m.tags, func(t stackexchange.Tag) bool { return t.IsFavorite })
		m.writer.Save(favorites.TagsKey, marked)
		m.recorder.RecordFavoriteToggle(favorites.TagsKey)
	case intent.SubsectionSearch, intent.SubsectionFavorites:
		m.clearTagsLocked()
	}
}

func (m *QuestionsManager) toggleTagLocked(name string) {
	for i := range m.tags {
		if m.tags[i].Name == name {
			m.tags[i].IsFavorite = !m.tags[i].IsFavorite
			return
		}
	}
	m.tags = append(m.tags, stackexchange.Tag{Name: name, IsFavorite: true})
}

func (m *QuestionsManager) clearTagsLocked() {
	for i := range m.tags {
		m.tags[i].IsFavorite = false
	}
}

func (m *QuestionsManager) requestLocked(in intent.Questions) gateway.Request {
	req := gateway.Request{Action: in.Action}
	switch in.Subsection.Kind {
	case intent.SubsectionSearch:
		req.Category = gateway.CategorySearch
		req.Keywords = in.Subsection.Keywords
	case intent.SubsectionFavorites:
		req.Category = gateway.CategoryQuestionsByIDs
		req.IDs = m.favorites.IDs()
	default:
		req.Category = gateway.CategoryQuestions
		req.Tags = favoriteTagNames(m.tags)
		req.Sort = m.trending
		if req.Sort == "" {
			req.Sort = gateway.DefaultSort
		}
	}
	return req
}

func (m *QuestionsManager) snapshotLocked() QuestionsState {
	return QuestionsState{
		Questions:    slices.Clone(m.visible),
		Tags:         slices.Clone(m.tags),
		Trending:     m.trending,
		Filters:      slices.Clone(m.filters),
		Loading:      m.loading.clone(),
		ShowLoadMore: m.showLoadMore,
		Loaded:       m.loaded,
		NoMatches:    m.loaded && len(m.filters) > 0 && len(m.cached) > 0 && len(m.visible) == 0,
		Intent:       m.current,
	}
}

func (m *QuestionsManager) publishLocked() {
	m.subs.publish(m.snapshotLocked())
}

// showLoadMore gates paging. Search ignores quota.
func showLoadMore[T any](sub intent.Subsection, res gateway.Result[T]) bool {
	if sub.Kind == intent.SubsectionSearch {
		return res.HasMore
	}
	return res.HasMore && res.QuotaRemaining > 0
}

// mergeTags annotates fetched with the selection in current. Selected tags
// missing from fetched are kept at the end.
func mergeTags(fetched, current []stackexchange.Tag) []stackexchange.Tag {
	selected := favorites.Marked(current, func(t stackexchange.Tag) bool { return t.IsFavorite })
	out := favorites.Annotate(fetched, selected)
	for _, name := range selected.IDs() {
		if !slices.ContainsFunc(out, func(t stackexchange.Tag) bool { return t.Name == name }) {
			out = append(out, stackexchange.Tag{Name: name, IsFavorite: true})
		}
	}
	return out
}

func favoriteTagNames(tags []stackexchange.Tag) []string {
	var names []string
	for _, t := range tags {
		if t.IsFavorite {
			names = append(names, t.Name)
		}
	}
	return names
}

func flipFavorite(questions []stackexchange.Question, id string) {
	for i := range questions {
		if questions[i].FavoriteKey() == id {
			questions[i].IsFavorite = !questions[i].IsFavorite
		}
	}
}
