package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/glabrego/stackit-cli/internal/favorites"
	"github.com/glabrego/stackit-cli/internal/intent"
	"github.com/glabrego/stackit-cli/internal/pipeline"
	"github.com/glabrego/stackit-cli/internal/stackexchange"
)

const questionsTimeout = 30 * time.Second

type questionsOptions struct {
	tags      []string
	search    string
	sort      string
	favorites bool
	pages     int
}

func newQuestionsCmd(flags *globalFlags) *cobra.Command {
	var opts questionsOptions
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Print questions without starting the TUI",
		Long: `Fetches questions the same way the TUI does and prints them.
Tag selections made here are not persisted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuestions(cmd, *flags, opts)
		},
	}
	cmd.Flags().StringSliceVarP(&opts.tags, "tag", "t", nil, "restrict to questions with these tags")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "search questions by keywords")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "trending sort: activity, votes, creation, hot, week or month")
	cmd.Flags().BoolVarP(&opts.favorites, "favorites", "f", false, "only list favorite questions")
	cmd.Flags().IntVarP(&opts.pages, "pages", "p", 1, "number of pages to load")
	return cmd
}

func (o questionsOptions) validate() error {
	modes := 0
	if len(o.tags) > 0 || o.sort != "" {
		modes++
	}
	if o.search != "" {
		modes++
	}
	if o.favorites {
		modes++
	}
	if modes > 1 {
		return errors.New("--search, --favorites and --tag/--sort are mutually exclusive")
	}
	if o.sort != "" && !slices.Contains(intent.AllTrending, intent.Trending(o.sort)) {
		return fmt.Errorf("unknown sort %q", o.sort)
	}
	if o.pages < 1 {
		return fmt.Errorf("--pages must be at least 1, got %d", o.pages)
	}
	return nil
}

// intents lists what to submit, in order, to reach the requested selection.
func (o questionsOptions) intents() []intent.Questions {
	switch {
	case o.search != "":
		return []intent.Questions{{Subsection: intent.Search(o.search)}}
	case o.favorites:
		return []intent.Questions{{Subsection: intent.Favorites()}}
	}
	var out []intent.Questions
	for _, tag := range o.tags {
		out = append(out, intent.Questions{Subsection: intent.Tag(tag)})
	}
	if o.sort != "" {
		out = append(out, intent.Questions{Subsection: intent.TrendingSort(intent.Trending(o.sort))})
	}
	if len(out) == 0 {
		out = append(out, intent.DefaultQuestions())
	}
	return out
}

func runQuestions(cmd *cobra.Command, flags globalFlags, opts questionsOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(ctx, questionsTimeout)
	defer cancel()

	popts := a.pipelineOptions(ctx)
	popts.Favorites = readOnlyStore{a.repo}
	manager := pipeline.NewQuestionsManager(a.gateway, popts)
	defer manager.Close()

	updates, unsubscribe := manager.Subscribe()
	defer unsubscribe()

	if len(opts.tags) > 0 {
		// Start from no selected tags so --tag selects exactly the given set.
		manager.Reset()
	}
	for _, in := range opts.intents() {
		manager.Submit(in)
	}
	state, err := awaitQuestions(ctx, updates, 1)
	if err != nil {
		return err
	}
	for page := 2; page <= opts.pages; page++ {
		if !manager.LoadMore() {
			break
		}
		if state, err = awaitQuestions(ctx, updates, page); err != nil {
			return err
		}
	}
	writeQuestions(cmd.OutOrStdout(), state.Questions, time.Now())
	return nil
}

// awaitQuestions blocks until the questions channel has settled on page.
func awaitQuestions(ctx context.Context, updates <-chan pipeline.QuestionsState, page int) (pipeline.QuestionsState, error) {
	for {
		select {
		case <-ctx.Done():
			return pipeline.QuestionsState{}, fmt.Errorf("waiting for questions: %w", ctx.Err())
		case s, ok := <-updates:
			if !ok {
				return pipeline.QuestionsState{}, errors.New("questions manager closed")
			}
			if s.Loaded && !s.Loading.Contains(intent.ChannelQuestions) && s.Intent.Action.Page() == page {
				return s, nil
			}
		}
	}
}

func writeQuestions(w io.Writer, questions []stackexchange.Question, now time.Time) {
	if len(questions) == 0 {
		fmt.Fprintln(w, "No questions found.")
		return
	}
	for _, q := range questions {
		star := " "
		if q.IsFavorite {
			star = "*"
		}
		accepted := " "
		if q.AcceptedAnswerID != 0 {
			accepted = "+"
		}
		fmt.Fprintf(w, "%s %6s %s%3d  %s\n", star, humanize.Comma(int64(q.Score)), accepted, q.AnswerCount, html.UnescapeString(q.Title))
		fmt.Fprintf(w, "  %d · %s · %s\n", q.ID, humanize.RelTime(q.Created(), now, "ago", "from now"), q.Link)
	}
}

// readOnlyStore lets headless runs read persisted favorites without
// writing selections back.
type readOnlyStore struct {
	favorites.Store
}

func (readOnlyStore) Save(context.Context, string, []byte) error {
	return nil
}
