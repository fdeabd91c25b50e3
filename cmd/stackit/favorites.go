package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/glabrego/stackit-cli/internal/favorites"
)

func newFavoritesCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Inspect or change the favorite questions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List favorite question ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, *flags, func(ctx context.Context, store favorites.Store, a *app) error {
				set := favorites.LoadSet(ctx, store, favorites.QuestionsKey, a.logger)
				writeFavorites(cmd.OutOrStdout(), set)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <question-id>",
		Short: "Add or remove a favorite question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseQuestionID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, *flags, func(ctx context.Context, store favorites.Store, a *app) error {
				added, err := toggleFavorite(ctx, store, id, a)
				if err != nil {
					return err
				}
				if added {
					cmd.Printf("Added %s to favorites\n", id)
				} else {
					cmd.Printf("Removed %s from favorites\n", id)
				}
				return nil
			})
		},
	})
	return cmd
}

func withStore(cmd *cobra.Command, flags globalFlags, fn func(context.Context, favorites.Store, *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, flags)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a.repo, a)
}

func parseQuestionID(raw string) (string, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return "", fmt.Errorf("invalid question id %q", raw)
	}
	return strconv.FormatInt(id, 10), nil
}

// toggleFavorite flips id in the persisted set and reports whether it is
// now a favorite. Unlike the TUI, the write is synchronous.
func toggleFavorite(ctx context.Context, store favorites.Store, id string, a *app) (bool, error) {
	set := favorites.LoadSet(ctx, store, favorites.QuestionsKey, a.logger).Toggle(id)
	if err := store.Save(ctx, favorites.QuestionsKey, set.Encode()); err != nil {
		return false, fmt.Errorf("%w: %v", favorites.ErrPersistence, err)
	}
	a.recorder.RecordFavoriteToggle(favorites.QuestionsKey)
	return set.Contains(id), nil
}

func writeFavorites(w io.Writer, set favorites.Set) {
	if set.Len() == 0 {
		fmt.Fprintln(w, "No favorite questions.")
		return
	}
	for _, id := range set.IDs() {
		fmt.Fprintln(w, id)
	}
}
