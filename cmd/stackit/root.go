package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/glabrego/stackit-cli/internal/pipeline"
	"github.com/glabrego/stackit-cli/internal/tui"
)

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "stackit",
		Short: "Browse Stack Exchange questions from the terminal",
		Long: `stackit browses the questions, answers and comments of a Stack Exchange
site. Favorite tags and questions are kept in a local sqlite database.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a TOML config file")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "write debug logs to stderr")

	root.AddCommand(newQuestionsCmd(&flags))
	root.AddCommand(newFavoritesCmd(&flags))
	return root
}

func runTUI(ctx context.Context, flags globalFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := a.pipelineOptions(ctx)
	questions := pipeline.NewQuestionsManager(a.gateway, opts)
	answers := pipeline.NewAnswersManager(a.gateway, opts)
	comments := pipeline.NewCommentsManager(a.gateway, opts)
	defer questions.Close()
	defer answers.Close()
	defer comments.Close()

	model := tui.NewModel(questions, answers, comments)
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
