package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/promptchad/promptchad/internal/promptstore"
	"github.com/promptchad/promptchad/pkg/abkit/engine"
	"github.com/promptchad/promptchad/pkg/abkit/provider"
	"github.com/promptchad/promptchad/ui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive terminal UI for A/B prompt testing",
	RunE:  runTUICommand,
}

// InitTUICommand adds the tui command to the root command
func InitTUICommand(rootCmd *cobra.Command) {
	rootCmd.AddCommand(tuiCmd)
}

func runTUICommand(cmd *cobra.Command, args []string) error {
	eng := engine.New(provider.DefaultRegistry(), engine.WithLogger(log))

	dispatch := func(ctx context.Context, promptA, promptB, sharedInput string) (*engine.RunResult, error) {
		settings, err := loadSettings(cfgFile)
		if err != nil {
			return nil, err
		}

		return eng.Run(ctx, engine.Input{
			PromptA:     promptA,
			PromptB:     promptB,
			SharedInput: sharedInput,
			Providers:   settings.ProviderList(),
		})
	}

	return ui.StartTUI(cmd.Context(), dispatch, promptstore.New(defaultPromptsDir))
}
