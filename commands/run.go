package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/promptchad/promptchad/internal/report"
	"github.com/promptchad/promptchad/internal/runlog"
	"github.com/promptchad/promptchad/pkg/abkit/engine"
	"github.com/promptchad/promptchad/pkg/abkit/provider"
)

var (
	runTextA       string
	runTextB       string
	runFileB       string
	runSharedInput string
	runOutput      string
	runLogResult   bool
	runTimeout     time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run [PROMPT_FILE]",
	Short: "Run an A/B prompt test across the configured providers",
	Long: `Run dispatches prompt variants A and B against every enabled provider
concurrently and prints the aggregated comparison.

Variant A comes from --text-a or the positional prompt file; variant B from
--text-b or --file-b. The shared input, if any, is appended to both variants
and can also be piped in on stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRunCommand,
}

// InitRunCommand adds the run command to the root command
func InitRunCommand(rootCmd *cobra.Command) {
	runCmd.Flags().StringVarP(&runTextA, "text-a", "a", "", "prompt variant A text")
	runCmd.Flags().StringVarP(&runTextB, "text-b", "b", "", "prompt variant B text")
	runCmd.Flags().StringVar(&runFileB, "file-b", "", "file containing prompt variant B")
	runCmd.Flags().StringVarP(&runSharedInput, "input", "i", "", "shared input appended to both variants")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "text", "output format (json or text)")
	runCmd.Flags().BoolVar(&runLogResult, "log", false, "append the run to the JSONL run log")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", engine.DefaultTaskTimeout, "per-provider call timeout")

	rootCmd.AddCommand(runCmd)
}

func runRunCommand(cmd *cobra.Command, args []string) error {
	if runOutput != "json" && runOutput != "text" {
		return fmt.Errorf("invalid output format: %s", runOutput)
	}

	settings, err := loadSettings(cfgFile)
	if err != nil {
		return err
	}

	promptA := runTextA
	if promptA == "" && len(args) == 1 {
		promptA, err = readPromptFile(args[0])
		if err != nil {
			return err
		}
	}

	promptB := runTextB
	if promptB == "" && runFileB != "" {
		promptB, err = readPromptFile(runFileB)
		if err != nil {
			return err
		}
	}

	if promptA == "" && promptB == "" {
		return errors.New("at least one prompt is required (see --text-a, --text-b)")
	}

	sharedInput := runSharedInput
	if sharedInput == "" {
		sharedInput, err = readPipedStdin()
		if err != nil {
			return err
		}
	}

	eng := engine.New(provider.DefaultRegistry(),
		engine.WithLogger(log),
		engine.WithTaskTimeout(runTimeout))

	var spin *spinner.Spinner
	if isTerminal(os.Stderr) {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond,
			spinner.WithWriter(os.Stderr))
		spin.Suffix = " dispatching providers..."
		spin.Start()
	}

	result, err := eng.Run(cmd.Context(), engine.Input{
		PromptA:     promptA,
		PromptB:     promptB,
		SharedInput: sharedInput,
		Providers:   settings.ProviderList(),
	})

	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if runLogResult {
		if err := runlog.New(defaultLogsDir).Append(result); err != nil {
			log.WithError(err).Warn("failed to append run log")
		}
	}

	if runOutput == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encoding run result")
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(report.Text(result))
	return nil
}
