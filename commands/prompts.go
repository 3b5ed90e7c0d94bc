package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptchad/promptchad/internal/promptstore"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Manage saved prompts",
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved prompts",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := promptstore.New(defaultPromptsDir).List()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var promptsShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print a saved prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := promptstore.New(defaultPromptsDir).Get(args[0])
		if err != nil {
			return err
		}
		fmt.Print(content)
		return nil
	},
}

var promptsSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save a prompt from --text or piped stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := promptsSaveText
		if content == "" {
			var err error
			content, err = readPipedStdin()
			if err != nil {
				return err
			}
		}
		if content == "" {
			return fmt.Errorf("no prompt content given (see --text)")
		}
		return promptstore.New(defaultPromptsDir).Save(args[0], content)
	},
}

var promptsSaveText string

// InitPromptsCommand adds the prompts command to the root command
func InitPromptsCommand(rootCmd *cobra.Command) {
	promptsSaveCmd.Flags().StringVar(&promptsSaveText, "text", "", "prompt content to save")

	promptsCmd.AddCommand(promptsListCmd)
	promptsCmd.AddCommand(promptsShowCmd)
	promptsCmd.AddCommand(promptsSaveCmd)
	rootCmd.AddCommand(promptsCmd)
}
