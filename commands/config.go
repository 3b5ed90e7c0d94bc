package commands

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/promptchad/promptchad/pkg/abkit/config"
	"github.com/promptchad/promptchad/pkg/abkit/engine"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or initialize the provider configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration with API keys redacted",
	RunE:  runConfigShowCommand,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	RunE:  runConfigInitCommand,
}

// InitConfigCommand adds the config command to the root command
func InitConfigCommand(rootCmd *cobra.Command) {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShowCommand(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cfgFile)
	if err != nil {
		return err
	}

	redacted := config.Settings{Providers: make(map[string]config.ProviderConfig, len(settings.Providers))}
	for name, cfg := range settings.Providers {
		if cfg.APIKey != "" {
			cfg.APIKey = engine.RedactedPlaceholder
		}
		redacted.Providers[name] = cfg
	}

	data, err := toml.Marshal(redacted)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}

	fmt.Print(string(data))
	return nil
}

func runConfigInitCommand(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgFile); err == nil {
		return fmt.Errorf("config file already exists: %s", cfgFile)
	}

	starter := &config.Settings{
		Providers: map[string]config.ProviderConfig{
			"openai": {
				Enabled:     true,
				Model:       "gpt-4o",
				Temperature: 0.7,
				MaxTokens:   1024,
			},
			"anthropic": {
				Enabled:     true,
				Model:       "claude-3-5-sonnet-20241022",
				Temperature: 0.7,
				MaxTokens:   1024,
			},
			"google": {
				Enabled:     false,
				Model:       "gemini-1.5-pro",
				Temperature: 0.7,
				MaxTokens:   1024,
			},
			"xai": {
				Enabled:     false,
				Model:       "grok-beta",
				Temperature: 0.7,
				MaxTokens:   1024,
			},
		},
	}

	if err := config.Save(cfgFile, starter); err != nil {
		return err
	}

	fmt.Printf("Wrote starter config to %s\n", cfgFile)
	return nil
}
