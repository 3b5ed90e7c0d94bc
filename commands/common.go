package commands

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/promptchad/promptchad/pkg/abkit/config"
)

const (
	defaultLogsDir    = "logs"
	defaultPromptsDir = "prompts"
)

// loadSettings reads the config file and fills in API keys from the
// environment for providers that left theirs empty.
func loadSettings(path string) (*config.Settings, error) {
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	for name, cfg := range settings.Providers {
		if cfg.APIKey == "" {
			if key := viper.GetString(name + "_api_key"); key != "" {
				cfg.APIKey = key
				settings.Providers[name] = cfg
			}
		}
	}

	return settings, nil
}

// isTerminal reports whether the file is attached to a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// readPipedStdin returns stdin's content when input is piped in, and an
// empty string when stdin is a terminal.
func readPipedStdin() (string, error) {
	if isTerminal(os.Stdin) {
		return "", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.Wrap(err, "reading stdin")
	}

	return string(data), nil
}

// readPromptFile loads prompt text from a file
func readPromptFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading prompt file %s", path)
	}
	return string(data), nil
}
