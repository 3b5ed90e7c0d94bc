// Package commands implements the promptchad CLI
package commands

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	log = logrus.New()
)

// rootCmd is the root command for promptchad
var rootCmd = &cobra.Command{
	Use:   "promptchad",
	Short: "promptchad A/B tests prompts across AI providers",
	Long: `promptchad dispatches two prompt variants against a configurable set of
AI providers concurrently and compares the responses side by side.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		} else {
			log.SetLevel(logrus.WarnLevel)
		}

		// Bind environment variables for API keys so a key left out of the
		// config file can come from the environment.
		viper.BindEnv("openai_api_key", "OPENAI_API_KEY")
		viper.BindEnv("anthropic_api_key", "ANTHROPIC_API_KEY")
		viper.BindEnv("google_api_key", "GEMINI_API_KEY")
		viper.BindEnv("xai_api_key", "XAI_API_KEY")
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.toml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Initialize all commands
	InitRunCommand(rootCmd)
	InitServeCommand(rootCmd)
	InitTUICommand(rootCmd)
	InitConfigCommand(rootCmd)
	InitPromptsCommand(rootCmd)

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	viper.SetConfigFile(cfgFile)
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("PROMPTCHAD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of promptchad",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("promptchad v0.1.0")
	},
}
