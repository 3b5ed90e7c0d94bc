package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/promptchad/promptchad/internal/promptstore"
	"github.com/promptchad/promptchad/internal/runlog"
	"github.com/promptchad/promptchad/internal/web"
	"github.com/promptchad/promptchad/pkg/abkit/engine"
	"github.com/promptchad/promptchad/pkg/abkit/provider"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web UI for A/B prompt testing",
	RunE:  runServeCommand,
}

// InitServeCommand adds the serve command to the root command
func InitServeCommand(rootCmd *cobra.Command) {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 5000, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	registry := provider.DefaultRegistry()
	eng := engine.New(registry, engine.WithLogger(log))

	server := web.NewServer(eng, registry, cfgFile,
		promptstore.New(defaultPromptsDir),
		runlog.New(defaultLogsDir), log)

	// Handlers re-read the config per request, so a watch only needs to
	// surface the change.
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.WithField("file", e.Name).Info("config file changed")
	})
	viper.WatchConfig()

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", servePort),
		Handler: server.Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.ListenAndServe()
	}()

	fmt.Printf("promptchad web UI listening on http://localhost:%d\n", servePort)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		fmt.Println("Shutting down...")
	case <-cmd.Context().Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(shutdownCtx)
}
