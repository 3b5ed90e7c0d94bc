// Package web provides the HTTP front end for A/B prompt runs
package web

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/promptchad/promptchad/internal/promptstore"
	"github.com/promptchad/promptchad/internal/runlog"
	"github.com/promptchad/promptchad/pkg/abkit/config"
	"github.com/promptchad/promptchad/pkg/abkit/engine"
	"github.com/promptchad/promptchad/pkg/abkit/provider"
)

// Runner dispatches one A/B run; satisfied by *engine.Engine
type Runner interface {
	Run(ctx context.Context, input engine.Input) (*engine.RunResult, error)
}

// Server serves the web UI and its JSON API
type Server struct {
	runner     Runner
	registry   *provider.Registry
	configPath string
	prompts    *promptstore.Store
	runs       *runlog.Logger
	log        *logrus.Logger
	router     *gin.Engine
}

// NewServer assembles the HTTP front end
func NewServer(runner Runner, registry *provider.Registry, configPath string,
	prompts *promptstore.Store, runs *runlog.Logger, log *logrus.Logger) *Server {

	if log == nil {
		log = logrus.New()
	}

	s := &Server{
		runner:     runner,
		registry:   registry,
		configPath: configPath,
		prompts:    prompts,
		runs:       runs,
		log:        log,
	}
	s.router = s.buildRouter()

	return s
}

// Handler returns the HTTP handler for the server
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/", s.handleIndex)
	router.GET("/api/config", s.handleGetConfig)
	router.POST("/api/config", s.handleSaveConfig)
	router.GET("/api/providers", s.handleProviders)
	router.GET("/api/prompts", s.handleListPrompts)
	router.GET("/api/prompts/:name", s.handleGetPrompt)
	router.POST("/api/prompts/:name", s.handleSavePrompt)
	router.POST("/api/run", s.handleRun)

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		}).Info("request handled")
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	page, err := templates.ReadFile("templates/index.html")
	if err != nil {
		c.String(http.StatusInternalServerError, "index template missing")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) handleGetConfig(c *gin.Context) {
	settings, err := config.Load(s.configPath)
	if err != nil {
		if os.IsNotExist(errCause(err)) {
			c.JSON(http.StatusOK, gin.H{"providers": gin.H{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) handleSaveConfig(c *gin.Context) {
	var settings config.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.Save(s.configPath, &settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type providerStatus struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

func (s *Server) handleProviders(c *gin.Context) {
	enabled := make(map[string]bool)
	if settings, err := config.Load(s.configPath); err == nil {
		for name, cfg := range settings.Providers {
			enabled[name] = cfg.Enabled
		}
	}

	statuses := make([]providerStatus, 0)
	for _, name := range s.registry.Names() {
		statuses = append(statuses, providerStatus{Name: name, Enabled: enabled[name]})
	}

	c.JSON(http.StatusOK, statuses)
}

func (s *Server) handleListPrompts(c *gin.Context) {
	names, err := s.prompts.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, names)
}

func (s *Server) handleGetPrompt(c *gin.Context) {
	content, err := s.prompts.Get(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prompt not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

func (s *Server) handleSavePrompt(c *gin.Context) {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.prompts.Save(c.Param("name"), body.Content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleRun(c *gin.Context) {
	var body struct {
		PromptA     string `json:"prompt_a"`
		PromptB     string `json:"prompt_b"`
		SharedInput string `json:"shared_input"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	promptA := strings.TrimSpace(body.PromptA)
	promptB := strings.TrimSpace(body.PromptB)
	sharedInput := strings.TrimSpace(body.SharedInput)

	if promptA == "" && promptB == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one prompt is required"})
		return
	}

	settings, err := config.Load(s.configPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Config file not found"})
		return
	}

	result, err := s.runner.Run(c.Request.Context(), engine.Input{
		PromptA:     promptA,
		PromptB:     promptB,
		SharedInput: sharedInput,
		Providers:   settings.ProviderList(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := s.runs.Append(result); err != nil {
		s.log.WithError(err).Warn("failed to append run log")
	}

	c.JSON(http.StatusOK, gin.H{
		"prompt_a":     promptA,
		"prompt_b":     promptB,
		"shared_input": sharedInput,
		"results_a":    result.Outputs.ResultsA,
		"results_b":    result.Outputs.ResultsB,
	})
}

// errCause unwraps pkg/errors wrapping to reach the os error underneath
func errCause(err error) error {
	type causer interface {
		Cause() error
	}
	for err != nil {
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return err
}
