// Package cli drives the seeder steps from a terminal, either as an
// interactive menu or as a one-shot batch run.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/serisow/lesocle-seeder/config"
	"github.com/serisow/lesocle-seeder/http_client"
	"github.com/serisow/lesocle-seeder/pipeline"
	"github.com/serisow/lesocle-seeder/pipeline_type"
	"github.com/serisow/lesocle-seeder/plugin_registry"
)

// Session keeps the shared context and the gateway bound to it alive across
// every action of one run.
type Session struct {
	Config   config.Config
	Context  *pipeline_type.Context
	Executor *pipeline.Executor

	out    io.Writer
	logger *slog.Logger
}

func NewSession(cfg config.Config, registry *plugin_registry.PluginRegistry, out io.Writer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	pctx := pipeline_type.NewContext()
	pctx.SetLogger(logger)

	gateway := http_client.New(http_client.Options{
		BaseURL:            cfg.APIBaseURL,
		Timeout:            cfg.Timeout(),
		RejectUnauthorized: cfg.RejectUnauthorized,
		Verbose:            cfg.Verbose,
	}, pctx, logger)

	return &Session{
		Config:   cfg,
		Context:  pctx,
		Executor: pipeline.NewExecutor(registry, gateway, pipeline.NewExecutionStore(), logger),
		out:      out,
		logger:   logger,
	}
}

// IsAuthenticated reports whether both the bearer token and the client ID
// are known.
func (s *Session) IsAuthenticated() bool {
	return s.Context.Has(pipeline_type.BearerToken.Name) && s.Context.Has(pipeline_type.ClientID.Name)
}

// Clear forgets the context and the recorded step runs.
func (s *Session) Clear() {
	s.Context.Clear()
	s.Executor.Store().Reset()
	fmt.Fprintln(s.out, "Session context cleared.")
}

// RunStep runs the registered step type against the session context.
func (s *Session) RunStep(ctx context.Context, stepType string) error {
	return s.Executor.ExecuteStep(ctx, pipeline_type.PipelineStep{Type: stepType}, s.Context)
}

// subPipeline runs fn and, when the user backs out, puts the context back
// exactly as it was before fn started.
func (s *Session) subPipeline(fn func() error) error {
	snapshot := s.Context.GetAll()
	err := fn()
	if errors.Is(err, errGoBack) {
		s.Context.Restore(snapshot)
		fmt.Fprintln(s.out, "\nReturning to main menu...")
		return nil
	}
	return err
}
