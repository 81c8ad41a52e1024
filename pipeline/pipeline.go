package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/serisow/lesocle-seeder/http_client"
	"github.com/serisow/lesocle-seeder/pipeline/step"
	"github.com/serisow/lesocle-seeder/pipeline_type"
	"github.com/serisow/lesocle-seeder/plugin_registry"
)

// ErrContextMismatch is returned when a step would run against a context
// other than the one its gateway writes into.
var ErrContextMismatch = errors.New("pipeline context is not the gateway's session context")

// Executor runs registered steps against a gateway and records every run.
type Executor struct {
	registry *plugin_registry.PluginRegistry
	gateway  http_client.Gateway
	store    *ExecutionStore
	logger   *slog.Logger
}

func NewExecutor(registry *plugin_registry.PluginRegistry, gateway http_client.Gateway, store *ExecutionStore, logger *slog.Logger) *Executor {
	if store == nil {
		store = NewExecutionStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		registry: registry,
		gateway:  gateway,
		store:    store,
		logger:   logger,
	}
}

func (e *Executor) Store() *ExecutionStore {
	return e.store
}

func (e *Executor) Registry() *plugin_registry.PluginRegistry {
	return e.registry
}

// ExecutePipeline runs the steps of p strictly in order. The first failing
// step stops the pipeline; later steps never run. A plan without a context
// runs against the gateway's.
func (e *Executor) ExecutePipeline(ctx context.Context, p *pipeline_type.Pipeline) error {
	if p.Context == nil {
		p.Context = e.sessionContext()
	}
	if err := e.checkContext(p.Context); err != nil {
		return fmt.Errorf("pipeline %s: %w", p.ID, err)
	}

	e.logger.Info("starting pipeline",
		slog.String("pipeline_id", p.ID),
		slog.String("label", p.Label),
		slog.Int("steps", len(p.Steps)))

	for _, pipelineStep := range p.Steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline %s interrupted before step %s: %w", p.ID, pipelineStep.Name(), err)
		}
		if err := e.ExecuteStep(ctx, pipelineStep, p.Context); err != nil {
			return fmt.Errorf("error executing step %s: %w", pipelineStep.Name(), err)
		}
	}

	e.logger.Info("pipeline completed", slog.String("pipeline_id", p.ID))
	return nil
}

// ExecuteStep builds the step from the registry and runs it.
func (e *Executor) ExecuteStep(ctx context.Context, pipelineStep pipeline_type.PipelineStep, pctx *pipeline_type.Context) error {
	s, err := e.registry.GetStepInstance(pipelineStep.Type)
	if err != nil {
		return err
	}
	return e.Run(ctx, pipelineStep.Name(), s, pctx)
}

// Run executes an already built step under the given name.
func (e *Executor) Run(ctx context.Context, name string, s step.Step, pctx *pipeline_type.Context) error {
	if err := e.checkContext(pctx); err != nil {
		return fmt.Errorf("step %s: %w", name, err)
	}

	run, err := e.store.Begin(name, s.GetType())
	if err != nil {
		return err
	}

	e.logger.Info("running step", slog.String("step", name), slog.String("type", s.GetType()))
	stepErr := s.Execute(ctx, e.gateway, pctx)

	if err := run.Finish(stepErr); err != nil {
		e.logger.Warn("could not record step outcome", slog.String("step", name), slog.String("error", err.Error()))
	}

	if stepErr != nil {
		e.logger.Error("step failed",
			slog.String("step", name),
			slog.String("execution_id", run.ExecutionID),
			slog.String("error", stepErr.Error()))
		return stepErr
	}

	e.logger.Info("step completed",
		slog.String("step", name),
		slog.Duration("duration", run.Duration()))
	return nil
}

func (e *Executor) sessionContext() *pipeline_type.Context {
	if e.gateway != nil {
		return e.gateway.Context()
	}
	return pipeline_type.NewContext()
}

// checkContext rejects a context the gateway's hooks would never write into.
func (e *Executor) checkContext(pctx *pipeline_type.Context) error {
	if pctx == nil {
		return errors.New("nil pipeline context")
	}
	if e.gateway != nil && e.gateway.Context() != pctx {
		return ErrContextMismatch
	}
	return nil
}
