package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serisow/lesocle-seeder/auth_step"
	"github.com/serisow/lesocle-seeder/http_client"
	"github.com/serisow/lesocle-seeder/pipeline/step"
	"github.com/serisow/lesocle-seeder/pipeline_type"
	"github.com/serisow/lesocle-seeder/plugin_registry"
)

var resultKey = pipeline_type.Key[string]{Name: "x"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newOrderRegistry registers "produce" which writes x, and "consume" which
// requires x.
func newOrderRegistry(calls *[]string) *plugin_registry.PluginRegistry {
	registry := plugin_registry.NewPluginRegistry()
	registry.RegisterStepType("produce", func() step.Step {
		return step.Func{Type: "produce", Fn: func(_ context.Context, _ http_client.Gateway, pctx *pipeline_type.Context) error {
			*calls = append(*calls, "produce")
			pipeline_type.Store(pctx, resultKey, "value")
			return nil
		}}
	})
	registry.RegisterStepType("consume", func() step.Step {
		return step.Func{Type: "consume", Fn: func(_ context.Context, _ http_client.Gateway, pctx *pipeline_type.Context) error {
			*calls = append(*calls, "consume")
			_, err := pipeline_type.Require(pctx, resultKey, "consume", "produce must run first")
			return err
		}}
	})
	registry.RegisterStepType("never", func() step.Step {
		return step.Func{Type: "never", Fn: func(context.Context, http_client.Gateway, *pipeline_type.Context) error {
			*calls = append(*calls, "never")
			return nil
		}}
	})
	return registry
}

func newTestPipeline(types ...string) *pipeline_type.Pipeline {
	p := &pipeline_type.Pipeline{ID: "test"}
	for _, typ := range types {
		p.Steps = append(p.Steps, pipeline_type.PipelineStep{Type: typ})
	}
	ctx := pipeline_type.NewContext()
	ctx.SetLogger(discardLogger())
	p.Context = ctx
	return p
}

func TestExecutePipelineInOrder(t *testing.T) {
	var calls []string
	executor := NewExecutor(newOrderRegistry(&calls), nil, nil, discardLogger())

	p := newTestPipeline("produce", "consume")
	require.NoError(t, executor.ExecutePipeline(context.Background(), p))

	assert.Equal(t, []string{"produce", "consume"}, calls)
	got, ok := pipeline_type.Lookup(p.Context, resultKey)
	require.True(t, ok)
	assert.Equal(t, "value", got)

	succeeded, failed := executor.Store().Counts()
	assert.Equal(t, 2, succeeded)
	assert.Equal(t, 0, failed)
}

func TestExecutePipelineStopsAtFirstFailure(t *testing.T) {
	var calls []string
	executor := NewExecutor(newOrderRegistry(&calls), nil, nil, discardLogger())

	p := newTestPipeline("consume", "produce", "never")
	err := executor.ExecutePipeline(context.Background(), p)

	require.Error(t, err)
	assert.True(t, errors.Is(err, pipeline_type.ErrMissingPrerequisite))
	assert.Contains(t, err.Error(), "error executing step consume")
	assert.Equal(t, []string{"consume"}, calls)
	assert.False(t, p.Context.Has(resultKey.Name))

	runs := executor.Store().Executions()
	require.Len(t, runs, 1)
	assert.Equal(t, StatusFailed, runs[0].Status)
}

func TestExecutePipelineUnknownStep(t *testing.T) {
	var calls []string
	executor := NewExecutor(newOrderRegistry(&calls), nil, nil, discardLogger())

	err := executor.ExecutePipeline(context.Background(), newTestPipeline("produce", "bogus", "never"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown step type: bogus")
	assert.Equal(t, []string{"produce"}, calls)
}

func TestExecutePipelineCancelled(t *testing.T) {
	var calls []string
	executor := NewExecutor(newOrderRegistry(&calls), nil, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := executor.ExecutePipeline(ctx, newTestPipeline("produce"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, calls)
}

func TestExecutePipelineCreatesContextWithoutGateway(t *testing.T) {
	var calls []string
	executor := NewExecutor(newOrderRegistry(&calls), nil, nil, discardLogger())

	p := &pipeline_type.Pipeline{ID: "bare", Steps: []pipeline_type.PipelineStep{{Type: "produce"}}}
	require.NoError(t, executor.ExecutePipeline(context.Background(), p))
	require.NotNil(t, p.Context)
	assert.True(t, p.Context.Has(resultKey.Name))
}

func TestExecutePipelineDefaultsToGatewayContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"client-1"}`))
	}))
	defer server.Close()

	gateway := http_client.New(http_client.Options{BaseURL: server.URL, Timeout: 5 * time.Second}, nil, discardLogger())
	registry := plugin_registry.NewPluginRegistry()
	registry.RegisterStepType("domain", func() step.Step { return &auth_step.DomainStep{Logger: discardLogger()} })
	executor := NewExecutor(registry, gateway, nil, discardLogger())

	p := &pipeline_type.Pipeline{ID: "bare", Steps: []pipeline_type.PipelineStep{{Type: "domain"}}}
	require.NoError(t, executor.ExecutePipeline(context.Background(), p))

	assert.Same(t, gateway.Context(), p.Context)
	clientID, ok := pipeline_type.Lookup(p.Context, pipeline_type.ClientID)
	assert.True(t, ok)
	assert.Equal(t, "client-1", clientID)
}

func TestExecutorRejectsForeignContext(t *testing.T) {
	var calls []string
	gateway := http_client.New(http_client.Options{BaseURL: "http://localhost"}, nil, discardLogger())
	executor := NewExecutor(newOrderRegistry(&calls), gateway, nil, discardLogger())

	err := executor.ExecutePipeline(context.Background(), newTestPipeline("produce"))
	assert.True(t, errors.Is(err, ErrContextMismatch))

	err = executor.ExecuteStep(context.Background(), pipeline_type.PipelineStep{Type: "produce"}, pipeline_type.NewContext())
	assert.True(t, errors.Is(err, ErrContextMismatch))

	assert.Empty(t, calls)
	assert.Empty(t, executor.Store().Executions())
}

func TestRunPassesGateway(t *testing.T) {
	gateway := http_client.New(http_client.Options{BaseURL: "http://localhost"}, nil, discardLogger())
	executor := NewExecutor(plugin_registry.NewPluginRegistry(), gateway, nil, discardLogger())

	var got http_client.Gateway
	s := step.Func{Type: "check", Fn: func(_ context.Context, g http_client.Gateway, _ *pipeline_type.Context) error {
		got = g
		return nil
	}}

	require.NoError(t, executor.Run(context.Background(), "Check", s, gateway.Context()))
	assert.Same(t, gateway, got)

	runs := executor.Store().Executions()
	require.Len(t, runs, 1)
	assert.Equal(t, "Check", runs[0].StepID)
	assert.Equal(t, "check", runs[0].StepType)
}
