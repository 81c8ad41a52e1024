package step

import (
	"context"

	"github.com/serisow/lesocle-seeder/http_client"
	"github.com/serisow/lesocle-seeder/pipeline_type"
)

// Step is one named unit of seeding work. Implementations keep no state
// between runs; everything they produce goes into the pipeline context.
type Step interface {
	Execute(ctx context.Context, gateway http_client.Gateway, pipelineContext *pipeline_type.Context) error

	GetType() string
}

// Func adapts a plain function to Step.
type Func struct {
	Type string
	Fn   func(ctx context.Context, gateway http_client.Gateway, pipelineContext *pipeline_type.Context) error
}

func (f Func) Execute(ctx context.Context, gateway http_client.Gateway, pipelineContext *pipeline_type.Context) error {
	return f.Fn(ctx, gateway, pipelineContext)
}

func (f Func) GetType() string {
	return f.Type
}
