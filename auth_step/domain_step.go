package auth_step

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/serisow/lesocle-seeder/http_client"
	"github.com/serisow/lesocle-seeder/pipeline_type"
)

// DomainStep fetches the client ID the auth endpoint needs. It runs before
// authentication and sends no token.
type DomainStep struct {
	Logger *slog.Logger
}

func (s *DomainStep) GetType() string {
	return "domain"
}

func (s *DomainStep) Execute(ctx context.Context, gateway http_client.Gateway, pipelineContext *pipeline_type.Context) error {
	logger := loggerOrDefault(s.Logger)
	logger.Info("fetching client ID")

	pipelineContext.Unset(pipeline_type.ClientID.Name)

	_, err := gateway.Get(ctx, "/domain/client", func(resp *http_client.Response, c *pipeline_type.Context) error {
		id := resp.Field("id")
		if !id.Exists() || id.String() == "" {
			return errors.New("client ID not found in response")
		}
		pipeline_type.Store(c, pipeline_type.ClientID, id.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to fetch client ID: %w", err)
	}

	clientID, err := pipeline_type.Require(pipelineContext, pipeline_type.ClientID, s.GetType(), "failed to extract client ID from response")
	if err != nil {
		return err
	}

	logger.Info("client ID retrieved", slog.String("client_id", clientID))
	return nil
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
