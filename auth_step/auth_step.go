package auth_step

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/serisow/lesocle-seeder/config"
	"github.com/serisow/lesocle-seeder/http_client"
	"github.com/serisow/lesocle-seeder/pipeline_type"
)

// AuthStep logs in with the admin credentials and stores the bearer token
// every later request is sent with.
type AuthStep struct {
	Credentials config.Credentials
	Extractor   TokenExtractor
	Logger      *slog.Logger
}

func (s *AuthStep) GetType() string {
	return "auth"
}

func (s *AuthStep) Execute(ctx context.Context, gateway http_client.Gateway, pipelineContext *pipeline_type.Context) error {
	logger := loggerOrDefault(s.Logger)

	clientID, err := pipeline_type.Require(pipelineContext, pipeline_type.ClientID, s.GetType(), "domain step must run first")
	if err != nil {
		return err
	}

	extractor := s.Extractor
	if extractor == nil {
		extractor = HeaderTokenExtractor{}
	}

	// a stale token must not satisfy the check after the call
	pipelineContext.Unset(pipeline_type.BearerToken.Name)

	logger.Info("authenticating",
		slog.String("client_id", clientID),
		slog.String("username", s.Credentials.Username))

	request := pipeline_type.AuthRequest{
		ClientID: clientID,
		Context:  s.Credentials.Context,
		Password: s.Credentials.Password,
		Platform: s.Credentials.Platform,
		Username: s.Credentials.Username,
	}

	_, err = gateway.Post(ctx, "/authenticate", request, func(resp *http_client.Response, c *pipeline_type.Context) error {
		token, err := extractor.Extract(resp)
		if err != nil {
			return err
		}
		pipeline_type.Store(c, pipeline_type.BearerToken, token)

		if user, ok := resp.Field("user").Value().(map[string]interface{}); ok {
			pipeline_type.Store(c, pipeline_type.CurrentUser, pipeline_type.Record(user))
		}
		if userID := resp.Field("userId"); userID.Exists() && userID.String() != "" {
			pipeline_type.Store(c, pipeline_type.UserID, userID.String())
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if _, err := pipeline_type.Require(pipelineContext, pipeline_type.BearerToken, s.GetType(), "failed to extract bearer token from authentication response"); err != nil {
		return err
	}

	logger.Info("authentication successful")
	return nil
}
