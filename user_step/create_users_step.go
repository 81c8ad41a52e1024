package user_step

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/serisow/lesocle-seeder/http_client"
	"github.com/serisow/lesocle-seeder/pipeline_type"
)

// CreateUsersStep creates one backend user per sample through the legacy
// /users endpoint. Like activity creation it stops at the first failure and
// writes nothing to the context in that case.
type CreateUsersStep struct {
	Users  []SampleUser
	Logger *slog.Logger
}

func (s *CreateUsersStep) GetType() string {
	return "create_users"
}

func (s *CreateUsersStep) Execute(ctx context.Context, gateway http_client.Gateway, pipelineContext *pipeline_type.Context) error {
	logger := loggerOrDefault(s.Logger)

	if _, err := pipeline_type.Require(pipelineContext, pipeline_type.BearerToken, s.GetType(), "auth step must run first"); err != nil {
		return err
	}

	created := make([]pipeline_type.Record, 0, len(s.Users))
	ids := make(map[string]string, len(s.Users))

	for _, user := range s.Users {
		logger.Info("creating user", slog.String("username", user.Username))

		record := pipeline_type.Record{}
		_, err := gateway.Post(ctx, "/users", user, func(resp *http_client.Response, _ *pipeline_type.Context) error {
			obj, ok := resp.Field("@this").Value().(map[string]interface{})
			if !ok {
				return fmt.Errorf("created user %q: response is not an object", user.Username)
			}
			record = obj
			return nil
		})
		if err != nil {
			return fmt.Errorf("error creating user %q after %d created: %w", user.Username, len(created), err)
		}
		created = append(created, record)

		if id, ok := pipeline_type.StringValue(record["id"]); ok {
			ids[user.Username] = id
			logger.Info("created user", slog.String("username", user.Username), slog.String("id", id))
		}
	}

	for username, id := range ids {
		pipeline_type.Store(pipelineContext, pipeline_type.UserIDKey(username), id)
	}
	pipeline_type.Store(pipelineContext, pipeline_type.CreatedUsers, created)
	pipeline_type.Store(pipelineContext, pipeline_type.CreatedUsersCount, len(created))

	logger.Info("users created", slog.Int("count", len(created)))
	return nil
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
