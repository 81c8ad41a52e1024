package user_step

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/serisow/lesocle-seeder/http_client"
	"github.com/serisow/lesocle-seeder/pipeline_type"
)

// UserRegistrationsStep loads the activity registrations of the selected user.
type UserRegistrationsStep struct {
	Logger *slog.Logger
}

func (s *UserRegistrationsStep) GetType() string {
	return "user_registrations"
}

func (s *UserRegistrationsStep) Execute(ctx context.Context, gateway http_client.Gateway, pipelineContext *pipeline_type.Context) error {
	logger := loggerOrDefault(s.Logger)

	userID, err := pipeline_type.Require(pipelineContext, pipeline_type.SelectedUserID, s.GetType(), "no user selected, please select a user first")
	if err != nil {
		return err
	}

	logger.Info("fetching registrations", slog.String("user_id", userID))

	pipelineContext.Unset(pipeline_type.UserRegistrations.Name)
	pipelineContext.Unset(pipeline_type.UserRegistrationCount.Name)

	path := fmt.Sprintf("/users/%s/registrations", url.PathEscape(userID))
	_, err = gateway.Get(ctx, path, func(resp *http_client.Response, c *pipeline_type.Context) error {
		items, err := registrationItems(resp)
		if err != nil {
			return err
		}
		registrations := make([]pipeline_type.Registration, 0, len(items))
		for i, item := range items {
			var reg pipeline_type.Registration
			if err := pipeline_type.DecodeRecord(item.Value(), &reg); err != nil {
				return fmt.Errorf("registration %d: %w", i, err)
			}
			registrations = append(registrations, reg)
		}
		pipeline_type.Store(c, pipeline_type.UserRegistrations, registrations)
		pipeline_type.Store(c, pipeline_type.UserRegistrationCount, len(registrations))
		return nil
	})
	if err != nil {
		return fmt.Errorf("error fetching registrations: %w", err)
	}

	registrations, err := pipeline_type.Require(pipelineContext, pipeline_type.UserRegistrations, s.GetType(), "failed to extract registrations from response")
	if err != nil {
		return err
	}

	logger.Info("registrations retrieved", slog.String("user_id", userID), slog.Int("count", len(registrations)))
	return nil
}

// registrationItems accepts a bare array, a paged {content: [...]} body or an
// empty body (no registrations).
func registrationItems(resp *http_client.Response) ([]gjson.Result, error) {
	if len(resp.Body) == 0 {
		return nil, nil
	}
	root := resp.Field("@this")
	switch {
	case root.IsArray():
		return root.Array(), nil
	case root.Get("content").IsArray():
		return root.Get("content").Array(), nil
	case root.Type == gjson.Null:
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected registrations payload: %s", root.Type)
}
