package registration_step

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/serisow/lesocle-seeder/http_client"
	"github.com/serisow/lesocle-seeder/pipeline_type"
)

const registerAction = "REGISTER"

// RegisterUserActivityStep registers the selected user for the selected
// activity through the admin bulk endpoint.
type RegisterUserActivityStep struct {
	Logger *slog.Logger
}

func (s *RegisterUserActivityStep) GetType() string {
	return "register_user_activity"
}

func (s *RegisterUserActivityStep) Execute(ctx context.Context, gateway http_client.Gateway, pipelineContext *pipeline_type.Context) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userID, err := pipeline_type.Require(pipelineContext, pipeline_type.SelectedUserID, s.GetType(), "no user selected, please select a user first")
	if err != nil {
		return err
	}
	activityID, err := pipeline_type.Require(pipelineContext, pipeline_type.SelectedActivityID, s.GetType(), "no activity selected, please select an activity first")
	if err != nil {
		return err
	}

	logger.Info("registering user for activity",
		slog.String("user_id", userID),
		slog.String("activity_id", activityID))

	request := pipeline_type.BulkRegistrationRequest{
		Action:     registerAction,
		ActivityID: activityID,
		UserIDs:    []string{userID},
	}

	_, err = gateway.Post(ctx, "/registrations/bulk", request, func(resp *http_client.Response, c *pipeline_type.Context) error {
		if !resp.IsJSON() {
			return nil
		}
		switch v := resp.Field("@this").Value().(type) {
		case map[string]interface{}:
			pipeline_type.Store(c, pipeline_type.LastRegistration, pipeline_type.Record(v))
		case nil:
		default:
			pipeline_type.Store(c, pipeline_type.LastRegistration, pipeline_type.Record{"result": v})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error registering user %s for activity %s: %w", userID, activityID, err)
	}

	logger.Info("user registered for activity",
		slog.String("user_id", userID),
		slog.String("activity_id", activityID))
	return nil
}
