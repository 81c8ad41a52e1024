package activity_step

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/serisow/lesocle-seeder/http_client"
	"github.com/serisow/lesocle-seeder/pipeline_type"
)

// Every sample is created as a Dutch micro-learning draft.
const (
	draftStatus    = 1
	baseLanguage   = "DUTCH"
	learnSystem    = "NONE"
	microLearning  = "MICRO_LEARNING"
	activitiesPath = "/v2/activities"
)

type activityPayload struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Supplier         string   `json:"supplier"`
	Status           int      `json:"status"`
	BaseLanguage     string   `json:"baseLanguage"`
	EnabledLanguages []string `json:"enabledLanguages"`
	DurationLimited  bool     `json:"durationLimited"`
	System           string   `json:"system"`
	Type             string   `json:"type"`
}

type createActivityRequest struct {
	Activity activityPayload `json:"activity"`
}

// CreateActivitiesStep creates one backend activity per sample. The first
// failed creation fails the step; activities created before it stay on the
// backend but nothing is written to the context.
type CreateActivitiesStep struct {
	Activities []SampleActivity
	Logger     *slog.Logger
}

func (s *CreateActivitiesStep) GetType() string {
	return "create_activities"
}

func (s *CreateActivitiesStep) Execute(ctx context.Context, gateway http_client.Gateway, pipelineContext *pipeline_type.Context) error {
	logger := loggerOrDefault(s.Logger)

	if _, err := pipeline_type.Require(pipelineContext, pipeline_type.BearerToken, s.GetType(), "auth step must run first"); err != nil {
		return err
	}

	created := make([]pipeline_type.Record, 0, len(s.Activities))
	ids := make(map[string]string, len(s.Activities))

	for _, sample := range s.Activities {
		logger.Info("creating activity", slog.String("title", sample.Title))

		request := createActivityRequest{Activity: activityPayload{
			Title:            sample.Title,
			Description:      sample.Description,
			Supplier:         sample.Supplier,
			Status:           draftStatus,
			BaseLanguage:     baseLanguage,
			EnabledLanguages: []string{baseLanguage},
			DurationLimited:  false,
			System:           learnSystem,
			Type:             microLearning,
		}}

		var record pipeline_type.Record
		_, err := gateway.Post(ctx, activitiesPath, request, func(resp *http_client.Response, _ *pipeline_type.Context) error {
			obj, ok := resp.Field("@this").Value().(map[string]interface{})
			if !ok {
				return fmt.Errorf("created activity %q: response is not an object", sample.Title)
			}
			record = obj
			return nil
		})
		if err != nil {
			return fmt.Errorf("error creating activity %q after %d created: %w", sample.Title, len(created), err)
		}
		if record == nil {
			record = pipeline_type.Record{}
		}
		created = append(created, record)

		if id, ok := pipeline_type.StringValue(record["id"]); ok {
			ids[sample.Title] = id
			logger.Info("created activity", slog.String("title", sample.Title), slog.String("id", id))
		} else {
			logger.Warn("created activity has no id", slog.String("title", sample.Title))
		}
	}

	for title, id := range ids {
		pipeline_type.Store(pipelineContext, pipeline_type.ActivityIDKey(title), id)
	}
	pipeline_type.Store(pipelineContext, pipeline_type.CreatedActivities, created)
	pipeline_type.Store(pipelineContext, pipeline_type.CreatedActivitiesCount, len(created))

	logger.Info("activities created", slog.Int("count", len(created)))
	return nil
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
