package activity_step

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/serisow/lesocle-seeder/http_client"
	"github.com/serisow/lesocle-seeder/pipeline_type"
)

const activitySearchPath = "/v2/activities/search"

// DefaultPageSize is the single page requested from search endpoints.
const DefaultPageSize = 100

// ActivitiesListStep loads the first page of activities sorted by title.
type ActivitiesListStep struct {
	PageSize int
	Logger   *slog.Logger
}

func (s *ActivitiesListStep) GetType() string {
	return "activities_list"
}

func (s *ActivitiesListStep) Execute(ctx context.Context, gateway http_client.Gateway, pipelineContext *pipeline_type.Context) error {
	logger := loggerOrDefault(s.Logger)

	if _, err := pipeline_type.Require(pipelineContext, pipeline_type.BearerToken, s.GetType(), "auth step must run first"); err != nil {
		return err
	}

	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	logger.Info("fetching activities", slog.Int("page_size", pageSize))

	pipelineContext.Unset(pipeline_type.ActivitiesList.Name)
	pipelineContext.Unset(pipeline_type.ActivitiesCount.Name)

	opts := http_client.RequestOptions{Query: map[string]string{
		"page":   "0",
		"size":   strconv.Itoa(pageSize),
		"sortBy": "title",
	}}
	search := pipeline_type.SearchRequest{Criteria: []interface{}{}}

	_, err := gateway.PostWithOptions(ctx, activitySearchPath, search, opts, func(resp *http_client.Response, c *pipeline_type.Context) error {
		activities := make([]pipeline_type.Activity, 0)
		for i, item := range resp.Field("content").Array() {
			var activity pipeline_type.Activity
			// each entry wraps the activity itself
			if err := pipeline_type.DecodeRecord(item.Get("activity").Value(), &activity); err != nil {
				return fmt.Errorf("activity %d: %w", i, err)
			}
			activities = append(activities, activity)
		}
		pipeline_type.Store(c, pipeline_type.ActivitiesList, activities)
		pipeline_type.Store(c, pipeline_type.ActivitiesCount, len(activities))
		return nil
	})
	if err != nil {
		return fmt.Errorf("error fetching activities: %w", err)
	}

	activities, err := pipeline_type.Require(pipelineContext, pipeline_type.ActivitiesList, s.GetType(), "failed to extract activities from response")
	if err != nil {
		return err
	}

	logger.Info("activities retrieved", slog.Int("count", len(activities)))
	return nil
}
