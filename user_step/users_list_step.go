package user_step

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/serisow/lesocle-seeder/http_client"
	"github.com/serisow/lesocle-seeder/pipeline_type"
)

const defaultPageSize = 100

// UsersListStep loads the first page of users.
type UsersListStep struct {
	PageSize int
	Logger   *slog.Logger
}

func (s *UsersListStep) GetType() string {
	return "users_list"
}

func (s *UsersListStep) Execute(ctx context.Context, gateway http_client.Gateway, pipelineContext *pipeline_type.Context) error {
	logger := loggerOrDefault(s.Logger)

	if _, err := pipeline_type.Require(pipelineContext, pipeline_type.BearerToken, s.GetType(), "auth step must run first"); err != nil {
		return err
	}

	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	logger.Info("fetching users", slog.Int("page_size", pageSize))

	pipelineContext.Unset(pipeline_type.UsersList.Name)
	pipelineContext.Unset(pipeline_type.UsersCount.Name)

	opts := http_client.RequestOptions{Query: map[string]string{
		"page": "0",
		"size": strconv.Itoa(pageSize),
	}}
	search := pipeline_type.SearchRequest{Criteria: []interface{}{}}

	_, err := gateway.PostWithOptions(ctx, "/v2/users/search", search, opts, func(resp *http_client.Response, c *pipeline_type.Context) error {
		users := make([]pipeline_type.User, 0)
		for i, item := range resp.Field("content").Array() {
			var user pipeline_type.User
			if err := pipeline_type.DecodeRecord(item.Value(), &user); err != nil {
				return fmt.Errorf("user %d: %w", i, err)
			}
			users = append(users, user)
		}
		pipeline_type.Store(c, pipeline_type.UsersList, users)
		pipeline_type.Store(c, pipeline_type.UsersCount, len(users))
		return nil
	})
	if err != nil {
		return fmt.Errorf("error fetching users: %w", err)
	}

	users, err := pipeline_type.Require(pipelineContext, pipeline_type.UsersList, s.GetType(), "failed to extract users from response")
	if err != nil {
		return err
	}

	logger.Info("users retrieved", slog.Int("count", len(users)))
	return nil
}
