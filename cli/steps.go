package cli

import (
	"fmt"
	"log/slog"

	"github.com/serisow/lesocle-seeder/activity_step"
	"github.com/serisow/lesocle-seeder/auth_step"
	"github.com/serisow/lesocle-seeder/config"
	"github.com/serisow/lesocle-seeder/pipeline/step"
	"github.com/serisow/lesocle-seeder/plugin_registry"
	"github.com/serisow/lesocle-seeder/registration_step"
	"github.com/serisow/lesocle-seeder/user_step"
)

// RegisterStepTypes registers every shipped step under its type name. Sample
// data and the token extractor are resolved once, here.
func RegisterStepTypes(registry *plugin_registry.PluginRegistry, cfg config.Config, logger *slog.Logger) error {
	extractor, err := auth_step.NewTokenExtractor(cfg.TokenSource, cfg.TokenFieldOrDefault())
	if err != nil {
		return err
	}
	activities, err := activity_step.LoadSampleActivities(cfg.ActivitiesFile)
	if err != nil {
		return fmt.Errorf("register steps: %w", err)
	}
	users, err := user_step.LoadSampleUsers(cfg.UsersFile)
	if err != nil {
		return fmt.Errorf("register steps: %w", err)
	}

	registry.RegisterStepTypeWithDescription("domain", "Fetch the client ID of the domain", func() step.Step {
		return &auth_step.DomainStep{Logger: logger}
	})
	registry.RegisterStepTypeWithDescription("auth", "Log in as admin and keep the bearer token", func() step.Step {
		return &auth_step.AuthStep{Credentials: cfg.Credentials, Extractor: extractor, Logger: logger}
	})
	registry.RegisterStepTypeWithDescription("create_activities", "Create the sample activities", func() step.Step {
		return &activity_step.CreateActivitiesStep{Activities: activities, Logger: logger}
	})
	registry.RegisterStepTypeWithDescription("activities_list", "List activities sorted by title", func() step.Step {
		return &activity_step.ActivitiesListStep{PageSize: cfg.SearchPageSize, Logger: logger}
	})
	registry.RegisterStepTypeWithDescription("create_users", "Create the sample users", func() step.Step {
		return &user_step.CreateUsersStep{Users: users, Logger: logger}
	})
	registry.RegisterStepTypeWithDescription("users_list", "List users", func() step.Step {
		return &user_step.UsersListStep{PageSize: cfg.SearchPageSize, Logger: logger}
	})
	registry.RegisterStepTypeWithDescription("user_registrations", "List the registrations of the selected user", func() step.Step {
		return &user_step.UserRegistrationsStep{Logger: logger}
	})
	registry.RegisterStepTypeWithDescription("register_user_activity", "Register the selected user for the selected activity", func() step.Step {
		return &registration_step.RegisterUserActivityStep{Logger: logger}
	})
	return nil
}
