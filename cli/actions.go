package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/serisow/lesocle-seeder/pipeline_type"
)

const goBackLabel = "← Go back"

// errGoBack aborts an entity-picking action without it counting as a failure.
var errGoBack = errors.New("go back")

// Action is one main-menu entry.
type Action struct {
	Key          string
	Label        string
	Title        string
	RequiresAuth bool
	Run          func(ctx context.Context, s *Session, p Prompter) error
}

const exitKey = "exit"

// Actions lists the main-menu entries in display order.
func Actions() []Action {
	return []Action{
		{Key: "auth", Label: "🔐 Authenticate (Get Client ID + Login)", Title: "Authentication", Run: authenticateAction},
		{Key: "create_activity", Label: "📝 Create Activities", Title: "Create Activities", RequiresAuth: true, Run: createActivitiesAction},
		{Key: "create_users", Label: "👥 Create Users", Title: "Create Users", RequiresAuth: true, Run: createUsersAction},
		{Key: "list_activities", Label: "📚 List Activities", Title: "Activities", RequiresAuth: true, Run: listActivitiesAction},
		{Key: "list_users", Label: "👤 List Users", Title: "Users", RequiresAuth: true, Run: listUsersAction},
		{Key: "register_user", Label: "🎓 Register User for Activity", Title: "Register User for Activity", RequiresAuth: true, Run: registerUserAction},
		{Key: "view_registrations", Label: "📋 View User Registrations", Title: "User Registrations", RequiresAuth: true, Run: viewRegistrationsAction},
		{Key: "view_status", Label: "📊 View Session Status", Title: "Session Status", Run: viewStatusAction},
		{Key: "clear_session", Label: "🧹 Clear Session", Title: "Clear Session", Run: clearSessionAction},
		{Key: exitKey, Label: "🚪 Exit"},
	}
}

func authenticateAction(ctx context.Context, s *Session, _ Prompter) error {
	if err := s.RunStep(ctx, "domain"); err != nil {
		return err
	}
	if err := s.RunStep(ctx, "auth"); err != nil {
		return err
	}
	displaySuccess(s.out, "Authentication completed successfully!")
	return nil
}

func createActivitiesAction(ctx context.Context, s *Session, _ Prompter) error {
	if err := s.RunStep(ctx, "create_activities"); err != nil {
		return err
	}
	displaySuccess(s.out, "%d activities created successfully!", pipeline_type.Count(s.Context, pipeline_type.CreatedActivitiesCount))
	return nil
}

func createUsersAction(ctx context.Context, s *Session, _ Prompter) error {
	if err := s.RunStep(ctx, "create_users"); err != nil {
		return err
	}
	displaySuccess(s.out, "%d users created successfully!", pipeline_type.Count(s.Context, pipeline_type.CreatedUsersCount))
	return nil
}

func listActivitiesAction(ctx context.Context, s *Session, _ Prompter) error {
	if err := s.RunStep(ctx, "activities_list"); err != nil {
		return err
	}
	activities, _ := pipeline_type.Lookup(s.Context, pipeline_type.ActivitiesList)
	renderActivities(s.out, activities)
	return nil
}

func listUsersAction(ctx context.Context, s *Session, _ Prompter) error {
	if err := s.RunStep(ctx, "users_list"); err != nil {
		return err
	}
	users, _ := pipeline_type.Lookup(s.Context, pipeline_type.UsersList)
	renderUsers(s.out, users)
	return nil
}

// registerUserAction: list users, pick one, list activities, pick one,
// register. Backing out at either pick leaves the context untouched.
func registerUserAction(ctx context.Context, s *Session, p Prompter) error {
	return s.subPipeline(func() error {
		userID, err := selectUser(ctx, s, p)
		if err != nil {
			return err
		}
		activityID, err := selectActivity(ctx, s, p)
		if err != nil {
			return err
		}

		pipeline_type.Store(s.Context, pipeline_type.SelectedUserID, userID)
		pipeline_type.Store(s.Context, pipeline_type.SelectedActivityID, activityID)

		if err := s.RunStep(ctx, "register_user_activity"); err != nil {
			return err
		}
		displaySuccess(s.out, "User successfully registered for activity")
		return nil
	})
}

func viewRegistrationsAction(ctx context.Context, s *Session, p Prompter) error {
	return s.subPipeline(func() error {
		userID, err := selectUser(ctx, s, p)
		if err != nil {
			return err
		}

		pipeline_type.Store(s.Context, pipeline_type.SelectedUserID, userID)

		if err := s.RunStep(ctx, "user_registrations"); err != nil {
			return err
		}
		registrations, _ := pipeline_type.Lookup(s.Context, pipeline_type.UserRegistrations)
		renderRegistrations(s.out, registrations)
		return nil
	})
}

func viewStatusAction(_ context.Context, s *Session, p Prompter) error {
	renderStatus(s.out, s)
	return p.Pause("Press Enter to continue...")
}

func clearSessionAction(_ context.Context, s *Session, p Prompter) error {
	ok, err := p.Confirm("Clear the session context (token, client ID, selections)")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(s.out, "Session kept.")
		return nil
	}
	s.Clear()
	return nil
}

func selectUser(ctx context.Context, s *Session, p Prompter) (string, error) {
	if err := s.RunStep(ctx, "users_list"); err != nil {
		return "", err
	}
	users, _ := pipeline_type.Lookup(s.Context, pipeline_type.UsersList)
	if len(users) == 0 {
		displayWarning(s.out, "No users found.")
		return "", errGoBack
	}

	choices := make([]Choice, 0, len(users)+1)
	for _, u := range users {
		choices = append(choices, Choice{Label: u.DisplayName()})
	}
	idx, err := pick(p, s, "Select a user", choices)
	if err != nil {
		return "", err
	}
	return users[idx].ID, nil
}

func selectActivity(ctx context.Context, s *Session, p Prompter) (string, error) {
	if err := s.RunStep(ctx, "activities_list"); err != nil {
		return "", err
	}
	activities, _ := pipeline_type.Lookup(s.Context, pipeline_type.ActivitiesList)
	if len(activities) == 0 {
		displayWarning(s.out, "No activities found.")
		return "", errGoBack
	}

	choices := make([]Choice, 0, len(activities)+1)
	for _, a := range activities {
		choices = append(choices, Choice{Label: a.Title})
	}
	idx, err := pick(p, s, "Select an activity", choices)
	if err != nil {
		return "", err
	}
	return activities[idx].ID, nil
}

// pick offers choices plus a trailing go-back entry. Picking it yields errGoBack.
func pick(p Prompter, s *Session, label string, choices []Choice) (int, error) {
	choices = append(choices, Choice{Label: goBackLabel})
	idx, err := choose(p, s.out, label, choices)
	if err != nil {
		return -1, err
	}
	if idx == len(choices)-1 {
		return -1, errGoBack
	}
	return idx, nil
}
