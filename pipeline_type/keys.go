package pipeline_type

import (
	"fmt"
	"strings"
)

// Key names a context entry together with the type stored under it.
type Key[T any] struct {
	Name string
}

func (k Key[T]) String() string {
	return k.Name
}

// Well-known keys shared between steps.
var (
	BearerToken = Key[string]{Name: "bearerToken"}
	ClientID    = Key[string]{Name: "clientId"}
	CurrentUser = Key[Record]{Name: "currentUser"}
	UserID      = Key[string]{Name: "userId"}

	UsersList       = Key[[]User]{Name: "usersList"}
	UsersCount      = Key[int]{Name: "usersCount"}
	ActivitiesList  = Key[[]Activity]{Name: "activitiesList"}
	ActivitiesCount = Key[int]{Name: "activitiesCount"}

	CreatedActivities      = Key[[]Record]{Name: "createdActivities"}
	CreatedActivitiesCount = Key[int]{Name: "createdActivitiesCount"}
	CreatedUsers           = Key[[]Record]{Name: "createdUsers"}
	CreatedUsersCount      = Key[int]{Name: "createdUsersCount"}

	SelectedUserID     = Key[string]{Name: "selectedUserId"}
	SelectedActivityID = Key[string]{Name: "selectedActivityId"}

	UserRegistrations     = Key[[]Registration]{Name: "userRegistrations"}
	UserRegistrationCount = Key[int]{Name: "userRegistrationCount"}
	LastRegistration      = Key[Record]{Name: "lastRegistration"}
)

// ActivityIDKey is the per-activity key holding the ID of a created activity,
// e.g. "activity_Git_and_Version_Control_id".
func ActivityIDKey(title string) Key[string] {
	return Key[string]{Name: "activity_" + strings.Join(strings.Fields(title), "_") + "_id"}
}

// UserIDKey is the per-user key holding the ID of a created user.
func UserIDKey(username string) Key[string] {
	return Key[string]{Name: "user_" + username + "_id"}
}

// Store sets value under key.
func Store[T any](c *Context, key Key[T], value T) {
	c.Set(key.Name, value)
}

// Lookup returns the value under key when present and of the expected type.
// A value of another type is reported as absent.
func Lookup[T any](c *Context, key Key[T]) (T, bool) {
	var zero T
	raw, ok := c.Get(key.Name)
	if !ok {
		return zero, false
	}
	val, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return val, true
}

// Require is Lookup for step prerequisites: an absent, mistyped or empty
// string value yields a MissingPrerequisiteError naming the step.
func Require[T any](c *Context, key Key[T], step string, reason string) (T, error) {
	val, ok := Lookup(c, key)
	if !ok {
		return val, MissingPrerequisite(key.Name, step, reason)
	}
	if s, isString := any(val).(string); isString && s == "" {
		return val, MissingPrerequisite(key.Name, step, reason)
	}
	return val, nil
}

// Count returns the stored length companion for a collection key, or zero.
func Count(c *Context, key Key[int]) int {
	n, _ := Lookup(c, key)
	return n
}

// StringValue formats an arbitrary JSON scalar (string, float64, json.Number)
// as an ID string.
func StringValue(v interface{}) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case float64:
		return fmt.Sprintf("%.0f", val), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return fmt.Sprintf("%v", val), true
	}
}
