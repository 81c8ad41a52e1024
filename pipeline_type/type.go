package pipeline_type

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Record is a loosely-typed JSON object as returned by the backend.
type Record = map[string]interface{}

type User struct {
	ID        string `json:"id" mapstructure:"id"`
	Username  string `json:"username" mapstructure:"username"`
	Email     string `json:"email" mapstructure:"email"`
	FirstName string `json:"firstName,omitempty" mapstructure:"firstName"`
	LastName  string `json:"lastName,omitempty" mapstructure:"lastName"`
}

// DisplayName is the label used when a user is offered as a choice.
func (u User) DisplayName() string {
	name := u.Username
	if u.FirstName != "" || u.LastName != "" {
		name = fmt.Sprintf("%s %s (%s)", u.FirstName, u.LastName, u.Username)
	}
	if u.Email != "" {
		name += " <" + u.Email + ">"
	}
	return name
}

type Activity struct {
	ID          string `json:"id" mapstructure:"id"`
	Title       string `json:"title" mapstructure:"title"`
	Description string `json:"description,omitempty" mapstructure:"description"`
	Supplier    string `json:"supplier,omitempty" mapstructure:"supplier"`
	Status      string `json:"status,omitempty" mapstructure:"status"`
	Type        string `json:"type,omitempty" mapstructure:"type"`
}

// Registration is one activity registration of a user. Backends disagree on
// the title and ID field names, so several aliases are accepted.
type Registration struct {
	ID             string   `mapstructure:"id"`
	RegistrationID string   `mapstructure:"registrationId"`
	ActivityID     string   `mapstructure:"activityId"`
	Title          string   `mapstructure:"title"`
	ActivityTitle  string   `mapstructure:"activityTitle"`
	ActivityName   string   `mapstructure:"activityName"`
	Status         string   `mapstructure:"status"`
	Progress       *float64 `mapstructure:"progress"`
	StartDate      string   `mapstructure:"startDate"`
	EndDate        string   `mapstructure:"endDate"`
	CompletedAt    string   `mapstructure:"completedAt"`
}

// DisplayTitle picks the first non-empty title alias, falling back to the
// activity ID.
func (r Registration) DisplayTitle() string {
	for _, candidate := range []string{r.Title, r.ActivityTitle, r.ActivityName, r.ActivityID} {
		if candidate != "" {
			return candidate
		}
	}
	return "Unknown"
}

// Identifier returns the registration ID under either of its field names.
func (r Registration) Identifier() string {
	if r.ID != "" {
		return r.ID
	}
	return r.RegistrationID
}

type AuthRequest struct {
	ClientID string `json:"clientId"`
	Context  string `json:"context"`
	Password string `json:"password"`
	Platform string `json:"platform"`
	Username string `json:"username"`
}

// SearchRequest is the body of the v2 search endpoints. An empty criteria
// list matches everything.
type SearchRequest struct {
	Criteria []interface{} `json:"criteria"`
}

type BulkRegistrationRequest struct {
	Action     string   `json:"action"`
	ActivityID string   `json:"activityId"`
	UserIDs    []string `json:"userIds"`
}

// DecodeRecord maps a loose JSON object onto out, converting scalar types
// where needed (numeric IDs and statuses become strings).
func DecodeRecord(in interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("record decoder: %w", err)
	}
	if err := decoder.Decode(in); err != nil {
		return fmt.Errorf("record decoder: failed to map record: %w", err)
	}
	return nil
}
