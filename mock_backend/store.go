package mock_backend

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	errNotFound = errors.New("not found")
	errConflict = errors.New("already exists")
)

type user struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role,omitempty"`
}

type activity struct {
	ID               string   `json:"id"`
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

type registration struct {
	ID         string  `json:"id"`
	UserID     string  `json:"userId"`
	ActivityID string  `json:"activityId"`
	Title      string  `json:"title"`
	Status     string  `json:"status"`
	Progress   float64 `json:"progress"`
	StartDate  string  `json:"startDate"`
}

// store is the in-memory state of the mock backend. Handlers run
// concurrently, so every access goes through the mutex.
type store struct {
	mu            sync.RWMutex
	users         []user
	activities    []activity
	registrations []registration
	now           func() time.Time
}

func newStore(now func() time.Time) *store {
	return &store{now: now}
}

func (s *store) addUser(u user) (user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return user{}, errConflict
		}
	}
	u.ID = uuid.New().String()
	s.users = append(s.users, u)
	return u, nil
}

func (s *store) findUser(id string) (user, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user{}, errNotFound
}

func (s *store) listUsers(limit int) []user {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return page(s.users, limit)
}

func (s *store) addActivity(a activity) (activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.activities {
		if existing.Title == a.Title {
			return activity{}, errConflict
		}
	}
	a.ID = uuid.New().String()
	s.activities = append(s.activities, a)
	return a, nil
}

func (s *store) findActivity(id string) (activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.activities {
		if a.ID == id {
			return a, nil
		}
	}
	return activity{}, errNotFound
}

func (s *store) listActivities(limit int, sortBy string) []activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	activities := slices.Clone(s.activities)
	if sortBy == "title" {
		slices.SortStableFunc(activities, func(a, b activity) int {
			return strings.Compare(a.Title, b.Title)
		})
	}
	return page(activities, limit)
}

// register records userID on activityID. A second registration for the same
// pair is a conflict.
func (s *store) register(userID string, a activity) (registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.registrations {
		if r.UserID == userID && r.ActivityID == a.ID {
			return registration{}, errConflict
		}
	}
	r := registration{
		ID:         uuid.New().String(),
		UserID:     userID,
		ActivityID: a.ID,
		Title:      a.Title,
		Status:     "REGISTERED",
		StartDate:  s.now().UTC().Format(time.DateOnly),
	}
	s.registrations = append(s.registrations, r)
	return r, nil
}

func (s *store) registrationsOf(userID string) []registration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]registration, 0)
	for _, r := range s.registrations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

func page[T any](items []T, limit int) []T {
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}
	out := make([]T, limit)
	copy(out, items)
	return out
}
