package mock_backend

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/serisow/lesocle-seeder/pipeline_type"
)

func (s *Server) getDomainClient(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"id": s.clientID})
}

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) {
	var req pipeline_type.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ClientID != s.clientID {
		writeError(w, http.StatusBadRequest, "unknown client")
		return
	}
	if req.Username != s.admin.Username ||
		bcrypt.CompareHashAndPassword(s.adminHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.issueToken(s.admin, req.Context, req.Platform)
	if err != nil {
		s.logger.Error("failed to issue token", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	body := map[string]interface{}{
		"user":   s.admin,
		"userId": s.admin.ID,
	}
	if !s.omitTokenBody {
		body["token"] = token
	}
	if !s.omitTokenHeader {
		w.Header().Set("Authorization", "Bearer "+token)
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) createActivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Activity activity `json:"activity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Activity.Title == "" {
		writeError(w, http.StatusBadRequest, "activity title is required")
		return
	}

	created, err := s.store.addActivity(req.Activity)
	if err != nil {
		writeStoreError(w, err, "activity")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) searchActivities(w http.ResponseWriter, r *http.Request) {
	size := pageSize(r)
	activities := s.store.listActivities(size, r.URL.Query().Get("sortBy"))

	content := make([]map[string]activity, 0, len(activities))
	for _, a := range activities {
		content = append(content, map[string]activity{"activity": a})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"content":       content,
		"totalElements": len(content),
		"page":          0,
		"size":          size,
	})
}

func (s *Server) searchUsers(w http.ResponseWriter, r *http.Request) {
	size := pageSize(r)
	users := s.store.listUsers(size)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"content":       users,
		"totalElements": len(users),
		"page":          0,
		"size":          size,
	})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req user
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	created, err := s.store.addUser(req)
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) userRegistrations(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	if _, err := s.store.findUser(userID); err != nil {
		writeStoreError(w, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, s.store.registrationsOf(userID))
}

func (s *Server) bulkRegistration(w http.ResponseWriter, r *http.Request) {
	var req pipeline_type.BulkRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Action != "REGISTER" {
		writeError(w, http.StatusBadRequest, "unsupported action: "+req.Action)
		return
	}
	if len(req.UserIDs) == 0 {
		writeError(w, http.StatusBadRequest, "userIds is required")
		return
	}

	target, err := s.store.findActivity(req.ActivityID)
	if err != nil {
		writeStoreError(w, err, "activity")
		return
	}

	registered := make([]string, 0, len(req.UserIDs))
	failed := make(map[string]string)
	for _, userID := range req.UserIDs {
		if _, err := s.store.findUser(userID); err != nil {
			failed[userID] = "user not found"
			continue
		}
		reg, err := s.store.register(userID, target)
		if err != nil {
			failed[userID] = "already registered"
			continue
		}
		registered = append(registered, reg.ID)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"action":          req.Action,
		"activityId":      target.ID,
		"registered":      len(registered),
		"failed":          len(failed),
		"registrationIds": registered,
		"errors":          failed,
	})
}

// pageSize reads the size query parameter; zero or garbage means all.
func pageSize(r *http.Request) int {
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size < 0 {
		return 0
	}
	return size
}

func writeStoreError(w http.ResponseWriter, err error, entity string) {
	switch {
	case errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, errConflict):
		writeError(w, http.StatusConflict, entity+" already exists")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
