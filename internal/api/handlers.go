// Package api exposes HTTP handlers for the exercise tracker.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"example.com/exercisetracker/internal/domain"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/users", h.users)
	mux.HandleFunc("/api/users/", h.userSubresource)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) users(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createUser(w, r)
	case http.MethodGet:
		h.listUsers(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

// userSubresource dispatches /api/users/{id}/exercises and /api/users/{id}/logs.
func (h *Handler) userSubresource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/users/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
		return
	}

	userID := parts[0]
	switch parts[1] {
	case "exercises":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.recordExercise(w, r, userID)
	case "logs":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.userLog(w, r, userID)
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
	}
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	user, err := h.service.CreateUser(r.Context(), req.Username)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameRequired):
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		case errors.Is(err, domain.ErrDuplicateUsername):
			writeError(w, http.StatusBadRequest, "duplicate_username", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, toUserView(*user))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, toUserView(user))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) recordExercise(w http.ResponseWriter, r *http.Request, userID string) {
	var req recordExerciseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	input := domain.RecordExerciseInput{
		UserID:      userID,
		Description: req.Description,
		DurationMin: int(req.Duration),
	}
	if req.Date != "" {
		date, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "date must be YYYY-MM-DD")
			return
		}
		input.Date = &date
	}

	record, err := h.service.RecordExercise(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, ExerciseView{
		UserID:      record.UserID,
		Username:    record.Username,
		Description: record.Description,
		Duration:    record.DurationMin,
		Date:        domain.FormatLogDate(record.Date),
	})
}

func (h *Handler) userLog(w http.ResponseWriter, r *http.Request, userID string) {
	filter, err := parseLogFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	userLog, err := h.service.BuildUserLog(r.Context(), userID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	entries := make([]LogEntryView, 0, len(userLog.Entries))
	for _, entry := range userLog.Entries {
		entries = append(entries, LogEntryView{
			Description: entry.Description,
			Duration:    entry.DurationMin,
			Date:        entry.Date,
		})
	}

	writeJSON(w, http.StatusOK, UserLogView{
		UserID:   userLog.UserID,
		Username: userLog.Username,
		Count:    userLog.Count,
		Log:      entries,
	})
}

func parseLogFilter(r *http.Request) (domain.LogFilter, error) {
	var filter domain.LogFilter

	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return filter, errors.New("from must be YYYY-MM-DD")
		}
		filter.From = &from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return filter, errors.New("to must be YYYY-MM-DD")
		}
		filter.To = &to
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, errors.New("limit must be a non-negative integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}

// createUserRequest is the payload for POST /api/users.
type createUserRequest struct {
	Username string `json:"username"`
}

// recordExerciseRequest is the payload for POST /api/users/{id}/exercises.
// Duration accepts a bare number or a numeric string since the bundled demo
// page posts urlencoded form values.
type recordExerciseRequest struct {
	Description string  `json:"description"`
	Duration    flexInt `json:"duration"`
	Date        string  `json:"date"`
}

// flexInt decodes from a JSON number or a quoted numeric string. Anything
// else is rejected rather than silently persisted.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("duration must be an integer")
	}
	*f = flexInt(parsed)
	return nil
}

// decodeBody reads the request payload as JSON, or as an urlencoded form when
// the demo page posts one.
func decodeBody(r *http.Request, req interface{}) error {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return err
		}
		switch body := req.(type) {
		case *createUserRequest:
			body.Username = r.PostFormValue("username")
		case *recordExerciseRequest:
			body.Description = r.PostFormValue("description")
			body.Date = r.PostFormValue("date")
			if raw := r.PostFormValue("duration"); raw != "" {
				parsed, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("duration must be an integer")
				}
				body.Duration = flexInt(parsed)
			}
		default:
			return fmt.Errorf("unsupported form payload")
		}
		return nil
	}

	return json.NewDecoder(r.Body).Decode(req)
}

// UserView is the public shape of a user. The field name _id is kept for
// compatibility with existing clients of the original API.
type UserView struct {
	UserID   string `json:"_id"`
	Username string `json:"username"`
}

// ExerciseView merges a recorded exercise with its owner's username.
type ExerciseView struct {
	UserID      string `json:"_id"`
	Username    string `json:"username"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogEntryView is one reshaped exercise inside a log. Identifiers are never
// exposed here.
type LogEntryView struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// UserLogView packages the filtered exercise history for one user.
type UserLogView struct {
	UserID   string         `json:"_id"`
	Username string         `json:"username"`
	Count    int            `json:"count"`
	Log      []LogEntryView `json:"log"`
}

func toUserView(user domain.User) UserView {
	return UserView{UserID: user.ID, Username: user.Username}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
