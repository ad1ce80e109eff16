package mockapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aura-platform/aura-cli/pkg/api"
	"github.com/aura-platform/aura-cli/pkg/session"
)

type contextKey string

const userIDKey contextKey = "user_id"

func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// mockTask is a simulated long-running operation. Its status advances with
// every poll.
type mockTask struct {
	id       string
	kind     string
	payload  string
	polls    int
	failWith string
}

// Seed registers an account so tests and the dev server can log in without
// going through signup.
func (s *Server) Seed(user session.User, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	s.accounts[user.Email] = &account{user: user, password: password}
}

// RevokeAccessTokens invalidates every issued access token while keeping
// refresh tokens valid, forcing clients through the refresh path.
func (s *Server) RevokeAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessTokens = make(map[string]string, 8)
}

// issueTokens mints a fresh token pair for a user. Caller must hold s.mu.
func (s *Server) issueTokens(userID string) api.TokenPair {
	pair := api.TokenPair{
		AccessToken:  uuid.New().String(),
		RefreshToken: uuid.New().String(),
	}

	s.accessTokens[pair.AccessToken] = userID
	s.refreshTokens[pair.RefreshToken] = userID

	return pair
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[req.Email]
	if !ok || acct.password != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")

		return
	}

	pair := s.issueTokens(acct.user.ID)

	writeJSON(w, http.StatusOK, api.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         acct.user,
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req api.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")

		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")

		return
	}

	role := req.Role
	if role == "" {
		role = session.RoleStudent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[req.Email]; exists {
		writeError(w, http.StatusConflict, "account already exists")

		return
	}

	user := session.User{
		ID:    uuid.New().String(),
		Email: req.Email,
		Name:  req.Name,
		Role:  role,
	}

	s.accounts[req.Email] = &account{user: user, password: req.Password}

	pair := s.issueTokens(user.ID)

	writeJSON(w, http.StatusCreated, api.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.refreshTokens[req.RefreshToken]
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")

		return
	}

	// Rotate: the presented refresh token is single-use.
	delete(s.refreshTokens, req.RefreshToken)

	writeJSON(w, http.StatusOK, s.issueTokens(userID))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)

	s.mu.Lock()
	delete(s.accessTokens, token)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req api.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")

		return
	}

	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")

		return
	}

	task := s.createTask("chat", req.Question)

	writeJSON(w, http.StatusAccepted, api.TaskRef{TaskID: task.id})
}

// createTask registers a new mock task. Questions prefixed "fail:" produce a
// task that terminates as failed, so error paths are testable end to end.
func (s *Server) createTask(kind, payload string) *mockTask {
	task := &mockTask{
		id:      uuid.New().String(),
		kind:    kind,
		payload: payload,
	}

	if rest, ok := strings.CutPrefix(payload, "fail:"); ok {
		task.failWith = strings.TrimSpace(rest)
		if task.failWith == "" {
			task.failWith = "task failed"
		}
	}

	s.mu.Lock()
	s.tasks[task.id] = task
	s.mu.Unlock()

	return task
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown task")

		return
	}

	task.polls++

	status := api.TaskStatus{TaskID: task.id}

	switch {
	case task.polls < s.cfg.TaskCompletionPolls:
		if task.polls == 1 {
			status.Status = api.TaskStatePending
		} else {
			status.Status = api.TaskStateInProgress
		}

		status.Progress = float64(task.polls) / float64(s.cfg.TaskCompletionPolls)
	case task.failWith != "":
		status.Status = api.TaskStateFailed
		status.Error = task.failWith
	default:
		status.Status = api.TaskStateCompleted
		status.Result = s.taskResult(task)
		status.Progress = 1
	}

	writeJSON(w, http.StatusOK, status)
}

// taskResult builds the canned result for a completed task. Caller must
// hold s.mu.
func (s *Server) taskResult(task *mockTask) json.RawMessage {
	switch task.kind {
	case "chat":
		answer := api.ChatAnswer{
			Answer: fmt.Sprintf("Mock answer to: %s", task.payload),
			Sources: []api.KBSource{
				{DocumentID: "doc-1", Title: "Course notes", Score: 0.92},
			},
		}

		data, _ := json.Marshal(answer)

		return data
	case "deck":
		deck := &api.Deck{
			ID:    uuid.New().String(),
			Topic: task.payload,
			Slides: []api.Slide{
				{Title: task.payload, Bullets: []string{"Overview", "Details", "Summary"}},
			},
			CreatedAt: time.Now().UTC(),
		}

		s.decks[deck.ID] = deck

		data, _ := json.Marshal(map[string]string{"deck_id": deck.ID})

		return data
	default:
		return json.RawMessage(`{}`)
	}
}

func (s *Server) handleKBSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")

		return
	}

	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")

			return
		}

		limit = parsed
	}

	results := make([]api.KBSearchResult, 0, limit)

	for i := 0; i < limit && i < 3; i++ {
		results = append(results, api.KBSearchResult{
			Document: api.KBDocument{
				ID:        fmt.Sprintf("doc-%d", i+1),
				Title:     fmt.Sprintf("Document %d about %s", i+1, query),
				CreatedAt: time.Now().UTC(),
			},
			Snippet: fmt.Sprintf("...%s...", query),
			Score:   1 - float64(i)*0.1,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleKBDocuments(w http.ResponseWriter, _ *http.Request) {
	docs := []api.KBDocument{
		{ID: "doc-1", Title: "Course notes", CourseID: "cs101", CreatedAt: time.Now().UTC()},
		{ID: "doc-2", Title: "Lecture slides", CourseID: "cs101", CreatedAt: time.Now().UTC()},
	}

	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleCourseAnalytics(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	writeJSON(w, http.StatusOK, api.CourseAnalytics{
		CourseID:        courseID,
		QuestionCount:   42,
		ActiveStudents:  17,
		AvgResponseSecs: 3.5,
		TopTopics: []api.Topic{
			{Name: "recursion", Count: 12},
			{Name: "pointers", Count: 9},
		},
	})
}

func (s *Server) handleDeckGenerate(w http.ResponseWriter, r *http.Request) {
	var req api.DeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")

		return
	}

	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")

		return
	}

	task := s.createTask("deck", req.Topic)

	writeJSON(w, http.StatusAccepted, api.TaskRef{TaskID: task.id})
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")

	s.mu.Lock()
	deck, ok := s.decks[deckID]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "unknown deck")

		return
	}

	writeJSON(w, http.StatusOK, deck)
}

// bearerToken extracts the bearer token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}

	return token
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
