package api

import (
	"encoding/json"
	"time"

	"github.com/aura-platform/aura-cli/pkg/session"
)

// TaskState is the lifecycle state of an asynchronous backend task.
type TaskState string

const (
	TaskStatePending    TaskState = "pending"
	TaskStateInProgress TaskState = "in_progress"
	TaskStateCompleted  TaskState = "completed"
	TaskStateFailed     TaskState = "failed"
)

// Terminal reports whether the state is final.
func (s TaskState) Terminal() bool {
	return s == TaskStateCompleted || s == TaskStateFailed
}

// TokenPair is the response of the refresh endpoint.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginRequest is the credentials payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the registration payload. Validated client-side before
// it is sent.
type SignupRequest struct {
	Email    string       `json:"email" validate:"required,email"`
	Password string       `json:"password" validate:"required,min=8"`
	Name     string       `json:"name" validate:"required"`
	Role     session.Role `json:"role" validate:"required,oneof=student ta instructor admin"`
}

// AuthResponse is returned by the login and signup endpoints.
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         session.User `json:"user"`
}

// TaskRef identifies a long-running backend operation.
type TaskRef struct {
	TaskID string `json:"task_id"`
}

// TaskStatus is the polled status of an asynchronous task.
type TaskStatus struct {
	TaskID string    `json:"task_id"`
	Status TaskState `json:"status"`

	// Progress is an optional completion fraction in [0,1].
	Progress float64 `json:"progress,omitempty"`

	// Result carries the task output once completed. Its shape depends
	// on the task type, so it is left raw for the caller to decode.
	Result json.RawMessage `json:"result,omitempty"`

	// Error is the backend failure reason when Status is failed.
	Error string `json:"error,omitempty"`
}

// AskRequest submits a question to the chat pipeline.
type AskRequest struct {
	CourseID string `json:"course_id,omitempty"`
	Question string `json:"question"`
}

// ChatAnswer is the decoded result of a completed chat task.
type ChatAnswer struct {
	Answer  string     `json:"answer"`
	Sources []KBSource `json:"sources,omitempty"`
}

// KBSource is a knowledge-base citation attached to a chat answer.
type KBSource struct {
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	Snippet    string  `json:"snippet,omitempty"`
	Score      float64 `json:"score,omitempty"`
}

// KBDocument is a knowledge-base document listing entry.
type KBDocument struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CourseID  string    `json:"course_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// KBSearchResult is one hit from a knowledge-base search.
type KBSearchResult struct {
	Document KBDocument `json:"document"`
	Snippet  string     `json:"snippet"`
	Score    float64    `json:"score"`
}

// CourseAnalytics is the aggregated activity summary for a course.
type CourseAnalytics struct {
	CourseID        string  `json:"course_id"`
	QuestionCount   int     `json:"question_count"`
	ActiveStudents  int     `json:"active_students"`
	AvgResponseSecs float64 `json:"avg_response_seconds"`
	TopTopics       []Topic `json:"top_topics,omitempty"`
}

// Topic is a ranked question topic in course analytics.
type Topic struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DeckRequest asks the backend to generate a slide deck.
type DeckRequest struct {
	Topic      string `json:"topic" validate:"required"`
	CourseID   string `json:"course_id,omitempty"`
	SlideCount int    `json:"slide_count,omitempty" validate:"omitempty,min=1,max=50"`
}

// Deck is a generated slide deck.
type Deck struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Slides    []Slide   `json:"slides"`
	CreatedAt time.Time `json:"created_at"`
}

// Slide is a single slide in a generated deck.
type Slide struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets,omitempty"`
	Notes   string   `json:"notes,omitempty"`
}
