// Package domain defines the interview entities, ports, and error taxonomy.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid session state")
	ErrModelCall       = errors.New("model call failed")
	ErrParse           = errors.New("response parse failed")
	ErrInternal        = errors.New("internal error")
)

// Difficulty is an ordered interview difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid reports whether d is one of the three known levels.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Language selects the prompt language for a session.
type Language string

const (
	LanguageEN Language = "en"
	LanguageHI Language = "hi"
)

// Valid reports whether l is a supported language.
func (l Language) Valid() bool { return l == LanguageEN || l == LanguageHI }

// ProviderFamily identifies which provider contract a model follows.
// It is resolved once at session creation and never re-derived per call.
type ProviderFamily string

const (
	ProviderGemini     ProviderFamily = "gemini"
	ProviderOpenRouter ProviderFamily = "openrouter"
)

// ResolveProviderFamily maps a model identifier to its provider family.
func ResolveProviderFamily(modelID string) ProviderFamily {
	if strings.Contains(strings.ToLower(modelID), "gemini") {
		return ProviderGemini
	}
	return ProviderOpenRouter
}

// SessionState tracks the interview state machine.
type SessionState string

const (
	// StateCreated means the resume summary is known and no question is pending.
	StateCreated SessionState = "created"
	// StateAwaitingAnswer means a question has been issued and not yet answered.
	StateAwaitingAnswer SessionState = "awaiting_answer"
	// StateFinalized is terminal; the report has been generated.
	StateFinalized SessionState = "finalized"
)

// Turn is one question/answer/evaluation triple. Immutable once appended.
type Turn struct {
	Question      string  `json:"question"`
	Answer        string  `json:"answer"`
	Rating        float64 `json:"rating"`
	Strengths     string  `json:"strengths"`
	Improvements  string  `json:"improvements"`
	MissingPoints string  `json:"missing_points"`
}

// EvaluationResult is the normalized outcome of scoring one answer.
type EvaluationResult struct {
	Rating        float64 `json:"rating"`
	Strengths     string  `json:"strengths"`
	Improvements  string  `json:"improvements"`
	MissingPoints string  `json:"missing_points"`
}

// Session is the interview aggregate root. One session serves one candidate;
// the caller owns it for its lifetime, and no operation on it is commutative,
// so concurrent requests for the same session must be serialized by the store.
type Session struct {
	ID              string             `json:"id"`
	ResumeSummary   string             `json:"resume_summary"`
	Role            string             `json:"role"`
	Language        Language           `json:"language"`
	HinglishMode    bool               `json:"hinglish_mode"`
	STTMode         string             `json:"stt_mode"`
	ModelID         string             `json:"model_id"`
	Provider        ProviderFamily     `json:"provider"`
	Difficulty      Difficulty         `json:"difficulty"`
	State           SessionState       `json:"state"`
	CurrentQuestion string             `json:"current_question,omitempty"`
	History         []Turn             `json:"history"`
	TurnCount       int                `json:"turn_count"`
	Memory          ConversationMemory `json:"memory"`
	CreatedAt       time.Time          `json:"created_at"`
}

// LastRating returns the most recent turn rating, or ok=false before any turn.
func (s *Session) LastRating() (float64, bool) {
	if len(s.History) == 0 {
		return 0, false
	}
	return s.History[len(s.History)-1].Rating, true
}

// ReportBundle is the immutable result of finalizing a session.
type ReportBundle struct {
	Role           string     `json:"role"`
	Difficulty     Difficulty `json:"difficulty"`
	Model          string     `json:"model"`
	Language       Language   `json:"language"`
	QuestionCount  int        `json:"num_questions"`
	History        []Turn     `json:"history"`
	OverallSummary string     `json:"overall_summary"`
	AverageRating  float64    `json:"avg_rating"`
	GeneratedAt    time.Time  `json:"generated_at"`
}

// Ports

// LLMClient issues one blocking completion call. Implementations map
// transport, timeout, and provider failures to ErrModelCall.
type LLMClient interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// SessionStore persists sessions with a rolling expiry: both Get and Save
// refresh the TTL. Get returns ErrNotFound for missing or expired sessions.
type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// TextExtractor extracts plain text from an uploaded document.
type TextExtractor interface {
	Extract(ctx context.Context, fileName string, data []byte) (string, error)
}

// ReportRenderer turns a finished report bundle into a binary document.
type ReportRenderer interface {
	Render(b ReportBundle) ([]byte, error)
}
