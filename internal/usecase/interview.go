// Package usecase implements the interview orchestration flows on top of the
// domain ports: session lifecycle, adaptive question generation, answer
// evaluation with its attempt budget, and report finalization.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/adapter/ai"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/domain"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/observability"
)

// evaluationAttempts is the total sequential model budget for scoring one
// answer. Exhausting it hands the answer to the heuristic fallback scorer.
const evaluationAttempts = 2

// ModelRouter holds one client per provider family. A nil client means the
// provider is not configured in this deployment.
type ModelRouter struct {
	Gemini     domain.LLMClient
	OpenRouter domain.LLMClient
}

// ClientFor resolves the client for a session's provider family.
func (r ModelRouter) ClientFor(p domain.ProviderFamily) (domain.LLMClient, error) {
	switch p {
	case domain.ProviderGemini:
		if r.Gemini == nil {
			return nil, fmt.Errorf("%w: gemini provider not configured", domain.ErrModelCall)
		}
		return r.Gemini, nil
	default:
		if r.OpenRouter == nil {
			return nil, fmt.Errorf("%w: openrouter provider not configured", domain.ErrModelCall)
		}
		return r.OpenRouter, nil
	}
}

// InterviewService drives the question/answer loop for a session.
type InterviewService struct {
	store       domain.SessionStore
	models      ModelRouter
	callTimeout time.Duration
}

// NewInterviewService constructs an InterviewService.
func NewInterviewService(store domain.SessionStore, models ModelRouter, callTimeout time.Duration) InterviewService {
	return InterviewService{store: store, models: models, callTimeout: callTimeout}
}

// StartParams configures a session for the interview proper.
type StartParams struct {
	Role         string
	Language     domain.Language
	HinglishMode bool
	STTMode      string
	ModelID      string
	Difficulty   domain.Difficulty
}

// StartSession arms an uploaded-resume session with the interview
// configuration. Restarting resets any prior interview progress on the
// session; the resume summary is kept.
func (svc InterviewService) StartSession(ctx context.Context, sessionID string, p StartParams) (*domain.Session, error) {
	if strings.TrimSpace(p.Role) == "" {
		return nil, fmt.Errorf("%w: role is required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(p.ModelID) == "" {
		return nil, fmt.Errorf("%w: model is required", domain.ErrInvalidArgument)
	}
	if !p.Difficulty.Valid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", domain.ErrInvalidArgument, p.Difficulty)
	}
	if !p.Language.Valid() {
		return nil, fmt.Errorf("%w: unknown language %q", domain.ErrInvalidArgument, p.Language)
	}

	s, err := svc.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.ResumeSummary == "" {
		return nil, fmt.Errorf("%w: no resume uploaded for this session", domain.ErrInvalidArgument)
	}

	s.Role = strings.TrimSpace(p.Role)
	s.Language = p.Language
	s.HinglishMode = p.HinglishMode
	s.STTMode = p.STTMode
	s.ModelID = strings.TrimSpace(p.ModelID)
	s.Provider = domain.ResolveProviderFamily(s.ModelID)
	s.Difficulty = p.Difficulty
	s.State = domain.StateCreated
	s.CurrentQuestion = ""
	s.History = nil
	s.TurnCount = 0
	s.Memory = domain.ConversationMemory{}

	if err := svc.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// QuestionResult is the outcome of issuing one question.
type QuestionResult struct {
	Question       string
	Difficulty     domain.Difficulty
	QuestionNumber int
}

// NextQuestion generates and issues the next question at the session's
// current difficulty. Calling it while a question is already pending replaces
// the pending question; the abandoned one is never answered or scored.
func (svc InterviewService) NextQuestion(ctx context.Context, sessionID string) (QuestionResult, error) {
	s, err := svc.store.Get(ctx, sessionID)
	if err != nil {
		return QuestionResult{}, err
	}
	if s.State == domain.StateFinalized {
		return QuestionResult{}, fmt.Errorf("%w: interview already finalized", domain.ErrInvalidState)
	}
	if s.Role == "" || s.ModelID == "" {
		return QuestionResult{}, fmt.Errorf("%w: interview not started", domain.ErrInvalidState)
	}

	client, err := svc.models.ClientFor(s.Provider)
	if err != nil {
		return QuestionResult{}, err
	}

	prompt := ai.BuildQuestionPrompt(s.Language, s.ResumeSummary, s.Role, s.Difficulty, s.History)

	cctx, cancel := context.WithTimeout(ctx, svc.callTimeout)
	start := time.Now()
	out, err := client.Complete(cctx, s.ModelID, prompt)
	cancel()
	observability.ObserveModelCall(string(s.Provider), string(ai.StageQuestion), err, time.Since(start))
	if err != nil {
		return QuestionResult{}, err
	}

	question := strings.TrimSpace(out)
	s.CurrentQuestion = question
	s.State = domain.StateAwaitingAnswer
	s.TurnCount++
	s.Memory.Append(domain.MemoryEntry{Role: "interviewer", Content: "Generated question: " + question})
	s.Memory.Prune()

	if err := svc.store.Save(ctx, s); err != nil {
		return QuestionResult{}, err
	}
	return QuestionResult{Question: question, Difficulty: s.Difficulty, QuestionNumber: s.TurnCount}, nil
}

// RecordAnswerResult is the outcome of scoring one answer.
type RecordAnswerResult struct {
	Evaluation         domain.EvaluationResult
	PreviousDifficulty domain.Difficulty
	NewDifficulty      domain.Difficulty
	TotalQuestions     int
}

// RecordAnswer scores the pending question's answer, appends the completed
// turn, and adjusts the difficulty for the next question. It always produces
// an evaluation: when the model budget is exhausted the heuristic fallback
// scores the answer instead, so the session keeps moving.
func (svc InterviewService) RecordAnswer(ctx context.Context, sessionID, answer string) (RecordAnswerResult, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return RecordAnswerResult{}, fmt.Errorf("%w: answer must not be empty", domain.ErrInvalidArgument)
	}

	s, err := svc.store.Get(ctx, sessionID)
	if err != nil {
		return RecordAnswerResult{}, err
	}
	if s.State != domain.StateAwaitingAnswer {
		return RecordAnswerResult{}, fmt.Errorf("%w: no question pending", domain.ErrInvalidState)
	}

	eval := svc.evaluate(ctx, s, answer)
	observability.RatingHistogram.Observe(eval.Rating)

	s.History = append(s.History, domain.Turn{
		Question:      s.CurrentQuestion,
		Answer:        answer,
		Rating:        eval.Rating,
		Strengths:     eval.Strengths,
		Improvements:  eval.Improvements,
		MissingPoints: eval.MissingPoints,
	})

	prev := s.Difficulty
	s.Difficulty = domain.NextDifficulty(prev, eval.Rating)
	s.CurrentQuestion = ""
	s.State = domain.StateCreated
	s.Memory.Append(domain.MemoryEntry{Role: "candidate", Content: fmt.Sprintf("Answer evaluated: Rating %.2f/10", eval.Rating)})
	s.Memory.Prune()

	if err := svc.store.Save(ctx, s); err != nil {
		return RecordAnswerResult{}, err
	}
	return RecordAnswerResult{
		Evaluation:         eval,
		PreviousDifficulty: prev,
		NewDifficulty:      s.Difficulty,
		TotalQuestions:     len(s.History),
	}, nil
}

// evaluate spends the model attempt budget on the answer. A failed call and a
// failed parse both consume an attempt; the two failure modes are equally
// unrecoverable within a single attempt.
func (svc InterviewService) evaluate(ctx context.Context, s *domain.Session, answer string) domain.EvaluationResult {
	log := observability.LoggerFromContext(ctx)

	client, err := svc.models.ClientFor(s.Provider)
	if err == nil {
		prompt := ai.BuildEvaluationPrompt(s.Language, s.Provider, s.CurrentQuestion, answer)
		for attempt := 1; attempt <= evaluationAttempts; attempt++ {
			cctx, cancel := context.WithTimeout(ctx, svc.callTimeout)
			start := time.Now()
			out, callErr := client.Complete(cctx, s.ModelID, prompt)
			cancel()
			observability.ObserveModelCall(string(s.Provider), string(ai.StageEvaluation), callErr, time.Since(start))
			if callErr != nil {
				log.Warn("evaluation model call failed",
					slog.Int("attempt", attempt), slog.String("session_id", s.ID), slog.Any("error", callErr))
				continue
			}

			res, tier, parseErr := ai.NormalizeEvaluation(out)
			observability.EvaluationParsesTotal.WithLabelValues(string(tier)).Inc()
			if parseErr == nil {
				return res
			}
			log.Warn("evaluation parse failed",
				slog.Int("attempt", attempt), slog.String("session_id", s.ID), slog.Any("error", parseErr))
		}
	}

	log.Warn("evaluation attempts exhausted, using fallback scorer", slog.String("session_id", s.ID))
	observability.EvaluationFallbacksTotal.Inc()
	return ai.FallbackEvaluation(answer)
}

// EndSession discards a session and all of its state. Ending a session that
// does not exist is not an error.
func (svc InterviewService) EndSession(ctx context.Context, sessionID string) error {
	return svc.store.Delete(ctx, sessionID)
}
