package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/adapter/ai"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/domain"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/observability"
)

// minResumeTextLen is the minimum extracted text length for a usable resume.
// Shorter extractions are almost always scanned images or extraction failures.
const minResumeTextLen = 100

// SummaryBackoff tunes the retry policy for the resume summarization call.
// Unlike answer evaluation, nothing downstream is waiting turn by turn here,
// so transient provider errors are worth riding out.
type SummaryBackoff struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	Multiplier      float64
}

// ResumeService ingests an uploaded resume and seeds a session with its summary.
type ResumeService struct {
	extractor    domain.TextExtractor
	summaryModel domain.LLMClient
	store        domain.SessionStore
	modelID      string
	callTimeout  time.Duration
	retry        SummaryBackoff
}

// NewResumeService constructs a ResumeService. modelID names the model used
// for summarization, before a session has chosen its interview model.
func NewResumeService(extractor domain.TextExtractor, summaryModel domain.LLMClient, store domain.SessionStore, modelID string, callTimeout time.Duration, retry SummaryBackoff) ResumeService {
	return ResumeService{
		extractor:    extractor,
		summaryModel: summaryModel,
		store:        store,
		modelID:      modelID,
		callTimeout:  callTimeout,
		retry:        retry,
	}
}

// Ingest extracts text from the uploaded resume, summarizes it, and saves a
// fresh session keyed by sessionID. An empty sessionID gets a new one.
// Re-uploading replaces the session wholesale, dropping any interview progress.
func (svc ResumeService) Ingest(ctx context.Context, sessionID, fileName string, data []byte) (*domain.Session, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrInvalidArgument)
	}

	text, err := svc.extractor.Extract(ctx, fileName, data)
	if err != nil {
		return nil, err
	}
	if len(text) < minResumeTextLen {
		return nil, fmt.Errorf("%w: could not extract enough text from the resume, ensure it is not a scanned image", domain.ErrInvalidArgument)
	}

	summary, err := svc.summarize(ctx, text)
	if err != nil {
		return nil, err
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	s := &domain.Session{
		ID:            sessionID,
		ResumeSummary: summary,
		State:         domain.StateCreated,
		CreatedAt:     time.Now().UTC(),
	}
	if err := svc.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// summarize retries the summarization call with exponential backoff until the
// policy's elapsed-time budget runs out.
func (svc ResumeService) summarize(ctx context.Context, resumeText string) (string, error) {
	log := observability.LoggerFromContext(ctx)
	prompt := ai.BuildResumeSummaryPrompt(resumeText)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = svc.retry.InitialInterval
	bo.MaxInterval = svc.retry.MaxInterval
	bo.MaxElapsedTime = svc.retry.MaxElapsedTime
	bo.Multiplier = svc.retry.Multiplier

	var summary string
	op := func() error {
		cctx, cancel := context.WithTimeout(ctx, svc.callTimeout)
		defer cancel()

		start := time.Now()
		out, err := svc.summaryModel.Complete(cctx, svc.modelID, prompt)
		observability.ObserveModelCall(string(domain.ResolveProviderFamily(svc.modelID)), string(ai.StageResumeSummary), err, time.Since(start))
		if err != nil {
			log.Warn("resume summarization attempt failed", slog.Any("error", err))
			return err
		}
		summary = strings.TrimSpace(out)
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return "", fmt.Errorf("summarize resume: %w", err)
	}
	return summary, nil
}
