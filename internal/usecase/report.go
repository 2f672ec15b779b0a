package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/adapter/ai"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/domain"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/observability"
)

// ReportService finalizes a session into a performance report.
type ReportService struct {
	store       domain.SessionStore
	models      ModelRouter
	renderer    domain.ReportRenderer
	callTimeout time.Duration
}

// NewReportService constructs a ReportService.
func NewReportService(store domain.SessionStore, models ModelRouter, renderer domain.ReportRenderer, callTimeout time.Duration) ReportService {
	return ReportService{store: store, models: models, renderer: renderer, callTimeout: callTimeout}
}

// Finalize aggregates the session's turns into a report and renders it. A
// pending unanswered question is dropped, not scored. The overall-summary call
// is made exactly once; if it fails the report is not produced and the session
// is left unfinalized so the caller can try again.
func (svc ReportService) Finalize(ctx context.Context, sessionID string) (domain.ReportBundle, []byte, error) {
	s, err := svc.store.Get(ctx, sessionID)
	if err != nil {
		return domain.ReportBundle{}, nil, err
	}
	if s.State == domain.StateFinalized {
		return domain.ReportBundle{}, nil, fmt.Errorf("%w: report already generated", domain.ErrInvalidState)
	}
	if len(s.History) == 0 {
		return domain.ReportBundle{}, nil, fmt.Errorf("%w: no answered questions to report on", domain.ErrInvalidArgument)
	}

	var sum float64
	for _, t := range s.History {
		sum += t.Rating
	}
	avg := math.Round(sum/float64(len(s.History))*100) / 100

	client, err := svc.models.ClientFor(s.Provider)
	if err != nil {
		return domain.ReportBundle{}, nil, err
	}
	prompt := ai.BuildOverallSummaryPrompt(s.Role, len(s.History), avg, s.History)

	cctx, cancel := context.WithTimeout(ctx, svc.callTimeout)
	start := time.Now()
	out, err := client.Complete(cctx, s.ModelID, prompt)
	cancel()
	observability.ObserveModelCall(string(s.Provider), string(ai.StageOverallSummary), err, time.Since(start))
	if err != nil {
		return domain.ReportBundle{}, nil, err
	}

	bundle := domain.ReportBundle{
		Role:           s.Role,
		Difficulty:     s.Difficulty,
		Model:          s.ModelID,
		Language:       s.Language,
		QuestionCount:  len(s.History),
		History:        s.History,
		OverallSummary: strings.TrimSpace(out),
		AverageRating:  avg,
		GeneratedAt:    time.Now().UTC(),
	}

	doc, err := svc.renderer.Render(bundle)
	if err != nil {
		return domain.ReportBundle{}, nil, err
	}

	s.State = domain.StateFinalized
	s.CurrentQuestion = ""
	if err := svc.store.Save(ctx, s); err != nil {
		return domain.ReportBundle{}, nil, err
	}
	return bundle, doc, nil
}
