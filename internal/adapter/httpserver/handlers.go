package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/config"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/domain"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/usecase"
)

// sessionCookieName carries the session id between requests. The cookie is
// the only session identifier; request bodies never carry one.
const sessionCookieName = "interview_session"

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Resumes    usecase.ResumeService
	Interviews usecase.InterviewService
	Reports    usecase.ReportService
	RedisCheck func(ctx context.Context) error
	TikaCheck  func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, resumes usecase.ResumeService, interviews usecase.InterviewService, reports usecase.ReportService, redisCheck, tikaCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Resumes: resumes, Interviews: interviews, Reports: reports, RedisCheck: redisCheck, TikaCheck: tikaCheck}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// modelInfo describes one selectable model in the frontend catalogue.
type modelInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

var geminiModels = []modelInfo{
	{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash (Recommended)", Provider: "gemini"},
	{ID: "gemini-2.5-flash-lite", Name: "Gemini 2.5 Flash-Lite (Faster)", Provider: "gemini"},
	{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro (Best Quality)", Provider: "gemini"},
	{ID: "gemini-flash-latest", Name: "Gemini Flash Latest (Auto-update)", Provider: "gemini"},
}

var openRouterModels = []modelInfo{
	{ID: "microsoft/phi-3-mini-128k-instruct:free", Name: "Phi-3 Mini (Free)", Provider: "openrouter"},
	{ID: "meta-llama/llama-3.2-3b-instruct:free", Name: "Llama 3.2 3B (Free)", Provider: "openrouter"},
}

// ConfigHandler returns the frontend configuration: the model catalogue
// filtered down to configured providers, and the session timeout.
func (s *Server) ConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		models := map[string][]modelInfo{}
		if s.Cfg.GeminiAPIKey != "" {
			models["gemini"] = geminiModels
		}
		if s.Cfg.OpenRouterAPIKey != "" {
			models["openrouter"] = openRouterModels
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"sessionTimeout":  s.Cfg.SessionTimeoutMinutes(),
			"availableModels": models,
		})
	}
}

// UploadResumeHandler handles multipart upload of a PDF resume and seeds a
// session with its summary.
func (s *Server) UploadResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument), nil)
			return
		}
		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "too large") {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope{Error: apiError{
					Code: "INVALID_ARGUMENT", Message: "payload too large",
					Details: map[string]any{"max_mb": s.Cfg.MaxUploadMB},
				}})
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		file, header, err := r.FormFile("resume")
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: resume file required", domain.ErrInvalidArgument), map[string]string{"field": "resume"})
			return
		}
		defer func() { _ = file.Close() }()

		if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{
				Code: "INVALID_ARGUMENT", Message: "only PDF resumes are accepted",
				Details: map[string]any{"filename": header.Filename},
			}})
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: resume read: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		if m := mimetype.Detect(data); !m.Is("application/pdf") {
			writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{
				Code: "INVALID_ARGUMENT", Message: "only PDF resumes are accepted",
				Details: map[string]any{"mime": m.String(), "filename": header.Filename},
			}})
			return
		}

		sess, err := s.Resumes.Ingest(r.Context(), s.sessionID(r), header.Filename, data)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		s.setSessionCookie(w, sess.ID)
		writeJSON(w, http.StatusOK, map[string]string{
			"session_id":     sess.ID,
			"resume_summary": sess.ResumeSummary,
		})
	}
}

type startInterviewRequest struct {
	Role         string `json:"role" validate:"required,min=2,max=100"`
	Language     string `json:"language" validate:"omitempty,oneof=en hi"`
	HinglishMode bool   `json:"hinglish_mode"`
	STTMode      string `json:"stt_mode" validate:"omitempty,oneof=browser whisper"`
	Model        string `json:"model" validate:"required"`
	Difficulty   string `json:"difficulty" validate:"omitempty,oneof=Easy Medium Hard"`
}

// StartInterviewHandler arms the uploaded-resume session with the interview
// configuration chosen by the candidate.
func (s *Server) StartInterviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		var req startInterviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		if req.Language == "" {
			req.Language = string(domain.LanguageEN)
		}
		// Hinglish is spoken over the hindi prompt set.
		if req.HinglishMode {
			req.Language = string(domain.LanguageHI)
		}
		if req.Difficulty == "" {
			req.Difficulty = string(domain.DifficultyEasy)
		}

		sess, err := s.Interviews.StartSession(r.Context(), sid, usecase.StartParams{
			Role:         req.Role,
			Language:     domain.Language(req.Language),
			HinglishMode: req.HinglishMode,
			STTMode:      req.STTMode,
			ModelID:      req.Model,
			Difficulty:   domain.Difficulty(req.Difficulty),
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		s.setSessionCookie(w, sess.ID)
		writeJSON(w, http.StatusOK, map[string]any{
			"session_id": sess.ID,
			"role":       sess.Role,
			"difficulty": sess.Difficulty,
			"language":   languageLabel(sess),
			"provider":   sess.Provider,
			"model":      sess.ModelID,
		})
	}
}

// NextQuestionHandler issues the next question at the session's current difficulty.
func (s *Server) NextQuestionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		q, err := s.Interviews.NextQuestion(r.Context(), sid)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		s.setSessionCookie(w, sid)
		writeJSON(w, http.StatusOK, map[string]any{
			"question":        q.Question,
			"difficulty":      q.Difficulty,
			"question_number": q.QuestionNumber,
		})
	}
}

type answerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// AnswerHandler scores the pending question's answer.
func (s *Server) AnswerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		var req answerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		res, err := s.Interviews.RecordAnswer(r.Context(), sid, req.Answer)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		s.setSessionCookie(w, sid)
		writeJSON(w, http.StatusOK, map[string]any{
			"evaluation": map[string]any{
				"rating":         res.Evaluation.Rating,
				"strengths":      res.Evaluation.Strengths,
				"improvements":   res.Evaluation.Improvements,
				"missing_points": res.Evaluation.MissingPoints,
			},
			"previous_difficulty": res.PreviousDifficulty,
			"new_difficulty":      res.NewDifficulty,
			"total_questions":     res.TotalQuestions,
		})
	}
}

// ReportHandler finalizes the interview and returns the report. The default
// response is the rendered PDF; format=json returns the bundle instead.
func (s *Server) ReportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		bundle, doc, err := s.Reports.Finalize(r.Context(), sid)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if r.URL.Query().Get("format") == "json" {
			writeJSON(w, http.StatusOK, bundle)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=interview_report_%s.pdf", bundle.GeneratedAt.Format("2006-01-02")))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(doc)
	}
}

// EndInterviewHandler discards the session and clears the cookie.
func (s *Server) EndInterviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		if err := s.Interviews.EndSession(r.Context(), sid); err != nil {
			writeError(w, r, err, nil)
			return
		}
		s.clearSessionCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// HealthzHandler is a liveness probe.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler checks downstream dependencies.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true
		for name, check := range map[string]func(context.Context) error{
			"redis": s.RedisCheck,
			"tika":  s.TikaCheck,
		} {
			if check == nil {
				continue
			}
			if err := check(ctx); err != nil {
				checks[name] = err.Error()
				ready = false
			} else {
				checks[name] = "ok"
			}
		}
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]any{"ready": ready, "checks": checks})
	}
}

// sessionID returns the session id from the cookie, or "" when absent.
func (s *Server) sessionID(r *http.Request) string {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// requireSession writes a 400 and returns false when no session cookie is set.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	sid := s.sessionID(r)
	if sid == "" {
		writeError(w, r, fmt.Errorf("%w: no active session, upload a resume first", domain.ErrInvalidArgument), nil)
		return "", false
	}
	return sid, true
}

// setSessionCookie refreshes the rolling session cookie; the server-side TTL
// is refreshed by the store on every load.
func (s *Server) setSessionCookie(w http.ResponseWriter, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(s.Cfg.SessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.Cfg.IsProd(),
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// languageLabel names the session language for responses, distinguishing the
// hinglish presentation mode from plain hindi.
func languageLabel(sess *domain.Session) string {
	if sess.HinglishMode {
		return "hinglish"
	}
	return string(sess.Language)
}
