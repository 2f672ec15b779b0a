package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/domain"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/pkg/textx"
)

// MissingPointsUnavailable marks an evaluation whose detailed feedback could
// not be parsed; its presence makes a degraded record structurally observable.
const MissingPointsUnavailable = "Unable to parse detailed feedback from evaluation system"

// missingPointsDefault is used when a well-formed record omits the field.
const missingPointsDefault = "N/A"

// rawEvaluation tolerates the shapes models actually emit: numeric or string
// ratings, and missing_points as a string, a list, or absent.
type rawEvaluation struct {
	Rating        any `json:"rating"`
	Strengths     any `json:"strengths"`
	Improvements  any `json:"improvements"`
	MissingPoints any `json:"missing_points"`
}

// Tier labels the normalization path that produced a result.
type Tier string

const (
	TierDirect   Tier = "direct"
	TierRepaired Tier = "repaired"
	TierFailed   Tier = "failed"
)

// ParseEvaluation turns raw model text into a validated evaluation record.
// Tier 1 strips code fences and parses directly; tier 2 repairs truncated
// JSON and re-parses. A non-nil error wraps domain.ErrParse and means the
// caller should spend another model attempt or fall back to FallbackEvaluation.
func ParseEvaluation(raw string) (domain.EvaluationResult, error) {
	res, _, err := NormalizeEvaluation(raw)
	return res, err
}

// NormalizeEvaluation is ParseEvaluation plus the tier that produced the
// result, for instrumentation.
func NormalizeEvaluation(raw string) (domain.EvaluationResult, Tier, error) {
	text := stripCodeFence(strings.TrimSpace(raw))

	res, err := parseRecord(text)
	if err == nil {
		return res, TierDirect, nil
	}
	if !looksTruncated(text) {
		return domain.EvaluationResult{}, TierFailed, err
	}
	res, err = parseRecord(repairTruncated(text))
	if err != nil {
		return domain.EvaluationResult{}, TierFailed, err
	}
	return res, TierRepaired, nil
}

// stripCodeFence extracts the first fenced segment from markdown-wrapped
// output, accepting both ```json and bare ``` fences.
func stripCodeFence(s string) string {
	if idx := strings.Index(s, "```json"); idx != -1 {
		rest := s[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(s, "```"); idx != -1 {
		rest := s[idx+len("```"):]
		if end := strings.Index(rest, "```"); end != -1 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	return s
}

// looksTruncated reports whether the text appears cut off mid-record.
func looksTruncated(s string) bool {
	return strings.HasSuffix(s, "...") || !strings.HasSuffix(s, "}")
}

// repairTruncated applies the best-effort truncation repair: cut back to the
// last complete field boundary when an ellipsis marker is present, close an
// open string if the quote count is odd, then close unmatched braces. It
// assumes the original structure was the fixed four-field record and that
// truncation happened mid-string-value; it is not a general JSON recoverer.
func repairTruncated(s string) string {
	openBraces := strings.Count(s, "{") - strings.Count(s, "}")

	if strings.Contains(s, "...") {
		lastComma := strings.LastIndex(s, ",")
		if lastComma > 0 {
			lastQuote := strings.LastIndex(s[:lastComma], `"`)
			if lastQuote > 0 {
				s = s[:lastQuote+1]
			}
		}
	}

	if strings.Count(s, `"`)%2 != 0 {
		s += `"`
	}
	if openBraces > 0 {
		s += strings.Repeat("}", openBraces)
	}
	return s
}

// parseRecord parses and validates one candidate JSON record, applying the
// post-parse normalization rules (field presence, list join, clamp, trim).
func parseRecord(s string) (domain.EvaluationResult, error) {
	var raw rawEvaluation
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	if raw.Rating == nil {
		return domain.EvaluationResult{}, fmt.Errorf("%w: missing required field rating", domain.ErrParse)
	}
	if raw.Strengths == nil {
		return domain.EvaluationResult{}, fmt.Errorf("%w: missing required field strengths", domain.ErrParse)
	}
	if raw.Improvements == nil {
		return domain.EvaluationResult{}, fmt.Errorf("%w: missing required field improvements", domain.ErrParse)
	}

	rating, err := coerceRating(raw.Rating)
	if err != nil {
		return domain.EvaluationResult{}, err
	}

	return domain.EvaluationResult{
		Rating:        ClampRating(rating),
		Strengths:     strings.TrimSpace(coerceString(raw.Strengths)),
		Improvements:  strings.TrimSpace(coerceString(raw.Improvements)),
		MissingPoints: strings.TrimSpace(coerceMissingPoints(raw.MissingPoints)),
	}, nil
}

// coerceRating accepts JSON numbers and numeric strings.
func coerceRating(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: rating not numeric: %q", domain.ErrParse, n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: rating has unsupported type %T", domain.ErrParse, v)
	}
}

func coerceString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// coerceMissingPoints joins list-shaped values into a comma-separated string
// and defaults the field when absent.
func coerceMissingPoints(v any) string {
	switch mp := v.(type) {
	case nil:
		return missingPointsDefault
	case string:
		return mp
	case []any:
		parts := make([]string, 0, len(mp))
		for _, item := range mp {
			parts = append(parts, coerceString(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(mp)
	}
}

// ClampRating bounds a rating to [1.00, 10.00] and rounds to two decimals.
// Rounding is idempotent: ClampRating(ClampRating(r)) == ClampRating(r).
func ClampRating(r float64) float64 {
	r = math.Max(1.0, math.Min(10.0, r))
	return math.Round(r*100) / 100
}

// dontKnowPhrases trigger the lowest fallback tier on case-insensitive containment.
var dontKnowPhrases = []string{
	"i dont know", "i don't know", "idk", "no idea",
	"dont know", "don't know", "not sure", "no clue",
}

// FallbackEvaluation produces a deterministic, model-free evaluation from the
// answer text alone. It is used only after the model-attempt budget is
// exhausted, and guarantees the session can always progress; the sentinel
// missing_points value marks the record as degraded.
func FallbackEvaluation(answer string) domain.EvaluationResult {
	lower := strings.ToLower(strings.TrimSpace(answer))
	words := textx.WordCount(answer)

	dontKnow := false
	for _, p := range dontKnowPhrases {
		if strings.Contains(lower, p) {
			dontKnow = true
			break
		}
	}

	ev := domain.EvaluationResult{MissingPoints: MissingPointsUnavailable}
	switch {
	case dontKnow || words < 3:
		ev.Rating = 1.50
		ev.Strengths = "Candidate was honest about not knowing"
		ev.Improvements = "Study the topic and provide a substantive answer"
	case words < 10:
		ev.Rating = 3.00
		ev.Strengths = "Brief attempt at answering"
		ev.Improvements = "Provide more detailed explanation with examples"
	case words < 30:
		ev.Rating = 5.00
		ev.Strengths = "Provided some relevant information"
		ev.Improvements = "Expand on concepts and add more depth"
	default:
		ev.Rating = 6.00
		ev.Strengths = "Detailed response provided"
		ev.Improvements = "Structure could be improved for clarity"
	}
	return ev
}
