package ai

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/domain"
)

func TestParseEvaluation_WellFormed(t *testing.T) {
	raw := `{"rating": 8.25, "strengths": "clear structure", "improvements": "more depth", "missing_points": "indexing internals"}`
	ev, err := ParseEvaluation(raw)
	require.NoError(t, err)
	assert.Equal(t, 8.25, ev.Rating)
	assert.Equal(t, "clear structure", ev.Strengths)
	assert.Equal(t, "more depth", ev.Improvements)
	assert.Equal(t, "indexing internals", ev.MissingPoints)
}

func TestParseEvaluation_RoundTrip(t *testing.T) {
	want := domain.EvaluationResult{
		Rating:        7.5,
		Strengths:     "good examples",
		Improvements:  "tighten terminology",
		MissingPoints: "consistency models",
	}
	b, err := json.Marshal(want)
	require.NoError(t, err)

	got, err := ParseEvaluation(string(b))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseEvaluation_JSONCodeFence(t *testing.T) {
	raw := "```json\n{\"rating\": 6.0, \"strengths\": \"s\", \"improvements\": \"i\", \"missing_points\": \"m\"}\n```"
	ev, err := ParseEvaluation(raw)
	require.NoError(t, err)
	assert.Equal(t, 6.0, ev.Rating)
}

func TestParseEvaluation_BareCodeFence(t *testing.T) {
	raw := "```\n{\"rating\": 4.5, \"strengths\": \"s\", \"improvements\": \"i\"}\n```"
	ev, err := ParseEvaluation(raw)
	require.NoError(t, err)
	assert.Equal(t, 4.5, ev.Rating)
	assert.Equal(t, "N/A", ev.MissingPoints)
}

func TestParseEvaluation_FenceWithLeadingProse(t *testing.T) {
	raw := "Here is my evaluation:\n```json\n{\"rating\": 9, \"strengths\": \"s\", \"improvements\": \"i\", \"missing_points\": \"m\"}\n```\nHope this helps!"
	ev, err := ParseEvaluation(raw)
	require.NoError(t, err)
	assert.Equal(t, 9.0, ev.Rating)
}

func TestParseEvaluation_MissingPointsList(t *testing.T) {
	raw := `{"rating": 5, "strengths": "s", "improvements": "i", "missing_points": ["caching", "sharding", "replication"]}`
	ev, err := ParseEvaluation(raw)
	require.NoError(t, err)
	assert.Equal(t, "caching, sharding, replication", ev.MissingPoints)
}

func TestParseEvaluation_RatingAsString(t *testing.T) {
	raw := `{"rating": "7.75", "strengths": "s", "improvements": "i"}`
	ev, err := ParseEvaluation(raw)
	require.NoError(t, err)
	assert.Equal(t, 7.75, ev.Rating)
}

func TestParseEvaluation_ClampsOutOfRange(t *testing.T) {
	high := `{"rating": 12.4, "strengths": "s", "improvements": "i"}`
	ev, err := ParseEvaluation(high)
	require.NoError(t, err)
	assert.Equal(t, 10.0, ev.Rating)

	low := `{"rating": 0.2, "strengths": "s", "improvements": "i"}`
	ev, err = ParseEvaluation(low)
	require.NoError(t, err)
	assert.Equal(t, 1.0, ev.Rating)
}

func TestParseEvaluation_TrimsWhitespace(t *testing.T) {
	raw := `{"rating": 6, "strengths": "  padded  ", "improvements": "\n ok \t", "missing_points": " x "}`
	ev, err := ParseEvaluation(raw)
	require.NoError(t, err)
	assert.Equal(t, "padded", ev.Strengths)
	assert.Equal(t, "ok", ev.Improvements)
	assert.Equal(t, "x", ev.MissingPoints)
}

func TestParseEvaluation_TruncatedEllipsis(t *testing.T) {
	// Cut mid-value with an ellipsis marker: repair seeks the last separator,
	// then the last field-delimiter quote before it, and closes the record.
	// The truncated field itself is dropped, so only the optional
	// missing_points field can be lost and still yield a valid record.
	raw := `{"rating": 8.0, "strengths": "solid grasp", "improvements": "more depth", "missing_points": "edge ca...`
	ev, err := ParseEvaluation(raw)
	require.NoError(t, err)
	assert.Equal(t, 8.0, ev.Rating)
	assert.Equal(t, "solid grasp", ev.Strengths)
	assert.Equal(t, "more depth", ev.Improvements)
	assert.Equal(t, "N/A", ev.MissingPoints)
}

func TestParseEvaluation_TruncatedRequiredField(t *testing.T) {
	// When the ellipsis lands inside a required field the repaired record
	// fails field-presence validation and the error propagates so the
	// caller can retry or fall back.
	raw := `{"rating": 8.0, "strengths": "solid", "improvements": "could cover more edge ca...`
	_, err := ParseEvaluation(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestParseEvaluation_TruncatedOpenString(t *testing.T) {
	// No ellipsis, just an abruptly open string and a missing brace.
	raw := `{"rating": 5.5, "strengths": "partial answer", "improvements": "needs wor`
	ev, err := ParseEvaluation(raw)
	require.NoError(t, err)
	assert.Equal(t, 5.5, ev.Rating)
	assert.Equal(t, "partial answer", ev.Strengths)
	assert.Equal(t, "needs wor", ev.Improvements)
}

func TestParseEvaluation_MissingRequiredField(t *testing.T) {
	raw := `{"rating": 5, "strengths": "s"}`
	_, err := ParseEvaluation(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestParseEvaluation_MalformedInputs(t *testing.T) {
	inputs := []string{
		"",
		"I cannot evaluate this answer.",
		"```json",
		"{]",
		`{"rating": "excellent", "strengths": "s", "improvements": "i"}`,
	}
	for _, in := range inputs {
		_, err := ParseEvaluation(in)
		assert.Error(t, err, "input %q must not parse", in)
	}
}

func TestClampRating(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{5.555, 5.56},
		{0, 1.0},
		{-3, 1.0},
		{11, 10.0},
		{10.0, 10.0},
		{1.0, 1.0},
		{8.2, 8.2},
	}
	for _, tt := range tests {
		got := ClampRating(tt.in)
		assert.Equal(t, tt.want, got)
		// idempotent rounding
		assert.Equal(t, got, ClampRating(got))
		assert.GreaterOrEqual(t, got, 1.0)
		assert.LessOrEqual(t, got, 10.0)
	}
}

func TestFallbackEvaluation_Deterministic(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		rating float64
	}{
		{"idk", "idk", 1.50},
		{"dont know phrase", "Honestly, I don't know anything about that topic at all", 1.50},
		{"two words", "um yes", 1.50},
		{"brief attempt", "It is a database index structure", 3.00},
		{"fifteen words", strings.Repeat("word ", 15), 5.00},
		{"substantive", strings.Repeat("word ", 40), 6.00},
		{"empty", "", 1.50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := FallbackEvaluation(tt.answer)
			second := FallbackEvaluation(tt.answer)
			assert.Equal(t, first, second, "fallback must be deterministic")
			assert.Equal(t, tt.rating, first.Rating)
			assert.Equal(t, MissingPointsUnavailable, first.MissingPoints)
			assert.NotEmpty(t, first.Strengths)
			assert.NotEmpty(t, first.Improvements)
		})
	}
}

func TestFallbackEvaluation_AlwaysInRange(t *testing.T) {
	for _, answer := range []string{"", "a", "no clue", strings.Repeat("x ", 500)} {
		ev := FallbackEvaluation(answer)
		assert.GreaterOrEqual(t, ev.Rating, 1.0)
		assert.LessOrEqual(t, ev.Rating, 10.0)
	}
}
