package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/domain"
)

func TestTemplate_EveryReachableCombination(t *testing.T) {
	stages := []Stage{StageResumeSummary, StageQuestion, StageEvaluation, StageOverallSummary}
	langs := []domain.Language{domain.LanguageEN, domain.LanguageHI}
	providers := []domain.ProviderFamily{domain.ProviderGemini, domain.ProviderOpenRouter}

	for _, st := range stages {
		for _, l := range langs {
			for _, p := range providers {
				tpl := Template(st, l, p)
				assert.NotEmpty(t, tpl, "stage=%s lang=%s provider=%s", st, l, p)
			}
		}
	}
}

func TestTemplate_ProviderAffectsEvaluationOnly(t *testing.T) {
	// Evaluation templates diverge by provider: the OpenRouter contract caps
	// field length to reduce truncation risk on smaller models.
	gem := Template(StageEvaluation, domain.LanguageEN, domain.ProviderGemini)
	or := Template(StageEvaluation, domain.LanguageEN, domain.ProviderOpenRouter)
	assert.NotEqual(t, gem, or)
	assert.Contains(t, or, "max 50 words")
	assert.NotContains(t, gem, "max 50 words")

	// Question templates do not depend on the provider.
	qa := Template(StageQuestion, domain.LanguageEN, domain.ProviderGemini)
	qb := Template(StageQuestion, domain.LanguageEN, domain.ProviderOpenRouter)
	assert.Equal(t, qa, qb)
}

func TestBuildQuestionPrompt_FillsSessionFields(t *testing.T) {
	history := []domain.Turn{
		{Question: "What is a goroutine?", Answer: "A lightweight thread", Rating: 8.2},
	}
	p := BuildQuestionPrompt(domain.LanguageEN, "5 years of Go backend work", "Backend Engineer", domain.DifficultyMedium, history)

	assert.Contains(t, p, "Backend Engineer")
	assert.Contains(t, p, "Medium")
	assert.Contains(t, p, "5 years of Go backend work")
	assert.Contains(t, p, "Q1: What is a goroutine?")
	assert.Contains(t, p, "Last Answer Rating: 8.2/10")
	assert.NotContains(t, p, "{role}")
	assert.NotContains(t, p, "{difficulty}")
	assert.NotContains(t, p, "{history}")
}

func TestBuildQuestionPrompt_FirstTurn(t *testing.T) {
	p := BuildQuestionPrompt(domain.LanguageEN, "summary", "SRE", domain.DifficultyEasy, nil)
	assert.Contains(t, p, "No previous questions asked yet.")
	assert.Contains(t, p, "Last Answer Rating: N/A/10")
}

func TestBuildQuestionPrompt_Hindi(t *testing.T) {
	p := BuildQuestionPrompt(domain.LanguageHI, "summary", "Data Scientist", domain.DifficultyHard, nil)
	assert.Contains(t, p, "Hinglish mein")
	assert.Contains(t, p, "Data Scientist")
	assert.Contains(t, p, "Hard")
}

func TestBuildEvaluationPrompt(t *testing.T) {
	p := BuildEvaluationPrompt(domain.LanguageEN, domain.ProviderOpenRouter, "Explain CAP.", "You cannot have all three.")
	assert.Contains(t, p, "Explain CAP.")
	assert.Contains(t, p, "You cannot have all three.")
	assert.Contains(t, p, "BE CONCISE")
}

func TestBuildResumeSummaryPrompt_TruncatesLongResumes(t *testing.T) {
	long := strings.Repeat("experience ", 3000)
	p := BuildResumeSummaryPrompt(long)
	assert.Less(t, len(p), len(long))
	assert.Contains(t, p, "exactly 150 words")
}

func TestBuildOverallSummaryPrompt(t *testing.T) {
	history := []domain.Turn{
		{Question: "Q one", Answer: "A one", Rating: 8.2, Strengths: "s1", Improvements: "i1"},
		{Question: "Q two", Answer: "A two", Rating: 3.0, Strengths: "s2", Improvements: "i2"},
	}
	p := BuildOverallSummaryPrompt("Platform Engineer", 2, 5.6, history)
	assert.Contains(t, p, "Platform Engineer")
	assert.Contains(t, p, "Number of Questions: 2")
	assert.Contains(t, p, "Average Rating: 5.6/10.00")
	assert.Contains(t, p, "Q1: Q one")
	assert.Contains(t, p, "Rating: 3/10 | Strengths: s2 | Improvements: i2")
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "No previous questions asked yet.", FormatHistory(nil))

	h := []domain.Turn{
		{Question: "q1", Answer: "a1", Rating: 7.0},
		{Question: "q2", Answer: "a2", Rating: 4.25},
	}
	out := FormatHistory(h)
	assert.Contains(t, out, "Q1: q1")
	assert.Contains(t, out, "A1: a1 (Rating: 7/10)")
	assert.Contains(t, out, "A2: a2 (Rating: 4.25/10)")
	assert.False(t, strings.HasSuffix(out, "\n"))
}
