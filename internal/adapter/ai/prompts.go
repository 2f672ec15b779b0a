// Package ai contains the prompt selector and the response normalizer: the
// pure text-in/text-out half of the interview orchestration.
package ai

import (
	"fmt"
	"strings"

	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/domain"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/pkg/textx"
)

// Stage identifies which prompt a session operation needs.
type Stage string

const (
	StageResumeSummary  Stage = "resume_summary"
	StageQuestion       Stage = "question"
	StageEvaluation     Stage = "evaluation"
	StageOverallSummary Stage = "overall_summary"
)

// maxResumeTextLen caps the raw resume text embedded in the summary prompt.
const maxResumeTextLen = 12000

const resumeSummaryPrompt = `You are an expert resume analyzer. Your task is to read the provided resume text and generate a concise, structured summary in exactly 150 words.

Focus on:
1. Professional background and years of experience
2. Key technical skills and expertise areas
3. Notable achievements or projects
4. Educational qualifications
5. Domain specialization

Resume Text:
{resume_text}

Provide a professional summary that captures the candidate's core competencies.`

const questionPromptEN = `You are an expert technical interviewer conducting a {difficulty} difficulty interview for a {role} position.

Resume Summary:
{resume_summary}

Current Difficulty Level: {difficulty}

Last Answer Rating: {last_rating}/10

Conversation History:
{history}

Instructions:
1. Generate ONE relevant interview question appropriate for the {difficulty} level.
2. The question should be based on the candidate's resume and the role requirements.
3. For Easy: Focus on fundamental concepts and definitions.
4. For Medium: Ask about practical applications and problem-solving.
5. For Hard: Dive into complex scenarios, system design, or advanced concepts.
6. Ensure variety - don't repeat similar questions.
7. Keep questions clear and concise (max 2 sentences).

TONE INSTRUCTIONS (CRITICAL):
- Be conversational and human-like.
- **CONDITIONAL PRAISE**: If last_rating >= 7.0, use positive reinforcement (e.g., "Great explanation!", "That's a solid answer."). If last_rating < 7.0 or is "N/A", use neutral transitions (e.g., "Moving on...", "Let's discuss...").
- Use natural transitions based on the previous answer context.
- **DO NOT** use robotic meta-commentary like "Here is your question", "Based on your resume", or "Let's switch topics". Just ask the question naturally.
- **DO NOT** explicitly mention the difficulty level or rating score in your output.

Generate the next interview question:`

const questionPromptHI = `Aap ek expert technical interviewer hain jo {role} profile ke liye {difficulty} difficulty level ka interview le rahe hain.

Resume Summary:
{resume_summary}

Current Difficulty Level: {difficulty}

Last Answer Rating: {last_rating}/10

Conversation History:
{history}

Instructions:
1. {difficulty} level ke liye ek relevant interview question generate kijiye.
2. Question candidate ke resume aur role requirements par based hona chahiye.
3. Easy ke liye: Basic concepts aur definitions par focus karein.
4. Medium ke liye: Practical applications aur problem-solving ke baare mein puchiye.
5. Hard ke liye: Complex scenarios, system design ya advanced concepts mein jaiye.
6. Variety ensure karein - similar questions repeat mat kijiye.

TONE INSTRUCTIONS (CRITICAL):
- Conversational aur human-like rahiye.
- **CONDITIONAL PRAISE**: Agar last_rating >= 7.0 hai, toh positive reinforcement dijiye (jaise, "Bahut badhiya!", "Ekdum sahi!", "Great answer!"). Agar last_rating < 7.0 ya "N/A" hai, toh neutral transitions use karein (jaise, "Chalo aage badhte hain...", "Ab next topic pe baat karte hain...").
- Previous answer ke context ke basis par natural transitions use karein.
- **Robotic meta-commentary mat dijiye** jaise "Yeh hai aapka question", "Aapke resume ke basis par". Bas naturally question puchiye.
- Apne output mein difficulty level ya rating score ka mention mat karein.

Agla interview question generate karein (Hinglish mein):`

// Gemini-family evaluation prompts request full free-text feedback; the
// OpenRouter variants add an explicit word cap so smaller models are less
// likely to truncate mid-JSON.
const evaluationPromptENGemini = `You are an expert interviewer evaluating a candidate's answer.
Note: This answer is transcribed from speech, so focus on content rather than minor grammatical issues.

Interview Question: {question}

Candidate's Answer: {answer}

Evaluation Criteria:
1. Correctness: Is the answer factually accurate?
2. Completeness: Does it address all parts of the question?
3. Clarity: Is the explanation clear and well-structured?
4. Depth: Does it demonstrate understanding beyond surface level?

Provide your evaluation in the following JSON format:
{
    "rating": <float between 1.00 and 10.00, two decimal places>,
    "strengths": "<detailed points on what was good>",
    "improvements": "<specific suggestions for improvement>",
    "missing_points": "<key concepts or details that were not mentioned>"
}

IMPORTANT: Respond ONLY with valid JSON, no additional text.`

const evaluationPromptENOpenRouter = `You are an expert interviewer evaluating a candidate's answer.
Note: This answer is transcribed from speech, so focus on content rather than minor grammatical issues.

Interview Question: {question}

Candidate's Answer: {answer}

Provide your evaluation in the following JSON format (BE CONCISE):
{
    "rating": <float between 1.00 and 10.00, two decimal places>,
    "strengths": "<brief points on what was good, max 50 words>",
    "improvements": "<specific suggestions, max 50 words>",
    "missing_points": "<key concepts not mentioned, max 50 words>"
}

IMPORTANT: Respond ONLY with valid JSON, no additional text. Keep all fields under 50 words each.`

const evaluationPromptHIGemini = `Aap ek expert interviewer hain jo candidate ke answer ka evaluation kar rahe hain.

Note: Candidate ne English, Hindi, ya Hinglish (mix) mein answer diya hoga.
Speech-to-text transcription mein errors ho sakti hain.
Aapka kaam: semantic intent ko samjhein aur accordingly evaluate karein.

Interview Question: {question}

Candidate ka Answer: {answer}

Evaluation Criteria:
1. Correctness: Kya answer factually sahi hai?
2. Completeness: Kya yeh question ke saare parts ko address karta hai?
3. Clarity: Kya explanation clear hai?
4. Depth: Kya yeh surface level se aage understanding dikhata hai?

Niche diye gaye JSON format mein apna evaluation provide karein (Hinglish mein):
{
    "rating": <1.00 se 10.00 ke beech float, do decimal places>,
    "strengths": "<Kya achha tha - detail mein Hinglish mein>",
    "improvements": "<Improvement ke liye suggestions - detail mein Hinglish mein>",
    "missing_points": "<Jo main concepts nahi bataye gaye - detail mein Hinglish mein>"
}

Important: Sirf valid JSON mein answer dein, koi extra text nahi.`

const evaluationPromptHIOpenRouter = `Aap ek expert interviewer hain jo candidate ke answer ka evaluation kar rahe hain.

Note: Candidate ne English, Hindi, ya Hinglish (mix) mein answer diya hoga.
Speech-to-text transcription mein errors ho sakti hain.

Interview Question: {question}

Candidate ka Answer: {answer}

Niche diye gaye JSON format mein apna evaluation provide karein (concise rakhein):
{
    "rating": <1.00 se 10.00 ke beech float, do decimal places>,
    "strengths": "<Kya achha tha - Hinglish mein, max 50 words>",
    "improvements": "<Improvement ke liye suggestions - Hinglish mein, max 50 words>",
    "missing_points": "<Jo main concepts nahi bataye gaye - Hinglish mein, max 50 words>"
}

Important: Sirf valid JSON mein answer dein, koi extra text nahi. Saare fields 50 words se kam rakhein.`

const overallSummaryPrompt = `You are an expert career coach reviewing a candidate's complete interview performance.

Role: {role}
Number of Questions: {num_questions}
Average Rating: {avg_rating}/10.00

Detailed Q&A History:
{history}

Provide a comprehensive performance summary covering:
1. Overall Strengths: Key areas where the candidate excelled
2. Areas for Improvement: Specific topics or skills needing development
3. Readiness Assessment: Is the candidate ready for this role? (Be honest)
4. Actionable Recommendations: 3-5 specific steps to improve

Keep the summary professional, constructive, and actionable (200-250 words).`

// Template returns the raw prompt template for a (stage, language, provider)
// combination. Every reachable combination maps to a template; there is no
// default/missing case. The provider family only affects the evaluation
// stage's verbosity contract.
func Template(stage Stage, lang domain.Language, provider domain.ProviderFamily) string {
	switch stage {
	case StageResumeSummary:
		return resumeSummaryPrompt
	case StageQuestion:
		if lang == domain.LanguageHI {
			return questionPromptHI
		}
		return questionPromptEN
	case StageEvaluation:
		if lang == domain.LanguageHI {
			if provider == domain.ProviderGemini {
				return evaluationPromptHIGemini
			}
			return evaluationPromptHIOpenRouter
		}
		if provider == domain.ProviderGemini {
			return evaluationPromptENGemini
		}
		return evaluationPromptENOpenRouter
	case StageOverallSummary:
		return overallSummaryPrompt
	}
	return ""
}

// BuildResumeSummaryPrompt fills the resume summarization template.
func BuildResumeSummaryPrompt(resumeText string) string {
	return strings.NewReplacer(
		"{resume_text}", textx.Truncate(resumeText, maxResumeTextLen),
	).Replace(Template(StageResumeSummary, domain.LanguageEN, domain.ProviderGemini))
}

// BuildQuestionPrompt fills the question-generation template with session fields.
func BuildQuestionPrompt(lang domain.Language, resumeSummary, role string, difficulty domain.Difficulty, history []domain.Turn) string {
	lastRating := "N/A"
	if len(history) > 0 {
		lastRating = formatRating(history[len(history)-1].Rating)
	}
	return strings.NewReplacer(
		"{resume_summary}", resumeSummary,
		"{role}", role,
		"{difficulty}", string(difficulty),
		"{history}", FormatHistory(history),
		"{last_rating}", lastRating,
	).Replace(Template(StageQuestion, lang, domain.ProviderGemini))
}

// BuildEvaluationPrompt fills the evaluation template for the session's
// language and provider family.
func BuildEvaluationPrompt(lang domain.Language, provider domain.ProviderFamily, question, answer string) string {
	return strings.NewReplacer(
		"{question}", question,
		"{answer}", answer,
	).Replace(Template(StageEvaluation, lang, provider))
}

// BuildOverallSummaryPrompt fills the overall-summary template.
func BuildOverallSummaryPrompt(role string, numQuestions int, avgRating float64, history []domain.Turn) string {
	return strings.NewReplacer(
		"{role}", role,
		"{num_questions}", fmt.Sprintf("%d", numQuestions),
		"{avg_rating}", formatRating(avgRating),
		"{history}", FormatDetailedHistory(history),
	).Replace(Template(StageOverallSummary, domain.LanguageEN, domain.ProviderGemini))
}

// FormatHistory renders prior turns for the question prompt.
func FormatHistory(history []domain.Turn) string {
	if len(history) == 0 {
		return "No previous questions asked yet."
	}
	var b strings.Builder
	for i, t := range history {
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, t.Question)
		fmt.Fprintf(&b, "A%d: %s (Rating: %s/10)\n\n", i+1, t.Answer, formatRating(t.Rating))
	}
	return strings.TrimSpace(b.String())
}

// FormatDetailedHistory renders turns with feedback for the summary prompt.
func FormatDetailedHistory(history []domain.Turn) string {
	var b strings.Builder
	for i, t := range history {
		fmt.Fprintf(&b, "\nQ%d: %s\n", i+1, t.Question)
		fmt.Fprintf(&b, "A%d: %s\n", i+1, t.Answer)
		fmt.Fprintf(&b, "Rating: %s/10 | Strengths: %s | Improvements: %s\n", formatRating(t.Rating), t.Strengths, t.Improvements)
	}
	return b.String()
}

// formatRating prints a rating without a trailing zero tail, e.g. 8.2 not 8.20.
func formatRating(r float64) string {
	s := fmt.Sprintf("%.2f", r)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}
