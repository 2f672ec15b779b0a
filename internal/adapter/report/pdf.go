// Package report renders a finalized interview report bundle as a PDF.
package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/domain"
)

// Renderer implements domain.ReportRenderer with fpdf.
type Renderer struct{}

// NewRenderer returns a PDF renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// assessment buckets the average rating into a human-readable verdict.
func assessment(avg float64) (string, [3]int) {
	switch {
	case avg >= 8.0:
		return "Excellent - Strong command of subject matter with clear articulation", [3]int{39, 174, 96}
	case avg >= 6.0:
		return "Good - Solid understanding with minor areas for improvement", [3]int{241, 196, 15}
	case avg >= 4.0:
		return "Fair - Basic knowledge demonstrated, needs focused development", [3]int{230, 126, 34}
	default:
		return "Needs Improvement - Significant knowledge gaps identified", [3]int{231, 76, 60}
	}
}

// Render produces the report document. The bundle is treated as immutable.
func (r *Renderer) Render(b domain.ReportBundle) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Times", "B", 16)
		pdf.SetTextColor(41, 128, 185)
		pdf.CellFormat(0, 10, "AI Interview Performance Report", "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Times", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// Interview metadata
	pdf.SetFont("Times", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Interview Details", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Times", "", 11)
	meta := []string{
		fmt.Sprintf("Date: %s", b.GeneratedAt.Format("January 2, 2006 at 3:04 PM")),
		fmt.Sprintf("Role: %s", b.Role),
		fmt.Sprintf("Difficulty Level: %s", b.Difficulty),
		fmt.Sprintf("Model Used: %s", b.Model),
		fmt.Sprintf("Language: %s", b.Language),
		fmt.Sprintf("Total Questions: %d", b.QuestionCount),
		fmt.Sprintf("Average Rating: %.2f/10.00", b.AverageRating),
	}
	for _, line := range meta {
		pdf.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	// Overall performance summary
	pdf.SetFont("Times", "B", 14)
	pdf.SetFillColor(230, 240, 255)
	pdf.CellFormat(0, 10, "Overall Performance Summary", "", 1, "L", true, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Times", "", 10)
	pdf.MultiCell(0, 6, b.OverallSummary, "", "L", false)
	pdf.Ln(5)

	// Performance assessment
	verdict, color := assessment(b.AverageRating)
	pdf.SetFont("Times", "B", 12)
	pdf.CellFormat(0, 8, "Performance Assessment:", "", 1, "L", false, 0, "")
	pdf.SetFont("Times", "", 10)
	pdf.SetTextColor(color[0], color[1], color[2])
	pdf.MultiCell(0, 6, verdict, "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(5)

	// Per-turn analysis
	pdf.SetFont("Times", "B", 14)
	pdf.CellFormat(0, 10, "Detailed Question-by-Question Analysis", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for i, turn := range b.History {
		if pdf.GetY() > 250 {
			pdf.AddPage()
		}

		pdf.SetFont("Times", "B", 11)
		pdf.SetTextColor(52, 73, 94)
		pdf.MultiCell(0, 6, fmt.Sprintf("Q%d: %s", i+1, turn.Question), "", "L", false)

		pdf.SetFont("Times", "", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, 6, fmt.Sprintf("Answer: %s", turn.Answer), "", "L", false)

		pdf.SetFont("Times", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("Rating: %.2f/10", turn.Rating), "", 1, "L", false, 0, "")

		pdf.SetFont("Times", "", 9)
		pdf.MultiCell(0, 5, fmt.Sprintf("Strengths: %s", turn.Strengths), "", "L", false)
		pdf.MultiCell(0, 5, fmt.Sprintf("Improvements: %s", turn.Improvements), "", "L", false)
		if turn.MissingPoints != "" {
			pdf.MultiCell(0, 5, fmt.Sprintf("Missing Points: %s", turn.MissingPoints), "", "L", false)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: render report: %v", domain.ErrInternal, err)
	}
	return buf.Bytes(), nil
}
