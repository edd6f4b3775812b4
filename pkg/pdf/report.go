package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ReportFileName is the stable per-session report file name
const ReportFileName = "final_report.pdf"

// Row is one question/answer line in the report table
type Row struct {
	Question    string
	Transcript  string
	Clarity     int
	Relevance   int
	Structure   int
	Conciseness int
	Confidence  int
	Total       int
}

// Renderer writes interview reports as PDF files under the report root
type Renderer struct {
	reportDir   string
	companyName string
}

// NewRenderer creates a new PDF renderer
func NewRenderer(reportDir, companyName string) *Renderer {
	return &Renderer{
		reportDir:   reportDir,
		companyName: companyName,
	}
}

// Render builds the report PDF for a session and returns its path
func (r *Renderer) Render(sessionID string, rows []Row, attention map[string]float64, summary string) (string, error) {
	dir := filepath.Join(r.reportDir, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(dir, ReportFileName)

	doc := gofpdf.New("P", "mm", "Letter", "")
	doc.SetMargins(13, 17, 13)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.Cell(0, 10, fmt.Sprintf("%s - AI Interview Summary", r.companyName))
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 5, fmt.Sprintf("Session ID: %s", sessionID))
	doc.Ln(5)
	doc.Cell(0, 5, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	doc.Ln(10)

	r.renderTable(doc, rows)
	doc.Ln(8)

	if len(attention) > 0 {
		doc.SetFont("Helvetica", "B", 11)
		doc.Cell(0, 6, "Attention Analysis")
		doc.Ln(6)
		doc.SetFont("Helvetica", "", 10)
		keys := make([]string, 0, len(attention))
		for k := range attention {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			doc.Cell(0, 5, fmt.Sprintf("%s: %.1f%%", k, attention[k]*100))
			doc.Ln(5)
		}
		doc.Ln(5)
	}

	doc.SetFont("Helvetica", "B", 11)
	doc.Cell(0, 6, "Summary")
	doc.Ln(6)
	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, 5, summary, "", "L", false)

	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}
	return path, nil
}

func (r *Renderer) renderTable(doc *gofpdf.Fpdf, rows []Row) {
	headers := []string{"Question", "Response", "Cla", "Rel", "Str", "Con", "Cnf", "Total"}
	widths := []float64{55, 75, 10, 10, 10, 10, 10, 12}

	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(17, 24, 39)
	doc.SetTextColor(255, 255, 255)
	for i, h := range headers {
		doc.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(0, 0, 0)
	for _, row := range rows {
		question := truncate(row.Question, 90)
		transcript := truncate(row.Transcript, 130)

		doc.CellFormat(widths[0], 6, question, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 6, transcript, "1", 0, "L", false, 0, "")
		scores := []int{row.Clarity, row.Relevance, row.Structure, row.Conciseness, row.Confidence, row.Total}
		for i, v := range scores {
			doc.CellFormat(widths[2+i], 6, fmt.Sprintf("%d", v), "1", 0, "C", false, 0, "")
		}
		doc.Ln(-1)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
