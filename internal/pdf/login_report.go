package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"pharmacademy/internal/models"
)

// ReportGenerator — интерфейс (удобно мокать в тестах)
type ReportGenerator interface {
	GenerateLoginReport(logs []*models.LoginLog) ([]byte, error)
}

type LoginReportGenerator struct{}

func NewLoginReportGenerator() *LoginReportGenerator {
	return &LoginReportGenerator{}
}

func (g *LoginReportGenerator) GenerateLoginReport(logs []*models.LoginLog) ([]byte, error) {
	doc := gofpdf.New("L", "mm", "A4", "")
	doc.SetTitle("Admin login report", false)
	doc.SetAuthor("Pharmacademy", false)
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, "Admin login report", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, fmt.Sprintf("Generated at %s", time.Now().Format("2006-01-02 15:04:05")),
		"", 1, "C", false, 0, "")
	doc.Ln(4)

	// шапка таблицы
	widths := []float64{58, 35, 22, 35, 70, 38}
	headers := []string{"Admin", "Email", "Status", "IP", "User agent", "Time"}
	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(230, 236, 245)
	for i, h := range headers {
		doc.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 8)
	for _, l := range logs {
		cells := []string{
			l.AdminUsername,
			l.AdminEmail,
			l.Status,
			l.IPAddress,
			truncate(l.UserAgent, 60),
			l.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for i, c := range cells {
			doc.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}
	if len(logs) == 0 {
		doc.CellFormat(0, 6, "No records for the selected filter", "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render login report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
