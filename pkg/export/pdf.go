// Package export renders the monthly closing report.
package export

import (
	"fmt"
	"io"
	"time"

	"codeberg.org/go-pdf/fpdf"
)

// TeamCount is the number of assignment rows across a team's shifts
type TeamCount struct {
	Name        string
	Assignments int
}

// MonthlyReport holds the figures printed on the closing report
type MonthlyReport struct {
	GeneratedAt time.Time
	TotalPeople int
	TotalShifts int
	Teams       []TeamCount
}

// FileName returns Relatorio_RS_Eventos_<month>_<year>.pdf, month unpadded
func FileName(t time.Time) string {
	return fmt.Sprintf("Relatorio_RS_Eventos_%d_%d.pdf", int(t.Month()), t.Year())
}

const margin = 15.0

// WritePDF writes report as a single A4 page to out
func WritePDF(report MonthlyReport, out io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, 20, margin)
	pdf.SetTitle("RS Eventos - Monthly Report", true)
	pdf.SetCreator("shiftboard", true)
	pdf.AddPage()

	// core fonts are cp1252, names like "João" need translating
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(16, 185, 129)
	pdf.CellFormat(0, 10, "RS EVENTOS - MONTHLY REPORT", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Report date: "+report.GeneratedAt.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, "SUMMARY", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total collaborators: %d", report.TotalPeople), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total published shifts: %d", report.TotalShifts), "", 1, "L", false, 0, "")

	if len(report.Teams) > 0 {
		pdf.Ln(9)
		writeTeamTable(pdf, tr, report.Teams)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build pdf: %w", err)
	}
	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func writeTeamTable(pdf *fpdf.Fpdf, tr func(string) string, teams []TeamCount) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "ATTENDANCE BY TEAM", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(130, 7, "Team", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 7, "Assignments", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, team := range teams {
		pdf.CellFormat(130, 7, tr(team.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, fmt.Sprintf("%d", team.Assignments), "1", 1, "R", false, 0, "")
	}
}
