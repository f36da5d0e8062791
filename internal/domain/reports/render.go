package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// WriteTeamLeaveCSV renders the monthly team calendar as CSV.
func WriteTeamLeaveCSV(w io.Writer, rows []TeamLeaveRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"employee", "leave_type", "start_date", "end_date", "total_days", "reason"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.UserName,
			r.LeaveType,
			r.StartDate.Format("2006-01-02"),
			r.EndDate.Format("2006-01-02"),
			strconv.FormatFloat(r.TotalDays, 'f', -1, 64),
			r.Reason,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteBalanceSummaryPDF renders the yearly balance summary as a PDF
// table.
func WriteBalanceSummaryPDF(w io.Writer, year int, rows []BalanceSummaryRow) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Leave Balance Summary %d", year))
	pdf.Ln(12)

	headers := []string{"Employee", "Leave Type", "Balance", "Used", "Entitlement"}
	widths := []float64{55, 50, 25, 25, 30}

	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, r.UserName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.LeaveType, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, strconv.FormatFloat(r.Balance, 'f', -1, 64), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, strconv.FormatFloat(r.Used, 'f', -1, 64), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, strconv.FormatFloat(r.Entitlement, 'f', -1, 64), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
