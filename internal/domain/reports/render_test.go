package reports

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestWriteTeamLeaveCSV(t *testing.T) {
	rows := []TeamLeaveRow{
		{
			UserName:  "Employee One",
			LeaveType: "Casual Leave",
			StartDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
			TotalDays: 3,
			Reason:    "family visit",
		},
		{
			UserName:  "Employee Two",
			LeaveType: "Sick Leave",
			StartDate: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
			TotalDays: 0.5,
		},
	}

	var buf bytes.Buffer
	if err := WriteTeamLeaveCSV(&buf, rows); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "employee,leave_type,start_date,end_date,total_days,reason" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Employee One,Casual Leave,2025-06-10,2025-06-12,3,family visit") {
		t.Fatalf("unexpected row: %s", lines[1])
	}
	if !strings.Contains(lines[2], "0.5") {
		t.Fatalf("half day lost: %s", lines[2])
	}
}

func TestWriteBalanceSummaryPDF(t *testing.T) {
	rows := []BalanceSummaryRow{
		{UserName: "Employee One", LeaveType: "Casual Leave", Balance: 7, Used: 3, Entitlement: 10},
	}

	var buf bytes.Buffer
	if err := WriteBalanceSummaryPDF(&buf, 2025, rows); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output is not a pdf")
	}
}
