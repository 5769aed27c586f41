package reports_test

import (
	"testing"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/models/reports"
)

func TestMonthRange(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		start string
		end   string
	}{
		{2024, time.March, "2024-03-01", "2024-03-31"},
		{2024, time.February, "2024-02-01", "2024-02-29"},
		{2023, time.February, "2023-02-01", "2023-02-28"},
		{2024, time.April, "2024-04-01", "2024-04-30"},
		{2024, time.December, "2024-12-01", "2024-12-31"},
	}
	for _, tc := range cases {
		start, end := reports.MonthRange(tc.year, tc.month)
		if start.String() != tc.start || end.String() != tc.end {
			t.Errorf("MonthRange(%d, %s) = [%s, %s], want [%s, %s]",
				tc.year, tc.month, start, end, tc.start, tc.end)
		}
	}
}

func TestExcelExportFilename(t *testing.T) {
	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	if got := reports.ExcelExportFilename("yearly_summary", at); got != "yearly_summary_20240315.xlsx" {
		t.Errorf("filename = %q", got)
	}
}
