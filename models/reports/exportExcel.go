package reports

import (
	"context"
	"fmt"
	"io"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/models"
	"github.com/xuri/excelize/v2"
)

// ExportYearlySummaryExcel writes one row per month of the year to w as an
// xlsx workbook.
func ExportYearlySummaryExcel(ctx context.Context, year int, w io.Writer) error {
	summaries, err := GetYearlySummary(ctx, year)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	f.SetCellValue(sheetName, "A1", "Period")
	f.SetCellValue(sheetName, "B1", "Income")
	f.SetCellValue(sheetName, "C1", "Expenses")
	f.SetCellValue(sheetName, "D1", "Profit")

	for i, s := range summaries {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheetName, "A"+row, s.Period)
		f.SetCellValue(sheetName, "B"+row, s.Income.InexactFloat64())
		f.SetCellValue(sheetName, "C"+row, s.Expenses.InexactFloat64())
		f.SetCellValue(sheetName, "D"+row, s.Profit.InexactFloat64())
	}

	return f.Write(w)
}

// ExportExpenseBreakdownExcel writes the per-category totals for the range
// to w as an xlsx workbook.
func ExportExpenseBreakdownExcel(ctx context.Context, fromDate, toDate models.DateString, w io.Writer) error {
	breakdown, err := GetExpenseBreakdown(ctx, fromDate, toDate)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	f.SetCellValue(sheetName, "A1", "Category")
	f.SetCellValue(sheetName, "B1", "Type")
	f.SetCellValue(sheetName, "C1", "Count")
	f.SetCellValue(sheetName, "D1", "Total")

	for i, d := range breakdown.Details {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheetName, "A"+row, d.CategoryName)
		f.SetCellValue(sheetName, "B"+row, string(d.CategoryType))
		f.SetCellValue(sheetName, "C"+row, d.Count)
		f.SetCellValue(sheetName, "D"+row, d.Total.InexactFloat64())
	}

	row := fmt.Sprint(len(breakdown.Details) + 2)
	f.SetCellValue(sheetName, "A"+row, "Total")
	f.SetCellValue(sheetName, "D"+row, breakdown.Total.InexactFloat64())

	return f.Write(w)
}

// ExcelExportFilename builds the attachment name for a report download.
func ExcelExportFilename(report string, at time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", report, at.Format("20060102"))
}
