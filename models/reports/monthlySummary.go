package reports

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/models"
	"github.com/shopspring/decimal"
)

type MonthlySummary struct {
	Period    string            `json:"period"`
	StartDate models.DateString `json:"start_date"`
	EndDate   models.DateString `json:"end_date"`
	Income    decimal.Decimal   `json:"income"`
	Expenses  decimal.Decimal   `json:"expenses"`
	Profit    decimal.Decimal   `json:"profit"`
}

// MonthRange returns the first and last day of the given calendar month.
func MonthRange(year int, month time.Month) (models.DateString, models.DateString) {
	start := models.NewDate(year, month, 1)
	end := models.DateString(start.Time().AddDate(0, 1, -1))
	return start, end
}

func GetMonthlySummary(ctx context.Context, year int, month time.Month) (*MonthlySummary, error) {
	start, end := MonthRange(year, month)
	income, err := models.SumCompletedPayments(ctx, start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := models.SumPaidExpenses(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &MonthlySummary{
		Period:    fmt.Sprintf("%04d-%02d", year, month),
		StartDate: start,
		EndDate:   end,
		Income:    income,
		Expenses:  expenses,
		Profit:    income.Sub(expenses),
	}, nil
}

// GetYearlySummary returns one summary per month of the given year, in
// calendar order. Months with no activity still appear with zero totals.
func GetYearlySummary(ctx context.Context, year int) ([]*MonthlySummary, error) {
	summaries := make([]*MonthlySummary, 0, 12)
	for month := time.January; month <= time.December; month++ {
		summary, err := GetMonthlySummary(ctx, year, month)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
