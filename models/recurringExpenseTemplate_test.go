package models_test

import (
	"testing"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/models"
)

func TestPeriodsDue(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		frequency models.RecurringFrequency
		start     models.DateString
		end       *models.DateString
		want      []string
	}{
		{
			name:      "monthly since march",
			frequency: models.RecurringFrequencyMonthly,
			start:     models.NewDate(2024, 3, 1),
			want:      []string{"2024-03-01", "2024-04-01", "2024-05-01", "2024-06-01"},
		},
		{
			name:      "quarterly",
			frequency: models.RecurringFrequencyQuarterly,
			start:     models.NewDate(2024, 1, 1),
			want:      []string{"2024-01-01", "2024-04-01"},
		},
		{
			name:      "annually",
			frequency: models.RecurringFrequencyAnnually,
			start:     models.NewDate(2022, 9, 1),
			want:      []string{"2022-09-01", "2023-09-01"},
		},
		{
			name:      "end date cuts the series short",
			frequency: models.RecurringFrequencyMonthly,
			start:     models.NewDate(2024, 3, 1),
			end:       datePtr(2024, 4, 30),
			want:      []string{"2024-03-01", "2024-04-01"},
		},
		{
			name:      "start in the future",
			frequency: models.RecurringFrequencyMonthly,
			start:     models.NewDate(2024, 7, 1),
			want:      nil,
		},
		{
			name:      "start today",
			frequency: models.RecurringFrequencyMonthly,
			start:     models.NewDate(2024, 6, 15),
			want:      []string{"2024-06-15"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			template := models.RecurringExpenseTemplate{
				Frequency: tc.frequency,
				StartDate: tc.start,
				EndDate:   tc.end,
			}
			due := template.PeriodsDue(today)
			if len(due) != len(tc.want) {
				t.Fatalf("got %d periods, want %d: %v", len(due), len(tc.want), due)
			}
			for i, period := range due {
				if got := period.Format("2006-01-02"); got != tc.want[i] {
					t.Errorf("period[%d] = %s, want %s", i, got, tc.want[i])
				}
			}
		})
	}
}

func TestExpenseForPeriodCarriesTemplateColumns(t *testing.T) {
	template := models.RecurringExpenseTemplate{
		ID:            7,
		Name:          "Office rent",
		CategoryId:    3,
		VendorName:    "Inmuebles Centro SL",
		DefaultAmount: dec("1200.00"),
		Frequency:     models.RecurringFrequencyMonthly,
	}
	period := models.NewDate(2024, 4, 1)
	expense := template.ExpenseForPeriod(period)

	// The row must reference its template before it is ever written, so the
	// (template, period) unique index rejects a second materialization even
	// when the first write is interrupted or racing.
	if expense.TemplateId == nil || *expense.TemplateId != 7 {
		t.Fatalf("template id = %v, want 7", expense.TemplateId)
	}
	if expense.TemplatePeriod == nil || expense.TemplatePeriod.String() != "2024-04-01" {
		t.Fatalf("template period = %v, want 2024-04-01", expense.TemplatePeriod)
	}
	if expense.Description != "Office rent (2024-04-01)" {
		t.Errorf("description = %q", expense.Description)
	}
	if expense.ExpenseDate.String() != "2024-04-01" {
		t.Errorf("expense date = %s", expense.ExpenseDate)
	}
	if expense.Status != models.ExpenseStatusPending || !expense.IsRecurring {
		t.Errorf("status = %s, recurring = %v", expense.Status, expense.IsRecurring)
	}
	if !expense.Amount.Equal(dec("1200.00")) {
		t.Errorf("amount = %s", expense.Amount)
	}
}

func TestPeriodsDueMonthEndDrift(t *testing.T) {
	// AddDate normalizes Jan 31 + 1 month to Mar 2; the series keeps stepping
	// from the drifted date rather than snapping back.
	template := models.RecurringExpenseTemplate{
		Frequency: models.RecurringFrequencyMonthly,
		StartDate: models.NewDate(2024, 1, 31),
	}
	due := template.PeriodsDue(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	if len(due) != 2 {
		t.Fatalf("got %d periods, want 2: %v", len(due), due)
	}
	if got := due[1].Format("2006-01-02"); got != "2024-03-02" {
		t.Errorf("period[1] = %s, want 2024-03-02", got)
	}
}
