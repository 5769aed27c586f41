package models_test

import (
	"errors"
	"testing"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/models"
	"bitbucket.org/montealto-academy/academy_backend/utils"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(year int, month time.Month, day int) *models.DateString {
	d := models.NewDate(year, month, day)
	return &d
}

func TestFormatExpenseNumber(t *testing.T) {
	tests := []struct {
		year int
		seq  int64
		want string
	}{
		{2024, 1, "EXP20240001"},
		{2024, 42, "EXP20240042"},
		{2025, 9999, "EXP20259999"},
		{2025, 10000, "EXP202510000"},
	}
	for _, tt := range tests {
		if got := models.FormatExpenseNumber(tt.year, tt.seq); got != tt.want {
			t.Errorf("FormatExpenseNumber(%d, %d) = %q, want %q", tt.year, tt.seq, got, tt.want)
		}
	}
}

func TestExpenseTotalDerivation(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	expense := models.Expense{
		Amount:      dec("100.00"),
		TaxAmount:   dec("21.00"),
		ExpenseDate: models.NewDate(2024, 3, 1),
	}
	if err := expense.CompleteAndValidate(today); err != nil {
		t.Fatalf("CompleteAndValidate: %v", err)
	}
	if !expense.TotalAmount.Equal(dec("121.00")) {
		t.Errorf("total = %s, want 121.00", expense.TotalAmount)
	}
	if expense.Status != models.ExpenseStatusPending {
		t.Errorf("status = %q, want pending", expense.Status)
	}
	if expense.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", expense.Currency)
	}

	// explicit total wins over the derived one
	explicit := models.Expense{
		Amount:      dec("100.00"),
		TaxAmount:   dec("21.00"),
		TotalAmount: dec("130.00"),
		ExpenseDate: models.NewDate(2024, 3, 1),
	}
	if err := explicit.CompleteAndValidate(today); err != nil {
		t.Fatalf("CompleteAndValidate: %v", err)
	}
	if !explicit.TotalAmount.Equal(dec("130.00")) {
		t.Errorf("total = %s, want 130.00", explicit.TotalAmount)
	}
}

func TestExpenseStatusDateDefaults(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	paid := models.Expense{
		Amount:      dec("50.00"),
		Status:      models.ExpenseStatusPaid,
		ExpenseDate: models.NewDate(2024, 3, 1),
	}
	if err := paid.CompleteAndValidate(today); err != nil {
		t.Fatalf("CompleteAndValidate: %v", err)
	}
	if paid.PaymentDate == nil || paid.PaymentDate.String() != "2024-03-15" {
		t.Errorf("payment date = %v, want 2024-03-15", paid.PaymentDate)
	}

	approved := models.Expense{
		Amount:      dec("50.00"),
		Status:      models.ExpenseStatusApproved,
		ExpenseDate: models.NewDate(2024, 3, 1),
	}
	if err := approved.CompleteAndValidate(today); err != nil {
		t.Fatalf("CompleteAndValidate: %v", err)
	}
	if approved.ApprovalDate == nil || approved.ApprovalDate.String() != "2024-03-15" {
		t.Errorf("approval date = %v, want 2024-03-15", approved.ApprovalDate)
	}

	// supplied dates are preserved
	supplied := models.Expense{
		Amount:      dec("50.00"),
		Status:      models.ExpenseStatusPaid,
		PaymentDate: datePtr(2024, 3, 10),
		ExpenseDate: models.NewDate(2024, 3, 1),
	}
	if err := supplied.CompleteAndValidate(today); err != nil {
		t.Fatalf("CompleteAndValidate: %v", err)
	}
	if supplied.PaymentDate.String() != "2024-03-10" {
		t.Errorf("payment date = %s, want 2024-03-10", supplied.PaymentDate)
	}
}

func TestExpenseInvalidAmount(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	for _, expense := range []models.Expense{
		{Amount: decimal.Zero, ExpenseDate: models.NewDate(2024, 3, 1)},
		{Amount: dec("-5.00"), ExpenseDate: models.NewDate(2024, 3, 1)},
		{Amount: dec("10.00"), TaxAmount: dec("-1.00"), ExpenseDate: models.NewDate(2024, 3, 1)},
	} {
		if err := expense.CompleteAndValidate(today); !errors.Is(err, utils.ErrInvalidAmount) {
			t.Errorf("amount=%s tax=%s: err = %v, want ErrInvalidAmount", expense.Amount, expense.TaxAmount, err)
		}
	}
}

func TestExpenseOverdue(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	yesterday := datePtr(2024, 3, 14)

	expense := models.Expense{
		Status:  models.ExpenseStatusApproved,
		DueDate: yesterday,
	}
	if !expense.IsOverdue(today) {
		t.Error("approved expense due yesterday should be overdue")
	}
	if got := expense.DaysOverdue(today); got != 1 {
		t.Errorf("days overdue = %d, want 1", got)
	}

	expense.Status = models.ExpenseStatusPaid
	if expense.IsOverdue(today) {
		t.Error("paid expense must not be overdue")
	}
	if got := expense.DaysOverdue(today); got != 0 {
		t.Errorf("days overdue = %d, want 0", got)
	}

	expense.Status = models.ExpenseStatusApproved
	expense.DueDate = nil
	if expense.IsOverdue(today) {
		t.Error("expense without a due date must not be overdue")
	}

	expense.DueDate = datePtr(2024, 3, 15)
	if expense.IsOverdue(today) {
		t.Error("expense due today must not be overdue")
	}
}
