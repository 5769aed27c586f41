package models_test

import (
	"errors"
	"testing"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/models"
	"bitbucket.org/montealto-academy/academy_backend/utils"
)

func TestPayrollNetDerivation(t *testing.T) {
	today := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	payroll := models.Payroll{
		PeriodStart:     models.NewDate(2024, 6, 1),
		PeriodEnd:       models.NewDate(2024, 6, 30),
		GrossAmount:     dec("2000.00"),
		TaxDeductions:   dec("380.00"),
		OtherDeductions: dec("120.00"),
	}
	if err := payroll.CompleteAndValidate(today); err != nil {
		t.Fatalf("CompleteAndValidate: %v", err)
	}
	if !payroll.NetAmount.Equal(dec("1500.00")) {
		t.Errorf("net = %s, want 1500.00", payroll.NetAmount)
	}
	if payroll.PayrollType != models.PayrollTypeMonthlySalary {
		t.Errorf("type = %q, want monthly_salary", payroll.PayrollType)
	}

	// supplied net wins
	explicit := models.Payroll{
		PeriodStart: models.NewDate(2024, 6, 1),
		PeriodEnd:   models.NewDate(2024, 6, 30),
		GrossAmount: dec("2000.00"),
		NetAmount:   dec("1400.00"),
	}
	if err := explicit.CompleteAndValidate(today); err != nil {
		t.Fatalf("CompleteAndValidate: %v", err)
	}
	if !explicit.NetAmount.Equal(dec("1400.00")) {
		t.Errorf("net = %s, want 1400.00", explicit.NetAmount)
	}
}

func TestPayrollInvalidPeriod(t *testing.T) {
	today := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	payroll := models.Payroll{
		PeriodStart: models.NewDate(2024, 7, 1),
		PeriodEnd:   models.NewDate(2024, 6, 30),
		GrossAmount: dec("2000.00"),
	}
	if err := payroll.CompleteAndValidate(today); !errors.Is(err, utils.ErrInvalidPeriod) {
		t.Errorf("err = %v, want ErrInvalidPeriod", err)
	}

	// single-day periods are fine
	sameDay := models.Payroll{
		PeriodStart: models.NewDate(2024, 6, 30),
		PeriodEnd:   models.NewDate(2024, 6, 30),
		GrossAmount: dec("100.00"),
	}
	if err := sameDay.CompleteAndValidate(today); err != nil {
		t.Errorf("same-day period: %v", err)
	}
}

func TestPayrollPaidDefaultsPaymentDate(t *testing.T) {
	today := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	payroll := models.Payroll{
		PeriodStart: models.NewDate(2024, 6, 1),
		PeriodEnd:   models.NewDate(2024, 6, 30),
		GrossAmount: dec("2000.00"),
		Status:      models.PayrollStatusPaid,
	}
	if err := payroll.CompleteAndValidate(today); err != nil {
		t.Fatalf("CompleteAndValidate: %v", err)
	}
	if payroll.PaymentDate == nil || payroll.PaymentDate.String() != "2024-06-30" {
		t.Errorf("payment date = %v, want 2024-06-30", payroll.PaymentDate)
	}
}

func TestPayrollDeductionsExceedGross(t *testing.T) {
	today := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	payroll := models.Payroll{
		PeriodStart:   models.NewDate(2024, 6, 1),
		PeriodEnd:     models.NewDate(2024, 6, 30),
		GrossAmount:   dec("1000.00"),
		TaxDeductions: dec("1200.00"),
	}
	if err := payroll.CompleteAndValidate(today); !errors.Is(err, utils.ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
}
