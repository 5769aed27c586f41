package models_test

import (
	"errors"
	"testing"

	"bitbucket.org/montealto-academy/academy_backend/models"
	"bitbucket.org/montealto-academy/academy_backend/utils"
	"github.com/shopspring/decimal"
)

func TestDeriveFinalAmount(t *testing.T) {
	tests := []struct {
		base     string
		discount string
		want     string
	}{
		{"100.00", "10", "90.00"},
		{"100.00", "0", "100.00"},
		{"100.00", "100", "0.00"},
		{"150.00", "33.33", "100.01"},
		{"99.99", "50", "50.00"},
	}
	for _, tt := range tests {
		got := models.DeriveFinalAmount(dec(tt.base), dec(tt.discount))
		if !got.Equal(dec(tt.want)) {
			t.Errorf("DeriveFinalAmount(%s, %s) = %s, want %s", tt.base, tt.discount, got, tt.want)
		}
	}
}

func TestEnrollmentFinalAmountDerivation(t *testing.T) {
	base := dec("100.00")

	enrollment := models.Enrollment{
		DiscountPercentage: dec("10"),
	}
	if err := enrollment.CompleteAndValidate(base); err != nil {
		t.Fatalf("CompleteAndValidate: %v", err)
	}
	if !enrollment.FinalAmount.Equal(dec("90.00")) {
		t.Errorf("final = %s, want 90.00", enrollment.FinalAmount)
	}
	if !enrollment.EnrollmentAmount.Equal(dec("90.00")) {
		t.Errorf("enrollment amount = %s, want 90.00", enrollment.EnrollmentAmount)
	}
	if enrollment.ScheduleType != models.ScheduleTypeFullTime {
		t.Errorf("schedule = %q, want full_time", enrollment.ScheduleType)
	}

	// explicit final amount skips derivation
	explicit := models.Enrollment{
		DiscountPercentage: dec("10"),
		FinalAmount:        dec("75.00"),
		EnrollmentAmount:   dec("75.00"),
	}
	if err := explicit.CompleteAndValidate(base); err != nil {
		t.Fatalf("CompleteAndValidate: %v", err)
	}
	if !explicit.FinalAmount.Equal(dec("75.00")) {
		t.Errorf("final = %s, want 75.00", explicit.FinalAmount)
	}

	negative := models.Enrollment{DiscountPercentage: dec("-5")}
	if err := negative.CompleteAndValidate(base); !errors.Is(err, utils.ErrInvalidAmount) {
		t.Errorf("negative discount: err = %v, want ErrInvalidAmount", err)
	}
}

func TestEnrollmentPayoff(t *testing.T) {
	enrollment := models.Enrollment{FinalAmount: dec("90.00")}

	// two completed payments of 50 and 40 cover the price
	covered := dec("50.00").Add(dec("40.00"))
	if !enrollment.IsPaid(covered) {
		t.Error("90.00 covered by 50+40 should be paid")
	}
	if !enrollment.RemainingAmount(covered).Equal(decimal.Zero) {
		t.Errorf("remaining = %s, want 0", enrollment.RemainingAmount(covered))
	}

	// a single 50 leaves 40 outstanding
	partial := dec("50.00")
	if enrollment.IsPaid(partial) {
		t.Error("90.00 covered by 50 should not be paid")
	}
	if !enrollment.RemainingAmount(partial).Equal(dec("40.00")) {
		t.Errorf("remaining = %s, want 40.00", enrollment.RemainingAmount(partial))
	}

	// overpayment floors at zero
	over := dec("100.00")
	if !enrollment.RemainingAmount(over).Equal(decimal.Zero) {
		t.Errorf("remaining = %s, want 0", enrollment.RemainingAmount(over))
	}
}
