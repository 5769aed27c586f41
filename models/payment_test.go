package models_test

import (
	"errors"
	"testing"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/models"
	"bitbucket.org/montealto-academy/academy_backend/utils"
)

func TestPaymentCompletedDateDefaults(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	p := models.Payment{
		Amount:        dec("60.00"),
		PaymentStatus: models.PaymentStatusCompleted,
		DueDate:       models.NewDate(2024, 3, 10),
	}
	if err := p.CompleteAndValidate(today); err != nil {
		t.Fatalf("CompleteAndValidate: %v", err)
	}
	if p.PaymentDate == nil || p.PaymentDate.String() != "2024-03-15" {
		t.Errorf("payment date = %v, want 2024-03-15", p.PaymentDate)
	}

	// A supplied payment date is never overwritten.
	supplied := datePtr(2024, 3, 12)
	p = models.Payment{
		Amount:        dec("60.00"),
		PaymentStatus: models.PaymentStatusCompleted,
		DueDate:       models.NewDate(2024, 3, 10),
		PaymentDate:   supplied,
	}
	if err := p.CompleteAndValidate(today); err != nil {
		t.Fatalf("CompleteAndValidate: %v", err)
	}
	if p.PaymentDate.String() != "2024-03-12" {
		t.Errorf("payment date = %s, want 2024-03-12", p.PaymentDate)
	}
}

func TestPaymentFutureDateRejected(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	p := models.Payment{
		Amount:        dec("60.00"),
		PaymentStatus: models.PaymentStatusCompleted,
		DueDate:       models.NewDate(2024, 3, 10),
		PaymentDate:   datePtr(2024, 3, 16),
	}
	err := p.CompleteAndValidate(today)
	if !errors.Is(err, utils.ErrInvalidPaymentDate) {
		t.Fatalf("err = %v, want ErrInvalidPaymentDate", err)
	}

	// Pending payments may carry any date; the check only binds completed ones.
	p.PaymentStatus = models.PaymentStatusPending
	if err := p.CompleteAndValidate(today); err != nil {
		t.Fatalf("pending payment with future date: %v", err)
	}
}

func TestPaymentDefaults(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	p := models.Payment{
		Amount:  dec("60.00"),
		DueDate: models.NewDate(2024, 4, 1),
	}
	if err := p.CompleteAndValidate(today); err != nil {
		t.Fatalf("CompleteAndValidate: %v", err)
	}
	if p.PaymentType != models.PaymentTypeMonthly {
		t.Errorf("payment type = %s, want monthly", p.PaymentType)
	}
	if p.PaymentMethod != models.PaymentMethodTransfer {
		t.Errorf("payment method = %s, want transfer", p.PaymentMethod)
	}
	if p.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("payment status = %s, want pending", p.PaymentStatus)
	}
	if p.Currency != "EUR" {
		t.Errorf("currency = %s, want EUR", p.Currency)
	}

	p.Amount = dec("0")
	if err := p.CompleteAndValidate(today); !errors.Is(err, utils.ErrInvalidAmount) {
		t.Fatalf("zero amount err = %v, want ErrInvalidAmount", err)
	}
}

func TestPaymentOverdue(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		status  models.PaymentStatus
		due     models.DateString
		overdue bool
		days    int
	}{
		{"pending past due", models.PaymentStatusPending, models.NewDate(2024, 3, 10), true, 5},
		{"pending due today", models.PaymentStatusPending, models.NewDate(2024, 3, 15), false, 0},
		{"completed past due", models.PaymentStatusCompleted, models.NewDate(2024, 3, 10), false, 0},
		{"cancelled past due", models.PaymentStatusCancelled, models.NewDate(2024, 3, 10), false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := models.Payment{PaymentStatus: tc.status, DueDate: tc.due}
			if got := p.IsOverdue(today); got != tc.overdue {
				t.Errorf("IsOverdue = %v, want %v", got, tc.overdue)
			}
			if got := p.DaysOverdue(today); got != tc.days {
				t.Errorf("DaysOverdue = %d, want %d", got, tc.days)
			}
		})
	}
}
