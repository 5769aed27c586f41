package models

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/config"
	"bitbucket.org/montealto-academy/academy_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Payment struct {
	ID              int             `gorm:"primary_key" json:"id"`
	StudentId       int             `gorm:"index;not null" json:"student_id"`
	Student         *Student        `json:"student,omitempty"`
	EnrollmentId    *int            `gorm:"index" json:"enrollment_id"`
	Enrollment      *Enrollment     `json:"enrollment,omitempty"`
	ParentId        int             `gorm:"index;not null" json:"parent_id"`
	Parent          *Parent         `json:"parent,omitempty"`
	PaymentType     PaymentType     `gorm:"size:20;default:monthly" json:"payment_type"`
	PaymentMethod   PaymentMethod   `gorm:"size:15;default:transfer" json:"payment_method"`
	Amount          decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"amount"`
	Currency        string          `gorm:"size:3;default:EUR" json:"currency"`
	PaymentStatus   PaymentStatus   `gorm:"size:10;default:pending;index" json:"payment_status"`
	DueDate         DateString      `gorm:"not null;index" json:"due_date"`
	PaymentDate     *DateString     `gorm:"index" json:"payment_date"`
	Concept         string          `gorm:"size:200;not null" json:"concept"`
	ReferenceNumber string          `gorm:"size:50" json:"reference_number"`
	Observations    string          `gorm:"type:text" json:"observations"`
	DocumentUrl     string          `gorm:"size:500" json:"document_url"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPayment struct {
	StudentId       int             `json:"student_id" binding:"required"`
	EnrollmentId    *int            `json:"enrollment_id"`
	ParentId        int             `json:"parent_id" binding:"required"`
	PaymentType     PaymentType     `json:"payment_type"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	DueDate         DateString      `json:"due_date" binding:"required"`
	PaymentDate     *DateString     `json:"payment_date"`
	Concept         string          `json:"concept" binding:"required,max=200"`
	ReferenceNumber string          `json:"reference_number" binding:"max=50"`
	Observations    string          `json:"observations"`
	DocumentUrl     string          `json:"document_url" binding:"omitempty,url"`
}

// CompleteAndValidate defaults the payment date of a completed payment to
// today and rejects completed payments dated in the future. Runs on every
// write, not only at creation.
func (p *Payment) CompleteAndValidate(today time.Time) error {
	if p.PaymentType == "" {
		p.PaymentType = PaymentTypeMonthly
	}
	if !p.PaymentType.Valid() {
		return fmt.Errorf("invalid payment type %q", p.PaymentType)
	}
	if p.PaymentMethod == "" {
		p.PaymentMethod = PaymentMethodTransfer
	}
	if !p.PaymentMethod.Valid() {
		return fmt.Errorf("invalid payment method %q", p.PaymentMethod)
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = PaymentStatusPending
	}
	if !p.PaymentStatus.Valid() {
		return fmt.Errorf("invalid payment status %q", p.PaymentStatus)
	}
	if p.Currency == "" {
		p.Currency = "EUR"
	}
	if !p.Amount.IsPositive() {
		return utils.ErrInvalidAmount
	}

	if p.PaymentStatus == PaymentStatusCompleted {
		if p.PaymentDate == nil {
			d := DateString(today)
			p.PaymentDate = &d
		}
		if p.PaymentDate.After(today) {
			return utils.ErrInvalidPaymentDate
		}
	}
	return nil
}

// IsOverdue: pending past its due date.
func (p *Payment) IsOverdue(today time.Time) bool {
	return p.PaymentStatus == PaymentStatusPending && p.DueDate.Before(today)
}

func (p *Payment) DaysOverdue(today time.Time) int {
	if !p.IsOverdue(today) {
		return 0
	}
	return utils.DaysBetween(p.DueDate.Time(), today)
}

func (input *NewPayment) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[Student](ctx, input.StudentId); err != nil {
		return fmt.Errorf("student not found")
	}
	if err := utils.ValidateResourceId[Parent](ctx, input.ParentId); err != nil {
		return fmt.Errorf("parent not found")
	}
	if input.EnrollmentId != nil && *input.EnrollmentId > 0 {
		if err := utils.ValidateResourceId[Enrollment](ctx, *input.EnrollmentId); err != nil {
			return fmt.Errorf("enrollment not found")
		}
	}
	return nil
}

func (input *NewPayment) toPayment() Payment {
	return Payment{
		StudentId:       input.StudentId,
		EnrollmentId:    input.EnrollmentId,
		ParentId:        input.ParentId,
		PaymentType:     input.PaymentType,
		PaymentMethod:   input.PaymentMethod,
		Amount:          input.Amount,
		Currency:        input.Currency,
		PaymentStatus:   input.PaymentStatus,
		DueDate:         input.DueDate,
		PaymentDate:     input.PaymentDate,
		Concept:         input.Concept,
		ReferenceNumber: input.ReferenceNumber,
		Observations:    input.Observations,
		DocumentUrl:     input.DocumentUrl,
	}
}

func CreatePayment(ctx context.Context, input *NewPayment) (*Payment, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	payment := input.toPayment()
	today := utils.Today()

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := payment.CompleteAndValidate(today); err != nil {
			return err
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return RecordLedgerEvent(ctx, tx, LedgerReferenceTypePayment, payment.ID, LedgerEventActionCreate, payment)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func UpdatePayment(ctx context.Context, id int, input *NewPayment) (*Payment, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	payment, err := utils.FetchModel[Payment](ctx, id)
	if err != nil {
		return nil, err
	}

	updated := input.toPayment()
	updated.ID = payment.ID
	updated.CreatedAt = payment.CreatedAt

	today := utils.Today()
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updated.CompleteAndValidate(today); err != nil {
			return err
		}
		if err := tx.Save(&updated).Error; err != nil {
			return err
		}
		return RecordLedgerEvent(ctx, tx, LedgerReferenceTypePayment, updated.ID, LedgerEventActionUpdate, updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func DeletePayment(ctx context.Context, id int) error {
	return utils.DeleteRestricted[Payment](ctx, id, nil)
}

func GetPayment(ctx context.Context, id int) (*Payment, error) {
	return utils.FetchModel[Payment](ctx, id, "Student", "Parent", "Enrollment")
}

func FetchPayments(ctx context.Context) ([]*Payment, error) {
	db := config.GetDB()
	var results []*Payment
	err := db.WithContext(ctx).Preload("Student").Preload("Parent").
		Order("due_date DESC, id DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func FetchOverduePayments(ctx context.Context, today time.Time) ([]*Payment, error) {
	db := config.GetDB()
	var results []*Payment
	err := db.WithContext(ctx).Preload("Student").Preload("Parent").
		Where("payment_status = ? AND due_date < ?", PaymentStatusPending, DateString(today)).
		Order("due_date").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
