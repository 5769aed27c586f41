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

type Enrollment struct {
	ID                    int              `gorm:"primary_key" json:"id"`
	StudentId             int              `gorm:"index;not null" json:"student_id"`
	Student               *Student         `json:"student,omitempty"`
	EnrollmentTypeId      int              `gorm:"index;not null" json:"enrollment_type_id"`
	EnrollmentType        *EnrollmentType  `json:"enrollment_type,omitempty"`
	EnrollmentPeriodStart DateString       `gorm:"not null;index" json:"enrollment_period_start"`
	EnrollmentPeriodEnd   DateString       `gorm:"not null" json:"enrollment_period_end"`
	ScheduleType          ScheduleType     `gorm:"size:10;default:full_time" json:"schedule_type"`
	EnrollmentAmount      decimal.Decimal  `gorm:"type:decimal(8,2);not null" json:"enrollment_amount"`
	DiscountPercentage    decimal.Decimal  `gorm:"type:decimal(5,2);default:0" json:"discount_percentage"`
	FinalAmount           decimal.Decimal  `gorm:"type:decimal(8,2);not null" json:"final_amount"`
	Status                EnrollmentStatus `gorm:"size:10;default:pending;index" json:"status"`
	EnrollmentDate        DateString       `gorm:"not null;index" json:"enrollment_date"`
	DocumentUrl           string           `gorm:"size:500" json:"document_url"`
	Notes                 string           `gorm:"type:text" json:"notes"`
	CreatedAt             time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewEnrollment struct {
	StudentId             int              `json:"student_id" binding:"required"`
	EnrollmentTypeId      int              `json:"enrollment_type_id" binding:"required"`
	EnrollmentPeriodStart DateString       `json:"enrollment_period_start" binding:"required"`
	EnrollmentPeriodEnd   DateString       `json:"enrollment_period_end" binding:"required"`
	ScheduleType          ScheduleType     `json:"schedule_type"`
	EnrollmentAmount      decimal.Decimal  `json:"enrollment_amount"`
	DiscountPercentage    decimal.Decimal  `json:"discount_percentage"`
	FinalAmount           decimal.Decimal  `json:"final_amount"`
	Status                EnrollmentStatus `json:"status"`
	EnrollmentDate        DateString       `json:"enrollment_date" binding:"required"`
	DocumentUrl           string           `json:"document_url" binding:"omitempty,url"`
	Notes                 string           `json:"notes"`
}

// DeriveFinalAmount applies the percentage discount to the schedule's base
// price, rounded to the cent.
func DeriveFinalAmount(base, discountPercentage decimal.Decimal) decimal.Decimal {
	discount := base.Mul(discountPercentage).Div(decimal.NewFromInt(100))
	return utils.Round2(base.Sub(discount))
}

// CompleteAndValidate derives final_amount from the enrollment type's base
// price when the caller did not supply one, and defaults enrollment_amount to
// the derived figure. Derivation fires once, at creation; updates carry the
// stored amounts through.
func (e *Enrollment) CompleteAndValidate(base decimal.Decimal) error {
	if e.ScheduleType == "" {
		e.ScheduleType = ScheduleTypeFullTime
	}
	if !e.ScheduleType.Valid() {
		return fmt.Errorf("invalid schedule type %q", e.ScheduleType)
	}
	if e.Status == "" {
		e.Status = EnrollmentStatusPending
	}
	if !e.Status.Valid() {
		return fmt.Errorf("invalid enrollment status %q", e.Status)
	}
	if e.DiscountPercentage.IsNegative() {
		return utils.ErrInvalidAmount
	}

	if e.FinalAmount.IsZero() {
		e.FinalAmount = DeriveFinalAmount(base, e.DiscountPercentage)
		if e.EnrollmentAmount.IsZero() {
			e.EnrollmentAmount = e.FinalAmount
		}
	}
	if !e.FinalAmount.IsPositive() || !e.EnrollmentAmount.IsPositive() {
		return utils.ErrInvalidAmount
	}
	return nil
}

// IsPaid reports whether completed payments cover the enrollment price.
func (e *Enrollment) IsPaid(completedTotal decimal.Decimal) bool {
	return completedTotal.GreaterThanOrEqual(e.FinalAmount)
}

// RemainingAmount is the uncovered part of the price, floored at zero.
func (e *Enrollment) RemainingAmount(completedTotal decimal.Decimal) decimal.Decimal {
	remaining := e.FinalAmount.Sub(completedTotal)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// CompletedPaymentsTotal sums the completed payments linked to this
// enrollment, straight from the payments table. Computed on read, never
// cached on the enrollment, so it cannot go stale when payments change.
func (e *Enrollment) CompletedPaymentsTotal(ctx context.Context) (decimal.Decimal, error) {
	db := config.GetDB()
	var total decimal.Decimal
	err := db.WithContext(ctx).Model(&Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("enrollment_id = ? AND payment_status = ?", e.ID, PaymentStatusCompleted).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (input *NewEnrollment) validate(ctx context.Context) (*EnrollmentType, error) {
	if err := utils.ValidateResourceId[Student](ctx, input.StudentId); err != nil {
		return nil, fmt.Errorf("student not found")
	}
	enrollmentType, err := utils.FetchModel[EnrollmentType](ctx, input.EnrollmentTypeId)
	if err != nil {
		return nil, fmt.Errorf("enrollment type not found")
	}
	return enrollmentType, nil
}

// checkSingleActive enforces at most one active enrollment per student. MySQL
// has no partial unique indexes, so the check runs inside the same
// transaction as the write.
func checkSingleActive(tx *gorm.DB, studentId int, status EnrollmentStatus, exceptId int) error {
	if status != EnrollmentStatusActive {
		return nil
	}
	var count int64
	q := tx.Model(&Enrollment{}).
		Where("student_id = ? AND status = ?", studentId, EnrollmentStatusActive)
	if exceptId > 0 {
		q = q.Where("NOT id = ?", exceptId)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return utils.ErrDuplicateConstraint
	}
	return nil
}

func CreateEnrollment(ctx context.Context, input *NewEnrollment) (*Enrollment, error) {
	enrollmentType, err := input.validate(ctx)
	if err != nil {
		return nil, err
	}

	enrollment := Enrollment{
		StudentId:             input.StudentId,
		EnrollmentTypeId:      input.EnrollmentTypeId,
		EnrollmentPeriodStart: input.EnrollmentPeriodStart,
		EnrollmentPeriodEnd:   input.EnrollmentPeriodEnd,
		ScheduleType:          input.ScheduleType,
		EnrollmentAmount:      input.EnrollmentAmount,
		DiscountPercentage:    input.DiscountPercentage,
		FinalAmount:           input.FinalAmount,
		Status:                input.Status,
		EnrollmentDate:        input.EnrollmentDate,
		DocumentUrl:           input.DocumentUrl,
		Notes:                 input.Notes,
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := enrollment.CompleteAndValidate(enrollmentType.BaseAmountFor(input.ScheduleType)); err != nil {
			return err
		}
		if err := checkSingleActive(tx, enrollment.StudentId, enrollment.Status, 0); err != nil {
			return err
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}
		return RecordLedgerEvent(ctx, tx, LedgerReferenceTypeEnrollment, enrollment.ID, LedgerEventActionCreate, enrollment)
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func UpdateEnrollment(ctx context.Context, id int, input *NewEnrollment) (*Enrollment, error) {
	enrollmentType, err := input.validate(ctx)
	if err != nil {
		return nil, err
	}

	enrollment, err := utils.FetchModel[Enrollment](ctx, id)
	if err != nil {
		return nil, err
	}

	enrollment.StudentId = input.StudentId
	enrollment.EnrollmentTypeId = input.EnrollmentTypeId
	enrollment.EnrollmentPeriodStart = input.EnrollmentPeriodStart
	enrollment.EnrollmentPeriodEnd = input.EnrollmentPeriodEnd
	enrollment.ScheduleType = input.ScheduleType
	enrollment.DiscountPercentage = input.DiscountPercentage
	enrollment.Status = input.Status
	enrollment.EnrollmentDate = input.EnrollmentDate
	enrollment.DocumentUrl = input.DocumentUrl
	enrollment.Notes = input.Notes
	// whole-record update: supplied amounts replace stored ones; absent
	// amounts keep the stored derivation
	if !input.FinalAmount.IsZero() {
		enrollment.FinalAmount = input.FinalAmount
	}
	if !input.EnrollmentAmount.IsZero() {
		enrollment.EnrollmentAmount = input.EnrollmentAmount
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := enrollment.CompleteAndValidate(enrollmentType.BaseAmountFor(enrollment.ScheduleType)); err != nil {
			return err
		}
		if err := checkSingleActive(tx, enrollment.StudentId, enrollment.Status, enrollment.ID); err != nil {
			return err
		}
		if err := tx.Save(enrollment).Error; err != nil {
			return err
		}
		return RecordLedgerEvent(ctx, tx, LedgerReferenceTypeEnrollment, enrollment.ID, LedgerEventActionUpdate, enrollment)
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

func DeleteEnrollment(ctx context.Context, id int) error {
	return utils.DeleteRestricted[Enrollment](ctx, id, []utils.RestrictRule{
		{Model: &Payment{}, Condition: "enrollment_id = ?"},
	})
}

func GetEnrollment(ctx context.Context, id int) (*Enrollment, error) {
	return utils.FetchModel[Enrollment](ctx, id, "Student", "EnrollmentType")
}

func FetchEnrollments(ctx context.Context) ([]*Enrollment, error) {
	db := config.GetDB()
	var results []*Enrollment
	err := db.WithContext(ctx).Preload("Student").Preload("EnrollmentType").
		Order("enrollment_date DESC, id DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
