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

type Payroll struct {
	ID              int             `gorm:"primary_key" json:"id"`
	TeacherId       int             `gorm:"not null;index:idx_payroll_teacher_period,unique" json:"teacher_id"`
	Teacher         *Teacher        `json:"teacher,omitempty"`
	PayrollType     PayrollType     `gorm:"size:20;default:monthly_salary;index:idx_payroll_teacher_period,unique" json:"payroll_type"`
	PeriodStart     DateString      `gorm:"not null;index:idx_payroll_teacher_period,unique" json:"period_start"`
	PeriodEnd       DateString      `gorm:"not null;index:idx_payroll_teacher_period,unique" json:"period_end"`
	GrossAmount     decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"gross_amount"`
	TaxDeductions   decimal.Decimal `gorm:"type:decimal(8,2);default:0" json:"tax_deductions"`
	OtherDeductions decimal.Decimal `gorm:"type:decimal(8,2);default:0" json:"other_deductions"`
	NetAmount       decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"net_amount"`
	Status          PayrollStatus   `gorm:"size:10;default:pending;index" json:"status"`
	PaymentDate     *DateString     `gorm:"index" json:"payment_date"`
	DocumentUrl     string          `gorm:"size:500" json:"document_url"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPayroll struct {
	TeacherId       int             `json:"teacher_id" binding:"required"`
	PayrollType     PayrollType     `json:"payroll_type"`
	PeriodStart     DateString      `json:"period_start" binding:"required"`
	PeriodEnd       DateString      `json:"period_end" binding:"required"`
	GrossAmount     decimal.Decimal `json:"gross_amount"`
	TaxDeductions   decimal.Decimal `json:"tax_deductions"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	Status          PayrollStatus   `json:"status"`
	PaymentDate     *DateString     `json:"payment_date"`
	DocumentUrl     string          `json:"document_url" binding:"omitempty,url"`
	Notes           string          `json:"notes"`
}

// CompleteAndValidate rejects inverted periods, defaults the payment date of
// a paid payroll, and derives net pay when not supplied.
func (p *Payroll) CompleteAndValidate(today time.Time) error {
	if p.PayrollType == "" {
		p.PayrollType = PayrollTypeMonthlySalary
	}
	if !p.PayrollType.Valid() {
		return fmt.Errorf("invalid payroll type %q", p.PayrollType)
	}
	if p.Status == "" {
		p.Status = PayrollStatusPending
	}
	if !p.Status.Valid() {
		return fmt.Errorf("invalid payroll status %q", p.Status)
	}

	if p.PeriodStart.After(p.PeriodEnd.Time()) {
		return utils.ErrInvalidPeriod
	}
	if !p.GrossAmount.IsPositive() {
		return utils.ErrInvalidAmount
	}
	if p.TaxDeductions.IsNegative() || p.OtherDeductions.IsNegative() {
		return utils.ErrInvalidAmount
	}

	if p.Status == PayrollStatusPaid && p.PaymentDate == nil {
		d := DateString(today)
		p.PaymentDate = &d
	}

	if p.NetAmount.IsZero() {
		p.NetAmount = utils.Round2(p.GrossAmount.Sub(p.TaxDeductions).Sub(p.OtherDeductions))
	}
	if !p.NetAmount.IsPositive() {
		return utils.ErrInvalidAmount
	}
	return nil
}

func (input *NewPayroll) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[Teacher](ctx, input.TeacherId); err != nil {
		return fmt.Errorf("teacher not found")
	}
	return nil
}

// checkUniquePeriod prevents duplicate payrolls for the same teacher, period
// and type, backing the DB's composite unique index with a typed error.
func checkUniquePeriod(tx *gorm.DB, p *Payroll, exceptId int) error {
	var count int64
	q := tx.Model(&Payroll{}).
		Where("teacher_id = ? AND period_start = ? AND period_end = ? AND payroll_type = ?",
			p.TeacherId, p.PeriodStart, p.PeriodEnd, p.PayrollType)
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

func (input *NewPayroll) toPayroll() Payroll {
	return Payroll{
		TeacherId:       input.TeacherId,
		PayrollType:     input.PayrollType,
		PeriodStart:     input.PeriodStart,
		PeriodEnd:       input.PeriodEnd,
		GrossAmount:     input.GrossAmount,
		TaxDeductions:   input.TaxDeductions,
		OtherDeductions: input.OtherDeductions,
		NetAmount:       input.NetAmount,
		Status:          input.Status,
		PaymentDate:     input.PaymentDate,
		DocumentUrl:     input.DocumentUrl,
		Notes:           input.Notes,
	}
}

func CreatePayroll(ctx context.Context, input *NewPayroll) (*Payroll, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	payroll := input.toPayroll()
	today := utils.Today()

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := payroll.CompleteAndValidate(today); err != nil {
			return err
		}
		if err := checkUniquePeriod(tx, &payroll, 0); err != nil {
			return err
		}
		if err := tx.Create(&payroll).Error; err != nil {
			return err
		}
		return RecordLedgerEvent(ctx, tx, LedgerReferenceTypePayroll, payroll.ID, LedgerEventActionCreate, payroll)
	})
	if err != nil {
		return nil, err
	}
	return &payroll, nil
}

func UpdatePayroll(ctx context.Context, id int, input *NewPayroll) (*Payroll, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	payroll, err := utils.FetchModel[Payroll](ctx, id)
	if err != nil {
		return nil, err
	}

	updated := input.toPayroll()
	updated.ID = payroll.ID
	updated.CreatedAt = payroll.CreatedAt

	today := utils.Today()
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updated.CompleteAndValidate(today); err != nil {
			return err
		}
		if err := checkUniquePeriod(tx, &updated, updated.ID); err != nil {
			return err
		}
		if err := tx.Save(&updated).Error; err != nil {
			return err
		}
		return RecordLedgerEvent(ctx, tx, LedgerReferenceTypePayroll, updated.ID, LedgerEventActionUpdate, updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func DeletePayroll(ctx context.Context, id int) error {
	return utils.DeleteRestricted[Payroll](ctx, id, nil)
}

func GetPayroll(ctx context.Context, id int) (*Payroll, error) {
	return utils.FetchModel[Payroll](ctx, id, "Teacher")
}

func FetchPayrolls(ctx context.Context) ([]*Payroll, error) {
	db := config.GetDB()
	var results []*Payroll
	err := db.WithContext(ctx).Preload("Teacher").
		Order("period_start DESC, id DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
