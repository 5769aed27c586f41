package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/config"
	"bitbucket.org/montealto-academy/academy_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecurringExpenseTemplate describes a bill that repeats (rent, utilities).
// The materializer loop turns templates into real Expense rows once per
// elapsed period.
type RecurringExpenseTemplate struct {
	ID               int                `gorm:"primary_key" json:"id"`
	Name             string             `gorm:"size:200;not null" json:"name"`
	Description      string             `gorm:"type:text" json:"description"`
	CategoryId       int                `gorm:"index;not null" json:"category_id"`
	Category         *ExpenseCategory   `json:"category,omitempty"`
	VendorName       string             `gorm:"size:200;not null" json:"vendor_name"`
	VendorTaxId      string             `gorm:"size:50" json:"vendor_tax_id"`
	DefaultAmount    decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"default_amount"`
	DefaultTaxAmount decimal.Decimal    `gorm:"type:decimal(10,2);default:0" json:"default_tax_amount"`
	Frequency        RecurringFrequency `gorm:"size:20;not null" json:"frequency"`
	StartDate        DateString         `gorm:"not null" json:"start_date"`
	EndDate          *DateString        `json:"end_date"`
	AutoGenerate     bool               `gorm:"default:true" json:"auto_generate"`
	Active           bool               `gorm:"default:true" json:"active"`
	CreatedAt        time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRecurringExpenseTemplate struct {
	Name             string             `json:"name" binding:"required,max=200"`
	Description      string             `json:"description" binding:"required"`
	CategoryId       int                `json:"category_id" binding:"required"`
	VendorName       string             `json:"vendor_name" binding:"required,max=200"`
	VendorTaxId      string             `json:"vendor_tax_id" binding:"max=50"`
	DefaultAmount    decimal.Decimal    `json:"default_amount"`
	DefaultTaxAmount decimal.Decimal    `json:"default_tax_amount"`
	Frequency        RecurringFrequency `json:"frequency" binding:"required"`
	StartDate        DateString         `json:"start_date" binding:"required"`
	EndDate          *DateString        `json:"end_date"`
	AutoGenerate     *bool              `json:"auto_generate"`
	Active           *bool              `json:"active"`
}

func (input *NewRecurringExpenseTemplate) validate(ctx context.Context) error {
	if !input.Frequency.Valid() {
		return fmt.Errorf("invalid recurring frequency %q", input.Frequency)
	}
	if !input.DefaultAmount.IsPositive() {
		return utils.ErrInvalidAmount
	}
	if input.DefaultTaxAmount.IsNegative() {
		return utils.ErrInvalidAmount
	}
	if input.EndDate != nil && !input.EndDate.IsZero() && input.EndDate.Before(input.StartDate.Time()) {
		return utils.ErrInvalidPeriod
	}
	if err := utils.ValidateResourceId[ExpenseCategory](ctx, input.CategoryId); err != nil {
		return fmt.Errorf("expense category not found")
	}
	return nil
}

// PeriodsDue lists period start dates (start_date stepped by frequency) that
// have elapsed as of today and fall before the template's end date. The
// materializer skips periods that already produced an expense.
func (t *RecurringExpenseTemplate) PeriodsDue(today time.Time) []time.Time {
	var due []time.Time
	cursor := t.StartDate.Time()
	for !cursor.After(today) {
		if t.EndDate != nil && !t.EndDate.IsZero() && t.EndDate.Before(cursor) {
			break
		}
		due = append(due, cursor)
		switch t.Frequency {
		case RecurringFrequencyMonthly:
			cursor = cursor.AddDate(0, 1, 0)
		case RecurringFrequencyQuarterly:
			cursor = cursor.AddDate(0, 3, 0)
		case RecurringFrequencyAnnually:
			cursor = cursor.AddDate(1, 0, 0)
		default:
			return due
		}
	}
	return due
}

func CreateRecurringExpenseTemplate(ctx context.Context, input *NewRecurringExpenseTemplate) (*RecurringExpenseTemplate, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	template := RecurringExpenseTemplate{
		Name:             input.Name,
		Description:      input.Description,
		CategoryId:       input.CategoryId,
		VendorName:       input.VendorName,
		VendorTaxId:      input.VendorTaxId,
		DefaultAmount:    input.DefaultAmount,
		DefaultTaxAmount: input.DefaultTaxAmount,
		Frequency:        input.Frequency,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		AutoGenerate:     utils.DereferencePtr(input.AutoGenerate, true),
		Active:           utils.DereferencePtr(input.Active, true),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func UpdateRecurringExpenseTemplate(ctx context.Context, id int, input *NewRecurringExpenseTemplate) (*RecurringExpenseTemplate, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	template, err := utils.FetchModel[RecurringExpenseTemplate](ctx, id)
	if err != nil {
		return nil, err
	}
	template.Name = input.Name
	template.Description = input.Description
	template.CategoryId = input.CategoryId
	template.VendorName = input.VendorName
	template.VendorTaxId = input.VendorTaxId
	template.DefaultAmount = input.DefaultAmount
	template.DefaultTaxAmount = input.DefaultTaxAmount
	template.Frequency = input.Frequency
	template.StartDate = input.StartDate
	template.EndDate = input.EndDate
	template.AutoGenerate = utils.DereferencePtr(input.AutoGenerate, template.AutoGenerate)
	template.Active = utils.DereferencePtr(input.Active, template.Active)

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(template).Error; err != nil {
		return nil, err
	}
	return template, nil
}

// DeleteRecurringExpenseTemplate keeps already materialized expenses and
// detaches them from the template.
func DeleteRecurringExpenseTemplate(ctx context.Context, id int) error {
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var template RecurringExpenseTemplate
		if err := tx.First(&template, id).Error; err != nil {
			return utils.ErrorRecordNotFound
		}
		if err := tx.Model(&Expense{}).Where("template_id = ?", id).
			Updates(map[string]interface{}{
				"template_id":     nil,
				"template_period": nil,
			}).Error; err != nil {
			return err
		}
		return tx.Delete(&template).Error
	})
}

func GetRecurringExpenseTemplate(ctx context.Context, id int) (*RecurringExpenseTemplate, error) {
	return utils.FetchModel[RecurringExpenseTemplate](ctx, id, "Category")
}

func FetchRecurringExpenseTemplates(ctx context.Context) ([]*RecurringExpenseTemplate, error) {
	db := config.GetDB()
	var results []*RecurringExpenseTemplate
	err := db.WithContext(ctx).Preload("Category").Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ExpenseForPeriod builds the expense row for one template period. The
// template columns are filled here, before the insert, so the
// (template, period) unique index covers the row from its first write.
func (t *RecurringExpenseTemplate) ExpenseForPeriod(period DateString) Expense {
	return Expense{
		Description:        t.Name + " (" + period.String() + ")",
		CategoryId:         t.CategoryId,
		VendorName:         t.VendorName,
		VendorTaxId:        t.VendorTaxId,
		Amount:             t.DefaultAmount,
		TaxAmount:          t.DefaultTaxAmount,
		ExpenseType:        ExpenseTypeRecurring,
		ExpenseDate:        period,
		Status:             ExpenseStatusPending,
		IsRecurring:        true,
		RecurringFrequency: t.Frequency,
		TemplateId:         &t.ID,
		TemplatePeriod:     &period,
	}
}

// MaterializeRecurringExpense creates the expense for one template period.
// The row carries its template columns from the start, so the unique index
// makes retries and concurrent replicas idempotent; a lost race surfaces as
// a duplicate-key error and is treated as already materialized.
func MaterializeRecurringExpense(ctx context.Context, template *RecurringExpenseTemplate, periodStart time.Time) (*Expense, error) {
	period := DateString(periodStart)
	taken, err := utils.ResourceCountWhere[Expense](ctx, "template_id = ? AND template_period = ?", template.ID, period)
	if err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, nil
	}
	if err := utils.ValidateResourceId[ExpenseCategory](ctx, template.CategoryId); err != nil {
		return nil, fmt.Errorf("expense category not found")
	}

	expense := template.ExpenseForPeriod(period)
	if err := insertExpense(ctx, &expense, utils.Today()); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil
		}
		return nil, err
	}
	return &expense, nil
}
