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

type FinancialPeriod struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	PeriodType    PeriodType      `gorm:"size:10;not null;index:idx_period_bounds,unique" json:"period_type"`
	StartDate     DateString      `gorm:"not null;index:idx_period_bounds,unique" json:"start_date"`
	EndDate       DateString      `gorm:"not null;index:idx_period_bounds,unique" json:"end_date"`
	TotalIncome   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_income"`
	TotalExpenses decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_expenses"`
	NetProfit     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"net_profit"`
	IsClosed      bool            `gorm:"default:false" json:"is_closed"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewFinancialPeriod struct {
	Name       string     `json:"name" binding:"required,max=100"`
	PeriodType PeriodType `json:"period_type" binding:"required"`
	StartDate  DateString `json:"start_date" binding:"required"`
	EndDate    DateString `json:"end_date" binding:"required"`
	IsClosed   *bool      `json:"is_closed"`
	Notes      string     `json:"notes"`
}

// PeriodFinancials is the triple every report variant returns.
type PeriodFinancials struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// SumCompletedPayments totals income: completed payments whose payment date
// falls inside the closed interval [start, end]. Zero when none.
func SumCompletedPayments(ctx context.Context, start, end DateString) (decimal.Decimal, error) {
	db := config.GetDB()
	var total decimal.Decimal
	err := db.WithContext(ctx).Model(&Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("payment_status = ? AND payment_date BETWEEN ? AND ?", PaymentStatusCompleted, start, end).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// SumPaidExpenses totals outgoings: paid expenses by payment date, same
// interval semantics.
func SumPaidExpenses(ctx context.Context, start, end DateString) (decimal.Decimal, error) {
	db := config.GetDB()
	var total decimal.Decimal
	err := db.WithContext(ctx).Model(&Expense{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status = ? AND payment_date BETWEEN ? AND ?", ExpenseStatusPaid, start, end).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// CalculateFinancials recomputes the period's totals from the payment and
// expense tables, persists them on the period row and returns the triple.
// Reading twice over unchanged data yields identical totals.
func (p *FinancialPeriod) CalculateFinancials(ctx context.Context) (*PeriodFinancials, error) {
	income, err := SumCompletedPayments(ctx, p.StartDate, p.EndDate)
	if err != nil {
		return nil, err
	}
	expenses, err := SumPaidExpenses(ctx, p.StartDate, p.EndDate)
	if err != nil {
		return nil, err
	}

	p.TotalIncome = income
	p.TotalExpenses = expenses
	p.NetProfit = income.Sub(expenses)

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&FinancialPeriod{}).Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"total_income":   p.TotalIncome,
				"total_expenses": p.TotalExpenses,
				"net_profit":     p.NetProfit,
			}).Error; err != nil {
			return err
		}
		return RecordLedgerEvent(ctx, tx, LedgerReferenceTypePeriod, p.ID, LedgerEventActionUpdate, p)
	})
	if err != nil {
		return nil, err
	}

	return &PeriodFinancials{
		Income:   p.TotalIncome,
		Expenses: p.TotalExpenses,
		Profit:   p.NetProfit,
	}, nil
}

func (input *NewFinancialPeriod) validate(ctx context.Context, exceptId int) error {
	if !input.PeriodType.Valid() {
		return fmt.Errorf("invalid period type %q", input.PeriodType)
	}
	if input.StartDate.After(input.EndDate.Time()) {
		return utils.ErrInvalidPeriod
	}
	var count int64
	q := config.GetDB().WithContext(ctx).Model(&FinancialPeriod{}).
		Where("period_type = ? AND start_date = ? AND end_date = ?",
			input.PeriodType, input.StartDate, input.EndDate)
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

func CreateFinancialPeriod(ctx context.Context, input *NewFinancialPeriod) (*FinancialPeriod, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	period := FinancialPeriod{
		Name:       input.Name,
		PeriodType: input.PeriodType,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		IsClosed:   utils.DereferencePtr(input.IsClosed, false),
		Notes:      input.Notes,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&period).Error; err != nil {
		return nil, err
	}
	return &period, nil
}

func UpdateFinancialPeriod(ctx context.Context, id int, input *NewFinancialPeriod) (*FinancialPeriod, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}
	period, err := utils.FetchModel[FinancialPeriod](ctx, id)
	if err != nil {
		return nil, err
	}
	period.Name = input.Name
	period.PeriodType = input.PeriodType
	period.StartDate = input.StartDate
	period.EndDate = input.EndDate
	period.IsClosed = utils.DereferencePtr(input.IsClosed, period.IsClosed)
	period.Notes = input.Notes

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(period).Error; err != nil {
		return nil, err
	}
	return period, nil
}

func DeleteFinancialPeriod(ctx context.Context, id int) error {
	return utils.DeleteRestricted[FinancialPeriod](ctx, id, nil)
}

func GetFinancialPeriod(ctx context.Context, id int) (*FinancialPeriod, error) {
	return utils.FetchModel[FinancialPeriod](ctx, id)
}

func FetchFinancialPeriods(ctx context.Context) ([]*FinancialPeriod, error) {
	return utils.FetchModelsWhere[FinancialPeriod](ctx, "start_date DESC", "1 = 1")
}
