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

type Expense struct {
	ID                 int                `gorm:"primary_key" json:"id"`
	ExpenseNumber      string             `gorm:"size:20;not null;uniqueIndex" json:"expense_number"`
	SequenceYear       int                `gorm:"index:idx_expense_seq" json:"sequence_year"`
	SequenceNo         int64              `gorm:"index:idx_expense_seq" json:"sequence_no"`
	Description        string             `gorm:"size:300;not null" json:"description"`
	CategoryId         int                `gorm:"index;not null" json:"category_id"`
	Category           *ExpenseCategory   `json:"category,omitempty"`
	VendorName         string             `gorm:"size:200;index" json:"vendor_name"`
	VendorTaxId        string             `gorm:"size:50" json:"vendor_tax_id"`
	Amount             decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"amount"`
	TaxAmount          decimal.Decimal    `gorm:"type:decimal(10,2);default:0" json:"tax_amount"`
	TotalAmount        decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Currency           string             `gorm:"size:3;default:EUR" json:"currency"`
	ExpenseType        ExpenseType        `gorm:"size:15;default:one_time" json:"expense_type"`
	ExpenseDate        DateString         `gorm:"not null;index" json:"expense_date"`
	DueDate            *DateString        `gorm:"index" json:"due_date"`
	PaymentDate        *DateString        `gorm:"index" json:"payment_date"`
	Status             ExpenseStatus      `gorm:"size:15;default:pending;index" json:"status"`
	PaymentMethod      PaymentMethod      `gorm:"size:15" json:"payment_method"`
	InvoiceNumber      string             `gorm:"size:100" json:"invoice_number"`
	ReceiptUrl         string             `gorm:"size:500" json:"receipt_url"`
	ApprovedById       *int               `json:"approved_by_id"`
	ApprovedBy         *Teacher           `gorm:"foreignKey:ApprovedById" json:"approved_by,omitempty"`
	ApprovalDate       *DateString        `json:"approval_date"`
	Notes              string             `gorm:"type:text" json:"notes"`
	IsRecurring        bool               `gorm:"default:false" json:"is_recurring"`
	RecurringFrequency RecurringFrequency `gorm:"size:20" json:"recurring_frequency"`
	TemplateId         *int               `gorm:"index:idx_expense_template_period,unique" json:"template_id"`
	TemplatePeriod     *DateString        `gorm:"index:idx_expense_template_period,unique" json:"template_period"`
	CreatedAt          time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewExpense struct {
	ExpenseNumber      string             `json:"expense_number"`
	Description        string             `json:"description" binding:"required,max=300"`
	CategoryId         int                `json:"category_id" binding:"required"`
	VendorName         string             `json:"vendor_name" binding:"max=200"`
	VendorTaxId        string             `json:"vendor_tax_id" binding:"max=50"`
	Amount             decimal.Decimal    `json:"amount"`
	TaxAmount          decimal.Decimal    `json:"tax_amount"`
	TotalAmount        decimal.Decimal    `json:"total_amount"`
	Currency           string             `json:"currency"`
	ExpenseType        ExpenseType        `json:"expense_type"`
	ExpenseDate        DateString         `json:"expense_date" binding:"required"`
	DueDate            *DateString        `json:"due_date"`
	PaymentDate        *DateString        `json:"payment_date"`
	Status             ExpenseStatus      `json:"status"`
	PaymentMethod      PaymentMethod      `json:"payment_method"`
	InvoiceNumber      string             `json:"invoice_number" binding:"max=100"`
	ReceiptUrl         string             `json:"receipt_url" binding:"omitempty,url"`
	ApprovedById       *int               `json:"approved_by_id"`
	ApprovalDate       *DateString        `json:"approval_date"`
	Notes              string             `json:"notes"`
	IsRecurring        bool               `json:"is_recurring"`
	RecurringFrequency RecurringFrequency `json:"recurring_frequency"`
}

// FormatExpenseNumber renders the human-readable identifier: EXP, the 4-digit
// year, then the zero-padded yearly sequence. Fixed width keeps string order
// equal to numeric order.
func FormatExpenseNumber(year int, seq int64) string {
	return fmt.Sprintf("EXP%d%04d", year, seq)
}

// CompleteAndValidate fills derived fields that were not supplied and checks
// the record's own invariants. Pure over (fields, today); DB-dependent checks
// live in NewExpense.validate.
func (e *Expense) CompleteAndValidate(today time.Time) error {
	if e.Status == "" {
		e.Status = ExpenseStatusPending
	}
	if !e.Status.Valid() {
		return fmt.Errorf("invalid expense status %q", e.Status)
	}
	if e.ExpenseType == "" {
		e.ExpenseType = ExpenseTypeOneTime
	}
	if !e.ExpenseType.Valid() {
		return fmt.Errorf("invalid expense type %q", e.ExpenseType)
	}
	if e.PaymentMethod != "" && !e.PaymentMethod.Valid() {
		return fmt.Errorf("invalid payment method %q", e.PaymentMethod)
	}
	if e.RecurringFrequency != "" && !e.RecurringFrequency.Valid() {
		return fmt.Errorf("invalid recurring frequency %q", e.RecurringFrequency)
	}
	if e.Currency == "" {
		e.Currency = "EUR"
	}

	if !e.Amount.IsPositive() {
		return utils.ErrInvalidAmount
	}
	if e.TaxAmount.IsNegative() {
		return utils.ErrInvalidAmount
	}

	// status implies its date; default to today when absent
	if e.Status == ExpenseStatusPaid && e.PaymentDate == nil {
		d := DateString(today)
		e.PaymentDate = &d
	}
	if e.Status == ExpenseStatusApproved && e.ApprovalDate == nil {
		d := DateString(today)
		e.ApprovalDate = &d
	}

	// total derives from amount + tax unless explicitly supplied
	if e.TotalAmount.IsZero() {
		e.TotalAmount = utils.Round2(e.Amount.Add(e.TaxAmount))
	}
	if !e.TotalAmount.IsPositive() {
		return utils.ErrInvalidAmount
	}
	return nil
}

// IsOverdue reports whether an approved expense has slipped past its due date.
// Paid, rejected and cancelled expenses are never overdue.
func (e *Expense) IsOverdue(today time.Time) bool {
	return e.Status == ExpenseStatusApproved &&
		e.DueDate != nil &&
		!e.DueDate.IsZero() &&
		e.DueDate.Before(today)
}

func (e *Expense) DaysOverdue(today time.Time) int {
	if !e.IsOverdue(today) {
		return 0
	}
	return utils.DaysBetween(e.DueDate.Time(), today)
}

// validate runs the reference checks that need the DB. (id = 0 for create)
func (input *NewExpense) validate(ctx context.Context, _ int) error {
	if err := utils.ValidateResourceId[ExpenseCategory](ctx, input.CategoryId); err != nil {
		return fmt.Errorf("expense category not found")
	}
	if input.ApprovedById != nil && *input.ApprovedById > 0 {
		if err := utils.ValidateResourceId[Teacher](ctx, *input.ApprovedById); err != nil {
			return fmt.Errorf("approving teacher not found")
		}
	}
	return nil
}

func (input *NewExpense) toExpense() Expense {
	return Expense{
		ExpenseNumber:      input.ExpenseNumber,
		Description:        input.Description,
		CategoryId:         input.CategoryId,
		VendorName:         input.VendorName,
		VendorTaxId:        input.VendorTaxId,
		Amount:             input.Amount,
		TaxAmount:          input.TaxAmount,
		TotalAmount:        input.TotalAmount,
		Currency:           input.Currency,
		ExpenseType:        input.ExpenseType,
		ExpenseDate:        input.ExpenseDate,
		DueDate:            input.DueDate,
		PaymentDate:        input.PaymentDate,
		Status:             input.Status,
		PaymentMethod:      input.PaymentMethod,
		InvoiceNumber:      input.InvoiceNumber,
		ReceiptUrl:         input.ReceiptUrl,
		ApprovedById:       input.ApprovedById,
		ApprovalDate:       input.ApprovalDate,
		Notes:              input.Notes,
		IsRecurring:        input.IsRecurring,
		RecurringFrequency: input.RecurringFrequency,
	}
}

func CreateExpense(ctx context.Context, input *NewExpense) (*Expense, error) {
	return createExpenseAt(ctx, input, utils.Today())
}

// createExpenseAt exists so the recurring materializer and tests can pin the
// clock; validation and derivation run before the insert, in one transaction.
func createExpenseAt(ctx context.Context, input *NewExpense, today time.Time) (*Expense, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	expense := input.toExpense()
	if err := insertExpense(ctx, &expense, today); err != nil {
		return nil, err
	}
	return &expense, nil
}

// insertExpense allocates the number, runs derivation and writes the row and
// its ledger event in one transaction. Callers that pre-fill template columns
// get the (template, period) unique index enforced on the insert itself.
func insertExpense(ctx context.Context, expense *Expense, today time.Time) error {
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if expense.ExpenseNumber == "" {
			year := today.Year()
			seq, err := utils.NextYearSequence[Expense](ctx, year)
			if err != nil {
				return err
			}
			expense.SequenceYear = year
			expense.SequenceNo = seq
			expense.ExpenseNumber = FormatExpenseNumber(year, seq)
		} else {
			// caller-supplied identifiers are used verbatim but must be free
			if err := utils.ValidateUnique[Expense](ctx, "expense_number", expense.ExpenseNumber, 0); err != nil {
				return utils.ErrDuplicateExpenseNumber
			}
		}

		if err := expense.CompleteAndValidate(today); err != nil {
			return err
		}

		if err := tx.Create(expense).Error; err != nil {
			return err
		}
		return RecordLedgerEvent(ctx, tx, LedgerReferenceTypeExpense, expense.ID, LedgerEventActionCreate, expense)
	})
}

// UpdateExpense replaces the record wholesale; validators re-run on every
// write, not only at creation. The expense number is immutable here.
func UpdateExpense(ctx context.Context, id int, input *NewExpense) (*Expense, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	expense, err := utils.FetchModel[Expense](ctx, id)
	if err != nil {
		return nil, err
	}

	updated := input.toExpense()
	updated.ID = expense.ID
	updated.ExpenseNumber = expense.ExpenseNumber
	updated.SequenceYear = expense.SequenceYear
	updated.SequenceNo = expense.SequenceNo
	updated.TemplateId = expense.TemplateId
	updated.TemplatePeriod = expense.TemplatePeriod
	updated.CreatedAt = expense.CreatedAt

	today := utils.Today()
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updated.CompleteAndValidate(today); err != nil {
			return err
		}
		if err := tx.Save(&updated).Error; err != nil {
			return err
		}
		return RecordLedgerEvent(ctx, tx, LedgerReferenceTypeExpense, updated.ID, LedgerEventActionUpdate, updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func DeleteExpense(ctx context.Context, id int) error {
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var expense Expense
		if err := tx.First(&expense, id).Error; err != nil {
			return utils.ErrorRecordNotFound
		}
		return tx.Delete(&expense).Error
	})
}

func GetExpense(ctx context.Context, id int) (*Expense, error) {
	return utils.FetchModel[Expense](ctx, id, "Category", "ApprovedBy")
}

func FetchExpenses(ctx context.Context) ([]*Expense, error) {
	db := config.GetDB()
	var results []*Expense
	err := db.WithContext(ctx).Preload("Category").Order("expense_date DESC, id DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func FetchOverdueExpenses(ctx context.Context, today time.Time) ([]*Expense, error) {
	db := config.GetDB()
	var results []*Expense
	err := db.WithContext(ctx).Preload("Category").
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", ExpenseStatusApproved, DateString(today)).
		Order("due_date").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
