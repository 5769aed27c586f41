package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

type ExpenseStatus string

const (
	ExpenseStatusPending   ExpenseStatus = "pending"
	ExpenseStatusApproved  ExpenseStatus = "approved"
	ExpenseStatusPaid      ExpenseStatus = "paid"
	ExpenseStatusRejected  ExpenseStatus = "rejected"
	ExpenseStatusCancelled ExpenseStatus = "cancelled"
)

func (s ExpenseStatus) Valid() bool {
	switch s {
	case ExpenseStatusPending, ExpenseStatusApproved, ExpenseStatusPaid,
		ExpenseStatusRejected, ExpenseStatusCancelled:
		return true
	}
	return false
}

type ExpenseType string

const (
	ExpenseTypeRecurring     ExpenseType = "recurring"
	ExpenseTypeOneTime       ExpenseType = "one_time"
	ExpenseTypeReimbursement ExpenseType = "reimbursement"
)

func (t ExpenseType) Valid() bool {
	switch t {
	case ExpenseTypeRecurring, ExpenseTypeOneTime, ExpenseTypeReimbursement:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "cash"
	PaymentMethodTransfer    PaymentMethod = "transfer"
	PaymentMethodCreditCard  PaymentMethod = "credit_card"
	PaymentMethodDebitCard   PaymentMethod = "debit_card"
	PaymentMethodCheck       PaymentMethod = "check"
	PaymentMethodDirectDebit PaymentMethod = "direct_debit"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCreditCard,
		PaymentMethodDebitCard, PaymentMethodCheck, PaymentMethodDirectDebit:
		return true
	}
	return false
}

type CategoryType string

const (
	CategoryTypeOperational    CategoryType = "operational"
	CategoryTypeAdministrative CategoryType = "administrative"
	CategoryTypeMarketing      CategoryType = "marketing"
	CategoryTypeInfrastructure CategoryType = "infrastructure"
	CategoryTypeLegal          CategoryType = "legal"
	CategoryTypeOther          CategoryType = "other"
)

func (t CategoryType) Valid() bool {
	switch t {
	case CategoryTypeOperational, CategoryTypeAdministrative, CategoryTypeMarketing,
		CategoryTypeInfrastructure, CategoryTypeLegal, CategoryTypeOther:
		return true
	}
	return false
}

type RecurringFrequency string

const (
	RecurringFrequencyMonthly   RecurringFrequency = "monthly"
	RecurringFrequencyQuarterly RecurringFrequency = "quarterly"
	RecurringFrequencyAnnually  RecurringFrequency = "annually"
)

func (f RecurringFrequency) Valid() bool {
	switch f {
	case RecurringFrequencyMonthly, RecurringFrequencyQuarterly, RecurringFrequencyAnnually:
		return true
	}
	return false
}

type PeriodType string

const (
	PeriodTypeMonthly   PeriodType = "monthly"
	PeriodTypeQuarterly PeriodType = "quarterly"
	PeriodTypeAnnual    PeriodType = "annual"
)

func (t PeriodType) Valid() bool {
	switch t {
	case PeriodTypeMonthly, PeriodTypeQuarterly, PeriodTypeAnnual:
		return true
	}
	return false
}

type ScheduleType string

const (
	ScheduleTypeFullTime ScheduleType = "full_time"
	ScheduleTypePartTime ScheduleType = "part_time"
)

func (t ScheduleType) Valid() bool {
	return t == ScheduleTypeFullTime || t == ScheduleTypePartTime
}

type EnrollmentStatus string

const (
	EnrollmentStatusPending   EnrollmentStatus = "pending"
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
	EnrollmentStatusSuspended EnrollmentStatus = "suspended"
)

func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusPending, EnrollmentStatusActive, EnrollmentStatusCompleted,
		EnrollmentStatusCancelled, EnrollmentStatusSuspended:
		return true
	}
	return false
}

type EnrollmentTypeName string

const (
	EnrollmentTypeAdults          EnrollmentTypeName = "adults"
	EnrollmentTypeSpecial         EnrollmentTypeName = "special"
	EnrollmentTypeLanguagesTicket EnrollmentTypeName = "languages_ticket"
	EnrollmentTypeMonthly         EnrollmentTypeName = "monthly"
	EnrollmentTypeHalfMonth       EnrollmentTypeName = "half_month"
	EnrollmentTypeQuarterly       EnrollmentTypeName = "quarterly"
)

func (n EnrollmentTypeName) Valid() bool {
	switch n {
	case EnrollmentTypeAdults, EnrollmentTypeSpecial, EnrollmentTypeLanguagesTicket,
		EnrollmentTypeMonthly, EnrollmentTypeHalfMonth, EnrollmentTypeQuarterly:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed,
		PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

type PaymentType string

const (
	PaymentTypeEnrollment   PaymentType = "enrollment"
	PaymentTypeMonthly      PaymentType = "monthly"
	PaymentTypeMaterials    PaymentType = "materials"
	PaymentTypeRegistration PaymentType = "registration"
	PaymentTypeExam         PaymentType = "exam"
	PaymentTypeOther        PaymentType = "other"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeEnrollment, PaymentTypeMonthly, PaymentTypeMaterials,
		PaymentTypeRegistration, PaymentTypeExam, PaymentTypeOther:
		return true
	}
	return false
}

type PayrollStatus string

const (
	PayrollStatusPending   PayrollStatus = "pending"
	PayrollStatusPaid      PayrollStatus = "paid"
	PayrollStatusCancelled PayrollStatus = "cancelled"
)

func (s PayrollStatus) Valid() bool {
	switch s {
	case PayrollStatusPending, PayrollStatusPaid, PayrollStatusCancelled:
		return true
	}
	return false
}

type PayrollType string

const (
	PayrollTypeMonthlySalary PayrollType = "monthly_salary"
	PayrollTypeHourlyPayment PayrollType = "hourly_payment"
	PayrollTypeBonus         PayrollType = "bonus"
	PayrollTypeCommission    PayrollType = "commission"
	PayrollTypeReimbursement PayrollType = "reimbursement"
	PayrollTypeOther         PayrollType = "other"
)

func (t PayrollType) Valid() bool {
	switch t {
	case PayrollTypeMonthlySalary, PayrollTypeHourlyPayment, PayrollTypeBonus,
		PayrollTypeCommission, PayrollTypeReimbursement, PayrollTypeOther:
		return true
	}
	return false
}

type LedgerEventAction string

const (
	LedgerEventActionCreate LedgerEventAction = "CREATE"
	LedgerEventActionUpdate LedgerEventAction = "UPDATE"
)

type LedgerReferenceType string

const (
	LedgerReferenceTypeExpense    LedgerReferenceType = "Expense"
	LedgerReferenceTypeEnrollment LedgerReferenceType = "Enrollment"
	LedgerReferenceTypePayment    LedgerReferenceType = "Payment"
	LedgerReferenceTypePayroll    LedgerReferenceType = "Payroll"
	LedgerReferenceTypePeriod     LedgerReferenceType = "FinancialPeriod"
)

// DateString is a calendar date (no clock). JSON form is "2006-01-02"; the DB
// column is DATE.
type DateString time.Time

const dateStringLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) DateString {
	return DateString(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func ParseDate(s string) (DateString, error) {
	t, err := time.Parse(dateStringLayout, s)
	if err != nil {
		return DateString{}, errors.New("error parsing date, expected yyyy-mm-dd")
	}
	return DateString(t), nil
}

func (d DateString) Time() time.Time {
	return time.Time(d)
}

func (d DateString) IsZero() bool {
	return time.Time(d).IsZero()
}

func (d DateString) String() string {
	return time.Time(d).Format(dateStringLayout)
}

func (d DateString) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *DateString) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = DateString{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return errors.New("date must be a string formatted yyyy-mm-dd")
	}
	t, err := time.Parse(dateStringLayout, s[1:len(s)-1])
	if err != nil {
		return errors.New("error parsing date, expected yyyy-mm-dd")
	}
	*d = DateString(t)
	return nil
}

func (d DateString) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return time.Time(d), nil
}

func (d *DateString) Scan(value interface{}) error {
	if value == nil {
		*d = DateString{}
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*d = DateString(v)
		return nil
	case []byte:
		t, err := time.Parse(dateStringLayout, string(v))
		if err != nil {
			return err
		}
		*d = DateString(t)
		return nil
	case string:
		t, err := time.Parse(dateStringLayout, v)
		if err != nil {
			return err
		}
		*d = DateString(t)
		return nil
	}
	return fmt.Errorf("cannot scan %T into DateString", value)
}

// GormDataType tells gorm to use a DATE column.
func (DateString) GormDataType() string {
	return "date"
}

// Before compares calendar dates.
func (d DateString) Before(other time.Time) bool {
	return time.Time(d).Before(other)
}

func (d DateString) After(other time.Time) bool {
	return time.Time(d).After(other)
}
