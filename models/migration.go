package models

import (
	"log"

	"bitbucket.org/montealto-academy/academy_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Teacher{}, &Group{}, &Student{}, &Parent{},
		&ExpenseCategory{}, &Expense{}, &RecurringExpenseTemplate{},
		&EnrollmentType{}, &Enrollment{},
		&Payment{}, &Payroll{},
		&FinancialPeriod{},
		&LedgerEventRecord{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
