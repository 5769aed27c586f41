package utils

import "errors"

var (
	ErrorRecordNotFound = errors.New("record not found")

	// ErrInvalidAmount covers any non-positive monetary input.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInvalidPeriod is returned when a period start falls after its end.
	ErrInvalidPeriod = errors.New("period start date must be before period end date")

	// ErrInvalidPaymentDate rejects completed payments dated in the future.
	ErrInvalidPaymentDate = errors.New("payment date cannot be in the future for completed payments")

	ErrDuplicateExpenseNumber = errors.New("duplicate expense number")
	ErrDuplicateConstraint    = errors.New("duplicate record")

	// ErrReferenceProtected blocks deletion of records still referenced
	// by financial dependents.
	ErrReferenceProtected = errors.New("record is referenced by financial records")
)

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
