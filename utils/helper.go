package utils

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

// Students and parents are Spanish residents; phone numbers without an
// explicit country prefix parse against this region.
var CountryCode = "ES"

var validate = validator.New()

func IsValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

func ValidatePhoneNumber(phoneNumber, countryCode string) error {
	p, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return err
	}
	if !libphonenumber.IsValidNumber(p) {
		return fmt.Errorf("phone number is not valid")
	}
	return nil
}

func GetTypeName[T any]() string {
	var v T
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

func DereferencePtr[T any](ptr *T, fallback T) T {
	if ptr == nil {
		return fallback
	}
	return *ptr
}

// Round2 rounds to currency minor units, half up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Today truncates the wall clock to a UTC calendar date. All validators and
// overdue calculations take this as an explicit parameter.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole days from a to b, never negative.
func DaysBetween(a, b time.Time) int {
	days := int(b.Sub(a).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
