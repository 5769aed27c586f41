package utils_test

import (
	"testing"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/utils"
	"github.com/shopspring/decimal"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"100.005", "100.01"},
		{"100.004", "100"},
		{"99.999", "100"},
		{"50", "50"},
		{"-0.005", "-0.01"},
	}
	for _, tc := range cases {
		in, _ := decimal.NewFromString(tc.in)
		want, _ := decimal.NewFromString(tc.want)
		if got := utils.Round2(in); !got.Equal(want) {
			t.Errorf("Round2(%s) = %s, want %s", tc.in, got, want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
	}
	if got := utils.DaysBetween(day(10), day(15)); got != 5 {
		t.Errorf("DaysBetween = %d, want 5", got)
	}
	if got := utils.DaysBetween(day(15), day(15)); got != 0 {
		t.Errorf("same day = %d, want 0", got)
	}
	if got := utils.DaysBetween(day(20), day(15)); got != 0 {
		t.Errorf("inverted range = %d, want 0", got)
	}
}

func TestDereferencePtr(t *testing.T) {
	v := true
	if !utils.DereferencePtr(&v, false) {
		t.Error("set pointer should win over fallback")
	}
	if utils.DereferencePtr[bool](nil, false) {
		t.Error("nil pointer should fall back")
	}
}
