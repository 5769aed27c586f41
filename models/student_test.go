package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/models"
)

func TestStudentAge(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		birth *models.DateString
		want  int
	}{
		{"birthday already passed", datePtr(2010, 3, 1), 14},
		{"birthday today", datePtr(2010, 6, 15), 14},
		{"birthday still ahead", datePtr(2010, 9, 1), 13},
		{"unknown birth date", nil, -1},
		{"born this year", datePtr(2024, 1, 10), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := models.Student{BirthDate: tc.birth}
			if got := s.Age(today); got != tc.want {
				t.Errorf("Age = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestStudentRecordFields(t *testing.T) {
	s := models.Student{
		FirstName:  "Pablo",
		LastName:   "Ruiz",
		Email:      "pablo@familia.test",
		School:     "CEIP San Isidro",
		Allergies:  "peanuts",
		GdprSigned: true,
	}
	raw, err := json.Marshal(&s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for key, want := range map[string]interface{}{
		"email":       "pablo@familia.test",
		"school":      "CEIP San Isidro",
		"allergies":   "peanuts",
		"gdpr_signed": true,
	} {
		if got, ok := doc[key]; !ok || got != want {
			t.Errorf("%s = %v, want %v", key, got, want)
		}
	}
}

func TestStudentWithdraw(t *testing.T) {
	s := models.Student{FirstName: "Lucia", LastName: "Mendez", Active: true}
	s.Withdraw(models.NewDate(2024, 6, 30), "moved abroad")

	if s.Active {
		t.Error("student still active after withdrawal")
	}
	if s.WithdrawalDate == nil || s.WithdrawalDate.String() != "2024-06-30" {
		t.Errorf("withdrawal date = %v, want 2024-06-30", s.WithdrawalDate)
	}
	if s.WithdrawalReason != "moved abroad" {
		t.Errorf("withdrawal reason = %q", s.WithdrawalReason)
	}
	if got := s.FullName(); got != "Lucia Mendez" {
		t.Errorf("FullName = %q", got)
	}
}
