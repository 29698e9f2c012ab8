package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/medikeep/medikeep-api/entities"
)

func validMedicine() entities.Medicine {
	return entities.Medicine{
		Name:            "Doliprane 1000",
		Dosage:          "1000mg",
		Frequency:       "Twice daily",
		TotalQuantity:   30,
		CurrentQuantity: 30,
		ExpiryDate:      time.Now().AddDate(1, 0, 0),
		TimeToTake:      []string{"08:00", "20:00"},
	}
}

func TestValidateInput(t *testing.T) {
	v := New()

	valid := []string{
		"Doliprane 1000",
		"Ibuprofène (400mg)",
		"1 comprimé, matin + soir",
		"D'abord au repas",
	}
	for _, input := range valid {
		if err := v.ValidateInput(input); err != nil {
			t.Errorf("ValidateInput(%q) = %v, want nil", input, err)
		}
	}

	invalid := []string{
		"",
		"   ",
		strings.Repeat("a", 201),
		"<script>alert(1)</script>",
		"javascript:void(0)",
		"../../etc/passwd",
		"${jndi:ldap}",
		"name; DROP TABLE",
	}
	for _, input := range invalid {
		if err := v.ValidateInput(input); err == nil {
			t.Errorf("ValidateInput(%q) = nil, want error", input)
		}
	}
}

func TestValidateTimeOfDay(t *testing.T) {
	v := New()

	for _, value := range []string{"00:00", "08:30", "23:59"} {
		if err := v.ValidateTimeOfDay(value); err != nil {
			t.Errorf("ValidateTimeOfDay(%q) = %v, want nil", value, err)
		}
	}
	for _, value := range []string{"24:00", "8:30", "12:60", "noon", ""} {
		if err := v.ValidateTimeOfDay(value); err == nil {
			t.Errorf("ValidateTimeOfDay(%q) = nil, want error", value)
		}
	}
}

func TestValidateMedicine(t *testing.T) {
	v := New()

	med := validMedicine()
	if err := v.ValidateMedicine(&med); err != nil {
		t.Fatalf("valid medicine rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*entities.Medicine)
	}{
		{"empty name", func(m *entities.Medicine) { m.Name = "" }},
		{"dangerous notes", func(m *entities.Medicine) { m.Notes = "<script>x</script>" }},
		{"zero total quantity", func(m *entities.Medicine) { m.TotalQuantity = 0 }},
		{"negative current quantity", func(m *entities.Medicine) { m.CurrentQuantity = -1 }},
		{"current exceeds total", func(m *entities.Medicine) { m.CurrentQuantity = 31 }},
		{"missing expiry", func(m *entities.Medicine) { m.ExpiryDate = time.Time{} }},
		{"ancient expiry", func(m *entities.Medicine) { m.ExpiryDate = time.Now().AddDate(-11, 0, 0) }},
		{"bad reminder time", func(m *entities.Medicine) { m.TimeToTake = []string{"8am"} }},
	}
	for _, tc := range cases {
		m := validMedicine()
		tc.mutate(&m)
		if err := v.ValidateMedicine(&m); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}

	if err := v.ValidateMedicine(nil); err == nil {
		t.Error("nil medicine should be rejected")
	}

	// Past but recent expiry is accepted: expired medicines are real data
	// the alert passes need to see.
	expired := validMedicine()
	expired.ExpiryDate = time.Now().AddDate(0, -1, 0)
	if err := v.ValidateMedicine(&expired); err != nil {
		t.Errorf("recently expired medicine rejected: %v", err)
	}
}

func TestValidateUser(t *testing.T) {
	v := New()

	user := entities.User{Name: "Jane Doe", Email: "jane@example.com"}
	if err := v.ValidateUser(&user); err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}

	bad := []entities.User{
		{Name: "", Email: "jane@example.com"},
		{Name: "Jane", Email: "not-an-email"},
		{Name: "Jane", Email: "two@@example.com"},
	}
	for _, u := range bad {
		if err := v.ValidateUser(&u); err == nil {
			t.Errorf("ValidateUser(%+v) = nil, want error", u)
		}
	}

	if err := v.ValidateUser(nil); err == nil {
		t.Error("nil user should be rejected")
	}
}
