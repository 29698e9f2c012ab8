// Package validation provides input validation for the medikeep API.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/medikeep/medikeep-api/entities"
	"github.com/medikeep/medikeep-api/interfaces"
)

// Pre-compiled patterns, built once at package initialization.
var (
	// Free-text fields: letters, digits, common accents and safe punctuation.
	inputRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\,\+\(\)/'àâäéèêëïîôöùûüÿçÀÉ]+$`)

	// HH:MM, 24-hour clock with a leading zero.
	timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	// Cheap substring screening against markup and injection attempts in
	// free-text fields that end up rendered by display layers.
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "onload=", "onerror=", "onclick=",
		"eval(", "expression(", "../", "..\\", "${", "$(",
	}
)

const maxFieldLength = 200

// Compile-time check to ensure MedicineValidator implements Validator
var _ interfaces.Validator = (*MedicineValidator)(nil)

// MedicineValidator validates incoming medicine and user records.
type MedicineValidator struct{}

// New creates a validator.
func New() *MedicineValidator {
	return &MedicineValidator{}
}

// ValidateInput checks a free-text field for length, character set and
// dangerous content.
func (v *MedicineValidator) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("cannot be empty")
	}
	if len(input) > maxFieldLength {
		return fmt.Errorf("too long (max %d characters)", maxFieldLength)
	}

	lower := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("contains disallowed content")
		}
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("contains invalid characters")
	}
	return nil
}

// ValidateTimeOfDay checks a wall-clock schedule entry (HH:MM, 24h).
func (v *MedicineValidator) ValidateTimeOfDay(value string) error {
	if !timeOfDayRegex.MatchString(value) {
		return fmt.Errorf("invalid time of day %q, expected HH:MM", value)
	}
	return nil
}

// ValidateMedicine checks a medicine record before it enters the registry.
func (v *MedicineValidator) ValidateMedicine(m *entities.Medicine) error {
	if m == nil {
		return fmt.Errorf("medicine is nil")
	}

	if err := v.ValidateInput(m.Name); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}
	if err := v.ValidateInput(m.Dosage); err != nil {
		return fmt.Errorf("invalid dosage: %w", err)
	}
	if err := v.ValidateInput(m.Frequency); err != nil {
		return fmt.Errorf("invalid frequency: %w", err)
	}
	if m.Notes != "" {
		if err := v.ValidateInput(m.Notes); err != nil {
			return fmt.Errorf("invalid notes: %w", err)
		}
	}

	if m.TotalQuantity <= 0 {
		return fmt.Errorf("total quantity must be positive, got %v", m.TotalQuantity)
	}
	if m.CurrentQuantity < 0 || m.CurrentQuantity > m.TotalQuantity {
		return fmt.Errorf("current quantity must be between 0 and %v, got %v",
			m.TotalQuantity, m.CurrentQuantity)
	}

	if m.ExpiryDate.IsZero() {
		return fmt.Errorf("expiry date is required")
	}
	// Generously old expiry dates are almost certainly data-entry mistakes.
	if m.ExpiryDate.Before(time.Now().AddDate(-10, 0, 0)) {
		return fmt.Errorf("expiry date %s is implausibly old", m.ExpiryDate.Format("2006-01-02"))
	}

	for _, timeOfDay := range m.TimeToTake {
		if err := v.ValidateTimeOfDay(timeOfDay); err != nil {
			return err
		}
	}

	return nil
}

// ValidateUser checks a household member record.
func (v *MedicineValidator) ValidateUser(u *entities.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}
	if err := v.ValidateInput(u.Name); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}
	if !emailRegex.MatchString(u.Email) {
		return fmt.Errorf("invalid email %q", u.Email)
	}
	return nil
}
