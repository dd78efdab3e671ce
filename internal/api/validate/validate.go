package validate

import (
	"fmt"
	"regexp"
)

var customerIdRx = regexp.MustCompile(`^\d{10}$`)

// CustomerID validates the citizen login identifier: exactly 10 digits.
func CustomerID(v string) error {
	if v == "" {
		return fmt.Errorf("customer ID is required")
	}
	if !customerIdRx.MatchString(v) {
		return fmt.Errorf("customer ID must be a 10-digit number")
	}
	return nil
}

// CitizenPassword validates the citizen password shape: exactly 8 characters.
func CitizenPassword(v string) error {
	if len(v) != 8 {
		return fmt.Errorf("password must be exactly 8 characters")
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// Language restricts the display language to the supported set.
func Language(v string) error {
	switch v {
	case "en", "hi", "te":
		return nil
	}
	return fmt.Errorf("unsupported language %q", v)
}

// DisplayScale bounds the dashboard font scaling percentage.
func DisplayScale(v int) error {
	if v < 75 || v > 150 {
		return fmt.Errorf("display scale must be between 75 and 150")
	}
	return nil
}
