package field

import (
	"fmt"
	"strings"
	"time"
)

// DefaultMinAge is the minimum account-holder age applied when a regulation
// does not override it.
const DefaultMinAge = 18

// Date layouts accepted for birthdates and signup dates. The first layout
// that parses wins, so day-first is preferred for ambiguous values.
var (
	birthdateLayouts  = []string{"02/01/2006", "01/02/2006"}
	signupDateLayouts = []string{"02/01/2006", "01/02/2006", "2006-01-02", "01-02-2006", "02-01-2006"}
)

// Birthdate validates a birthdate string: it must parse against one of the
// known layouts, must not be in the future, and the computed age must be at
// least minAge. Pass minAge <= 0 to use DefaultMinAge.
func Birthdate(value string, minAge int) string {
	return birthdateAt(value, minAge, time.Now())
}

func birthdateAt(value string, minAge int, now time.Time) string {
	if value == "" {
		return "Birthdate is empty"
	}

	if minAge <= 0 {
		minAge = DefaultMinAge
	}

	s := strings.TrimSpace(value)

	for _, layout := range birthdateLayouts {
		birthdate, err := time.Parse(layout, s)
		if err != nil {
			continue
		}

		if birthdate.After(now) {
			return "Birthdate is in the future"
		}

		age := ageAt(birthdate, now)
		if age < minAge {
			return fmt.Sprintf("Account holder is underage (age: %d)", age)
		}

		return ""
	}

	return "Invalid birthdate format"
}

// ageAt computes the calendar-accurate age at the reference time: the year
// difference, minus one if the birthday has not yet occurred this year.
func ageAt(birthdate, now time.Time) int {
	age := now.Year() - birthdate.Year()
	if now.Month() < birthdate.Month() ||
		(now.Month() == birthdate.Month() && now.Day() < birthdate.Day()) {
		age--
	}
	return age
}

// SignupDate validates a signup date. Empty is acceptable; a parseable date
// is rejected only when it lies in the future.
func SignupDate(value string) string {
	return signupDateAt(value, time.Now())
}

func signupDateAt(value string, now time.Time) string {
	if value == "" {
		return ""
	}

	s := strings.TrimSpace(value)

	for _, layout := range signupDateLayouts {
		signup, err := time.Parse(layout, s)
		if err != nil {
			continue
		}

		if signup.After(now) {
			return "Signup date cannot be in the future"
		}

		return ""
	}

	return fmt.Sprintf("Invalid signup date format: '%s'", s)
}
