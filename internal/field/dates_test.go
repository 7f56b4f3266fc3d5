package field

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBirthdateAt_AgeBoundary(t *testing.T) {
	// Born 15/06/2006: still 17 on 2024-06-14, turns 18 on 2024-06-15.
	if got := birthdateAt("15/06/2006", 18, date(2024, time.June, 14)); got != "Account holder is underage (age: 17)" {
		t.Errorf("day before 18th birthday: got %q", got)
	}
	if got := birthdateAt("15/06/2006", 18, date(2024, time.June, 15)); got != "" {
		t.Errorf("on 18th birthday: got %q, want valid", got)
	}
	if got := birthdateAt("15/06/2006", 18, date(2024, time.June, 16)); got != "" {
		t.Errorf("day after 18th birthday: got %q, want valid", got)
	}
}

func TestBirthdateAt(t *testing.T) {
	now := date(2024, time.June, 15)

	tests := []struct {
		name    string
		value   string
		minAge  int
		wantMsg string
	}{
		{"valid day first", "01/12/1990", 18, ""},
		{"valid month first fallback", "12/25/1990", 18, ""},
		{"empty", "", 18, "Birthdate is empty"},
		{"future", "01/01/2030", 18, "Birthdate is in the future"},
		{"unparseable", "1990-12-01", 18, "Invalid birthdate format"},
		{"garbage", "not a date", 18, "Invalid birthdate format"},
		{"min age 16 passes at 17", "15/06/2007", 16, ""},
		{"default applied for zero", "15/06/2007", 0, "Account holder is underage (age: 17)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := birthdateAt(tt.value, tt.minAge, now); got != tt.wantMsg {
				t.Errorf("birthdateAt(%q, %d) = %q, want %q", tt.value, tt.minAge, got, tt.wantMsg)
			}
		})
	}
}

func TestAgeAt(t *testing.T) {
	birth := date(2000, time.March, 10)

	tests := []struct {
		now  time.Time
		want int
	}{
		{date(2024, time.March, 9), 23},
		{date(2024, time.March, 10), 24},
		{date(2024, time.February, 28), 23},
		{date(2024, time.December, 31), 24},
	}

	for _, tt := range tests {
		if got := ageAt(birth, tt.now); got != tt.want {
			t.Errorf("ageAt(%s, %s) = %d, want %d", birth.Format("2006-01-02"), tt.now.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestSignupDateAt(t *testing.T) {
	now := date(2024, time.June, 15)

	tests := []struct {
		name    string
		value   string
		wantMsg string
	}{
		{"empty is fine", "", ""},
		{"slash day first", "14/06/2024", ""},
		{"iso", "2024-06-14", ""},
		{"dash day first", "14-06-2024", ""},
		{"old date has no lower bound", "01/01/1999", ""},
		{"future", "16/06/2024", "Signup date cannot be in the future"},
		{"garbage", "soon", "Invalid signup date format: 'soon'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := signupDateAt(tt.value, now); got != tt.wantMsg {
				t.Errorf("signupDateAt(%q) = %q, want %q", tt.value, got, tt.wantMsg)
			}
		})
	}
}
