// Package field provides pure validators for the semantic fields found in
// personal-record CSV uploads (email, names, country codes, postal codes,
// identity documents, and so on).
//
// Every validator takes a raw string value and returns "" when the value is
// acceptable, or a short human-readable diagnostic when it is not. Absence or
// emptiness is a validation outcome, never a panic or an error value, so
// validators are safe to call on arbitrary cell contents.
package field

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Pre-compiled patterns (avoids recompilation on each call).
var (
	emailPattern        = regexp.MustCompile(`^[a-zA-Z0-9._%+\-áéíóúñÁÉÍÓÚÑ$]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern        = regexp.MustCompile(`^[\d+]*$`)
	twoLetterPattern    = regexp.MustCompile(`^[A-Z]{2}$`)
	currencyPattern     = regexp.MustCompile(`^[A-Z]{3}$`)
	languagePattern     = regexp.MustCompile(`^[a-z]{2}(-[a-z]{2})?$`)
	digitsPattern       = regexp.MustCompile(`^[0-9]+$`)
	namePattern         = regexp.MustCompile(`^[a-zA-ZáéíóúñÁÉÍÓÚÑ\s\-'.]+$`)
	zipCharsetPattern   = regexp.MustCompile(`^[A-Za-z0-9\s-]{3,10}$`)
	personalIDPattern   = regexp.MustCompile(`^[A-Za-z0-9\-\s]+$`)
	usZipPattern        = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
	caPostalPattern     = regexp.MustCompile(`^[A-Za-z]\d[A-Za-z]\d[A-Za-z]\d$`)
	gbPostcodePattern   = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]? ?[0-9][A-Z]{2}$`)
	fourDigitZipPattern = regexp.MustCompile(`^\d{4}$`)
	fiveDigitZipPattern = regexp.MustCompile(`^\d{5}$`)
)

// disposableDomains are throwaway mail providers whose addresses are rejected.
var disposableDomains = map[string]bool{
	"mailinator.com":    true,
	"yopmail.com":       true,
	"tempmail.com":      true,
	"guerrillamail.com": true,
	"temp-mail.org":     true,
	"fakeinbox.com":     true,
	"sharklasers.com":   true,
	"trashmail.com":     true,
	"mailnesia.com":     true,
	"10minutemail.com":  true,
	"tempinbox.com":     true,
	"dispostable.com":   true,
}

// testAddressPatterns match obvious placeholder addresses left over from
// test imports.
var testAddressPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^test`),
	regexp.MustCompile(`test@`),
	regexp.MustCompile(`example@`),
	regexp.MustCompile(`user@`),
	regexp.MustCompile(`sample@`),
	regexp.MustCompile(`@example\.`),
	regexp.MustCompile(`@test\.`),
	regexp.MustCompile(`@localhost`),
}

// namePlaceholders are tokens that show up in place of a real name.
var namePlaceholders = map[string]bool{
	"-":       true,
	"n/a":     true,
	"na":      true,
	"none":    true,
	"unknown": true,
	"test":    true,
	"user":    true,
}

// Email validates an email address: basic shape, disposable-domain blocklist,
// and common test-address patterns.
func Email(value string) string {
	if value == "" {
		return "Email is empty"
	}

	email := strings.TrimSpace(value)

	if !strings.Contains(email, "@") {
		return "Email missing @ symbol"
	}

	if !emailPattern.MatchString(email) {
		return "Email has invalid format"
	}

	lower := strings.ToLower(email)
	domain := lower[strings.LastIndex(lower, "@")+1:]
	if disposableDomains[domain] {
		return fmt.Sprintf("Email uses disposable domain: %s", domain)
	}

	for _, p := range testAddressPatterns {
		if p.MatchString(lower) {
			return "Email appears to be a test address"
		}
	}

	return ""
}

// Phone validates a phone or cellphone number. An empty value is acceptable
// here; requiredness is enforced by the row validator, not this check.
func Phone(value string) string {
	if value == "" {
		return ""
	}

	phone := strings.TrimSpace(value)

	if strings.Contains(phone, " ") {
		return "Phone contains spaces"
	}

	if !phonePattern.MatchString(phone) {
		return "Phone contains invalid characters"
	}

	return ""
}

// Name validates a person-name field. fieldName is used in diagnostics so the
// same check serves firstname and lastname.
func Name(value, fieldName string) string {
	if value == "" {
		return fieldName + " is empty"
	}

	name := strings.TrimSpace(value)

	if namePlaceholders[strings.ToLower(name)] {
		return fieldName + " contains placeholder value"
	}

	for _, r := range name {
		if unicode.IsDigit(r) {
			return fieldName + " contains numbers"
		}
	}

	if countSpecialRunes(name) > 2 {
		return fieldName + " contains too many special characters"
	}

	if len([]rune(name)) < 2 {
		return fieldName + " is too short"
	}

	if len([]rune(name)) > 50 {
		return fieldName + " is too long"
	}

	return ""
}

// countSpecialRunes counts runes that are neither word characters
// (letters, digits, underscore) nor whitespace.
func countSpecialRunes(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			continue
		}
		n++
	}
	return n
}

// CountryCode validates a 2-letter ISO country code. "00" is accepted as the
// feed's default sentinel.
func CountryCode(value string) string {
	if value == "" {
		return "Country code is empty"
	}

	code := strings.ToUpper(strings.TrimSpace(value))

	if code == "00" {
		return ""
	}

	if !twoLetterPattern.MatchString(code) {
		return "Country code must be 2 uppercase letters"
	}

	return ""
}

// Citizenship validates a citizenship country code. Unlike CountryCode the
// "00" sentinel is not accepted.
func Citizenship(value string) string {
	if value == "" {
		return "Citizenship is empty"
	}

	code := strings.ToUpper(strings.TrimSpace(value))

	if !twoLetterPattern.MatchString(code) {
		return "Citizenship must be 2 letter country code"
	}

	return ""
}

// BirthCountryCode validates a birth country code. Strict 2 letters, no
// sentinel value allowed.
func BirthCountryCode(value string) string {
	if value == "" {
		return "Birth country code is empty"
	}

	code := strings.ToUpper(strings.TrimSpace(value))

	if !twoLetterPattern.MatchString(code) {
		return "Birth country code must be 2 uppercase letters"
	}

	return ""
}

// LanguageCode validates a signup language code: a bare 2-letter code or an
// xx-YY language-region tag.
func LanguageCode(value string) string {
	if value == "" {
		return "Language code is empty"
	}

	code := strings.ToLower(strings.TrimSpace(value))

	if !languagePattern.MatchString(code) {
		return "Not a valid format"
	}

	return ""
}

// CurrencyCode validates a 3-letter ISO currency code.
func CurrencyCode(value string) string {
	if value == "" {
		return "Cannot be empty"
	}

	code := strings.ToUpper(strings.TrimSpace(value))

	if !currencyPattern.MatchString(code) {
		return "Not a valid format (should be 3 uppercase letters)"
	}

	return ""
}

// RegionCode validates a numeric region code, 1-20 digits.
func RegionCode(value string) string {
	if value == "" {
		return "Regioncode is required"
	}

	code := strings.TrimSpace(value)

	if !digitsPattern.MatchString(code) {
		return "Regioncode must contain only numbers"
	}

	if len(code) > 20 {
		return "Regioncode must be maximum 20 digits"
	}

	return ""
}

// ProvinceCode validates a numeric province code, 1-20 digits.
func ProvinceCode(value string) string {
	if value == "" {
		return "Provincecode is required"
	}

	code := strings.TrimSpace(value)

	if !digitsPattern.MatchString(code) {
		return "Provincecode must contain only numbers"
	}

	if len(code) > 20 {
		return "Provincecode must be maximum 20 digits"
	}

	return ""
}

// Province validates a province name: 2-50 characters from the name charset.
func Province(value string) string {
	if value == "" {
		return "Province is empty"
	}

	province := strings.TrimSpace(value)

	if len([]rune(province)) < 2 {
		return "Province name too short"
	}

	if len([]rune(province)) > 50 {
		return "Province name too long"
	}

	if !namePattern.MatchString(province) {
		return "Province contains invalid characters"
	}

	return ""
}

// PersonalID is the default personal-id check used when no regulation
// override applies: 5-20 chars, alphanumeric plus hyphen and space.
func PersonalID(value string) string {
	if value == "" {
		return "Personal ID is empty"
	}

	id := strings.TrimSpace(value)

	if len(id) < 5 {
		return "Personal ID too short"
	}

	if len(id) > 20 {
		return "Personal ID too long"
	}

	if !personalIDPattern.MatchString(id) {
		return "Personal ID contains invalid characters"
	}

	return ""
}

// IDCardNo validates an ID card number: 5-20 chars, alphanumeric plus hyphen
// and space.
func IDCardNo(value string) string {
	if value == "" {
		return "ID card number is empty"
	}

	id := strings.TrimSpace(value)

	if len(id) < 5 {
		return "ID card number too short"
	}

	if len(id) > 20 {
		return "ID card number too long"
	}

	if !personalIDPattern.MatchString(id) {
		return "ID card number contains invalid characters"
	}

	return ""
}

// Zip validates a zip/postal code. When countryCode is non-empty a
// country-specific pattern is applied first; the generic charset and length
// check runs in every case.
func Zip(value, countryCode string) string {
	if value == "" {
		return "Zip/postal code is empty"
	}

	zip := strings.TrimSpace(value)

	if countryCode != "" {
		switch strings.ToUpper(strings.TrimSpace(countryCode)) {
		case "US":
			if !usZipPattern.MatchString(zip) {
				return "Invalid US ZIP code format (should be 5 digits or ZIP+4)"
			}
		case "CA":
			if !caPostalPattern.MatchString(strings.ReplaceAll(zip, " ", "")) {
				return "Invalid Canadian postal code format"
			}
		case "GB":
			if !gbPostcodePattern.MatchString(strings.ToUpper(zip)) {
				return "Invalid UK postal code format"
			}
		case "AU":
			if !fourDigitZipPattern.MatchString(zip) {
				return "Invalid Australian postal code format (should be 4 digits)"
			}
		case "DE":
			if !fiveDigitZipPattern.MatchString(zip) {
				return "Invalid German postal code format (should be 5 digits)"
			}
		case "FR":
			if !fiveDigitZipPattern.MatchString(zip) {
				return "Invalid French postal code format (should be 5 digits)"
			}
		case "IT":
			if !fiveDigitZipPattern.MatchString(zip) {
				return "Invalid Italian postal code format (should be 5 digits)"
			}
		case "ES":
			if !fiveDigitZipPattern.MatchString(zip) {
				return "Invalid Spanish postal code format (should be 5 digits)"
			}
		}
	}

	if !zipCharsetPattern.MatchString(zip) {
		return "Zip/postal code has invalid format"
	}

	return ""
}

// CRLF rejects values containing a CRLF sequence. Used on free-text fields
// such as address to block header-injection payloads.
func CRLF(value string) string {
	if strings.Contains(value, "\r\n") {
		return "Contains CRLF characters"
	}
	return ""
}
