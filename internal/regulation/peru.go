package regulation

import (
	"regexp"
	"strings"

	"github.com/kpoder/csvguard/internal/field"
)

var (
	dniPattern     = regexp.MustCompile(`^\d{8}[A-Z]$`)
	niePattern     = regexp.MustCompile(`^[XYZ]\d{7}[A-Z]$`)
	limaZipPattern = regexp.MustCompile(`^LIMA\d{2}$`)
	fiveDigits     = regexp.MustCompile(`^\d{5}$`)
	sixDigits      = regexp.MustCompile(`^\d{6}$`)
	genericID      = regexp.MustCompile(`^[A-Za-z0-9\-\s]+$`)
)

// PeruPersonalID validates a personal ID under the Peru regulation. The rule
// is conditional on citizenship: Spanish residents must supply a DNI or NIE,
// everyone else may leave the field empty and only needs the generic document
// shape when a value is present.
func PeruPersonalID(personalID, citizenship string) string {
	if strings.TrimSpace(citizenship) == "" {
		return "Citizenship is required for PersonalID validation"
	}

	if strings.ToUpper(strings.TrimSpace(citizenship)) == "ES" {
		if strings.TrimSpace(personalID) == "" {
			return "PersonalID is mandatory for Spanish residents (DNI or NIE required)"
		}

		id := strings.ToUpper(strings.TrimSpace(personalID))

		if dniPattern.MatchString(id) {
			return ""
		}
		if niePattern.MatchString(id) {
			return ""
		}

		return "Invalid Spanish ID format. Must be DNI (8 digits + letter) or NIE (X/Y/Z + 7 digits + letter)"
	}

	// Non-residents: optional, generic document shape when present.
	id := strings.TrimSpace(personalID)
	if id == "" {
		return ""
	}

	if len(id) < 5 {
		return "PersonalID is too short (minimum 5 characters)"
	}
	if len(id) > 20 {
		return "PersonalID is too long (maximum 20 characters)"
	}
	if !genericID.MatchString(id) {
		return "PersonalID contains invalid characters"
	}

	return ""
}

// peruDocumentFields are the identity documents of which non-Spanish rows
// must carry at least one.
var peruDocumentFields = []string{"idcardno", "passportid", "driverlicenseno", "personalid"}

// PeruDocuments enforces Peru's document-presence rule: rows whose
// citizenship is not ES must provide at least one identity document. Rows
// without citizenship are skipped (the citizenship validator reports those).
func PeruDocuments(row map[string]string) string {
	citizenship := strings.TrimSpace(row["citizenship"])
	if citizenship == "" {
		return ""
	}

	if strings.ToUpper(citizenship) == "ES" {
		return ""
	}

	for _, doc := range peruDocumentFields {
		if strings.TrimSpace(row[doc]) != "" {
			return ""
		}
	}

	return "Non-residents must provide at least one document: ID card, passport, driver's license, or personal ID"
}

// PeruZip validates the Peru postal code formats: LIMAxx, a plain 5-digit
// code, or a plain 6-digit code.
func PeruZip(zip string) string {
	if zip == "" {
		return "Zip code is empty"
	}

	code := strings.TrimSpace(zip)

	if limaZipPattern.MatchString(strings.ToUpper(code)) {
		return ""
	}
	if fiveDigits.MatchString(code) {
		return ""
	}
	if sixDigits.MatchString(code) {
		return ""
	}

	return "Peru zip code must be 5 digits, 6 digits, or LIMA format (LIMAxx)"
}

// ColombiaPersonalID delegates to the generic default check; Colombia has no
// tighter format yet.
func ColombiaPersonalID(personalID, _ string) string {
	return field.PersonalID(personalID)
}

// IMSPersonalID delegates to the generic default check.
func IMSPersonalID(personalID, _ string) string {
	return field.PersonalID(personalID)
}
