package core

import (
	"fmt"
	"strings"

	"github.com/kpoder/csvguard/internal/field"
	"github.com/kpoder/csvguard/internal/regulation"
)

// Validator validates single rows against a regulation profile and the
// override registry. It is stateless apart from configuration and safe for
// concurrent use.
type Validator struct {
	Registry *regulation.Registry
	MinAge   int
}

// NewValidator returns a Validator backed by the given registry. minAge is
// the fallback birthdate age limit used when a regulation declares none; 0
// means the package default.
func NewValidator(registry *regulation.Registry, minAge int) *Validator {
	if minAge <= 0 {
		minAge = field.DefaultMinAge
	}
	return &Validator{Registry: registry, MinAge: minAge}
}

// fieldDispatch maps a canonical field name to its default validator. The map
// makes the validated field set enumerable instead of hiding it in a branch
// cascade; entries receive the whole row so validators with cross-field input
// (zip needs countrycode) can fetch what they need.
var fieldDispatch = map[string]func(v *Validator, reg *regulation.Regulation, row Row, value string) string{
	"email":     func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string { return field.Email(value) },
	"phone":     func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string { return field.Phone(value) },
	"cellphone": func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string { return field.Phone(value) },
	"firstname": func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string {
		return field.Name(value, "firstname")
	},
	"lastname": func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string {
		return field.Name(value, "lastname")
	},
	"birthdate": func(v *Validator, reg *regulation.Regulation, _ Row, value string) string {
		return field.Birthdate(value, v.minAgeFor(reg))
	},
	"signupdate": func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string {
		return field.SignupDate(value)
	},
	"countrycode": func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string {
		return field.CountryCode(value)
	},
	"citizenship": func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string {
		return field.Citizenship(value)
	},
	"birthcountrycode": func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string {
		return field.BirthCountryCode(value)
	},
	"signuplanguagecode": func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string {
		return field.LanguageCode(value)
	},
	"currencycode": func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string {
		return field.CurrencyCode(value)
	},
	"regioncode": func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string {
		return field.RegionCode(value)
	},
	"provincecode": func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string {
		return field.ProvinceCode(value)
	},
	"province": func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string {
		return field.Province(value)
	},
	"personalid": func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string {
		return field.PersonalID(value)
	},
	"idcardno": func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string {
		return field.IDCardNo(value)
	},
	"zip":        zipDispatch,
	"zipcode":    zipDispatch,
	"postalcode": zipDispatch,
	"postcode":   zipDispatch,
	"address": func(_ *Validator, _ *regulation.Regulation, _ Row, value string) string {
		return field.CRLF(value)
	},
}

func zipDispatch(_ *Validator, _ *regulation.Regulation, row Row, value string) string {
	return field.Zip(value, row["countrycode"])
}

// overridableTypes maps a field name to the registry validator type callers
// should consult before falling back to the default validator.
var overridableTypes = map[string]string{
	"personalid": regulation.TypePersonalID,
	"zip":        regulation.TypeZip,
	"zipcode":    regulation.TypeZip,
	"postalcode": regulation.TypeZip,
	"postcode":   regulation.TypeZip,
}

// languageCountries is the plausibility table for the language/country
// cross-check. A signup language whose base tag is listed here but whose
// country is not produces a warning, never an error.
var languageCountries = map[string][]string{
	"es": {"ES", "MX", "AR", "CO", "PE", "CL", "VE", "EC", "UY", "PY", "BO"},
	"en": {"US", "GB", "CA", "AU", "NZ", "IE", "ZA"},
	"fr": {"FR", "BE", "CH", "CA", "LU", "MC"},
	"de": {"DE", "AT", "CH", "LI", "LU"},
	"it": {"IT", "CH", "SM"},
	"pt": {"PT", "BR", "AO", "MZ"},
}

func (v *Validator) minAgeFor(reg *regulation.Regulation) int {
	if reg != nil {
		if age := reg.MinAge(); age > 0 {
			return age
		}
	}
	return v.MinAge
}

// ValidateRow validates one row. rowIndex is the row's global 0-based
// position; reg may be nil for regulation-free runs; dups, when non-nil, must
// be the dataset-wide merged tracker. Errors accumulate: a row reports every
// independent violation.
func (v *Validator) ValidateRow(row Row, rowIndex int, requiredFields []string, reg *regulation.Regulation, dups *DuplicateTracker) ValidationResult {
	code := strings.TrimSpace(row["code"])
	if code == "" {
		code = DefaultCode
	}

	result := ValidationResult{
		RowNumber: rowIndex + 1,
		Code:      code,
		Valid:     true,
	}

	regID := ""
	if reg != nil && v.Registry != nil {
		regID = reg.ID
	}

	// Per-field pass, in declared required order so error ordering is
	// deterministic.
	seen := make(map[string]bool, len(requiredFields))
	for _, name := range requiredFields {
		fieldName := strings.ToLower(strings.TrimSpace(name))
		if fieldName == "" || seen[fieldName] {
			continue
		}
		seen[fieldName] = true
		value := strings.TrimSpace(row[fieldName])

		override, hasOverride := regulation.Override{}, false
		if regID != "" {
			if validatorType, ok := overridableTypes[fieldName]; ok {
				override, hasOverride = v.Registry.Get(regID, validatorType)
			}
		}

		// Conditional overrides own the empty case themselves: Peru's
		// personalid must still run on an empty value to decide whether
		// the dependent citizenship makes it mandatory. An empty value
		// gets no quoted-value suffix.
		if hasOverride && override.Conditional && override.Field != nil {
			dependency := strings.TrimSpace(row[override.DependsOn])
			if diag := override.Field(value, dependency); diag != "" {
				if value == "" {
					result.addError(fmt.Sprintf("%s %s: %s", code, fieldName, diag))
				} else {
					result.addError(formatFieldError(code, fieldName, diag, value))
				}
			}
			continue
		}

		if value == "" {
			result.addError(fmt.Sprintf("%s %s is required but missing", code, fieldName))
			continue
		}

		if hasOverride && override.Field != nil {
			if diag := override.Field(value, strings.TrimSpace(row[override.DependsOn])); diag != "" {
				result.addError(formatFieldError(code, fieldName, diag, value))
			}
			continue
		}

		if check, ok := fieldDispatch[fieldName]; ok {
			if diag := check(v, reg, row, value); diag != "" {
				result.addError(formatFieldError(code, fieldName, diag, value))
			}
			continue
		}

		// No dedicated validator: the regulation's constraint rules still
		// apply (gender values, state presence, pattern checks).
		if reg != nil {
			if diag := regulation.CheckConstraint(reg, fieldName, value); diag != "" {
				result.addError(formatFieldError(code, fieldName, diag, value))
			}
		}
	}

	v.checkDuplicates(row, rowIndex, dups, code, &result)
	v.checkCrossField(row, regID, code, &result)

	return result
}

// checkDuplicates contributes duplicate errors for this row from the merged
// dataset-wide tracker. The first occurrence of a value is never flagged.
func (v *Validator) checkDuplicates(row Row, rowIndex int, dups *DuplicateTracker, code string, result *ValidationResult) {
	if dups == nil {
		return
	}
	for _, fieldName := range TrackedFields {
		value := strings.TrimSpace(row[fieldName])
		if value == "" {
			continue
		}
		normalized := NormalizeTracked(fieldName, value)
		first, isDup := dups.FirstIndex(fieldName, normalized)
		if !isDup || first == rowIndex {
			continue
		}
		result.addError(fmt.Sprintf("%s Duplicate %s: %s (also in row %d)", code, fieldName, value, first+1))
	}
}

func (v *Validator) checkCrossField(row Row, regID, code string, result *ValidationResult) {
	if address := strings.TrimSpace(row["address"]); address != "" {
		if n := len([]rune(address)); n < 2 || n > 640 {
			result.addError(formatFieldError(code, "address", "Length must be between 2 and 640 characters", address))
		}
	}
	if city := strings.TrimSpace(row["city"]); city != "" {
		if n := len([]rune(city)); n < 2 || n > 50 {
			result.addError(formatFieldError(code, "city", "Length must be between 2 and 50 characters", city))
		}
	}

	// Language/country plausibility is advisory only.
	lang := strings.ToLower(strings.TrimSpace(row["signuplanguagecode"]))
	country := strings.ToUpper(strings.TrimSpace(row["countrycode"]))
	if lang != "" && country != "" && country != "00" {
		base := lang
		if i := strings.IndexByte(base, '-'); i > 0 {
			base = base[:i]
		}
		if countries, known := languageCountries[base]; known && !containsString(countries, country) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s signuplanguagecode '%s' is unusual for country '%s'", code, lang, country))
		}
	}

	if regID != "" {
		if override, ok := v.Registry.Get(regID, regulation.TypeDocuments); ok && override.Row != nil {
			if diag := override.Row(row); diag != "" {
				result.addError(fmt.Sprintf("%s %s", code, diag))
			}
		}
	}
}

func (r *ValidationResult) addError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Valid = false
}

func formatFieldError(code, fieldName, diag, value string) string {
	return fmt.Sprintf("%s %s: %s: '%s'", code, fieldName, diag, value)
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
