// Package regulation holds the jurisdiction profiles ("regulations") that
// tighten or replace the default field validation rules, and the registry
// used to look up regulation-specific validator overrides.
//
// A regulation bundles a required-field list with per-field constraint sets.
// The catalog is static configuration assembled at process start; it is never
// mutated at runtime.
package regulation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// ConstraintSet describes the declarative rules a regulation attaches to one
// field. Conditional means the field is evaluated relative to DependsOn
// rather than being unconditionally required.
type ConstraintSet struct {
	Required    bool
	Pattern     string
	MinLength   int
	MaxLength   int
	MinAge      int // birthdate only
	Values      []string
	Conditional bool
	DependsOn   string

	compiled *regexp.Regexp
}

// Regulation is a named jurisdiction profile.
type Regulation struct {
	ID             string
	Name           string
	RequiredFields []string
	FieldRules     map[string]ConstraintSet
}

// MinAge returns the regulation's birthdate age limit, or 0 when it declares
// none.
func (r *Regulation) MinAge() int {
	if rule, ok := r.FieldRules["birthdate"]; ok {
		return rule.MinAge
	}
	return 0
}

// catalog is the static set of known regulations, keyed by ID.
var catalog = map[string]*Regulation{
	"CO": {
		ID:   "CO",
		Name: "Columbia",
		RequiredFields: []string{
			"firstname", "lastname", "email", "birthdate", "address",
			"city", "countrycode", "zip", "cellphone", "gender", "username",
			"citizenship", "regioncode", "provincecode", "province",
			"personalid", "idcardno", "birthcity", "birthcountrycode",
		},
		FieldRules: map[string]ConstraintSet{
			"birthdate":        {Required: true, MinAge: 18},
			"email":            {Required: true},
			"countrycode":      {Required: true, Pattern: `^[A-Z]{2}$`},
			"gender":           {Required: true, Values: []string{"M", "F"}},
			"citizenship":      {Required: true, Pattern: `^[A-Z]{2}$`},
			"regioncode":       {Required: true, Pattern: `^[0-9]{1,20}$`},
			"provincecode":     {Required: true, Pattern: `^[0-9]{1,20}$`},
			"province":         {Required: true, MaxLength: 100},
			"personalid":       {Required: true, Pattern: `^[A-Z0-9]{5,15}$`},
			"idcardno":         {Required: true, Pattern: `^[0-9]{6,12}$`},
			"birthcity":        {Required: true, MaxLength: 50},
			"birthcountrycode": {Required: true, Pattern: `^[A-Z]{2}$`},
			"cellphone":        {Required: true, Pattern: `^[0-9+]{7,15}$`},
			"zip":              {Required: true, Pattern: `^[0-9]{5,8}$`},
		},
	},
	"PE": {
		ID:   "PE",
		Name: "Peru",
		RequiredFields: []string{
			"firstname", "lastname", "email", "birthdate", "address",
			"city", "countrycode", "username", "citizenship",
			"provincecode", "province", "personalid", "idcardno", "regioncode",
		},
		FieldRules: map[string]ConstraintSet{
			"birthdate":       {Required: true, MinAge: 18},
			"email":           {Required: true},
			"countrycode":     {Required: true, Pattern: `^[A-Z]{2}$`},
			"citizenship":     {Required: true, Pattern: `^[A-Z]{2}$`},
			"regioncode":      {Required: true, Pattern: `^[0-9]{1,20}$`},
			"provincecode":    {Required: true, Pattern: `^[0-9]{1,20}$`},
			"province":        {Required: true, MaxLength: 100},
			"personalid":      {Conditional: true, DependsOn: "citizenship"},
			"idcardno":        {Pattern: `^[0-9]{6,12}$`},
			"passportid":      {Pattern: `^[A-Z0-9]{6,15}$`},
			"driverlicenseno": {Pattern: `^[A-Z0-9]{8,20}$`},
		},
	},
	"IMS": {
		ID:             "IMS",
		Name:           "Basic",
		RequiredFields: []string{"email", "firstname", "lastname"},
		FieldRules: map[string]ConstraintSet{
			"email": {Required: true},
		},
	},
	"EU": {
		ID:   "EU",
		Name: "European Union Regulations",
		RequiredFields: []string{
			"firstname", "lastname", "email", "birthdate",
			"address", "city", "countrycode", "zip",
		},
		FieldRules: map[string]ConstraintSet{
			"birthdate":   {MinAge: 16},
			"email":       {Required: true},
			"countrycode": {Pattern: `^[A-Z]{2}$`},
		},
	},
	"US": {
		ID:   "US",
		Name: "United States Regulations",
		RequiredFields: []string{
			"firstname", "lastname", "email", "address", "city", "zip", "state",
		},
		FieldRules: map[string]ConstraintSet{
			"birthdate": {MinAge: 13},
			"zip":       {Pattern: `^\d{5}(?:-\d{4})?$`},
			"state":     {Required: true},
		},
	},
	"UK": {
		ID:   "UK",
		Name: "United Kingdom Regulations",
		RequiredFields: []string{
			"firstname", "lastname", "email", "address", "city", "postcode",
		},
		FieldRules: map[string]ConstraintSet{
			"birthdate": {MinAge: 13},
			"postcode":  {Pattern: `^[A-Z]{1,2}[0-9][A-Z0-9]? ?[0-9][A-Z]{2}$`},
		},
	},
}

func init() {
	// Compile constraint patterns once; a bad pattern in the static catalog
	// is a programming error.
	for _, reg := range catalog {
		for name, rule := range reg.FieldRules {
			if rule.Pattern != "" {
				rule.compiled = regexp.MustCompile(rule.Pattern)
				reg.FieldRules[name] = rule
			}
		}
	}
}

// ByID returns the regulation for a catalog code such as "PE" or "CO".
func ByID(id string) (*Regulation, bool) {
	reg, ok := catalog[id]
	return reg, ok
}

// All returns the catalog as id -> display name.
func All() map[string]string {
	out := make(map[string]string, len(catalog))
	for id, reg := range catalog {
		out[id] = reg.Name
	}
	return out
}

// IDs returns the catalog codes in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CheckConstraint evaluates a field value against the regulation's declared
// constraint set. It covers the declarative rules only (required, pattern,
// allowed values, lengths, min_age); registered validator overrides are
// handled by the registry, not here. Returns "" when the field has no rules
// or the value satisfies them.
func CheckConstraint(reg *Regulation, fieldName, value string) string {
	if reg == nil {
		return ""
	}

	rule, ok := reg.FieldRules[strings.ToLower(fieldName)]
	if !ok {
		return ""
	}

	trimmed := strings.TrimSpace(value)

	if rule.Required && trimmed == "" {
		return fmt.Sprintf("%s is required by %s", fieldName, reg.Name)
	}

	if trimmed == "" {
		return ""
	}

	if rule.compiled != nil && !rule.compiled.MatchString(trimmed) {
		return fmt.Sprintf("%s does not match required format for %s", fieldName, reg.Name)
	}

	if len(rule.Values) > 0 {
		found := false
		for _, v := range rule.Values {
			if strings.EqualFold(v, trimmed) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(rule.Values, ", "))
		}
	}

	if rule.MinLength > 0 && len(trimmed) < rule.MinLength {
		return fmt.Sprintf("%s is shorter than %d characters", fieldName, rule.MinLength)
	}

	if rule.MaxLength > 0 && len(trimmed) > rule.MaxLength {
		return fmt.Sprintf("%s exceeds maximum length of %d characters", fieldName, rule.MaxLength)
	}

	if strings.ToLower(fieldName) == "birthdate" && rule.MinAge > 0 {
		return checkMinAge(trimmed, rule.MinAge, reg.Name)
	}

	return ""
}

var constraintDateLayouts = []string{"02/01/2006", "2006-01-02", "01/02/2006"}

func checkMinAge(value string, minAge int, regName string) string {
	var birthdate time.Time
	parsed := false
	for _, layout := range constraintDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			birthdate = t
			parsed = true
			break
		}
	}
	if !parsed {
		return fmt.Sprintf("Invalid birthdate format: %s", value)
	}

	now := time.Now()
	age := now.Year() - birthdate.Year()
	if now.Month() < birthdate.Month() ||
		(now.Month() == birthdate.Month() && now.Day() < birthdate.Day()) {
		age--
	}
	if age < minAge {
		return fmt.Sprintf("Age must be at least %d years (current: %d)", minAge, age)
	}
	return ""
}
