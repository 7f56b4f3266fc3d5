package regulation

import (
	"fmt"
	"sync"
)

// Validator types understood by the registry. Field-level overrides replace
// the default validator for a single field; row-level overrides see the whole
// row and express cross-field requirements such as Peru's document-presence
// rule.
const (
	TypePersonalID = "personalid"
	TypeZip        = "zip"
	TypeDocuments  = "documents"
)

// FieldFunc is a field-level validator override. dependency carries the value
// of the field named by the override's DependsOn, or "" for unconditional
// overrides. Returns "" when valid.
type FieldFunc func(value, dependency string) string

// RowFunc is a row-level validator override. Returns "" when valid.
type RowFunc func(row map[string]string) string

// Override is one registered validator replacement.
type Override struct {
	Field       FieldFunc
	Row         RowFunc
	Conditional bool
	DependsOn   string
}

// Registry maps (regulation ID, validator type) to an override. A missing
// entry means callers fall back to the default validator for that field.
type Registry struct {
	mu        sync.RWMutex
	overrides map[string]map[string]Override
}

// NewRegistry returns a registry pre-populated with the built-in regulation
// overrides.
func NewRegistry() *Registry {
	r := &Registry{overrides: make(map[string]map[string]Override)}

	r.Register("PE", TypePersonalID, Override{
		Field:       PeruPersonalID,
		Conditional: true,
		DependsOn:   "citizenship",
	})
	r.Register("PE", TypeDocuments, Override{Row: PeruDocuments})
	r.Register("PE", TypeZip, Override{
		Field: func(value, _ string) string { return PeruZip(value) },
	})

	// Columbia and IMS currently delegate to the generic default; the entries
	// keep the jurisdictions enumerable for future tightening.
	r.Register("CO", TypePersonalID, Override{Field: ColombiaPersonalID})
	r.Register("IMS", TypePersonalID, Override{Field: IMSPersonalID})

	return r
}

// Register adds or replaces an override. Panics on an entry that carries
// neither a field nor a row function, which is a programming error.
func (r *Registry) Register(regulationID, validatorType string, o Override) {
	if o.Field == nil && o.Row == nil {
		panic(fmt.Sprintf("override %s/%s has no validator function", regulationID, validatorType))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byType, ok := r.overrides[regulationID]
	if !ok {
		byType = make(map[string]Override)
		r.overrides[regulationID] = byType
	}
	byType[validatorType] = o
}

// Get returns the override for a regulation and validator type, or false when
// the caller should use the default validator.
func (r *Registry) Get(regulationID, validatorType string) (Override, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byType, ok := r.overrides[regulationID]
	if !ok {
		return Override{}, false
	}
	o, ok := byType[validatorType]
	return o, ok
}

// HasConditionalValidation reports whether a field's evaluation for the given
// regulation needs a dependent field's value, and which field that is.
func (r *Registry) HasConditionalValidation(regulationID, fieldName string) (string, bool) {
	o, ok := r.Get(regulationID, fieldName)
	if !ok || !o.Conditional {
		return "", false
	}
	return o.DependsOn, true
}
