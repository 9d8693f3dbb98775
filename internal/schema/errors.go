package schema

import "strings"

// Error types carried in FieldError.Type.
const (
	TypeMissing    = "value_error.missing"
	TypeString     = "type_error.str"
	TypeInteger    = "type_error.integer"
	TypeDict       = "type_error.dict"
	TypeJSONDecode = "value_error.jsondecode"
)

// FieldError describes one offending input location, e.g. ["body", "org"].
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError reports malformed client input. It is raised before any
// storage call is made.
type ValidationError struct {
	Fields []FieldError
}

func newValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, strings.Join(f.Loc, ".")+": "+f.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
