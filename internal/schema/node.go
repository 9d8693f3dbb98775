// Package schema validates node payloads before they reach storage.
package schema

import (
	"encoding/json"
	"errors"
	"strconv"

	"mcpserver/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NodeCreate is a validated request to create a node.
type NodeCreate struct {
	Name string `json:"name" binding:"required"`
	Org  string `json:"org" binding:"required"`
}

// NodeOut is the wire form of a stored node.
type NodeOut struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Org  string `json:"org"`
}

// NewNodeOut copies a stored node into its response form.
func NewNodeOut(n models.Node) NodeOut {
	return NodeOut{ID: n.ID, Name: n.Name, Org: n.Org}
}

// NewNodeOutList converts nodes in order. The result is never nil so that an
// empty table encodes as [].
func NewNodeOutList(nodes []models.Node) []NodeOut {
	out := make([]NodeOut, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, NewNodeOut(n))
	}
	return out
}

// createFields lists the payload keys in the order they are checked and
// reported, paired with the struct field validator reports them under.
var createFields = []struct {
	key    string
	field  string
	assign func(*NodeCreate, string)
}{
	{"name", "Name", func(n *NodeCreate, v string) { n.Name = v }},
	{"org", "Org", func(n *NodeCreate, v string) { n.Org = v }},
}

// DecodeNodeCreate parses an untyped JSON object into a NodeCreate. Every
// missing, null, empty or non-string field is reported in one
// *ValidationError. Unknown keys are ignored.
func DecodeNodeCreate(body []byte) (NodeCreate, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return NodeCreate{}, newValidationError(FieldError{
			Loc:  []string{"body"},
			Msg:  "invalid JSON body",
			Type: TypeJSONDecode,
		})
	}
	payload, ok := raw.(map[string]any)
	if !ok {
		return NodeCreate{}, newValidationError(FieldError{
			Loc:  []string{"body"},
			Msg:  "value is not a valid dict",
			Type: TypeDict,
		})
	}

	var in NodeCreate
	errs := make(map[string]FieldError, len(createFields))
	for _, f := range createFields {
		v, present := payload[f.key]
		if !present || v == nil {
			errs[f.key] = missingField(f.key)
			continue
		}
		s, ok := v.(string)
		if !ok {
			errs[f.key] = FieldError{
				Loc:  []string{"body", f.key},
				Msg:  "str type expected",
				Type: TypeString,
			}
			continue
		}
		f.assign(&in, s)
	}

	if err := binding.Validator.ValidateStruct(&in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return NodeCreate{}, err
		}
		for _, fe := range verrs {
			key := keyForField(fe.StructField())
			// a field that failed the presence or type check is already
			// reported with the more specific error
			if _, seen := errs[key]; !seen {
				errs[key] = fieldErrorFor(key, fe)
			}
		}
	}

	if len(errs) > 0 {
		ordered := make([]FieldError, 0, len(errs))
		for _, f := range createFields {
			if e, ok := errs[f.key]; ok {
				ordered = append(ordered, e)
			}
		}
		return NodeCreate{}, newValidationError(ordered...)
	}
	return in, nil
}

// ParseNodeID parses a path-supplied node id. Any base-10 int64 is accepted,
// including ids that can never exist; those resolve to not found.
func ParseNodeID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, newValidationError(FieldError{
			Loc:  []string{"path", "node_id"},
			Msg:  "value is not a valid integer",
			Type: TypeInteger,
		})
	}
	return id, nil
}

func missingField(key string) FieldError {
	return FieldError{
		Loc:  []string{"body", key},
		Msg:  "field required",
		Type: TypeMissing,
	}
}

func fieldErrorFor(key string, fe validator.FieldError) FieldError {
	if fe.Tag() == "required" {
		return missingField(key)
	}
	return FieldError{
		Loc:  []string{"body", key},
		Msg:  "failed on the '" + fe.Tag() + "' rule",
		Type: "value_error." + fe.Tag(),
	}
}

func keyForField(structField string) string {
	for _, f := range createFields {
		if f.field == structField {
			return f.key
		}
	}
	return structField
}
