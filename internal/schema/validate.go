// Package schema validates model answers against the two response shapes and
// renders those shapes as JSON Schema for prompts.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hochfrequenz/acc/internal/domain"
)

const (
	ShapeIssueArray = "lint issue array"
	ShapeFixResult  = "fix result"
)

// Pointer fields distinguish an absent or null field from a zero value.
type lintIssueWire struct {
	LintMessage     *string      `json:"lintMessage" validate:"required"`
	SuggestionsText *string      `json:"suggestionsText" validate:"required"`
	Loc             *wholeNumber `json:"loc" validate:"required"`
	Column          *wholeNumber `json:"column" validate:"required"`
	FilePath        *string      `json:"filePath" validate:"required"`
}

type fixResultWire struct {
	Status  *string `json:"status" validate:"required"`
	Summary *string `json:"summary" validate:"required"`
}

// wholeNumber accepts any JSON number without a fractional part, so 10.0
// and 1e1 both decode to 10.
type wholeNumber int

func (n *wholeNumber) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) || f < math.MinInt || f >= -math.MinInt {
		return &json.UnmarshalTypeError{Value: "number " + string(b), Type: reflect.TypeOf(0)}
	}
	*n = wholeNumber(f)
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseIssues validates data as an array of lint issues. Types are not
// coerced: a string "10" for loc is rejected, while 10.0 is the integer 10.
// Member names are matched exactly.
func ParseIssues(data []byte) ([]domain.LintIssue, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, decodeError(ShapeIssueArray, "", err)
	}
	if elems == nil {
		return nil, &domain.SchemaValidationError{Shape: ShapeIssueArray, Expected: "array", Reason: "got null"}
	}

	issues := make([]domain.LintIssue, 0, len(elems))
	for i, raw := range elems {
		prefix := fmt.Sprintf("[%d]", i)
		if isNull(raw) {
			return nil, &domain.SchemaValidationError{Shape: ShapeIssueArray, Field: prefix, Expected: "object", Reason: "got null"}
		}

		var wire lintIssueWire
		if err := decodeObject(raw, &wire, ShapeIssueArray, prefix); err != nil {
			return nil, err
		}
		if err := validate.Struct(wire); err != nil {
			return nil, requiredError(ShapeIssueArray, prefix, err)
		}

		issues = append(issues, domain.LintIssue{
			LintMessage:     *wire.LintMessage,
			SuggestionsText: *wire.SuggestionsText,
			Loc:             int(*wire.Loc),
			Column:          int(*wire.Column),
			FilePath:        *wire.FilePath,
		})
	}
	return issues, nil
}

// ParseFixResult validates data as a single fix result
func ParseFixResult(data []byte) (domain.FixResult, error) {
	if isNull(data) {
		return domain.FixResult{}, &domain.SchemaValidationError{Shape: ShapeFixResult, Expected: "object", Reason: "got null"}
	}

	var wire fixResultWire
	if err := decodeObject(data, &wire, ShapeFixResult, ""); err != nil {
		return domain.FixResult{}, err
	}
	if err := validate.Struct(wire); err != nil {
		return domain.FixResult{}, requiredError(ShapeFixResult, "", err)
	}
	return domain.FixResult{Status: *wire.Status, Summary: *wire.Summary}, nil
}

// decodeObject fills the fields of the struct pointed to by dst from the
// members of a JSON object whose names equal the json tags exactly. Members
// with any other name are ignored, including case variants of known ones.
func decodeObject(raw []byte, dst any, shape, prefix string) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return decodeError(shape, prefix, err)
	}

	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		value, ok := members[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, v.Field(i).Addr().Interface()); err != nil {
			fieldErr := &domain.SchemaValidationError{
				Shape:    shape,
				Field:    joinField(prefix, name),
				Expected: jsonTypeName(f.Type),
				Reason:   err.Error(),
			}
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				fieldErr.Reason = "got " + typeErr.Value
			}
			return fieldErr
		}
	}
	return nil
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeError(shape, prefix string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &domain.SchemaValidationError{
			Shape:    shape,
			Field:    joinField(prefix, typeErr.Field),
			Expected: jsonTypeName(typeErr.Type),
			Reason:   "got " + typeErr.Value,
		}
	}
	return &domain.SchemaValidationError{Shape: shape, Field: prefix, Reason: err.Error()}
}

func requiredError(shape, prefix string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &domain.SchemaValidationError{
			Shape:    shape,
			Field:    joinField(prefix, fe.Field()),
			Expected: jsonTypeName(fe.Type()),
			Reason:   "field is " + fe.Tag(),
		}
	}
	return &domain.SchemaValidationError{Shape: shape, Field: prefix, Reason: err.Error()}
}

func joinField(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	default:
		return prefix + "." + field
	}
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return t.String()
	}
}
