package project

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field names used by the creation form and the default registry.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPeople      = "people"
)

// Rule checks a single field value. Value is a string or an int.
type Rule struct {
	Name  string
	Check func(value any) bool
}

// Required rejects empty strings and zero numbers.
func Required() Rule {
	return Rule{Name: "required", Check: func(v any) bool {
		switch val := v.(type) {
		case string:
			return strings.TrimSpace(val) != ""
		case int:
			return val != 0
		default:
			return v != nil
		}
	}}
}

// MinLength requires strings of at least n runes.
func MinLength(n int) Rule {
	return Rule{Name: fmt.Sprintf("min_length=%d", n), Check: func(v any) bool {
		s, ok := v.(string)
		return !ok || utf8.RuneCountInString(s) >= n
	}}
}

// MaxLength requires strings of at most n runes.
func MaxLength(n int) Rule {
	return Rule{Name: fmt.Sprintf("max_length=%d", n), Check: func(v any) bool {
		s, ok := v.(string)
		return !ok || utf8.RuneCountInString(s) <= n
	}}
}

// Min requires ints of at least n.
func Min(n int) Rule {
	return Rule{Name: fmt.Sprintf("min=%d", n), Check: func(v any) bool {
		i, ok := v.(int)
		return !ok || i >= n
	}}
}

// Max requires ints of at most n.
func Max(n int) Rule {
	return Rule{Name: fmt.Sprintf("max=%d", n), Check: func(v any) bool {
		i, ok := v.(int)
		return !ok || i <= n
	}}
}

// Positive requires ints greater than zero.
func Positive() Rule {
	return Rule{Name: "positive", Check: func(v any) bool {
		i, ok := v.(int)
		return !ok || i > 0
	}}
}

// FieldError describes one failed rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s failed", e.Field, e.Rule)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

// Registry accumulates validation rules per field. It is built once at
// startup and handed to whatever accepts user input.
type Registry struct {
	fields []string
	rules  map[string][]Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string][]Rule)}
}

// DefaultRegistry returns the rules the project form enforces.
func DefaultRegistry() *Registry {
	return NewRegistry().
		Add(FieldTitle, Required()).
		Add(FieldDescription, Required(), MinLength(5)).
		Add(FieldPeople, Required(), Min(1), Max(5))
}

// Add appends rules for field, keeping declaration order.
func (r *Registry) Add(field string, rules ...Rule) *Registry {
	if _, ok := r.rules[field]; !ok {
		r.fields = append(r.fields, field)
	}
	r.rules[field] = append(r.rules[field], rules...)
	return r
}

// Fields returns the registered field names in declaration order.
func (r *Registry) Fields() []string {
	return append([]string(nil), r.fields...)
}

// Validate runs every rule against values. A field missing from values is
// checked as nil. The returned error joins one *FieldError per failed rule.
func (r *Registry) Validate(values map[string]any) error {
	var errs []error
	for _, field := range r.fields {
		v := values[field]
		for _, rule := range r.rules[field] {
			if !rule.Check(v) {
				errs = append(errs, &FieldError{Field: field, Rule: rule.Name})
			}
		}
	}
	return errors.Join(errs...)
}

// FieldErrors extracts the individual failures from a Validate error.
func FieldErrors(err error) []*FieldError {
	if err == nil {
		return nil
	}
	var out []*FieldError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, FieldErrors(e)...)
		}
		return out
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		out = append(out, fe)
	}
	return out
}

// Input is the raw creation input.
type Input struct {
	Title       string
	Description string
	People      int
}

// Values maps the input onto registry field names.
func (in Input) Values() map[string]any {
	return map[string]any{
		FieldTitle:       strings.TrimSpace(in.Title),
		FieldDescription: strings.TrimSpace(in.Description),
		FieldPeople:      in.People,
	}
}
