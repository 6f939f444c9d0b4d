package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnexpected = errors.New("unexpected argument")

// Named pairs an argument name with its descriptor.
type Named struct {
	Name  string
	Field Field
}

// Schema is an ordered list of named descriptors. It is immutable once built
// and safe for concurrent use.
type Schema struct {
	fields []Named
	index  map[string]int
}

func NewSchema(fields ...Named) (*Schema, error) {
	s := &Schema{
		fields: make([]Named, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return nil, fmt.Errorf("validation: field %d has no name", i)
		}
		if f.Field == nil {
			return nil, fmt.Errorf("validation: field %q has no descriptor", name)
		}
		if _, dup := s.index[name]; dup {
			return nil, fmt.Errorf("validation: duplicate field %q", name)
		}
		s.index[name] = len(s.fields)
		s.fields = append(s.fields, Named{Name: name, Field: f.Field})
	}
	return s, nil
}

func MustSchema(fields ...Named) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Names returns field names in declaration order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

func (s *Schema) Fields() []Named {
	return append([]Named(nil), s.fields...)
}

// Validate checks every declared field against args and rejects keys the
// schema does not declare. All violations are collected; a descriptor that
// panics is reported as a violation too.
func (s *Schema) Validate(args map[string]any) error {
	var violations []Violation
	for _, f := range s.fields {
		if err := check(f.Field, args[f.Name]); err != nil {
			violations = append(violations, Violation{Field: f.Name, Err: err})
		}
	}
	var extra []string
	for k := range args {
		if _, ok := s.index[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		violations = append(violations, Violation{Field: k, Err: ErrUnexpected})
	}
	if len(violations) > 0 {
		return &Error{Violations: violations}
	}
	return nil
}

func check(f Field, v any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("descriptor failed: %v", r)
		}
	}()
	return f.Validate(v)
}
