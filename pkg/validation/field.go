// Package validation declares typed argument descriptors and checks request
// arguments against an ordered schema of them.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"time"
)

// DateLayout is the only accepted calendar date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Field is the contract of one named argument. Validate receives nil when the
// argument is absent (missing key or JSON null).
type Field interface {
	Required() bool
	Kind() Kind
	Validate(v any) error
}

var ErrRequired = errors.New("required fields must be passed explicitly")

// TypeError reports a present value of the wrong type.
type TypeError struct {
	Value any
	Want  Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("value %v has type %T, but %s was expected", e.Value, e.Value, e.Want)
}

// DateError reports a string that is not a real YYYY-MM-DD date.
type DateError struct {
	Value string
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("date %q is not in format 'YYYY-MM-DD'", e.Value)
}

func (e *DateError) Unwrap() error { return e.Err }

type base struct{ required bool }

func (b base) Required() bool { return b.required }

// absent reports whether v carries no value, and the error a required field
// owes for it.
func (b base) absent(v any) (bool, error) {
	if v != nil {
		return false, nil
	}
	if b.required {
		return true, ErrRequired
	}
	return true, nil
}

type StringField struct{ base }

func String(required bool) StringField { return StringField{base{required}} }

func (StringField) Kind() Kind { return KindString }

func (f StringField) Validate(v any) error {
	if skip, err := f.absent(v); skip {
		return err
	}
	if _, ok := v.(string); !ok {
		return &TypeError{Value: v, Want: KindString}
	}
	return nil
}

// IntegerField accepts Go integer kinds only; floats are rejected even when
// integral, and so are booleans.
type IntegerField struct{ base }

func Integer(required bool) IntegerField { return IntegerField{base{required}} }

func (IntegerField) Kind() Kind { return KindInteger }

func (f IntegerField) Validate(v any) error {
	if skip, err := f.absent(v); skip {
		return err
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return nil
	}
	return &TypeError{Value: v, Want: KindInteger}
}

// FloatField accepts float32/float64 only; integers are rejected.
type FloatField struct{ base }

func Float(required bool) FloatField { return FloatField{base{required}} }

func (FloatField) Kind() Kind { return KindFloat }

func (f FloatField) Validate(v any) error {
	if skip, err := f.absent(v); skip {
		return err
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Float32, reflect.Float64:
		return nil
	}
	return &TypeError{Value: v, Want: KindFloat}
}

// DateField is a string field that must also parse as a calendar date.
type DateField struct{ StringField }

func Date(required bool) DateField { return DateField{String(required)} }

func (DateField) Kind() Kind { return KindDate }

func (f DateField) Validate(v any) error {
	if v == nil {
		return f.StringField.Validate(v)
	}
	s, ok := v.(string)
	if !ok {
		return &TypeError{Value: v, Want: KindDate}
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return &DateError{Value: s, Err: err}
	}
	return nil
}
