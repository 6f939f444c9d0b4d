package validation

import "fmt"

// Kind names the closed set of field types a schema can declare.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindFloat   Kind = "float"
	KindDate    Kind = "date"
)

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindString, KindInteger, KindFloat, KindDate:
		return true
	}
	return false
}

// FieldFor builds the descriptor for a kind.
func FieldFor(k Kind, required bool) (Field, error) {
	switch k {
	case KindString:
		return String(required), nil
	case KindInteger:
		return Integer(required), nil
	case KindFloat:
		return Float(required), nil
	case KindDate:
		return Date(required), nil
	}
	return nil, fmt.Errorf("validation: unknown field type %q", k)
}
