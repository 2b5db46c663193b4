package plants

import "fmt"

// Record kinds used in NotFound and Conflict errors.
const (
	KindPlant    = "Plant"
	KindSpecies  = "Species"
	KindLocation = "Location"
)

// ParseError means the input text does not match the expected type.
type ParseError struct {
	What string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse input as %s", e.What)
}

// InvalidValueError means the type matched but the value is outside its domain.
type InvalidValueError struct {
	Field string
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s", e.Value, e.Field)
}

// NotFoundError means a referenced record is absent.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// ConflictError means a record with the same key already exists.
type ConflictError struct {
	Kind string
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Name)
}

// MissingInputError means a commit was attempted before a step collected its value.
type MissingInputError struct {
	Step string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing input for %s", e.Step)
}

// WrongTypeError means a field update carries a value of the wrong variant.
type WrongTypeError struct {
	Field string
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("wrong value type for field %s", e.Field)
}

// IOError wraps a storage failure.
type IOError struct {
	Detail string
	Err    error
}

func (e *IOError) Error() string {
	if e.Err == nil {
		return "storage error: " + e.Detail
	}
	return fmt.Sprintf("storage error: %s: %v", e.Detail, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
