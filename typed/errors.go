package typed

import (
	"errors"
	"fmt"
)

// Sentinels usable with errors.Is against the typed errors below.
var (
	// ErrType matches every *TypeError.
	ErrType = errors.New("typed: type error")
	// ErrUnknownField matches every *UnknownFieldError.
	ErrUnknownField = errors.New("typed: unknown field")
	// ErrLookup matches every *ChoiceError.
	ErrLookup = errors.New("typed: lookup error")
	// ErrIndex matches every *IndexError.
	ErrIndex = errors.New("typed: index out of range")
	// ErrDeclaration matches every *DeclarationError.
	ErrDeclaration = errors.New("typed: invalid declaration")
	// ErrNoMigration is returned by FromDict when the data predates the
	// current version of a struct type that declares no migration hook.
	ErrNoMigration = errors.New("typed: no migration for older version")
)

// TypeError reports a value that cannot be coerced to the kind a parameter,
// element kind or constructor expects.
type TypeError struct {
	Struct string // owning struct type, if any
	Field  string // parameter id, if any
	Msg    string
	Err    error // underlying coercion failure, if any
}

func (e *TypeError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	switch {
	case e.Struct != "" && e.Field != "":
		return fmt.Sprintf("typed: %s.%s: %s", e.Struct, e.Field, msg)
	case e.Field != "":
		return fmt.Sprintf("typed: %s: %s", e.Field, msg)
	case e.Struct != "":
		return fmt.Sprintf("typed: %s: %s", e.Struct, msg)
	}
	return "typed: " + msg
}

func (e *TypeError) Is(target error) bool { return target == ErrType }

func (e *TypeError) Unwrap() error { return e.Err }

// UnknownFieldError is returned on any access by an id the struct type does
// not declare.
type UnknownFieldError struct {
	Struct string
	Field  string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("typed: %s has no field %q", e.Struct, e.Field)
}

func (e *UnknownFieldError) Is(target error) bool { return target == ErrUnknownField }

// ChoiceError is returned when an enum coercion names a choice that is not
// declared.
type ChoiceError struct {
	Enum  string
	Value any
}

func (e *ChoiceError) Error() string {
	return fmt.Sprintf("typed: %v is not a choice of %s", e.Value, e.Enum)
}

func (e *ChoiceError) Is(target error) bool { return target == ErrLookup }

// IndexError is returned by typed list accessors for out of range indices.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("typed: index %d out of range for list of length %d", e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool { return target == ErrIndex }

// DeclarationError reports a malformed parameter or struct type declaration.
type DeclarationError struct {
	Struct string
	Field  string
	Reason string
}

func (e *DeclarationError) Error() string {
	switch {
	case e.Struct != "" && e.Field != "":
		return fmt.Sprintf("typed: declaration %s.%s: %s", e.Struct, e.Field, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("typed: declaration %s: %s", e.Field, e.Reason)
	case e.Struct != "":
		return fmt.Sprintf("typed: declaration %s: %s", e.Struct, e.Reason)
	}
	return "typed: declaration: " + e.Reason
}

func (e *DeclarationError) Is(target error) bool { return target == ErrDeclaration }

// typeErrorf builds a *TypeError with no struct/field context.
func typeErrorf(err error, format string, args ...any) *TypeError {
	return &TypeError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// withField attaches struct and field context to coercion errors raised
// below a field, keeping whatever context is already present.
func withField(err error, structName, field string) error {
	var te *TypeError
	if !errors.As(err, &te) {
		return err
	}
	if (te.Struct != "" || structName == "") && (te.Field != "" || field == "") {
		return err
	}
	cp := *te
	if cp.Struct == "" {
		cp.Struct = structName
	}
	if cp.Field == "" {
		cp.Field = field
	}
	return &cp
}
