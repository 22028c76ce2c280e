package typed

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Enumeration is a fixed, ordered set of named choices.
type Enumeration struct {
	name    string
	choices []Choice
	byName  map[string]int
}

// Choice is one member of an Enumeration. The zero Choice belongs to no
// enumeration.
type Choice struct {
	enum    *Enumeration
	name    string
	value   any
	ordinal int
}

// NewEnumeration declares an enumeration whose choice values are their
// ordinals. Duplicate names keep their first position.
func NewEnumeration(name string, names ...string) *Enumeration {
	e := &Enumeration{name: name, byName: make(map[string]int, len(names))}
	for _, n := range names {
		if _, dup := e.byName[n]; dup {
			continue
		}
		e.add(n, len(e.choices))
	}
	return e
}

// EnumerationOf declares an enumeration over existing Go constants; each
// choice is named by the constant's String() and keeps the constant as its
// value.
func EnumerationOf[T fmt.Stringer](name string, values ...T) *Enumeration {
	e := &Enumeration{name: name, byName: make(map[string]int, len(values))}
	for _, v := range values {
		if _, dup := e.byName[v.String()]; dup {
			continue
		}
		e.add(v.String(), v)
	}
	return e
}

func (e *Enumeration) add(name string, value any) {
	e.byName[name] = len(e.choices)
	e.choices = append(e.choices, Choice{enum: e, name: name, value: value, ordinal: len(e.choices)})
}

func (e *Enumeration) Name() string { return e.name }

func (e *Enumeration) Len() int { return len(e.choices) }

// Choices returns the choices in declaration order.
func (e *Enumeration) Choices() []Choice {
	return append([]Choice(nil), e.choices...)
}

// Names returns the choice names in declaration order.
func (e *Enumeration) Names() []string {
	out := make([]string, len(e.choices))
	for i, c := range e.choices {
		out[i] = c.name
	}
	return out
}

// Lookup finds a choice by name.
func (e *Enumeration) Lookup(name string) (Choice, bool) {
	i, ok := e.byName[name]
	if !ok {
		return Choice{}, false
	}
	return e.choices[i], true
}

// MustLookup is Lookup that panics on a missing name; meant for declarations.
func (e *Enumeration) MustLookup(name string) Choice {
	c, ok := e.Lookup(name)
	if !ok {
		panic(&ChoiceError{Enum: e.name, Value: name})
	}
	return c
}

// Coerce resolves v to one of the declared choices. A choice of this
// enumeration passes through; other choices, strings and fmt.Stringers are
// looked up by name; integers by ordinal; anything else by value.
func (e *Enumeration) Coerce(v any) (Choice, error) {
	switch x := v.(type) {
	case Choice:
		if x.enum == e {
			return x, nil
		}
		if c, ok := e.Lookup(x.name); ok {
			return c, nil
		}
	case string:
		if c, ok := e.Lookup(x); ok {
			return c, nil
		}
	default:
		if t := reflect.TypeOf(v); t != nil && t.Comparable() {
			for _, c := range e.choices {
				if reflect.TypeOf(c.value) == t && c.value == v {
					return c, nil
				}
			}
		}
		if s, ok := v.(fmt.Stringer); ok {
			if c, ok := e.Lookup(s.String()); ok {
				return c, nil
			}
		}
		if i, ok := ordinal(v); ok && i >= 0 && i < len(e.choices) {
			return e.choices[i], nil
		}
	}
	return Choice{}, &ChoiceError{Enum: e.name, Value: v}
}

func ordinal(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()), true
	}
	return 0, false
}

func (c Choice) Name() string { return c.name }

// Value is the ordinal for list-declared enumerations, or the Go constant for
// EnumerationOf.
func (c Choice) Value() any { return c.value }

func (c Choice) Ordinal() int { return c.ordinal }

func (c Choice) Enumeration() *Enumeration { return c.enum }

func (c Choice) String() string { return c.name }

// Equal compares against another choice of the same enumeration, or against
// a name.
func (c Choice) Equal(other any) bool {
	switch o := other.(type) {
	case Choice:
		return c.enum == o.enum && c.name == o.name
	case string:
		return c.name == o
	}
	return false
}

func (c Choice) MarshalJSON() ([]byte, error) { return json.Marshal(c.name) }

// DeepCopy returns c itself; choices are immutable.
func (c Choice) DeepCopy() interface{} { return c }
