package typed

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/ggoodman/strongtyping-go/internal/validation"
)

// Builder declares a struct Type. Parameter declaration errors are collected
// and reported by Build, so calls can be chained:
//
//	point := typed.NewBuilder("Point").
//		Description("A point on a grid").
//		Integer("x", typed.Range(0, 100)).
//		Integer("y", typed.Range(0, 100)).
//		MustBuild()
type Builder struct {
	name        string
	description string
	params      []Parameter
	version     string
	deprecated  []deprecation
	migrate     MigrateFunc
	err         error
}

type deprecation struct {
	param       Parameter
	first, last string
}

// NewBuilder starts a struct type declaration.
func NewBuilder(name string) *Builder { return &Builder{name: name} }

func (b *Builder) Description(d string) *Builder {
	b.description = d
	return b
}

func (b *Builder) add(p Parameter, err error) *Builder {
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	b.params = append(b.params, p)
	return b
}

func (b *Builder) Integer(name string, opts ...Option) *Builder {
	p, err := NewInteger(name, opts...)
	return b.add(p, err)
}

func (b *Builder) Float(name string, opts ...Option) *Builder {
	p, err := NewFloat(name, opts...)
	return b.add(p, err)
}

func (b *Builder) Bool(name string, opts ...Option) *Builder {
	p, err := NewBool(name, opts...)
	return b.add(p, err)
}

func (b *Builder) String(name string, opts ...Option) *Builder {
	p, err := NewString(name, opts...)
	return b.add(p, err)
}

// Enum adds an enum parameter; see NewEnum for the accepted choices.
func (b *Builder) Enum(name string, choices any, opts ...Option) *Builder {
	p, err := NewEnum(name, choices, opts...)
	return b.add(p, err)
}

func (b *Builder) List(name string, elem ElementKind, opts ...Option) *Builder {
	p, err := NewList(name, elem, opts...)
	return b.add(p, err)
}

func (b *Builder) Struct(name string, t *Type, opts ...Option) *Builder {
	p, err := NewStruct(name, t, opts...)
	return b.add(p, err)
}

// Param adds already constructed parameters.
func (b *Builder) Param(ps ...Parameter) *Builder {
	for _, p := range ps {
		if p == nil {
			b.add(nil, &DeclarationError{Struct: b.name, Reason: "nil parameter"})
			continue
		}
		b.add(p, nil)
	}
	return b
}

// Version makes the type versioned. v is a semantic version such as "1.2" or
// "1.2.0".
func (b *Builder) Version(v string) *Builder {
	b.version = v
	return b
}

// Deprecated records a parameter that older versions declared between first
// and last (inclusive). Deprecated parameters only appear in documentation.
func (b *Builder) Deprecated(p Parameter, first, last string) *Builder {
	b.deprecated = append(b.deprecated, deprecation{param: p, first: first, last: last})
	return b
}

// Migrate sets the hook FromDict calls for data older than the current
// version.
func (b *Builder) Migrate(fn MigrateFunc) *Builder {
	b.migrate = fn
	return b
}

// Build validates the declaration and returns the immutable Type.
func (b *Builder) Build() (*Type, error) {
	if b.err != nil {
		return nil, withStruct(b.err, b.name)
	}
	if b.name == "" {
		return nil, &DeclarationError{Reason: "struct type name is empty"}
	}

	t := &Type{
		name:        b.name,
		description: b.description,
		params:      make([]Parameter, len(b.params)),
		ids:         make([]string, len(b.params)),
		index:       make(map[string]int, len(b.params)),
		migrate:     b.migrate,
	}
	copy(t.params, b.params)
	for i, p := range b.params {
		t.ids[i] = p.ID()
		t.index[p.ID()] = i
	}
	if i, err := validation.IDs(t.ids); err != nil {
		return nil, &DeclarationError{Struct: b.name, Field: t.ids[i], Reason: err.Error()}
	}

	if b.version != "" {
		v, err := semver.NewVersion(b.version)
		if err != nil {
			return nil, &DeclarationError{Struct: b.name, Reason: fmt.Sprintf("version: %v", err)}
		}
		t.version = v
	}
	for _, p := range t.params {
		if s := p.Since(); s != nil {
			if t.version == nil {
				return nil, &DeclarationError{Struct: b.name, Field: p.ID(), Reason: "since requires a versioned type"}
			}
			if s.GreaterThan(t.version) {
				return nil, &DeclarationError{Struct: b.name, Field: p.ID(), Reason: fmt.Sprintf("since %s is newer than %s", s, t.version)}
			}
		}
	}
	if len(b.deprecated) > 0 && t.version == nil {
		return nil, &DeclarationError{Struct: b.name, Reason: "deprecated parameters require a versioned type"}
	}
	for _, d := range b.deprecated {
		dep, err := t.deprecation(d)
		if err != nil {
			return nil, err
		}
		t.deprecated = append(t.deprecated, dep)
	}
	if b.migrate != nil && t.version == nil {
		return nil, &DeclarationError{Struct: b.name, Reason: "migrations require a versioned type"}
	}

	logger().Debug("typed: struct type defined", "struct", t.name, "fields", len(t.params), "version", b.version)
	return t, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Type {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

// Define declares an unversioned struct type from parameters built with the
// New* constructors.
func Define(name, description string, params ...Parameter) (*Type, error) {
	return NewBuilder(name).Description(description).Param(params...).Build()
}

func withStruct(err error, name string) error {
	switch e := err.(type) {
	case *DeclarationError:
		if e.Struct == "" {
			cp := *e
			cp.Struct = name
			return &cp
		}
	case *TypeError:
		return withField(e, name, "")
	}
	return err
}
