package typed

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gosimple/slug"

	"github.com/ggoodman/strongtyping-go/internal/validation"
)

// Kind identifies the family of a parameter.
type Kind int

const (
	KindInteger Kind = iota + 1
	KindFloat
	KindBool
	KindString
	KindEnum
	KindList
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindList:
		return "list"
	case KindStruct:
		return "struct"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Parameter is the immutable descriptor of one struct field. Normalize maps
// any raw input to the field's canonical value; nil and "" stand for "use the
// default".
type Parameter interface {
	ID() string
	Name() string
	Description() string
	Kind() Kind
	Nullable() bool
	// Since is the struct version that introduced the parameter, or nil.
	Since() *semver.Version
	// Default returns a fresh canonical default value; nil when nullable.
	Default() any
	Normalize(raw any) (any, error)
}

// Option configures a parameter at construction.
type Option func(*config)

type config struct {
	id          string
	description string

	def        any
	hasDefault bool
	nullable   bool

	min, max       any
	hasMin, hasMax bool

	intNorm   func(int) int
	floatNorm func(float64) float64

	since string
}

// ID overrides the id derived from the parameter name.
func ID(id string) Option { return func(c *config) { c.id = id } }

func Description(d string) Option { return func(c *config) { c.description = d } }

// Default sets the default value. Default(nil) makes integer, float and bool
// parameters nullable; for every other kind it is the same as not setting a
// default.
func Default(v any) Option {
	return func(c *config) {
		c.def = v
		c.hasDefault = true
	}
}

// Nullable lets the field hold the absent value. Only integer, float, bool
// and enum parameters may be nullable.
func Nullable() Option { return func(c *config) { c.nullable = true } }

// Range bounds a numeric parameter; either end may be nil.
func Range(min, max any) Option {
	return func(c *config) {
		c.min, c.hasMin = min, min != nil
		c.max, c.hasMax = max, max != nil
	}
}

func Min(v any) Option { return func(c *config) { c.min, c.hasMin = v, true } }

func Max(v any) Option { return func(c *config) { c.max, c.hasMax = v, true } }

// IntNormalizer is applied after coercion to int and before clamping.
func IntNormalizer(fn func(int) int) Option { return func(c *config) { c.intNorm = fn } }

// FloatNormalizer is applied after coercion to float64 and before clamping.
func FloatNormalizer(fn func(float64) float64) Option {
	return func(c *config) { c.floatNorm = fn }
}

// Since records the struct version that introduced the parameter.
func Since(version string) Option { return func(c *config) { c.since = version } }

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// nilDefault reports an explicit Default(nil).
func (c *config) nilDefault() bool { return c.hasDefault && c.def == nil }

// userDefault reports a non-nil Default.
func (c *config) userDefault() bool { return c.hasDefault && c.def != nil }

// reject fails the declaration when options that make no sense for kind were
// given.
func (c *config) reject(id string, k Kind) error {
	switch {
	case c.hasMin || c.hasMax:
		return &DeclarationError{Field: id, Reason: fmt.Sprintf("range is not supported by %s parameters", k)}
	case c.intNorm != nil && k != KindInteger:
		return &DeclarationError{Field: id, Reason: fmt.Sprintf("integer normalizer given to a %s parameter", k)}
	case c.floatNorm != nil && k != KindFloat:
		return &DeclarationError{Field: id, Reason: fmt.Sprintf("float normalizer given to a %s parameter", k)}
	}
	return nil
}

// DeriveID turns a display name into a snake_case id.
func DeriveID(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}

// base carries what every parameter kind shares.
type base struct {
	id          string
	name        string
	description string
	nullable    bool
	since       *semver.Version
}

func newBase(name string, c *config) (base, error) {
	b := base{name: name, description: c.description, id: c.id}
	if b.id == "" {
		b.id = DeriveID(name)
	}
	if err := validation.ID(b.id); err != nil {
		return base{}, &DeclarationError{Field: name, Reason: err.Error()}
	}
	if c.since != "" {
		v, err := semver.NewVersion(c.since)
		if err != nil {
			return base{}, &DeclarationError{Field: b.id, Reason: fmt.Sprintf("since: %v", err)}
		}
		b.since = v
	}
	return b, nil
}

func (b *base) ID() string               { return b.id }
func (b *base) Name() string             { return b.name }
func (b *base) Description() string      { return b.description }
func (b *base) Nullable() bool           { return b.nullable }
func (b *base) Since() *semver.Version   { return b.since }
func (b *base) fieldErr(err error) error { return withField(err, "", b.id) }
