package typed

import (
	"fmt"

	"github.com/ggoodman/strongtyping-go/internal/validation"
)

type number interface{ ~int | ~float64 }

// numeric implements coercion, custom normalization and clamping for both
// numeric kinds. Bounds are stored already passed through the normalizer.
type numeric[T number] struct {
	base
	def      T
	norm     func(T) T
	min, max *T
	conv     func(any) (T, error)
}

func (p *numeric[T]) init(c *config, norm func(T) T, conv func(any) (T, error)) error {
	p.norm = norm
	p.conv = conv
	p.nullable = c.nullable || c.nilDefault()

	var err error
	if c.hasMin && c.min != nil {
		if p.min, err = p.bound(c.min); err != nil {
			return &DeclarationError{Field: p.id, Reason: fmt.Sprintf("minimum: %v", err)}
		}
	}
	if c.hasMax && c.max != nil {
		if p.max, err = p.bound(c.max); err != nil {
			return &DeclarationError{Field: p.id, Reason: fmt.Sprintf("maximum: %v", err)}
		}
	}
	if err := validation.Bounds(asFloat(p.min), asFloat(p.max)); err != nil {
		return &DeclarationError{Field: p.id, Reason: err.Error()}
	}

	switch {
	case c.userDefault() && c.nullable:
		return &DeclarationError{Field: p.id, Reason: "nullable parameters cannot declare a default"}
	case c.userDefault():
		if p.def, err = p.coerce(c.def); err != nil {
			return &DeclarationError{Field: p.id, Reason: fmt.Sprintf("default: %v", err)}
		}
	case !p.nullable:
		var zero T
		p.def, _ = p.coerce(zero)
	}
	return nil
}

func (p *numeric[T]) bound(v any) (*T, error) {
	x, err := p.conv(v)
	if err != nil {
		return nil, err
	}
	if p.norm != nil {
		x = p.norm(x)
	}
	return &x, nil
}

func (p *numeric[T]) coerce(raw any) (T, error) {
	x, err := p.conv(raw)
	if err != nil {
		return x, p.fieldErr(err)
	}
	if p.norm != nil {
		x = p.norm(x)
	}
	switch {
	case p.min != nil && x < *p.min:
		logger().Debug("typed: value clamped to minimum", "param", p.id, "value", x, "min", *p.min)
		x = *p.min
	case p.max != nil && x > *p.max:
		logger().Debug("typed: value clamped to maximum", "param", p.id, "value", x, "max", *p.max)
		x = *p.max
	}
	return x, nil
}

func (p *numeric[T]) Normalize(raw any) (any, error) {
	if isUnset(raw) {
		return p.Default(), nil
	}
	x, err := p.coerce(raw)
	if err != nil {
		return nil, err
	}
	return x, nil
}

func (p *numeric[T]) Default() any {
	if p.nullable {
		return nil
	}
	return p.def
}

// Bounds returns the normalized range; either end may be nil.
func (p *numeric[T]) Bounds() (min, max *T) { return p.min, p.max }

func asFloat[T number](v *T) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

// IntegerParameter holds an int, optionally passed through a custom
// normalizer and clamped to a range.
type IntegerParameter struct {
	numeric[int]
}

// NewInteger declares an integer parameter. The default is 0.
func NewInteger(name string, opts ...Option) (*IntegerParameter, error) {
	c := newConfig(opts)
	b, err := newBase(name, c)
	if err != nil {
		return nil, err
	}
	if c.floatNorm != nil {
		return nil, &DeclarationError{Field: b.id, Reason: "float normalizer given to an integer parameter"}
	}
	p := &IntegerParameter{numeric[int]{base: b}}
	if err := p.init(c, c.intNorm, toInt); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *IntegerParameter) Kind() Kind { return KindInteger }

// FloatParameter holds a float64, optionally passed through a custom
// normalizer and clamped to a range.
type FloatParameter struct {
	numeric[float64]
}

// NewFloat declares a float parameter. The default is 0.0.
func NewFloat(name string, opts ...Option) (*FloatParameter, error) {
	c := newConfig(opts)
	b, err := newBase(name, c)
	if err != nil {
		return nil, err
	}
	if c.intNorm != nil {
		return nil, &DeclarationError{Field: b.id, Reason: "integer normalizer given to a float parameter"}
	}
	p := &FloatParameter{numeric[float64]{base: b}}
	if err := p.init(c, c.floatNorm, toFloat); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *FloatParameter) Kind() Kind { return KindFloat }
