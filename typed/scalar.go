package typed

import "fmt"

// BoolParameter holds a bool. "False", "false" and anything reading as the
// integer 0 normalize to false; other values by truthiness.
type BoolParameter struct {
	base
	def bool
}

// NewBool declares a bool parameter. The default is false.
func NewBool(name string, opts ...Option) (*BoolParameter, error) {
	c := newConfig(opts)
	b, err := newBase(name, c)
	if err != nil {
		return nil, err
	}
	if err := c.reject(b.id, KindBool); err != nil {
		return nil, err
	}
	p := &BoolParameter{base: b}
	p.nullable = c.nullable || c.nilDefault()
	if c.userDefault() {
		if c.nullable {
			return nil, &DeclarationError{Field: b.id, Reason: "nullable parameters cannot declare a default"}
		}
		p.def = toBool(c.def)
	}
	return p, nil
}

func (p *BoolParameter) Kind() Kind { return KindBool }

func (p *BoolParameter) Default() any {
	if p.nullable {
		return nil
	}
	return p.def
}

func (p *BoolParameter) Normalize(raw any) (any, error) {
	if isUnset(raw) {
		return p.Default(), nil
	}
	return toBool(raw), nil
}

// StringParameter holds a string. It is never nullable: the empty string
// resets it to its default.
type StringParameter struct {
	base
	def string
}

// NewString declares a string parameter. The default is "".
func NewString(name string, opts ...Option) (*StringParameter, error) {
	c := newConfig(opts)
	b, err := newBase(name, c)
	if err != nil {
		return nil, err
	}
	if err := c.reject(b.id, KindString); err != nil {
		return nil, err
	}
	if c.nullable {
		return nil, &DeclarationError{Field: b.id, Reason: "string parameters cannot be nullable"}
	}
	p := &StringParameter{base: b}
	if c.userDefault() {
		p.def = toString(c.def)
	}
	return p, nil
}

func (p *StringParameter) Kind() Kind { return KindString }

func (p *StringParameter) Default() any { return p.def }

func (p *StringParameter) Normalize(raw any) (any, error) {
	if isUnset(raw) {
		return p.def, nil
	}
	return toString(raw), nil
}

// EnumParameter holds one Choice of an Enumeration.
type EnumParameter struct {
	base
	enum *Enumeration
	def  Choice
}

// NewEnum declares an enum parameter. choices is either a []string, whose
// choices take their ordinal as value, or an *Enumeration. Without a default
// the first choice is used.
func NewEnum(name string, choices any, opts ...Option) (*EnumParameter, error) {
	c := newConfig(opts)
	b, err := newBase(name, c)
	if err != nil {
		return nil, err
	}
	if err := c.reject(b.id, KindEnum); err != nil {
		return nil, err
	}

	var enum *Enumeration
	switch x := choices.(type) {
	case []string:
		enum = NewEnumeration(b.id, x...)
	case *Enumeration:
		enum = x
	default:
		return nil, &TypeError{Field: b.id, Msg: fmt.Sprintf("enum choices must be a []string or an *Enumeration, got %T", choices)}
	}
	if enum == nil || enum.Len() == 0 {
		return nil, &TypeError{Field: b.id, Msg: "enum choices cannot be empty"}
	}

	p := &EnumParameter{base: b, enum: enum, def: enum.choices[0]}
	p.nullable = c.nullable
	if c.userDefault() {
		if c.nullable {
			return nil, &DeclarationError{Field: b.id, Reason: "nullable parameters cannot declare a default"}
		}
		if p.def, err = enum.Coerce(c.def); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *EnumParameter) Kind() Kind { return KindEnum }

func (p *EnumParameter) Enumeration() *Enumeration { return p.enum }

func (p *EnumParameter) Default() any {
	if p.nullable {
		return nil
	}
	return p.def
}

func (p *EnumParameter) Normalize(raw any) (any, error) {
	if isUnset(raw) {
		return p.Default(), nil
	}
	c, err := p.enum.Coerce(raw)
	if err != nil {
		return nil, err
	}
	return c, nil
}
