package typed

import "fmt"

// ListParameter holds a *List of a fixed element kind. Every assignment
// builds a new list, so instances never share a list.
type ListParameter struct {
	base
	elem ElementKind
	def  *List
}

// NewList declares a list parameter. The default is an empty list.
func NewList(name string, elem ElementKind, opts ...Option) (*ListParameter, error) {
	c := newConfig(opts)
	b, err := newBase(name, c)
	if err != nil {
		return nil, err
	}
	if err := c.reject(b.id, KindList); err != nil {
		return nil, err
	}
	if elem == nil {
		return nil, &DeclarationError{Field: b.id, Reason: "list element kind is nil"}
	}
	if c.nullable {
		return nil, &DeclarationError{Field: b.id, Reason: "list parameters cannot be nullable"}
	}
	p := &ListParameter{base: b, elem: elem, def: &List{kind: elem}}
	if c.userDefault() {
		vs, ok := sliceValues(c.def)
		if !ok {
			return nil, &DeclarationError{Field: b.id, Reason: fmt.Sprintf("default must be a sequence, got %T", c.def)}
		}
		if p.def, err = copyList(elem, vs); err != nil {
			return nil, &DeclarationError{Field: b.id, Reason: fmt.Sprintf("default: %v", err)}
		}
		// Cloning fills every lazy slot of struct elements, so concurrent
		// Default calls only read the template.
		p.def = p.def.Clone()
	}
	return p, nil
}

func (p *ListParameter) Kind() Kind { return KindList }

// Elem returns the element kind.
func (p *ListParameter) Elem() ElementKind { return p.elem }

func (p *ListParameter) Default() any { return p.def.Clone() }

func (p *ListParameter) Normalize(raw any) (any, error) {
	if isUnset(raw) {
		return p.def.Clone(), nil
	}
	vs, ok := sliceValues(raw)
	if !ok {
		return nil, &TypeError{Field: p.id, Msg: fmt.Sprintf("expected a sequence of %s, got %T", p.elem.KindName(), raw)}
	}
	l, err := copyList(p.elem, vs)
	if err != nil {
		return nil, p.fieldErr(err)
	}
	return l, nil
}

// StructParameter holds a nested *Instance owned by its parent.
type StructParameter struct {
	base
	typ *Type
	def *Instance
}

// NewStruct declares a nested struct parameter. The default is t's default
// instance; Default accepts an instance of t or a mapping of its fields.
func NewStruct(name string, t *Type, opts ...Option) (*StructParameter, error) {
	c := newConfig(opts)
	b, err := newBase(name, c)
	if err != nil {
		return nil, err
	}
	if err := c.reject(b.id, KindStruct); err != nil {
		return nil, err
	}
	if t == nil {
		return nil, &DeclarationError{Field: b.id, Reason: "struct type is nil"}
	}
	if c.nullable {
		return nil, &DeclarationError{Field: b.id, Reason: "struct parameters cannot be nullable"}
	}
	p := &StructParameter{base: b, typ: t, def: t.newInstance()}
	if c.userDefault() {
		if p.def, err = t.coerce(c.def); err != nil {
			return nil, &DeclarationError{Field: b.id, Reason: fmt.Sprintf("default: %v", err)}
		}
	}
	// The template is never written after declaration.
	p.def = p.def.Clone()
	return p, nil
}

func (p *StructParameter) Kind() Kind { return KindStruct }

// Type returns the nested struct type.
func (p *StructParameter) Type() *Type { return p.typ }

func (p *StructParameter) Default() any { return p.def.Clone() }

func (p *StructParameter) Normalize(raw any) (any, error) {
	if isUnset(raw) {
		return p.def.Clone(), nil
	}
	inst, err := p.typ.coerce(raw)
	if err != nil {
		return nil, p.fieldErr(err)
	}
	return inst, nil
}
