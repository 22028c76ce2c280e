package typed

import "fmt"

// Field is a typed accessor for one parameter of a struct type. Resolve it
// once, next to the type declaration, and use it on every instance:
//
//	var (
//		Point = typed.NewBuilder("Point").Integer("x").MustBuild()
//		X     = typed.MustField[int](Point, "x")
//	)
//
//	x, err := X.Get(p)
type Field[T any] struct {
	typ   *Type
	idx   int
	param Parameter
}

// FieldOf resolves id on t and checks that T can hold the parameter's
// canonical values. T may always be any.
func FieldOf[T any](t *Type, id string) (Field[T], error) {
	idx, ok := t.index[id]
	if !ok {
		return Field[T]{}, &UnknownFieldError{Struct: t.name, Field: id}
	}
	p := t.params[idx]
	if !holds[T](p.Kind()) {
		var zero T
		return Field[T]{}, &DeclarationError{
			Struct: t.name,
			Field:  id,
			Reason: fmt.Sprintf("%s parameter cannot be accessed as %T", p.Kind(), zero),
		}
	}
	return Field[T]{typ: t, idx: idx, param: p}, nil
}

// MustField is like FieldOf but panics on error.
func MustField[T any](t *Type, id string) Field[T] {
	f, err := FieldOf[T](t, id)
	if err != nil {
		panic(err)
	}
	return f
}

func holds[T any](k Kind) bool {
	var zero T
	switch any(&zero).(type) {
	case *any:
		return true
	case *int:
		return k == KindInteger
	case *float64:
		return k == KindFloat
	case *bool:
		return k == KindBool
	case *string:
		return k == KindString
	case *Choice:
		return k == KindEnum
	case **List:
		return k == KindList
	case **Instance:
		return k == KindStruct
	}
	return false
}

func (f Field[T]) ID() string { return f.param.ID() }

func (f Field[T]) Param() Parameter { return f.param }

func (f Field[T]) check(r Record) (*Instance, error) {
	inst := r.instance()
	if inst == nil || inst.typ != f.typ {
		return nil, &TypeError{Struct: f.typ.name, Field: f.param.ID(), Msg: "record is not an instance of this type"}
	}
	return inst, nil
}

// Get reads the field. A nullable field holding no value yields the zero T
// and ok false.
func (f Field[T]) Get(r Record) (v T, ok bool, err error) {
	inst, err := f.check(r)
	if err != nil {
		return v, false, err
	}
	raw := inst.get(f.idx)
	if raw == nil {
		return v, false, nil
	}
	return raw.(T), true, nil
}

// Value is Get without the error and presence results, for records known to
// be of the field's type.
func (f Field[T]) Value(r Record) T {
	v, _, err := f.Get(r)
	if err != nil {
		panic(err)
	}
	return v
}

// Set normalizes and stores v.
func (f Field[T]) Set(r Record, v any) error {
	inst, err := f.check(r)
	if err != nil {
		return err
	}
	return inst.setIndex(f.idx, v)
}

// Reset restores the field's default.
func (f Field[T]) Reset(r Record) error { return f.Set(r, nil) }

// Normalize runs the parameter's normalizer without touching any record.
func (f Field[T]) Normalize(raw any) (T, error) {
	var zero T
	v, err := f.param.Normalize(raw)
	if err != nil || v == nil {
		return zero, err
	}
	return v.(T), nil
}

// Default returns a fresh default value.
func (f Field[T]) Default() T {
	var zero T
	if v := f.param.Default(); v != nil {
		return v.(T)
	}
	return zero
}
