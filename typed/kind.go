package typed

// ElementKind describes what a List may hold. Accepts reports values that
// already satisfy the kind and are stored as is; Coerce converts anything
// else, and Zero builds the kind's default value.
//
// The scalar kinds below and every *Type implement ElementKind.
type ElementKind interface {
	KindName() string
	Accepts(v any) bool
	Coerce(v any) (any, error)
	Zero() any
}

type scalarKind struct {
	name    string
	accepts func(any) bool
	coerce  func(any) (any, error)
	zero    any
}

func (k *scalarKind) KindName() string          { return k.name }
func (k *scalarKind) Accepts(v any) bool        { return k.accepts(v) }
func (k *scalarKind) Coerce(v any) (any, error) { return k.coerce(v) }
func (k *scalarKind) Zero() any                 { return k.zero }

func is[T any](v any) bool {
	_, ok := v.(T)
	return ok
}

var (
	IntKind ElementKind = &scalarKind{
		name:    "int",
		accepts: is[int],
		coerce:  func(v any) (any, error) { return toInt(v) },
		zero:    0,
	}
	FloatKind ElementKind = &scalarKind{
		name:    "float",
		accepts: is[float64],
		coerce:  func(v any) (any, error) { return toFloat(v) },
		zero:    0.0,
	}
	BoolKind ElementKind = &scalarKind{
		name:    "bool",
		accepts: is[bool],
		coerce:  func(v any) (any, error) { return toBool(v), nil },
		zero:    false,
	}
	StringKind ElementKind = &scalarKind{
		name:    "string",
		accepts: is[string],
		coerce:  func(v any) (any, error) { return toString(v), nil },
		zero:    "",
	}
)
