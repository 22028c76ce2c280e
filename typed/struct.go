package typed

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/ggoodman/strongtyping-go/textualize"
)

// Type is a struct kind: a named, ordered, immutable list of parameters.
// Build one with NewBuilder or Define.
type Type struct {
	name        string
	description string
	params      []Parameter
	ids         []string
	index       map[string]int

	version    *semver.Version
	deprecated []Deprecation
	migrate    MigrateFunc

	schemaOnce sync.Once
	schema     *jsonschema.Schema
}

func (t *Type) Name() string        { return t.name }
func (t *Type) Description() string { return t.description }

// Params returns the parameters in declaration order.
func (t *Type) Params() []Parameter { return slices.Clone(t.params) }

// Param returns the parameter declared under id.
func (t *Type) Param(id string) (Parameter, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return t.params[i], true
}

func (t *Type) newInstance() *Instance {
	return &Instance{
		typ:   t,
		slots: make([]any, len(t.params)),
		set:   make([]bool, len(t.params)),
	}
}

// New constructs an instance from positional arguments bound in declaration
// order. A single argument that is an instance of t copies it.
func (t *Type) New(positional ...any) (*Instance, error) {
	return t.construct(positional, nil)
}

// MustNew is like New but panics on error.
func (t *Type) MustNew(positional ...any) *Instance {
	inst, err := t.New(positional...)
	if err != nil {
		panic(err)
	}
	return inst
}

// NewFromMap constructs an instance from keyword arguments keyed by id.
func (t *Type) NewFromMap(named map[string]any) (*Instance, error) {
	return t.construct(nil, sortedPairs(named))
}

// Make combines positional and keyword construction. Keywords are applied
// after positional arguments and win when both name the same field.
func (t *Type) Make(positional []any, named map[string]any) (*Instance, error) {
	return t.construct(positional, sortedPairs(named))
}

type pair struct {
	key   string
	value any
}

func sortedPairs(m map[string]any) []pair {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]pair, len(keys))
	for i, k := range keys {
		out[i] = pair{k, m[k]}
	}
	return out
}

func (t *Type) construct(positional []any, named []pair) (*Instance, error) {
	var inst *Instance
	if len(positional) == 1 {
		if r, ok := positional[0].(Record); ok && r.instance() != nil && r.instance().typ == t {
			inst = r.instance().Clone()
			positional = nil
		}
	}
	if len(positional) > len(t.params) {
		msg := fmt.Sprintf("takes at most %d arguments (%d given)", len(t.params), len(positional))
		if len(t.params) == 0 {
			msg = fmt.Sprintf("takes no arguments (%d given)", len(positional))
		}
		return nil, &TypeError{Struct: t.name, Msg: msg}
	}
	if inst == nil {
		inst = t.newInstance()
	}
	for i, v := range positional {
		if err := inst.setIndex(i, v); err != nil {
			return nil, err
		}
	}
	for _, kv := range named {
		i, ok := t.index[kv.key]
		if !ok {
			return nil, &TypeError{Struct: t.name, Msg: fmt.Sprintf("got an unexpected keyword argument %q", kv.key)}
		}
		if err := inst.setIndex(i, kv.value); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// coerce is the nested-struct normalization rule: instances of t are copied,
// mapping-shaped values are keyword construction, and anything else is a
// single positional argument.
func (t *Type) coerce(v any) (*Instance, error) {
	if r, ok := v.(Record); ok {
		if src := r.instance(); src != nil && src.typ != t {
			return nil, &TypeError{Struct: t.name, Msg: fmt.Sprintf("cannot construct from a %s instance", src.typ.name)}
		}
		return t.construct([]any{v}, nil)
	}
	named, ok, err := asNamed(v)
	if err != nil {
		return nil, &TypeError{Struct: t.name, Msg: "cannot read fields", Err: err}
	}
	if ok {
		return t.construct(nil, named)
	}
	return t.construct([]any{v}, nil)
}

// asNamed reads mapping-shaped values: string-keyed maps (sorted), ordered
// maps (in order) and Go structs decoded through their json tags.
func asNamed(v any) ([]pair, bool, error) {
	switch x := v.(type) {
	case map[string]any:
		return sortedPairs(x), true, nil
	case *orderedmap.OrderedMap[string, any]:
		out := make([]pair, 0, x.Len())
		for p := x.Oldest(); p != nil; p = p.Next() {
			out = append(out, pair{p.Key, p.Value})
		}
		return out, true, nil
	case Choice, *List:
		return nil, false, nil
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch {
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return sortedPairs(m), true, nil
	case rv.Kind() == reflect.Struct:
		m, err := structToMap(v)
		if err != nil {
			return nil, false, err
		}
		return sortedPairs(m), true, nil
	}
	return nil, false, nil
}

// Coerce makes every *Type an ElementKind.
func (t *Type) Coerce(v any) (any, error) { return t.coerce(v) }

func (t *Type) KindName() string { return t.name }

func (t *Type) Accepts(v any) bool {
	inst, ok := v.(*Instance)
	return ok && inst != nil && inst.typ == t
}

// Zero returns a fresh default instance.
func (t *Type) Zero() any { return t.newInstance() }

// Record is the ordered-mapping view of a struct instance. It is implemented
// by *Instance and by any type embedding one.
type Record interface {
	Type() *Type
	Keys() []string
	Len() int
	Get(id string) (any, error)
	Set(id string, v any) error
	instance() *Instance
}

// Instance is a value of a struct Type. Fields are initialized lazily to
// their default on first read. Instances are not safe for concurrent use.
type Instance struct {
	typ   *Type
	slots []any
	set   []bool
}

func (i *Instance) instance() *Instance { return i }

func (i *Instance) Type() *Type { return i.typ }

func (i *Instance) lookupIndex(id string) (int, error) {
	idx, ok := i.typ.index[id]
	if !ok {
		return 0, &UnknownFieldError{Struct: i.typ.name, Field: id}
	}
	return idx, nil
}

func (i *Instance) get(idx int) any {
	if !i.set[idx] {
		i.slots[idx] = i.typ.params[idx].Default()
		i.set[idx] = true
	}
	return i.slots[idx]
}

func (i *Instance) setIndex(idx int, v any) error {
	p := i.typ.params[idx]
	nv, err := p.Normalize(v)
	if err != nil {
		return withField(err, i.typ.name, p.ID())
	}
	if isUnset(v) {
		logger().Debug("typed: field reset to default", "struct", i.typ.name, "field", p.ID())
	}
	i.slots[idx] = nv
	i.set[idx] = true
	return nil
}

// Get returns the canonical value of field id.
func (i *Instance) Get(id string) (any, error) {
	idx, err := i.lookupIndex(id)
	if err != nil {
		return nil, err
	}
	return i.get(idx), nil
}

// MustGet is like Get but panics on an unknown id.
func (i *Instance) MustGet(id string) any {
	v, err := i.Get(id)
	if err != nil {
		panic(err)
	}
	return v
}

// Set normalizes v and stores it. nil and "" reset the field to its default.
func (i *Instance) Set(id string, v any) error {
	idx, err := i.lookupIndex(id)
	if err != nil {
		return err
	}
	return i.setIndex(idx, v)
}

// Delete resets field id to its default.
func (i *Instance) Delete(id string) error { return i.Set(id, nil) }

// Keys returns the declared ids in order.
func (i *Instance) Keys() []string { return slices.Clone(i.typ.ids) }

func (i *Instance) Len() int { return len(i.typ.params) }

// Lookup is the mapping read used by textual rendering.
func (i *Instance) Lookup(id string) (any, bool) {
	v, err := i.Get(id)
	return v, err == nil
}

// FieldValue is one row of Fields.
type FieldValue struct {
	Param Parameter
	Value any
}

func (f FieldValue) ID() string { return f.Param.ID() }

// Container reports nested structs and lists.
func (f FieldValue) Container() bool {
	k := f.Param.Kind()
	return k == KindStruct || k == KindList
}

// Fields lists every field with its current canonical value, in declaration
// order. Edits go back through Set.
func (i *Instance) Fields() []FieldValue {
	out := make([]FieldValue, len(i.typ.params))
	for idx, p := range i.typ.params {
		out[idx] = FieldValue{Param: p, Value: i.get(idx)}
	}
	return out
}

// Equal reports whether other is an instance whose declared fields all
// compare equal to i's.
func (i *Instance) Equal(other any) bool {
	r, ok := other.(Record)
	if !ok {
		return false
	}
	o := r.instance()
	if i == nil || o == nil {
		return i == o
	}
	if i == o {
		return true
	}
	for idx, p := range i.typ.params {
		ov, err := o.Get(p.ID())
		if err != nil || !valuesEqual(i.get(idx), ov) {
			return false
		}
	}
	return true
}

// Clone snapshots every canonical value; nested structs and lists are copied
// too.
func (i *Instance) Clone() *Instance {
	out := i.typ.newInstance()
	for idx := range i.typ.params {
		out.slots[idx] = copyValue(i.get(idx))
		out.set[idx] = true
	}
	return out
}

// DeepCopy lets github.com/mohae/deepcopy copy instances without reaching into
// unexported fields.
func (i *Instance) DeepCopy() interface{} { return i.Clone() }

func (i *Instance) String() string { return textualize.Render(i) }
