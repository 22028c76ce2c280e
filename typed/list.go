package typed

import (
	"encoding/json"
	"fmt"

	"github.com/ggoodman/strongtyping-go/textualize"
)

// List is a mutable sequence whose elements all satisfy one ElementKind.
// Every mutation coerces incoming values first and leaves the list unchanged
// if any of them fails.
type List struct {
	kind  ElementKind
	elems []any
}

// NewTypedList builds a list of kind from elems.
func NewTypedList(kind ElementKind, elems ...any) (*List, error) {
	if kind == nil {
		return nil, &DeclarationError{Reason: "list element kind is nil"}
	}
	l := &List{kind: kind}
	if err := l.Extend(elems...); err != nil {
		return nil, err
	}
	return l, nil
}

// MustTypedList is like NewTypedList but panics on error.
func MustTypedList(kind ElementKind, elems ...any) *List {
	l, err := NewTypedList(kind, elems...)
	if err != nil {
		panic(err)
	}
	return l
}

// copyList builds a list that owns its elements: struct instances that
// already satisfy kind are cloned instead of shared.
func copyList(kind ElementKind, elems []any) (*List, error) {
	out := &List{kind: kind, elems: make([]any, 0, len(elems))}
	for _, v := range elems {
		if kind.Accepts(v) {
			out.elems = append(out.elems, copyValue(v))
			continue
		}
		cv, err := out.check(v)
		if err != nil {
			return nil, err
		}
		out.elems = append(out.elems, cv)
	}
	return out, nil
}

func (l *List) check(v any) (any, error) {
	if l.kind.Accepts(v) {
		return v, nil
	}
	out, err := l.kind.Coerce(v)
	if err != nil {
		return nil, &TypeError{
			Msg: fmt.Sprintf("list elements are expected to be %s, %T received", l.kind.KindName(), v),
			Err: err,
		}
	}
	return out, nil
}

func (l *List) checkAll(vs []any) ([]any, error) {
	out := make([]any, len(vs))
	for i, v := range vs {
		cv, err := l.check(v)
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return out, nil
}

func (l *List) index(i int) (int, error) {
	n := len(l.elems)
	j := i
	if j < 0 {
		j += n
	}
	if j < 0 || j >= n {
		return 0, &IndexError{Index: i, Len: n}
	}
	return j, nil
}

// Kind returns the element kind.
func (l *List) Kind() ElementKind { return l.kind }

func (l *List) Len() int { return len(l.elems) }

// At returns element i and panics when i is out of range, like slice
// indexing. Negative indices count from the end.
func (l *List) At(i int) any {
	v, err := l.Get(i)
	if err != nil {
		panic(err)
	}
	return v
}

// Get returns element i. Negative indices count from the end.
func (l *List) Get(i int) (any, error) {
	j, err := l.index(i)
	if err != nil {
		return nil, err
	}
	return l.elems[j], nil
}

// Set replaces element i.
func (l *List) Set(i int, v any) error {
	j, err := l.index(i)
	if err != nil {
		return err
	}
	cv, err := l.check(v)
	if err != nil {
		return err
	}
	l.elems[j] = cv
	return nil
}

// SetSlice assigns values to the slice [start:stop:step] with the clamping
// rules of extended slices. With step 1 the slice is replaced and the list
// may grow or shrink; any other step requires exactly one value per
// position.
func (l *List) SetSlice(start, stop, step int, values ...any) error {
	if step == 0 {
		return &TypeError{Msg: "slice step cannot be zero"}
	}
	cvs, err := l.checkAll(values)
	if err != nil {
		return err
	}
	n := len(l.elems)
	start, stop = sliceBounds(start, stop, step, n)

	if step == 1 {
		if stop < start {
			stop = start
		}
		out := make([]any, 0, n-(stop-start)+len(cvs))
		out = append(out, l.elems[:start]...)
		out = append(out, cvs...)
		out = append(out, l.elems[stop:]...)
		l.elems = out
		return nil
	}

	var idx []int
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		idx = append(idx, i)
	}
	if len(idx) != len(cvs) {
		return &TypeError{Msg: fmt.Sprintf("attempt to assign sequence of size %d to extended slice of size %d", len(cvs), len(idx))}
	}
	for k, i := range idx {
		l.elems[i] = cvs[k]
	}
	return nil
}

func sliceBounds(start, stop, step, n int) (int, int) {
	clamp := func(i, lo, hi int) int {
		if i < 0 {
			i += n
		}
		if i < lo {
			return lo
		}
		if i > hi {
			return hi
		}
		return i
	}
	if step > 0 {
		return clamp(start, 0, n), clamp(stop, 0, n)
	}
	return clamp(start, -1, n-1), clamp(stop, -1, n-1)
}

// Append adds v at the end.
func (l *List) Append(v any) error {
	cv, err := l.check(v)
	if err != nil {
		return err
	}
	l.elems = append(l.elems, cv)
	return nil
}

// Extend appends every value, or none of them.
func (l *List) Extend(values ...any) error {
	cvs, err := l.checkAll(values)
	if err != nil {
		return err
	}
	l.elems = append(l.elems, cvs...)
	return nil
}

// Insert places v before index i. Out of range indices clamp to either end.
func (l *List) Insert(i int, v any) error {
	cv, err := l.check(v)
	if err != nil {
		return err
	}
	n := len(l.elems)
	if i < 0 {
		i += n
	}
	i = max(0, min(i, n))
	l.elems = append(l.elems, nil)
	copy(l.elems[i+1:], l.elems[i:])
	l.elems[i] = cv
	return nil
}

// AppendDefault appends the kind's default value and returns it.
func (l *List) AppendDefault() any {
	v := l.kind.Zero()
	l.elems = append(l.elems, v)
	return v
}

// RemoveAt deletes element i and returns it.
func (l *List) RemoveAt(i int) (any, error) {
	j, err := l.index(i)
	if err != nil {
		return nil, err
	}
	v := l.elems[j]
	l.elems = append(l.elems[:j], l.elems[j+1:]...)
	return v, nil
}

// Values returns a shallow copy of the elements.
func (l *List) Values() []any {
	out := make([]any, len(l.elems))
	copy(out, l.elems)
	return out
}

// Clone copies the list; struct elements are cloned too.
func (l *List) Clone() *List {
	out := &List{kind: l.kind, elems: make([]any, len(l.elems))}
	for i, v := range l.elems {
		out.elems[i] = copyValue(v)
	}
	return out
}

// DeepCopy lets github.com/mohae/deepcopy copy lists without reaching into
// unexported fields.
func (l *List) DeepCopy() interface{} { return l.Clone() }

// Equal compares element-wise. Another *List must also share the element
// kind; plain slices compare by elements only.
func (l *List) Equal(other any) bool {
	if l == nil {
		return other == nil
	}
	var vs []any
	switch o := other.(type) {
	case *List:
		if o == nil || o.kind != l.kind {
			return false
		}
		vs = o.elems
	default:
		var ok bool
		if vs, ok = sliceValues(other); !ok {
			return false
		}
	}
	if len(vs) != len(l.elems) {
		return false
	}
	for i, v := range l.elems {
		if !valuesEqual(v, vs[i]) {
			return false
		}
	}
	return true
}

func (l *List) String() string { return textualize.Render(l) }

func (l *List) MarshalJSON() ([]byte, error) {
	if l.elems == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.elems)
}
