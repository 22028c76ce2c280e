package typed

import "reflect"

// valuesEqual compares canonical values. Numbers compare across int and
// float kinds; structs, lists and choices use their Equal methods.
func valuesEqual(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Record:
		return x.instance().Equal(b)
	case *List:
		return x.Equal(b)
	case Choice:
		return x.Equal(b)
	}
	switch b.(type) {
	case Record, *List, Choice:
		return valuesEqual(b, a)
	}
	if fa, ok := asNumber(a); ok {
		fb, ok := asNumber(b)
		return ok && fa == fb
	}
	ta := reflect.TypeOf(a)
	if ta == reflect.TypeOf(b) && ta.Comparable() {
		return a == b
	}
	if vs, ok := sliceValues(a); ok {
		ws, ok := sliceValues(b)
		if !ok || len(vs) != len(ws) {
			return false
		}
		for i := range vs {
			if !valuesEqual(vs[i], ws[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func asNumber(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// copyValue snapshots a canonical value so the copy shares no mutable state
// with its source.
func copyValue(v any) any {
	switch x := v.(type) {
	case *Instance:
		if x == nil {
			return x
		}
		return x.Clone()
	case *List:
		if x == nil {
			return x
		}
		return x.Clone()
	}
	return v
}
