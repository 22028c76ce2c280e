package typed

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// isUnset reports whether v is the "reset this field" sentinel: nil, a nil
// pointer, or the empty string.
func isUnset(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func toInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n), nil
		}
		f, err := x.Float64()
		switch {
		case err == nil:
			return floatToInt(f)
		case errors.Is(err, strconv.ErrRange) && f > 0:
			return math.MaxInt, nil
		case errors.Is(err, strconv.ErrRange) && f < 0:
			return math.MinInt, nil
		}
		return 0, typeErrorf(err, "cannot convert %q to int", x)
	case string:
		// Decimal only: "08" is 8, not an invalid octal literal.
		s := strings.TrimSpace(x)
		n, err := strconv.ParseInt(s, 10, 0)
		switch {
		case err == nil:
			return int(n), nil
		case errors.Is(err, strconv.ErrRange) && strings.HasPrefix(s, "-"):
			return math.MinInt, nil
		case errors.Is(err, strconv.ErrRange):
			return math.MaxInt, nil
		}
		return 0, typeErrorf(err, "cannot convert %q to int", x)
	case float64:
		return floatToInt(x)
	case float32:
		return floatToInt(float64(x))
	case uint64:
		return int(min(x, math.MaxInt)), nil
	case uint:
		return int(min(x, math.MaxInt)), nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, typeErrorf(err, "cannot convert %T to int", v)
	}
	return n, nil
}

// floatToInt truncates toward zero and saturates at the int range, so that
// huge values still clamp to the right end of a declared range.
func floatToInt(f float64) (int, error) {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, typeErrorf(nil, "cannot convert %v to int", f)
	case f >= float64(math.MaxInt):
		return math.MaxInt, nil
	case f <= float64(math.MinInt):
		return math.MinInt, nil
	}
	return int(f), nil
}

// toFloat rejects NaN: it compares false against every bound and would slip
// through clamping.
func toFloat(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case json.Number:
		var err error
		if f, err = x.Float64(); err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, typeErrorf(err, "cannot convert %q to float", x)
		}
	default:
		var err error
		if f, err = cast.ToFloat64E(v); err != nil {
			return 0, typeErrorf(err, "cannot convert %T to float", v)
		}
	}
	if math.IsNaN(f) {
		return 0, typeErrorf(nil, "cannot convert %v to float: not a number", v)
	}
	return f, nil
}

// toString never fails: values cast cannot handle fall back to their
// default formatting. Floats always show a fraction or an exponent, so 3.0
// stays distinguishable from the integer 3.
func toString(v any) string {
	switch x := v.(type) {
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if a := math.Abs(f); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// toBool maps "False"/"false" and anything that reads as the integer 0 to
// false; everything else goes through truthiness. Strings are read as
// integers after trimming surrounding space.
func toBool(v any) bool {
	if s, ok := v.(string); ok {
		if s == "False" || s == "false" {
			return false
		}
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil && n == 0 {
			return false
		}
		return s != ""
	}
	if n, err := cast.ToInt64E(v); err == nil && n == 0 {
		return false
	}
	return truthy(v)
}

type lengther interface{ Len() int }

func truthy(v any) bool {
	if v == nil {
		return false
	}
	if l, ok := v.(lengther); ok {
		return l.Len() > 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// sliceValues flattens any slice or array into []any. ok is false for
// non-sequence values; strings are not sequences here.
func sliceValues(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case *List:
		return x.Values(), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
