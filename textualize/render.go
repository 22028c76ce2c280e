package textualize

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Mapping is a fixed-key ordered mapping.
type Mapping interface {
	Keys() []string
	Lookup(key string) (any, bool)
}

// Sequence is an indexable, sized sequence.
type Sequence interface {
	Len() int
	At(i int) any
}

// Render renders v with Unicode glyphs.
func Render(v any) string { return RenderWith(v, Unicode) }

// RenderWith renders v as a tree. Scalars render as themselves.
func RenderWith(v any, g Glyphs) string {
	return strings.TrimPrefix(render(v, g), "\n")
}

type entry struct {
	key   string
	value any
}

func render(v any, g Glyphs) string {
	entries, container, empty := children(v)
	if !container {
		return scalar(v)
	}
	if len(entries) == 0 {
		return empty
	}
	var b strings.Builder
	for i, e := range entries {
		branch, cont := g.Branch, g.Pipe
		if i == len(entries)-1 {
			branch, cont = g.Last, g.Blank
		}
		b.WriteString("\n")
		b.WriteString(branch)
		b.WriteString(e.key)
		b.WriteString(":")
		sub := render(e.value, g)
		if !strings.HasPrefix(sub, "\n") {
			b.WriteString(" ")
		}
		b.WriteString(strings.ReplaceAll(sub, "\n", "\n"+cont))
	}
	return b.String()
}

// children lists the entries of a mapping or sequence. container is false for
// scalars; empty is the placeholder to print when there are no entries.
func children(v any) (entries []entry, container bool, empty string) {
	switch x := v.(type) {
	case nil:
		return nil, false, ""
	case Mapping:
		for _, k := range x.Keys() {
			val, _ := x.Lookup(k)
			entries = append(entries, entry{k, val})
		}
		return entries, true, "{}"
	case Sequence:
		for i := 0; i < x.Len(); i++ {
			entries = append(entries, entry{fmt.Sprint(i), x.At(i)})
		}
		return entries, true, "[]"
	case *orderedmap.OrderedMap[string, any]:
		for p := x.Oldest(); p != nil; p = p.Next() {
			entries = append(entries, entry{p.Key, p.Value})
		}
		return entries, true, "{}"
	case fmt.Stringer:
		return nil, false, ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, k)
			byKey[k] = iter.Value().Interface()
		}
		sort.Strings(keys)
		for _, k := range keys {
			entries = append(entries, entry{k, byKey[k]})
		}
		return entries, true, "{}"
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			entries = append(entries, entry{fmt.Sprint(i), rv.Index(i).Interface()})
		}
		return entries, true, "[]"
	}
	return nil, false, ""
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		if x == "" {
			return `""`
		}
		return x
	}
	return fmt.Sprint(v)
}
