package typed

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func keysOf(om *orderedmap.OrderedMap[string, any]) []string {
	var keys []string
	for p := om.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

func innerType(t *testing.T) *Type {
	t.Helper()
	inner, err := NewBuilder("Inner").
		Description("Nested struct").
		Integer("ranged_int", Range(0, 10)).
		Float("optional_float", Default(nil)).
		Build()
	require.NoError(t, err)
	return inner
}

func outerType(t *testing.T) *Type {
	t.Helper()
	return outerTypeOf(t, innerType(t))
}

// outerTypeOf builds Outer around a given inner type, for tests that need
// instances of the nested type itself.
func outerTypeOf(t *testing.T, inner *Type) *Type {
	t.Helper()
	return NewBuilder("Outer").
		Integer("int").
		Struct("inner", inner, Default(map[string]any{"ranged_int": 5})).
		List("values", IntKind, Default([]int{1, 2})).
		Enum("letter", []string{"a", "b", "c"}).
		String("str").
		MustBuild()
}

func TestStructDefaults(t *testing.T) {
	outer := outerType(t)
	o := outer.MustNew()
	require.Equal(t, []string{"int", "inner", "values", "letter", "str"}, o.Keys())
	require.Equal(t, 5, o.Len())

	require.Equal(t, 0, o.MustGet("int"))
	require.Equal(t, 5, o.MustGet("inner").(*Instance).MustGet("ranged_int"))
	require.Nil(t, o.MustGet("inner").(*Instance).MustGet("optional_float"))
	require.True(t, o.MustGet("values").(*List).Equal([]int{1, 2}))
	require.True(t, o.MustGet("letter").(Choice).Equal("a"))
	require.Equal(t, "", o.MustGet("str"))
}

func TestNestedDefaultIndependence(t *testing.T) {
	o := outerType(t).MustNew()
	for i := 0; i < 3; i++ {
		in := o.MustGet("inner").(*Instance)
		require.NoError(t, in.Set("ranged_int", 10))
		require.Equal(t, 10, o.MustGet("inner").(*Instance).MustGet("ranged_int"))

		require.NoError(t, o.Set("inner", nil))
		require.Equal(t, 5, o.MustGet("inner").(*Instance).MustGet("ranged_int"))

		require.NoError(t, o.MustGet("inner").(*Instance).Set("ranged_int", 1))
		require.NoError(t, o.Delete("inner"))
		require.Equal(t, 5, o.MustGet("inner").(*Instance).MustGet("ranged_int"))
	}
}

func TestListDefaultsAreNotShared(t *testing.T) {
	outer := outerType(t)
	a, b := outer.MustNew(), outer.MustNew()
	require.NoError(t, a.MustGet("values").(*List).Append(3))
	require.Equal(t, 3, a.MustGet("values").(*List).Len())
	require.Equal(t, 2, b.MustGet("values").(*List).Len())

	src := MustTypedList(IntKind, 9)
	require.NoError(t, b.Set("values", src))
	require.NotSame(t, src, b.MustGet("values"))
	require.NoError(t, src.Append(10))
	require.Equal(t, 1, b.MustGet("values").(*List).Len())

	require.NoError(t, b.Set("values", []string{"4", "5"}))
	require.True(t, b.MustGet("values").(*List).Equal([]int{4, 5}))
	require.ErrorIs(t, b.Set("values", 4), ErrType)
	require.ErrorIs(t, b.Set("values", []any{"x"}), ErrType)

	require.NoError(t, b.Delete("values"))
	require.True(t, b.MustGet("values").(*List).Equal([]int{1, 2}))
}

func TestStructConstruction(t *testing.T) {
	inner := innerType(t)

	in, err := inner.New(42, "1.5")
	require.NoError(t, err)
	require.Equal(t, 10, in.MustGet("ranged_int"))
	require.Equal(t, 1.5, in.MustGet("optional_float"))

	in, err = inner.NewFromMap(map[string]any{"optional_float": 2})
	require.NoError(t, err)
	require.Equal(t, 0, in.MustGet("ranged_int"))
	require.Equal(t, 2.0, in.MustGet("optional_float"))

	in, err = inner.Make([]any{3}, map[string]any{"ranged_int": 4})
	require.NoError(t, err)
	require.Equal(t, 4, in.MustGet("ranged_int"))

	_, err = inner.New(1, 2, 3)
	require.ErrorIs(t, err, ErrType)
	require.Contains(t, err.Error(), "takes at most 2 arguments (3 given)")

	_, err = inner.NewFromMap(map[string]any{"nope": 1})
	require.ErrorIs(t, err, ErrType)
	require.Contains(t, err.Error(), `unexpected keyword argument "nope"`)

	_, err = inner.New("abc")
	require.ErrorIs(t, err, ErrType)
	var te *TypeError
	require.ErrorAs(t, err, &te)
	require.Equal(t, "Inner", te.Struct)
	require.Equal(t, "ranged_int", te.Field)

	empty := NewBuilder("Empty").MustBuild()
	_, err = empty.New(1)
	require.Contains(t, err.Error(), "takes no arguments (1 given)")
}

func TestCopyConstruction(t *testing.T) {
	outer := outerType(t)
	a := outer.MustNew()
	require.NoError(t, a.Set("int", 7))

	b, err := outer.New(a)
	require.NoError(t, err)
	require.True(t, b.Equal(a))
	require.NotSame(t, a.MustGet("inner"), b.MustGet("inner"))

	require.NoError(t, a.MustGet("values").(*List).Append(3))
	require.NoError(t, a.MustGet("inner").(*Instance).Set("ranged_int", 9))
	require.Equal(t, 2, b.MustGet("values").(*List).Len())
	require.Equal(t, 5, b.MustGet("inner").(*Instance).MustGet("ranged_int"))
	require.False(t, b.Equal(a))

	c := a.Clone()
	require.True(t, c.Equal(a))
}

type wrapped struct {
	*Instance
}

func TestRecordEmbedding(t *testing.T) {
	inner := innerType(t)
	w := wrapped{inner.MustNew(3)}

	cp, err := inner.New(w)
	require.NoError(t, err)
	require.Equal(t, 3, cp.MustGet("ranged_int"))
	require.True(t, cp.Equal(w))
	require.True(t, w.Equal(cp))

	o := outerTypeOf(t, inner).MustNew()
	require.NoError(t, o.Set("inner", w))
	require.Equal(t, 3, o.MustGet("inner").(*Instance).MustGet("ranged_int"))

	other := NewBuilder("Other").Integer("ranged_int").MustBuild()
	require.ErrorIs(t, o.Set("inner", other.MustNew()), ErrType)
}

type innerDTO struct {
	RangedInt     int      `json:"ranged_int"`
	OptionalFloat *float64 `json:"optional_float"`
}

func TestNestedStructFromGoValues(t *testing.T) {
	o := outerType(t).MustNew()
	f := 0.5
	require.NoError(t, o.Set("inner", innerDTO{RangedInt: 20, OptionalFloat: &f}))
	in := o.MustGet("inner").(*Instance)
	require.Equal(t, 10, in.MustGet("ranged_int"))
	require.Equal(t, 0.5, in.MustGet("optional_float"))

	require.NoError(t, o.Set("inner", 2))
	require.Equal(t, 2, o.MustGet("inner").(*Instance).MustGet("ranged_int"))
}

func TestUnknownFieldAccess(t *testing.T) {
	o := outerType(t).MustNew()
	_, err := o.Get("undeclared")
	require.ErrorIs(t, err, ErrUnknownField)
	require.ErrorIs(t, o.Set("undeclared", 1), ErrUnknownField)
	require.ErrorIs(t, o.Delete("undeclared"), ErrUnknownField)
	_, ok := o.Lookup("undeclared")
	require.False(t, ok)
	require.Panics(t, func() { o.MustGet("undeclared") })
}

func TestStructEquality(t *testing.T) {
	outer := outerType(t)
	a, b := outer.MustNew(), outer.MustNew()
	require.True(t, a.Equal(b))

	require.NoError(t, b.Set("letter", "c"))
	require.False(t, a.Equal(b))
	require.NoError(t, b.Delete("letter"))
	require.True(t, a.Equal(b))

	require.NoError(t, a.Set("int", 3))
	require.NoError(t, b.Set("int", 3.0))
	require.True(t, a.Equal(b))

	require.False(t, a.Equal(5))
	require.False(t, a.Equal(a.Plain()))
	require.False(t, a.Equal(nil))
}

func TestFieldsView(t *testing.T) {
	o := outerType(t).MustNew()
	fields := o.Fields()
	require.Len(t, fields, 5)
	require.Equal(t, "int", fields[0].ID())
	require.False(t, fields[0].Container())
	require.True(t, fields[1].Container())
	require.True(t, fields[2].Container())
	require.False(t, fields[3].Container())
}

func TestInstanceRendering(t *testing.T) {
	o := outerType(t).MustNew()
	want := "├─ int: 0\n" +
		"├─ inner:\n" +
		"│  ├─ ranged_int: 5\n" +
		"│  └─ optional_float: null\n" +
		"├─ values:\n" +
		"│  ├─ 0: 1\n" +
		"│  └─ 1: 2\n" +
		"├─ letter: a\n" +
		"└─ str: \"\""
	require.Equal(t, want, o.String())
}

func TestDictAndJSON(t *testing.T) {
	o := outerType(t).MustNew()
	d := o.ToDict()
	require.Equal(t, []string{"int", "inner", "values", "letter", "str"}, keysOf(d))
	letter, _ := d.Get("letter")
	require.True(t, letter.(Choice).Equal("a"))

	b, err := json.Marshal(o)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"int": 0,
		"inner": {"ranged_int": 5, "optional_float": null},
		"values": [1, 2],
		"letter": "a",
		"str": ""
	}`, string(b))

	back, err := o.Type().Unmarshal(b)
	require.NoError(t, err)
	require.True(t, back.Equal(o))

	back, err = o.Type().Unmarshal([]byte(`{"int": "4", "values": [3], "letter": "b", "inner": {"ranged_int": 99}}`))
	require.NoError(t, err)
	require.Equal(t, 4, back.MustGet("int"))
	require.Equal(t, 10, back.MustGet("inner").(*Instance).MustGet("ranged_int"))
	require.True(t, back.MustGet("letter").(Choice).Equal("b"))

	_, err = o.Type().Unmarshal([]byte(`{"int": [1]}`))
	require.ErrorIs(t, err, ErrType)
	_, err = o.Type().Unmarshal([]byte(`not json`))
	require.Error(t, err)
}

type outerDTO struct {
	Int    int            `json:"int"`
	Inner  map[string]any `json:"inner"`
	Values []int          `json:"values"`
	Letter string         `json:"letter"`
}

func TestDecode(t *testing.T) {
	o := outerType(t).MustNew()
	require.NoError(t, o.Set("letter", "b"))
	var dto outerDTO
	require.NoError(t, o.Decode(&dto))
	require.Equal(t, "b", dto.Letter)
	require.Equal(t, []int{1, 2}, dto.Values)
	require.Equal(t, 5, dto.Inner["ranged_int"])
}

func TestFieldOf(t *testing.T) {
	inner := innerType(t)
	ranged := MustField[int](inner, "ranged_int")
	optional := MustField[float64](inner, "optional_float")

	in := inner.MustNew()
	v, ok, err := ranged.Get(in)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, v)

	require.NoError(t, ranged.Set(in, 50))
	require.Equal(t, 10, ranged.Value(in))
	require.NoError(t, ranged.Reset(in))
	require.Equal(t, 0, ranged.Value(in))

	_, ok, err = optional.Get(in)
	require.NoError(t, err)
	require.False(t, ok)

	n, err := ranged.Normalize("-4")
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.Equal(t, 0, ranged.Default())

	_, err = FieldOf[string](inner, "ranged_int")
	require.ErrorIs(t, err, ErrDeclaration)
	_, err = FieldOf[int](inner, "nope")
	require.ErrorIs(t, err, ErrUnknownField)
	_, err = FieldOf[any](inner, "optional_float")
	require.NoError(t, err)

	other := NewBuilder("Other").Integer("ranged_int").MustBuild()
	_, _, err = ranged.Get(other.MustNew())
	require.ErrorIs(t, err, ErrType)
}

func TestBuilderErrors(t *testing.T) {
	_, err := NewBuilder("Dup").Integer("a").String("a").Build()
	require.ErrorIs(t, err, ErrDeclaration)

	_, err = NewBuilder("BadParam").Integer("n", Range(5, 1)).Bool("ok").Build()
	require.ErrorIs(t, err, ErrDeclaration)
	var de *DeclarationError
	require.ErrorAs(t, err, &de)
	require.Equal(t, "BadParam", de.Struct)

	_, err = NewBuilder("").Build()
	require.ErrorIs(t, err, ErrDeclaration)

	_, err = NewBuilder("Enum").Enum("e", []string{}).Build()
	require.ErrorIs(t, err, ErrType)

	require.Panics(t, func() { NewBuilder("Panics").Integer("BAD", ID("BAD")).MustBuild() })

	p, err := NewInteger("a")
	require.NoError(t, err)
	typ, err := Define("Defined", "Built from parameters", p)
	require.NoError(t, err)
	require.Equal(t, "Built from parameters", typ.Description())
	got, ok := typ.Param("a")
	require.True(t, ok)
	require.Same(t, p, got)
}

func requireMaterialized(t *testing.T, inst *Instance) {
	t.Helper()
	for idx, ok := range inst.set {
		require.True(t, ok, "%s.%s is still lazy", inst.typ.name, inst.typ.ids[idx])
		if nested, isInst := inst.slots[idx].(*Instance); isInst {
			requireMaterialized(t, nested)
		}
	}
}

func TestDefaultTemplatesAreFilledAtDeclaration(t *testing.T) {
	inner := innerType(t)
	outer := outerTypeOf(t, inner)

	p, ok := outer.Param("inner")
	require.True(t, ok)
	requireMaterialized(t, p.(*StructParameter).def)

	plain, err := NewStruct("plain", inner)
	require.NoError(t, err)
	requireMaterialized(t, plain.def)

	points, err := NewList("points", inner, Default([]any{map[string]any{"ranged_int": 2}, inner.MustNew(4)}))
	require.NoError(t, err)
	for _, v := range points.def.elems {
		requireMaterialized(t, v.(*Instance))
	}

	holder := NewBuilder("Holder").Param(points).Struct("outer", outer).MustBuild()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := holder.MustNew()
			o := h.MustGet("outer").(*Instance)
			_ = o.MustGet("inner").(*Instance).MustGet("ranged_int")
			_ = h.MustGet("points").(*List).At(1).(*Instance).MustGet("ranged_int")
		}()
	}
	wg.Wait()

	h := holder.MustNew()
	require.Equal(t, 5, h.MustGet("outer").(*Instance).MustGet("inner").(*Instance).MustGet("ranged_int"))
	require.Equal(t, 4, h.MustGet("points").(*List).At(1).(*Instance).MustGet("ranged_int"))
}
