// Package typed declares record types whose fields enforce their kind, range
// and default on every read and write.
//
// A struct Type is an ordered list of Parameters. Each parameter normalizes
// raw input to a canonical value:
//
//	int      Integer fields, optionally custom-normalized and clamped
//	float64  Float fields, likewise
//	bool     Bool fields
//	string   String fields
//	Choice   Enum fields
//	*List    List fields, holding elements of one ElementKind
//	*Instance
//	         nested Struct fields
//
// nil is the absent value of nullable fields. Assigning nil or "" to any field
// resets it to its default; assigning an out of range number clamps it.
// Values that cannot be coerced fail with a *TypeError.
//
// Instances own their nested structs and lists: defaults are rebuilt on every
// reset and copies never share mutable state.
//
//	inner := typed.NewBuilder("Inner").
//		Integer("ranged_int", typed.Range(0, 10)).
//		MustBuild()
//	outer := typed.NewBuilder("Outer").
//		Struct("inner", inner, typed.Default(map[string]any{"ranged_int": 5})).
//		MustBuild()
//
//	o := outer.MustNew()
//	in, _ := o.Get("inner")
//	in.(*typed.Instance).Set("ranged_int", 10)
//	o.Delete("inner") // inner.ranged_int is 5 again
package typed
