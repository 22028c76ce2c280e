package typed

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// JSONSchema describes the JSON shape MarshalJSON produces and Unmarshal
// accepts. The schema is built once per type and must not be modified.
func (t *Type) JSONSchema() *jsonschema.Schema {
	t.schemaOnce.Do(func() {
		s := t.objectSchema()
		s.Version = jsonschema.Version
		t.schema = s
	})
	return t.schema
}

func (t *Type) objectSchema() *jsonschema.Schema {
	s := &jsonschema.Schema{
		Title:                t.name,
		Description:          t.description,
		Type:                 "object",
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.FalseSchema,
	}
	if t.version != nil {
		s.Properties.Set("version", &jsonschema.Schema{
			Type:    "string",
			Default: t.version.String(),
		})
	}
	for _, p := range t.params {
		s.Properties.Set(p.ID(), paramSchema(p))
	}
	return s
}

func paramSchema(p Parameter) *jsonschema.Schema {
	s := kindSchema(p)
	s.Title = p.Name()
	s.Description = p.Description()
	if def := p.Default(); def != nil {
		s.Default = schemaDefault(def)
	}
	if !p.Nullable() {
		return s
	}
	inner := *s
	inner.Title, inner.Description, inner.Default = "", "", nil
	return &jsonschema.Schema{
		Title:       s.Title,
		Description: s.Description,
		AnyOf:       []*jsonschema.Schema{&inner, {Type: "null"}},
	}
}

func kindSchema(p Parameter) *jsonschema.Schema {
	switch x := p.(type) {
	case *IntegerParameter:
		s := &jsonschema.Schema{Type: "integer"}
		lo, hi := x.Bounds()
		if lo != nil {
			s.Minimum = json.Number(fmt.Sprint(*lo))
		}
		if hi != nil {
			s.Maximum = json.Number(fmt.Sprint(*hi))
		}
		return s
	case *FloatParameter:
		s := &jsonschema.Schema{Type: "number"}
		lo, hi := x.Bounds()
		if lo != nil {
			s.Minimum = json.Number(fmt.Sprint(*lo))
		}
		if hi != nil {
			s.Maximum = json.Number(fmt.Sprint(*hi))
		}
		return s
	case *BoolParameter:
		return &jsonschema.Schema{Type: "boolean"}
	case *StringParameter:
		return &jsonschema.Schema{Type: "string"}
	case *EnumParameter:
		enum := make([]any, 0, x.enum.Len())
		for _, n := range x.enum.Names() {
			enum = append(enum, n)
		}
		return &jsonschema.Schema{Type: "string", Enum: enum}
	case *ListParameter:
		return &jsonschema.Schema{Type: "array", Items: elemSchema(x.elem)}
	case *StructParameter:
		return x.typ.objectSchema()
	}
	return &jsonschema.Schema{}
}

func elemSchema(k ElementKind) *jsonschema.Schema {
	switch k {
	case IntKind:
		return &jsonschema.Schema{Type: "integer"}
	case FloatKind:
		return &jsonschema.Schema{Type: "number"}
	case BoolKind:
		return &jsonschema.Schema{Type: "boolean"}
	case StringKind:
		return &jsonschema.Schema{Type: "string"}
	}
	if t, ok := k.(*Type); ok {
		return t.objectSchema()
	}
	return &jsonschema.Schema{}
}

// schemaDefault converts a canonical default to its JSON form.
func schemaDefault(v any) any {
	switch x := v.(type) {
	case *Instance:
		return x.ToDict()
	case *List:
		return dictValue(x)
	case Choice:
		return x.Name()
	}
	return v
}
