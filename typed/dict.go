package typed

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ToDict returns the fields as an ordered mapping keyed by id. Nested structs
// become nested mappings and lists become []any; choices are kept as Choice.
func (i *Instance) ToDict() *orderedmap.OrderedMap[string, any] {
	om := orderedmap.New[string, any]()
	for idx, p := range i.typ.params {
		om.Set(p.ID(), dictValue(i.get(idx)))
	}
	return om
}

func dictValue(v any) any {
	switch x := v.(type) {
	case *Instance:
		return x.ToDict()
	case *List:
		out := make([]any, len(x.elems))
		for i, e := range x.elems {
			out[i] = dictValue(e)
		}
		return out
	}
	return v
}

// plainValue is dictValue with plain maps and choice names, the shape
// mapstructure and YAML encoders expect.
func plainValue(v any) any {
	switch x := v.(type) {
	case *Instance:
		return x.plain()
	case *List:
		out := make([]any, len(x.elems))
		for i, e := range x.elems {
			out[i] = plainValue(e)
		}
		return out
	case Choice:
		return x.Name()
	}
	return v
}

func (i *Instance) plain() map[string]any {
	out := make(map[string]any, len(i.typ.params))
	for idx, p := range i.typ.params {
		out[p.ID()] = plainValue(i.get(idx))
	}
	return out
}

// Plain returns the fields as a plain map with choices replaced by their
// names.
func (i *Instance) Plain() map[string]any { return i.plain() }

// MarshalJSON writes fields in declaration order. Versioned types lead with a
// "version" key.
func (i *Instance) MarshalJSON() ([]byte, error) {
	om := i.ToDict()
	if i.typ.version != nil {
		om.Set("version", i.typ.version.String())
		if err := om.MoveToFront("version"); err != nil {
			return nil, err
		}
	}
	return json.Marshal(om)
}

// Unmarshal decodes a JSON object and builds an instance through FromDict.
func (t *Type) Unmarshal(data []byte) (*Instance, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("typed: decode %s: %w", t.name, err)
	}
	return t.FromDict(m)
}

// Decode copies the fields into out, a pointer to a Go struct or map, using
// json tags for field names.
func (i *Instance) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return fmt.Errorf("typed: decode %s: %w", i.typ.name, err)
	}
	if err := dec.Decode(i.plain()); err != nil {
		return fmt.Errorf("typed: decode %s: %w", i.typ.name, err)
	}
	return nil
}

func structToMap(v any) (map[string]any, error) {
	var out map[string]any
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, err
	}
	return out, nil
}
