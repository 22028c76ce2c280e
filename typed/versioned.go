package typed

import (
	"fmt"
	"maps"

	"github.com/Masterminds/semver/v3"
	"github.com/mohae/deepcopy"

	"github.com/ggoodman/strongtyping-go/internal/validation"
)

// MigrateFunc builds a current instance from data stored by an older version
// of t. data no longer carries the "version" key and belongs to the hook.
type MigrateFunc func(t *Type, data map[string]any, from *semver.Version) (*Instance, error)

// Deprecation documents a parameter that older versions of a type declared.
// First is nil when the parameter predates versioning.
type Deprecation struct {
	Param Parameter
	First *semver.Version
	Last  *semver.Version
}

func (t *Type) deprecation(d deprecation) (Deprecation, error) {
	fail := func(reason string) (Deprecation, error) {
		field := ""
		if d.param != nil {
			field = d.param.ID()
		}
		return Deprecation{}, &DeclarationError{Struct: t.name, Field: field, Reason: reason}
	}
	if d.param == nil {
		return fail("nil deprecated parameter")
	}
	if _, clash := t.index[d.param.ID()]; clash {
		return fail("deprecated parameter is still declared")
	}
	out := Deprecation{Param: d.param}
	if d.first != "" {
		v, err := semver.NewVersion(d.first)
		if err != nil {
			return fail(fmt.Sprintf("first version: %v", err))
		}
		out.First = v
	}
	v, err := semver.NewVersion(d.last)
	if err != nil {
		return fail(fmt.Sprintf("last version: %v", err))
	}
	out.Last = v
	first := out.First
	if first == nil {
		first = out.Last
	}
	if err := validation.Versions(first, out.Last, t.version, (*semver.Version).LessThan); err != nil {
		return fail(err.Error())
	}
	return out, nil
}

// Version is the current version of a versioned type, or nil.
func (t *Type) Version() *semver.Version { return t.version }

// Version is the version of the instance's type, or nil.
func (i *Instance) Version() *semver.Version { return i.typ.version }

// Deprecated lists the documented deprecated parameters.
func (t *Type) Deprecated() []Deprecation {
	out := make([]Deprecation, len(t.deprecated))
	copy(out, t.deprecated)
	return out
}

// FromDict builds an instance from stored data keyed by id. For versioned
// types a "version" key older than the current version hands the data to the
// migration hook; otherwise the data is keyword construction. The caller's
// map is never modified.
func (t *Type) FromDict(data map[string]any) (*Instance, error) {
	data = maps.Clone(data)
	if data == nil {
		data = map[string]any{}
	}
	if t.version != nil {
		if raw, ok := data["version"]; ok {
			delete(data, "version")
			from, err := parseVersion(raw)
			if err != nil {
				return nil, &TypeError{Struct: t.name, Field: "version", Msg: "invalid version", Err: err}
			}
			if from.LessThan(t.version) {
				if t.migrate == nil {
					return nil, fmt.Errorf("%w: %s %s is older than %s", ErrNoMigration, t.name, from, t.version)
				}
				logger().Debug("typed: migrating stored data", "struct", t.name, "from", from.String(), "to", t.version.String())
				owned, _ := deepcopy.Copy(data).(map[string]any)
				return t.migrate(t, owned, from)
			}
		}
	}
	return t.construct(nil, sortedPairs(data))
}

// parseVersion only reads strings and semver values. Numbers are refused: a
// YAML or JSON 1.10 arrives as the float 1.1 and would silently become 1.1.0.
func parseVersion(raw any) (*semver.Version, error) {
	switch v := raw.(type) {
	case *semver.Version:
		if v == nil {
			return nil, fmt.Errorf("version is nil")
		}
		return v, nil
	case semver.Version:
		return &v, nil
	case string:
		return semver.NewVersion(v)
	}
	return nil, fmt.Errorf("version must be a string, got %T %v", raw, raw)
}
