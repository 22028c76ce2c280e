package typed

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/require"
)

func configType(t *testing.T, migrated **semver.Version) *Type {
	t.Helper()
	timeout, err := NewInteger("timeout", Description("Seconds before giving up"))
	require.NoError(t, err)
	return NewBuilder("Config").
		Description("Client configuration").
		Version("1.2").
		String("name").
		Integer("retries", Since("1.1"), Range(0, 5), Description("Retry budget")).
		Deprecated(timeout, "1.0", "1.1").
		Migrate(func(t *Type, data map[string]any, from *semver.Version) (*Instance, error) {
			*migrated = from
			if v, ok := data["timeout"]; ok {
				data["retries"] = v
				delete(data, "timeout")
			}
			return t.FromDict(data)
		}).
		MustBuild()
}

func TestFromDictMigratesOlderData(t *testing.T) {
	var from *semver.Version
	cfg := configType(t, &from)
	require.Equal(t, "1.2.0", cfg.Version().String())

	data := map[string]any{"version": "1.0.0", "name": "svc", "timeout": 3}
	inst, err := cfg.FromDict(data)
	require.NoError(t, err)
	require.NotNil(t, from)
	require.Equal(t, "1.0.0", from.String())
	require.Equal(t, 3, inst.MustGet("retries"))
	require.Equal(t, "svc", inst.MustGet("name"))
	require.Contains(t, data, "version", "caller data is left untouched")
	require.Contains(t, data, "timeout")
}

func TestFromDictCurrentVersion(t *testing.T) {
	var from *semver.Version
	cfg := configType(t, &from)

	inst, err := cfg.FromDict(map[string]any{"version": "1.2.0", "retries": 9})
	require.NoError(t, err)
	require.Nil(t, from)
	require.Equal(t, 5, inst.MustGet("retries"))

	inst, err = cfg.FromDict(nil)
	require.NoError(t, err)
	require.Equal(t, 0, inst.MustGet("retries"))

	_, err = cfg.FromDict(map[string]any{"version": "not-a-version"})
	require.ErrorIs(t, err, ErrType)

	// An unquoted YAML 1.10 arrives as the float 1.1.
	_, err = cfg.FromDict(map[string]any{"version": 1.1})
	require.ErrorIs(t, err, ErrType)
	_, err = cfg.FromDict(map[string]any{"version": 1})
	require.ErrorIs(t, err, ErrType)
	_, err = cfg.Unmarshal([]byte(`{"version": 1.2}`))
	require.ErrorIs(t, err, ErrType)

	_, err = cfg.FromDict(map[string]any{"version": "1.2.0", "timeout": 1})
	require.ErrorIs(t, err, ErrType)
}

func TestFromDictWithoutMigration(t *testing.T) {
	v2 := NewBuilder("V2").Version("2.0.0").Integer("n").MustBuild()
	_, err := v2.FromDict(map[string]any{"version": "1.0.0"})
	require.ErrorIs(t, err, ErrNoMigration)

	plain := NewBuilder("Plain").Integer("n").MustBuild()
	_, err = plain.FromDict(map[string]any{"version": "1.0.0"})
	require.ErrorIs(t, err, ErrType)
}

func TestVersionedJSONRoundTrip(t *testing.T) {
	var from *semver.Version
	cfg := configType(t, &from)
	inst := cfg.MustNew("svc", 2)
	require.Equal(t, "1.2.0", inst.Version().String())

	b, err := json.Marshal(inst)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(b), `{"version":"1.2.0"`), string(b))

	back, err := cfg.Unmarshal(b)
	require.NoError(t, err)
	require.True(t, back.Equal(inst))
	require.Nil(t, from)
}

func TestVersionedDeclarationErrors(t *testing.T) {
	_, err := NewBuilder("NoVersion").Integer("n", Since("1.0")).Build()
	require.ErrorIs(t, err, ErrDeclaration)

	_, err = NewBuilder("Future").Version("1.0").Integer("n", Since("2.0")).Build()
	require.ErrorIs(t, err, ErrDeclaration)

	old, err := NewInteger("old")
	require.NoError(t, err)
	_, err = NewBuilder("Window").Version("1.0").Deprecated(old, "0.5", "1.5").Build()
	require.ErrorIs(t, err, ErrDeclaration)
	_, err = NewBuilder("Inverted").Version("2.0").Deprecated(old, "1.5", "1.0").Build()
	require.ErrorIs(t, err, ErrDeclaration)
	_, err = NewBuilder("Unversioned").Deprecated(old, "", "1.0").Build()
	require.ErrorIs(t, err, ErrDeclaration)
	_, err = NewBuilder("Clash").Version("2.0").Integer("old").Deprecated(old, "", "1.0").Build()
	require.ErrorIs(t, err, ErrDeclaration)
	_, err = NewBuilder("Hook").Migrate(func(*Type, map[string]any, *semver.Version) (*Instance, error) { return nil, nil }).Build()
	require.ErrorIs(t, err, ErrDeclaration)
	_, err = NewBuilder("BadVersion").Version("one").Build()
	require.ErrorIs(t, err, ErrDeclaration)
}

func TestDoc(t *testing.T) {
	var from *semver.Version
	doc := configType(t, &from).Doc()
	require.True(t, strings.HasPrefix(doc, "Config (current version: 1.2.0):\n\nDescription: Client configuration\n\n:Parameters:\n\n"), doc)
	require.Contains(t, doc, "\t``name``\n\n\t\tDefault: \"\"\n\n")
	require.Contains(t, doc, "\t``retries`` (appeared in version 1.1.0)\n\n\t\tRetry budget\n\n\t\tRange: [0, 5]\n\n\t\tDefault: ``0``\n\n")
	require.Contains(t, doc, ":Deprecated parameters:\n\n")
	require.Contains(t, doc, "\t``timeout`` (appeared in version 1.0.0) (deprecated since version 1.1.0)\n\n\t\tSeconds before giving up\n\n")

	outerDoc := outerType(t).Doc()
	require.True(t, strings.HasPrefix(outerDoc, "Outer:\n\n"))
	require.Contains(t, outerDoc, "Default: :class:`Inner`\n\n\t\t\t├─ ranged_int: 5\n\t\t\t└─ optional_float: null")
	require.Contains(t, outerDoc, "\t\tRange: a | b | c\n\n")
	require.NotContains(t, outerDoc, "Deprecated")
}

func TestJSONSchema(t *testing.T) {
	var from *semver.Version
	s := configType(t, &from).JSONSchema()
	require.Equal(t, "object", s.Type)
	require.Equal(t, "Config", s.Title)

	retries, ok := s.Properties.Get("retries")
	require.True(t, ok)
	require.Equal(t, "integer", retries.Type)
	require.Equal(t, json.Number("0"), retries.Minimum)
	require.Equal(t, json.Number("5"), retries.Maximum)

	_, ok = s.Properties.Get("version")
	require.True(t, ok)

	outer := outerType(t).JSONSchema()
	inner, ok := outer.Properties.Get("inner")
	require.True(t, ok)
	require.Equal(t, "object", inner.Type)
	optional, ok := inner.Properties.Get("optional_float")
	require.True(t, ok)
	require.Len(t, optional.AnyOf, 2)
	letter, _ := outer.Properties.Get("letter")
	require.Equal(t, []any{"a", "b", "c"}, letter.Enum)
	values, _ := outer.Properties.Get("values")
	require.Equal(t, "array", values.Type)
	require.Equal(t, "integer", values.Items.Type)

	b, err := json.Marshal(outer)
	require.NoError(t, err)
	require.Contains(t, string(b), `"additionalProperties":false`)
	typ := outerType(t)
	require.Same(t, typ.JSONSchema(), typ.JSONSchema())
}
