package typed

import (
	"fmt"
	"strings"

	"github.com/ggoodman/strongtyping-go/textualize"
)

// Doc generates reStructuredText-flavored documentation listing every
// parameter with its description and default. Versioned types also note the
// version each parameter appeared in and list deprecated parameters.
func (t *Type) Doc() string {
	var b strings.Builder
	if t.version != nil {
		fmt.Fprintf(&b, "%s (current version: %s):\n\n", t.name, t.version)
	} else {
		fmt.Fprintf(&b, "%s:\n\n", t.name)
	}
	fmt.Fprintf(&b, "Description: %s\n\n", t.description)
	b.WriteString(":Parameters:\n\n")
	for _, p := range t.params {
		note := ""
		if s := p.Since(); s != nil {
			note = fmt.Sprintf(" (appeared in version %s)", s)
		}
		writeParamDoc(&b, p, note)
	}
	if len(t.deprecated) == 0 {
		return b.String()
	}
	b.WriteString(":Deprecated parameters:\n\n")
	for _, d := range t.deprecated {
		note := ""
		if d.First != nil {
			note = fmt.Sprintf(" (appeared in version %s)", d.First)
		}
		note += fmt.Sprintf(" (deprecated since version %s)", d.Last)
		writeParamDoc(&b, d.Param, note)
	}
	return b.String()
}

func writeParamDoc(b *strings.Builder, p Parameter, note string) {
	fmt.Fprintf(b, "\t``%s``%s\n\n", p.ID(), note)
	if d := p.Description(); d != "" {
		fmt.Fprintf(b, "\t\t%s\n\n", d)
	}
	if r := docRange(p); r != "" {
		fmt.Fprintf(b, "\t\tRange: %s\n\n", r)
	}
	fmt.Fprintf(b, "\t\tDefault: %s\n\n", docDefault(p.Default()))
}

func docRange(p Parameter) string {
	bound := func(v any, ok bool) string {
		if !ok {
			return "*"
		}
		return fmt.Sprint(v)
	}
	switch x := p.(type) {
	case *IntegerParameter:
		lo, hi := x.Bounds()
		if lo == nil && hi == nil {
			return ""
		}
		return fmt.Sprintf("[%s, %s]", bound(deref(lo)), bound(deref(hi)))
	case *FloatParameter:
		lo, hi := x.Bounds()
		if lo == nil && hi == nil {
			return ""
		}
		return fmt.Sprintf("[%s, %s]", bound(deref(lo)), bound(deref(hi)))
	case *EnumParameter:
		return strings.Join(x.enum.Names(), " | ")
	}
	return ""
}

func deref[T any](p *T) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

func docDefault(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		if x == "" {
			return `""`
		}
		return "``" + x + "``"
	case *Instance:
		return ":class:`" + x.typ.name + "`\n\n\t\t\t" +
			strings.ReplaceAll(textualize.Render(x), "\n", "\n\t\t\t")
	}
	return "``" + strings.ReplaceAll(textualize.Render(v), "\n", "\n\t\t\t") + "``"
}
