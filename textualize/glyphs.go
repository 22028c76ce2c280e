package textualize

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Glyphs are the prefixes drawn in front of a child (Branch, Last) and in
// front of its continuation lines (Pipe, Blank).
type Glyphs struct {
	Branch string
	Last   string
	Pipe   string
	Blank  string
}

var (
	Unicode = Glyphs{Branch: "├─ ", Last: "└─ ", Pipe: "│  ", Blank: "   "}
	ASCII   = Glyphs{Branch: "|- ", Last: "`- ", Pipe: "|  ", Blank: "   "}
)

// GlyphsFor returns Unicode when enc can represent the box-drawing glyphs and
// ASCII otherwise. A nil encoding means UTF-8.
func GlyphsFor(enc encoding.Encoding) Glyphs {
	if enc == nil {
		return Unicode
	}
	if _, err := enc.NewEncoder().String(Unicode.Branch + Unicode.Last + Unicode.Pipe); err != nil {
		return ASCII
	}
	return Unicode
}

// ForWriter picks glyphs for w. Only terminals consult the locale charset;
// pipes and files always receive UTF-8.
func ForWriter(w io.Writer) Glyphs {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return Unicode
	}
	return GlyphsFor(localeEncoding(os.Getenv))
}

func localeEncoding(getenv func(string) string) encoding.Encoding {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := getenv(key); v != "" {
			return charsetEncoding(v)
		}
	}
	return nil
}

// charsetEncoding maps a locale such as "en_US.ISO-8859-1@euro" to its
// charset. The C/POSIX locales are plain ASCII.
func charsetEncoding(locale string) encoding.Encoding {
	if locale == "C" || locale == "POSIX" {
		enc, _ := htmlindex.Get("us-ascii")
		return enc
	}
	i := strings.IndexByte(locale, '.')
	if i < 0 {
		return nil
	}
	charset := locale[i+1:]
	if j := strings.IndexByte(charset, '@'); j >= 0 {
		charset = charset[:j]
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil
	}
	return enc
}
