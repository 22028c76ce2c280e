// Package textualize renders mappings and sequences as indented trees.
//
// Every non-last child is prefixed with a branch glyph and its continuation
// lines with a vertical bar; the last child gets a corner glyph and blank
// continuation. Empty mappings render as {} and empty sequences as [].
//
//	├─ int: 0
//	├─ struct:
//	│  ├─ int: 0
//	│  └─ optional_float: null
//	└─ str: ""
//
// When the output charset cannot encode the box-drawing glyphs (see
// GlyphsFor and ForWriter) the ASCII set is used instead.
package textualize
