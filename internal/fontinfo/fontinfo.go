// Package fontinfo reads the naming and style metadata embedded in a
// downloaded font so it can be compared with the variant it was fetched for.
package fontinfo

import (
	"fmt"
	"io"
	"os"

	"seehuhn.de/go/sfnt"

	"gfontapi/internal/style"
)

// Info summarizes the style-relevant tables of a font file.
type Info struct {
	Family string
	Weight uint16
	Italic bool
	Bold   bool
	Glyphs int
}

// Inspect parses an sfnt (TrueType or OpenType) font from r.
func Inspect(r io.Reader) (*Info, error) {
	font, err := sfnt.Read(r)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Info{
		Family: font.FamilyName,
		Weight: uint16(font.Weight),
		Italic: font.IsItalic,
		Bold:   font.IsBold,
		Glyphs: font.NumGlyphs(),
	}, nil
}

// InspectFile parses the font stored at path.
func InspectFile(path string) (*Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open font: %w", err)
	}
	defer file.Close()
	return Inspect(file)
}

// Mismatches lists the ways the font disagrees with tag. A zero weight class
// is treated as unknown and never reported.
func (i *Info) Mismatches(tag style.Tag) []string {
	if i == nil {
		return nil
	}
	var out []string
	if i.Weight != 0 && roundWeight(i.Weight) != tag.Weight {
		out = append(out, fmt.Sprintf("weight %d, expected %d", i.Weight, tag.Weight))
	}
	if i.Italic != tag.Italic() {
		want := "upright"
		if tag.Italic() {
			want = "italic"
		}
		out = append(out, fmt.Sprintf("italic=%t, expected %s", i.Italic, want))
	}
	return out
}

// roundWeight snaps an OS/2 weight class to the nearest CSS weight in
// 100..900. The arithmetic runs in int so large classes cannot wrap.
func roundWeight(w uint16) uint16 {
	r := (int(w) + 50) / 100 * 100
	return uint16(min(max(r, 100), 900))
}
