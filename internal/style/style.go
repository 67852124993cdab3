// Package style maps catalog variant tokens to the style descriptors used for
// file names and stylesheet records.
package style

import (
	"errors"
	"fmt"
	"strconv"

	"gfontapi/internal/services"
)

// ErrUnknownVariant indicates a variant token outside the fixed table.
var ErrUnknownVariant = fmt.Errorf("%w: unknown variant", services.ErrNotFound)

// Slant is the CSS font-style of a variant.
type Slant string

const (
	SlantNormal Slant = "normal"
	SlantItalic Slant = "italic"
)

// Tag describes one resolved variant.
type Tag struct {
	Name   string
	Slant  Slant
	Weight uint16
}

// String returns the kebab-case name used in file names.
func (t Tag) String() string {
	return t.Name
}

// Italic reports whether the tag has an italic slant.
func (t Tag) Italic() bool {
	return t.Slant == SlantItalic
}

// CSSWeight renders the weight as it appears in a font-weight declaration.
func (t Tag) CSSWeight() string {
	return strconv.Itoa(int(t.Weight))
}

type entry struct {
	token string
	tag   Tag
}

var table = []entry{
	{"100", Tag{"thin", SlantNormal, 100}},
	{"100italic", Tag{"thin-italic", SlantItalic, 100}},
	{"200", Tag{"extra-light", SlantNormal, 200}},
	{"200italic", Tag{"extra-light-italic", SlantItalic, 200}},
	{"300", Tag{"light", SlantNormal, 300}},
	{"300italic", Tag{"light-italic", SlantItalic, 300}},
	{"regular", Tag{"regular", SlantNormal, 400}},
	{"italic", Tag{"regular-italic", SlantItalic, 400}},
	{"500", Tag{"medium", SlantNormal, 500}},
	{"500italic", Tag{"medium-italic", SlantItalic, 500}},
	{"600", Tag{"semi-bold", SlantNormal, 600}},
	{"600italic", Tag{"semi-bold-italic", SlantItalic, 600}},
	{"700", Tag{"bold", SlantNormal, 700}},
	{"700italic", Tag{"bold-italic", SlantItalic, 700}},
	{"800", Tag{"extra-bold", SlantNormal, 800}},
	{"800italic", Tag{"extra-bold-italic", SlantItalic, 800}},
	{"900", Tag{"black", SlantNormal, 900}},
	{"900italic", Tag{"black-italic", SlantItalic, 900}},
}

var byToken = func() map[string]Tag {
	m := make(map[string]Tag, len(table))
	for _, e := range table {
		m[e.token] = e.tag
	}
	return m
}()

// Resolve maps a variant token such as "700italic" to its Tag. Matching is
// exact and case-sensitive.
func Resolve(token string) (Tag, error) {
	tag, ok := byToken[token]
	if !ok {
		return Tag{}, fmt.Errorf("%w %q", ErrUnknownVariant, token)
	}
	return tag, nil
}

// Tokens returns every known token in table order.
func Tokens() []string {
	tokens := make([]string, len(table))
	for i, e := range table {
		tokens[i] = e.token
	}
	return tokens
}

// IsUnknown reports whether err came from resolving an unrecognized token.
func IsUnknown(err error) bool {
	return errors.Is(err, ErrUnknownVariant)
}
