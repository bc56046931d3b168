package project

import (
	"fmt"
	"strings"
)

// enum is the shared text form of the option enums below.
type enum struct {
	name  string
	names []string
}

func (e enum) parse(s string) (uint8, error) {
	for i, n := range e.names {
		if strings.EqualFold(n, s) {
			return uint8(i), nil // #nosec G115 -- at most a handful of names
		}
	}
	return 0, fmt.Errorf("invalid %s %q (want %s)", e.name, s, strings.Join(e.names, "|"))
}

func (e enum) text(v uint8) string {
	if int(v) < len(e.names) {
		return e.names[v]
	}
	return fmt.Sprintf("%s(%d)", e.name, v)
}

// TrailingCommas controls commas after the last element of a broken list.
type TrailingCommas uint8

const (
	TrailingCommasAll TrailingCommas = iota
	TrailingCommasES5
	TrailingCommasNone
)

var trailingCommasEnum = enum{"trailingCommas", []string{"all", "es5", "none"}}

func ParseTrailingCommas(s string) (TrailingCommas, error) {
	v, err := trailingCommasEnum.parse(s)
	return TrailingCommas(v), err
}
func (v TrailingCommas) String() string               { return trailingCommasEnum.text(uint8(v)) }
func (v TrailingCommas) MarshalText() ([]byte, error) { return []byte(v.String()), nil }
func (v *TrailingCommas) UnmarshalText(b []byte) error {
	p, err := ParseTrailingCommas(string(b))
	if err == nil {
		*v = p
	}
	return err
}

// Expand controls whether objects and arrays keep the line breaks of the
// source.
type Expand uint8

const (
	// ExpandAuto breaks an object when the source had a newline between
	// `{` and the first member.
	ExpandAuto Expand = iota
	ExpandAlways
	ExpandNever
)

var expandEnum = enum{"expand", []string{"auto", "always", "never"}}

func ParseExpand(s string) (Expand, error) {
	v, err := expandEnum.parse(s)
	return Expand(v), err
}
func (v Expand) String() string               { return expandEnum.text(uint8(v)) }
func (v Expand) MarshalText() ([]byte, error) { return []byte(v.String()), nil }
func (v *Expand) UnmarshalText(b []byte) error {
	p, err := ParseExpand(string(b))
	if err == nil {
		*v = p
	}
	return err
}

type QuoteStyle uint8

const (
	QuoteDouble QuoteStyle = iota
	QuoteSingle
)

var quoteStyleEnum = enum{"quoteStyle", []string{"double", "single"}}

func (v QuoteStyle) String() string               { return quoteStyleEnum.text(uint8(v)) }
func (v QuoteStyle) MarshalText() ([]byte, error) { return []byte(v.String()), nil }
func (v *QuoteStyle) UnmarshalText(b []byte) error {
	p, err := quoteStyleEnum.parse(string(b))
	if err == nil {
		*v = QuoteStyle(p)
	}
	return err
}

type QuoteProperties uint8

const (
	QuotePropertiesAsNeeded QuoteProperties = iota
	QuotePropertiesPreserve
)

var quotePropertiesEnum = enum{"quoteProperties", []string{"asNeeded", "preserve"}}

func (v QuoteProperties) String() string               { return quotePropertiesEnum.text(uint8(v)) }
func (v QuoteProperties) MarshalText() ([]byte, error) { return []byte(v.String()), nil }
func (v *QuoteProperties) UnmarshalText(b []byte) error {
	p, err := quotePropertiesEnum.parse(string(b))
	if err == nil {
		*v = QuoteProperties(p)
	}
	return err
}

type Semicolons uint8

const (
	SemicolonsAlways Semicolons = iota
	SemicolonsAsNeeded
)

var semicolonsEnum = enum{"semicolons", []string{"always", "asNeeded"}}

func (v Semicolons) String() string               { return semicolonsEnum.text(uint8(v)) }
func (v Semicolons) MarshalText() ([]byte, error) { return []byte(v.String()), nil }
func (v *Semicolons) UnmarshalText(b []byte) error {
	p, err := semicolonsEnum.parse(string(b))
	if err == nil {
		*v = Semicolons(p)
	}
	return err
}

type ArrowParentheses uint8

const (
	ArrowParenthesesAlways ArrowParentheses = iota
	ArrowParenthesesAsNeeded
)

var arrowParenthesesEnum = enum{"arrowParentheses", []string{"always", "asNeeded"}}

func (v ArrowParentheses) String() string               { return arrowParenthesesEnum.text(uint8(v)) }
func (v ArrowParentheses) MarshalText() ([]byte, error) { return []byte(v.String()), nil }
func (v *ArrowParentheses) UnmarshalText(b []byte) error {
	p, err := arrowParenthesesEnum.parse(string(b))
	if err == nil {
		*v = ArrowParentheses(p)
	}
	return err
}

type AttributePosition uint8

const (
	AttributePositionAuto AttributePosition = iota
	AttributePositionMultiline
)

var attributePositionEnum = enum{"attributePosition", []string{"auto", "multiline"}}

func (v AttributePosition) String() string               { return attributePositionEnum.text(uint8(v)) }
func (v AttributePosition) MarshalText() ([]byte, error) { return []byte(v.String()), nil }
func (v *AttributePosition) UnmarshalText(b []byte) error {
	p, err := attributePositionEnum.parse(string(b))
	if err == nil {
		*v = AttributePosition(p)
	}
	return err
}
