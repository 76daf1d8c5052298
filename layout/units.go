package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for length and line-height.
// The card is laid out in pixels; templates may use px, pt or percentages.

// Unit represents the original unit of a length value as specified in a template.
type Unit int

const (
	UnitNone    Unit = iota // unit-less numbers, read as px
	UnitPX                  // pixels
	UnitPT                  // points (1pt = 4/3 px)
	UnitPercent             // percent of a reference length
)

// Conversion constants between pt and px.
const (
	PtToPx = 96.0 / 72.0
	PxToPt = 1.0 / PtToPx
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	case UnitPercent:
		return "%"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToPX converts this length to pixels. Percentages resolve against reference.
func (l Length) ToPX(reference float64) float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * PtToPx
	case UnitPercent:
		return reference * l.Value / 100
	default:
		return l.Value
	}
}

// String formats the length the way a template would spell it.
func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ParseLength parses a template length string preserving its unit.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"pt", UnitPT}, {"%", UnitPercent}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// LineHeightKind distinguishes factor-based vs absolute line-height specification.
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec preserves original author intent: either a factor (e.g., 1.2x) or an absolute length (e.g., 96px).
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// Resolve computes the absolute line height in px for the given font size in px.
func (s LineHeightSpec) Resolve(fontSizePx float64) float64 {
	switch s.Kind {
	case LineHeightFactor:
		// lineHeight = fontSize * factor
		return fontSizePx * s.Factor
	case LineHeightAbsolute:
		return s.Len.ToPX(fontSizePx)
	default:
		return fontSizePx * 1.2
	}
}

// ParseLineHeight parses "1.2x" (factor) or an absolute length ("96px", "72pt").
// A percentage is read as a factor of the font size.
func ParseLineHeight(value string) (LineHeightSpec, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if strings.HasSuffix(v, "x") && !strings.HasSuffix(v, "px") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64)
		if err != nil {
			return LineHeightSpec{}, fmt.Errorf("无法解析行高 %q: %w", value, err)
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}, nil
	}
	l, err := ParseLength(v)
	if err != nil {
		return LineHeightSpec{}, err
	}
	if l.Unit == UnitPercent {
		return LineHeightSpec{Kind: LineHeightFactor, Factor: l.Value / 100}, nil
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, nil
}
