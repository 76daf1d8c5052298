// Package wrap breaks a title into display lines that fit a pixel width.
//
// The wrapper never tokenizes on words: titles are often CJK with no spaces,
// so every extended grapheme cluster is a break opportunity. Measurement is
// injected as a MeasureFunc bound to the active font and size, which keeps
// the algorithm independent of any font library.
package wrap

import (
	"strings"

	"github.com/rivo/uniseg"
)

// MeasureFunc returns the advance width of s under the active font and size.
type MeasureFunc func(s string) float64

// Line is one visual row of wrapped text and its measured width.
type Line struct {
	Text  string  `json:"text"`
	Width float64 `json:"width"`
}

// Lines wraps text greedily, one grapheme cluster at a time.
//
// A cluster is appended while the measured width of the current line plus the
// cluster stays strictly below maxWidth; otherwise the current line is closed
// and the cluster starts the next one. A cluster that alone reaches maxWidth
// still gets its own line and is never dropped.
//
// Empty text yields zero lines. maxWidth <= 0 disables wrapping.
func Lines(text string, measure MeasureFunc, maxWidth float64) []Line {
	if text == "" {
		return nil
	}
	if maxWidth <= 0 {
		return []Line{{Text: text, Width: measure(text)}}
	}

	var lines []Line
	var builder strings.Builder
	current := 0.0

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		unit := g.Str()
		w := measure(builder.String() + unit)
		if w < maxWidth || builder.Len() == 0 {
			// an empty line always takes the cluster, even an oversized one
			builder.WriteString(unit)
			current = w
			continue
		}
		lines = append(lines, Line{Text: builder.String(), Width: current})
		builder.Reset()
		builder.WriteString(unit)
		current = measure(unit)
	}
	if builder.Len() > 0 {
		lines = append(lines, Line{Text: builder.String(), Width: current})
	}
	return lines
}

// Join concatenates wrapped lines back into the original text.
func Join(lines []Line) string {
	var b strings.Builder
	for _, ln := range lines {
		b.WriteString(ln.Text)
	}
	return b.String()
}

// MaxWidth returns the widest line width, or 0 for no lines.
func MaxWidth(lines []Line) float64 {
	widest := 0.0
	for _, ln := range lines {
		if ln.Width > widest {
			widest = ln.Width
		}
	}
	return widest
}
