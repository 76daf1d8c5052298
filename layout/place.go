package layout

import (
	"time"

	"github.com/ByLCY/ogppu/wrap"
)

// Offsets returns the top of each line slot for n lines of lineHeight,
// centred as one block on a canvas of canvasHeight:
//
//	startY = (canvasHeight − n·lineHeight) / 2,  y[i] = startY + i·lineHeight
//
// A block taller than the canvas yields a negative startY; the lines then
// overlap the edges, which is accepted.
func Offsets(n int, lineHeight, canvasHeight float64) []float64 {
	if n <= 0 {
		return nil
	}
	startY := (canvasHeight - float64(n)*lineHeight) / 2
	ys := make([]float64, n)
	for i := range ys {
		ys[i] = startY + float64(i)*lineHeight
	}
	return ys
}

// Place 将已折行的标题放到画布上：整体垂直居中，每行水平居中；
// 日期戳固定在右下角锚点，与标题布局无关。
func Place(lines []wrap.Line, cfg Config, now time.Time) *Plan {
	lineHeight := cfg.LineHeightPx()
	width := float64(cfg.Width)
	height := float64(cfg.Height)

	plan := &Plan{
		Width:      width,
		Height:     height,
		FontSize:   cfg.FontSize,
		LineHeight: lineHeight,
		MaxWidth:   cfg.MaxWidthPx(),
		Color:      cfg.Color,
		Lines:      make([]PlacedLine, 0, len(lines)),
	}
	for i, y := range Offsets(len(lines), lineHeight, height) {
		plan.Lines = append(plan.Lines, PlacedLine{
			Text:   lines[i].Text,
			Width:  lines[i].Width,
			X:      width / 2,
			Y:      y,
			Middle: y + lineHeight/2,
		})
	}

	x, y := cfg.StampAnchor()
	plan.Stamp = Stamp{
		Text: FormatStamp(cfg.StampText, now),
		X:    x,
		Y:    y,
	}
	return plan
}

// Build wraps title with measure at the configured max width and places it.
func Build(title string, measure wrap.MeasureFunc, cfg Config, now time.Time) *Plan {
	return Place(wrap.Lines(title, measure, cfg.MaxWidthPx()), cfg, now)
}
