package layout

// Config describes one card design. Lengths are kept with their template
// units and resolved to px on demand.
type Config struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	FontSize   float64        `json:"fontSize"` // px
	LineHeight LineHeightSpec `json:"lineHeight"`
	MaxWidth   Length         `json:"maxWidth"` // relative to Width when given in %
	Color      Color          `json:"color"`

	StampText   string  `json:"stampText"`
	StampRight  float64 `json:"stampRight"`  // px from the right edge
	StampBottom float64 `json:"stampBottom"` // px from the bottom edge

	Format   string `json:"format"`
	Filename string `json:"filename"`
}

// DefaultConfig returns the reference 1920×1080 card: 80px black title,
// wrapped at 79% of the width, stamp 80px in from the bottom-right corner.
func DefaultConfig() Config {
	return Config{
		Width:       1920,
		Height:      1080,
		FontSize:    80,
		LineHeight:  LineHeightSpec{Kind: LineHeightFactor, Factor: 1.2},
		MaxWidth:    Length{Value: 79, Unit: UnitPercent},
		Color:       Color{R: 0, G: 0, B: 0},
		StampText:   DefaultStampText,
		StampRight:  80,
		StampBottom: 80,
		Format:      "png",
		Filename:    "${title}.${ext}",
	}
}

// MaxWidthPx is the wrap limit in px.
func (c Config) MaxWidthPx() float64 {
	return c.MaxWidth.ToPX(float64(c.Width))
}

// LineHeightPx is the distance between consecutive line slots in px.
func (c Config) LineHeightPx() float64 {
	return c.LineHeight.Resolve(c.FontSize)
}

// StampAnchor returns the right edge and vertical middle of the date stamp.
func (c Config) StampAnchor() (x, y float64) {
	return float64(c.Width) - c.StampRight, float64(c.Height) - c.StampBottom
}
