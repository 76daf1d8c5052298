package layout

import "image/color"

// 该文件定义卡片配置与布局结果，供布局计算、渲染与调试 JSON 共用。

// Plan 保存一次渲染的完整布局：标题各行的位置与日期戳位置（单位：px）。
type Plan struct {
	Width      float64      `json:"width"`
	Height     float64      `json:"height"`
	FontSize   float64      `json:"fontSize"`
	LineHeight float64      `json:"lineHeight"`
	MaxWidth   float64      `json:"maxWidth"`
	Color      Color        `json:"color"`
	Lines      []PlacedLine `json:"lines"`
	Stamp      Stamp        `json:"stamp"`
}

// PlacedLine 是已经排好坐标的一行标题。
// X 为水平中心；Y 为该行槽位顶部；Middle 为绘制时的垂直中线（baseline middle）。
type PlacedLine struct {
	Text   string  `json:"text"`
	Width  float64 `json:"width"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Middle float64 `json:"middle"`
}

// Stamp 是右对齐的日期戳，X 为右边缘，Y 为垂直中线。
type Stamp struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// ToRGBA converts c to an opaque color.RGBA.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: clampByte(c.R), G: clampByte(c.G), B: clampByte(c.B), A: 0xff}
}

func clampByte(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
