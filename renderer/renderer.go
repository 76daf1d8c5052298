// Package renderer composes a share card: background, wrapped title and date
// stamp are drawn onto a backend surface and encoded into an image.
package renderer

import (
	"image"
	"image/color"

	"github.com/ByLCY/ogppu/layout"
	"github.com/ByLCY/ogppu/wrap"
)

// Align is the horizontal anchor of a text run relative to its x coordinate.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Backend creates drawing surfaces. Implementations must be safe for
// concurrent use; each surface belongs to a single render.
type Backend interface {
	Name() string
	NewSurface(width, height int) (Surface, error)
}

// Surface 是一次渲染独占的画布。坐标以左上角为原点，单位为 px。
//
// ActivateFont 在该画布上加载字体并返回同一字体、字号下的测宽函数；
// 后续 DrawText 均使用此字体。DrawText 的 y 为文字的垂直中线。
type Surface interface {
	ActivateFont(data []byte, sizePx float64) (wrap.MeasureFunc, error)
	DrawImage(img image.Image) error
	DrawText(s string, x, y float64, align Align, col color.Color) error
	Snapshot() (image.Image, error)
	Release()
}

// RenderRequest is the input of one render. Background holds encoded raster
// bytes (PNG, JPEG, GIF or WebP) and Font a TrueType/OpenType program.
type RenderRequest struct {
	Title      string
	Background []byte
	Font       []byte
}

// RenderedImage is an encoded card owned by the caller.
type RenderedImage struct {
	Data   []byte       `json:"-"`
	Format Format       `json:"format"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Plan   *layout.Plan `json:"plan,omitempty"`
}
