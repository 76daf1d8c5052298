// Package canvasrenderer draws cards with github.com/tdewolff/canvas and
// rasterises them at one dot per canvas unit, so 1 unit = 1 px.
package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/google/uuid"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/ogppu/renderer"
	"github.com/ByLCY/ogppu/wrap"
)

// mmPerPt matches canvas' internal pt→mm conversion (25.4/72).
const mmPerPt = 25.4 / 72.0

// Backend creates canvas surfaces. It has no shared state.
type Backend struct{}

var _ renderer.Backend = Backend{}

// New returns the canvas backend.
func New() Backend { return Backend{} }

func (Backend) Name() string { return "canvas" }

// NewSurface 创建一个宽 width、高 height（px）的画布，坐标原点在左上角。
func (Backend) NewSurface(width, height int) (renderer.Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效 %dx%d", width, height)
	}
	c := canvas.New(float64(width), float64(height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	return &Surface{canvas: c, ctx: ctx}, nil
}

// Surface is a single-render canvas. Each surface loads its font into a
// family of its own, so concurrent renders never share font state.
type Surface struct {
	canvas *canvas.Canvas
	ctx    *canvas.Context

	family *canvas.FontFamily
	sizePt float64
}

var _ renderer.Surface = (*Surface)(nil)

// ActivateFont 将字体载入本画布独占的字体族（名称带 uuid），并返回同字号的测宽函数。
func (s *Surface) ActivateFont(data []byte, sizePx float64) (wrap.MeasureFunc, error) {
	if s.canvas == nil {
		return nil, fmt.Errorf("画布已释放")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("字体数据为空")
	}
	if sizePx <= 0 {
		return nil, fmt.Errorf("字号无效 %.2f", sizePx)
	}
	family := canvas.NewFontFamily("ogppu-" + uuid.NewString())
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}
	s.family = family
	s.sizePt = toPt(sizePx)

	face := s.face(color.Black)
	return func(str string) float64 {
		return face.TextWidth(str)
	}, nil
}

// DrawImage draws img with its top-left corner at the origin, one image
// pixel per canvas unit.
func (s *Surface) DrawImage(img image.Image) error {
	if s.ctx == nil {
		return fmt.Errorf("画布已释放")
	}
	if img == nil {
		return fmt.Errorf("图片为空")
	}
	s.ctx.DrawImage(0, 0, img, canvas.DPMM(1.0))
	return nil
}

// DrawText draws s with its vertical middle at y.
func (s *Surface) DrawText(str string, x, y float64, align renderer.Align, col color.Color) error {
	if s.ctx == nil {
		return fmt.Errorf("画布已释放")
	}
	if s.family == nil {
		return fmt.Errorf("尚未激活字体")
	}
	if str == "" {
		return nil
	}
	face := s.face(col)
	text := canvas.NewTextLine(face, str, textAlign(align))

	// 基线位置：垂直中线加上 (Ascent − Descent)/2，使字形框的中心落在 y 上
	metrics := face.Metrics()
	baseline := y + (metrics.Ascent-metrics.Descent)/2
	s.ctx.DrawText(x, baseline, text)
	return nil
}

// Snapshot rasterises the canvas at 1 dot per unit.
func (s *Surface) Snapshot() (image.Image, error) {
	if s.canvas == nil {
		return nil, fmt.Errorf("画布已释放")
	}
	img := rasterizer.Draw(s.canvas, canvas.DPMM(1.0), canvas.DefaultColorSpace)
	if img == nil {
		return nil, fmt.Errorf("光栅化失败")
	}
	return img, nil
}

// Release drops the canvas and the font family.
func (s *Surface) Release() {
	s.canvas = nil
	s.ctx = nil
	s.family = nil
}

func (s *Surface) face(col color.Color) *canvas.FontFace {
	return s.family.Face(s.sizePt, col, canvas.FontRegular, canvas.FontNormal)
}

func textAlign(a renderer.Align) canvas.TextAlign {
	switch a {
	case renderer.AlignCenter:
		return canvas.Center
	case renderer.AlignRight:
		return canvas.Right
	default:
		return canvas.Left
	}
}

// toPt 将像素（即 canvas 的 mm 单位）转换为点(pt)。
func toPt(px float64) float64 { return px / mmPerPt }
