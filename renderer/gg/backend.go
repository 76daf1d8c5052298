// Package ggrenderer draws cards with github.com/fogleman/gg and
// golang/freetype. Fonts are rendered at 72 DPI so 1pt = 1px.
package ggrenderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/ByLCY/ogppu/renderer"
	"github.com/ByLCY/ogppu/wrap"
)

// Backend creates gg surfaces.
type Backend struct{}

var _ renderer.Backend = Backend{}

// New returns the gg backend.
func New() Backend { return Backend{} }

func (Backend) Name() string { return "gg" }

func (Backend) NewSurface(width, height int) (renderer.Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效 %dx%d", width, height)
	}
	return &Surface{dc: gg.NewContext(width, height)}, nil
}

// Surface wraps one gg.Context. The parsed font and face belong to it alone.
type Surface struct {
	dc   *gg.Context
	face font.Face
}

var _ renderer.Surface = (*Surface)(nil)

// ActivateFont parses data as TrueType and sets a face of sizePx on the context.
func (s *Surface) ActivateFont(data []byte, sizePx float64) (wrap.MeasureFunc, error) {
	if s.dc == nil {
		return nil, fmt.Errorf("画布已释放")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("字体数据为空")
	}
	if sizePx <= 0 {
		return nil, fmt.Errorf("字号无效 %.2f", sizePx)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体失败: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: sizePx, DPI: 72, Hinting: font.HintingNone})
	s.face = face
	s.dc.SetFontFace(face)
	return func(str string) float64 {
		return float64(font.MeasureString(face, str)) / 64
	}, nil
}

func (s *Surface) DrawImage(img image.Image) error {
	if s.dc == nil {
		return fmt.Errorf("画布已释放")
	}
	if img == nil {
		return fmt.Errorf("图片为空")
	}
	s.dc.DrawImage(img, 0, 0)
	return nil
}

// DrawText anchors the text vertically at its middle; horizontally by align.
func (s *Surface) DrawText(str string, x, y float64, align renderer.Align, col color.Color) error {
	if s.dc == nil {
		return fmt.Errorf("画布已释放")
	}
	if s.face == nil {
		return fmt.Errorf("尚未激活字体")
	}
	if str == "" {
		return nil
	}
	s.dc.SetColor(col)
	s.dc.DrawStringAnchored(str, x, y, anchorX(align), 0.5)
	return nil
}

func (s *Surface) Snapshot() (image.Image, error) {
	if s.dc == nil {
		return nil, fmt.Errorf("画布已释放")
	}
	return s.dc.Image(), nil
}

func (s *Surface) Release() {
	if s.face != nil {
		s.face.Close()
	}
	s.face = nil
	s.dc = nil
}

func anchorX(a renderer.Align) float64 {
	switch a {
	case renderer.AlignCenter:
		return 0.5
	case renderer.AlignRight:
		return 1
	default:
		return 0
	}
}
