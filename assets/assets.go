// Package assets supplies the background bitmap and font program for a
// render. A Provider may return the same bytes for every title (Static) or
// generate a background per title with an external program (Script).
package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	ogerr "github.com/ByLCY/ogppu/errors"
	"github.com/ByLCY/ogppu/fonts"
)

// Assets are the raw inputs of one render.
type Assets struct {
	Background []byte
	Font       []byte
}

// Provider resolves the assets for a title.
type Provider interface {
	Assets(ctx context.Context, title string) (Assets, error)
}

// Static returns the same background and font for every title.
type Static struct {
	assets Assets
}

var _ Provider = (*Static)(nil)

// NewStatic wraps fixed background and font bytes. Empty slices fall back
// to a white width×height background and the built-in font.
func NewStatic(background, font []byte, width, height int) (*Static, error) {
	if len(background) == 0 {
		bg, err := DefaultBackground(width, height)
		if err != nil {
			return nil, err
		}
		background = bg
	}
	if len(font) == 0 {
		font = fonts.Default()
	}
	return &Static{assets: Assets{Background: background, Font: font}}, nil
}

// LoadStatic reads the background and font from disk. Empty paths select
// the defaults; fontPath also accepts built-in names such as "embed:gobold".
func LoadStatic(backgroundPath, fontPath string, width, height int) (*Static, error) {
	var background, font []byte
	if backgroundPath != "" {
		data, err := os.ReadFile(backgroundPath)
		if err != nil {
			return nil, ogerr.AssetLoad(err, "读取背景图 %s 失败", backgroundPath)
		}
		if len(data) == 0 {
			return nil, ogerr.New(ogerr.ErrCodeAssetLoad, "背景图 %s 为空", backgroundPath)
		}
		background = data
	}
	if fontPath != "" {
		data, err := fonts.Load(fontPath)
		if err != nil {
			return nil, ogerr.AssetLoad(err, "读取字体失败")
		}
		font = data
	}
	return NewStatic(background, font, width, height)
}

// Assets returns the shared bytes. Callers must not modify them.
func (s *Static) Assets(ctx context.Context, _ string) (Assets, error) {
	if err := ctx.Err(); err != nil {
		return Assets{}, err
	}
	return s.assets, nil
}

// DefaultBackground encodes a plain white width×height PNG.
func DefaultBackground(width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, ogerr.New(ogerr.ErrCodeAssetLoad, "默认背景尺寸无效 %dx%d", width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, ogerr.AssetLoad(err, "生成默认背景失败")
	}
	return buf.Bytes(), nil
}
