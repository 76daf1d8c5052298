package renderer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Format is an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// JPEGQuality is used when encoding FormatJPEG.
const JPEGQuality = 90

// ParseFormat accepts png, jpeg and jpg in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("不支持的输出格式 %q（可选 png、jpeg）", s)
	}
}

// Ext is the file extension without the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// MIME is the media type of the encoding.
func (f Format) MIME() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Encode writes img in the given format.
func Encode(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatPNG, "":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("PNG 编码失败: %w", err)
		}
	case FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("JPEG 编码失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", f)
	}
	return buf.Bytes(), nil
}

// DataURI returns the image as data:<mime>;base64,<payload>.
func (r *RenderedImage) DataURI() string {
	if r == nil {
		return ""
	}
	return "data:" + r.Format.MIME() + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

// DecodeBackground decodes raster bytes and fits the bitmap to width×height.
// A bitmap of another size is scaled to cover the card and cropped around
// its centre.
func DecodeBackground(data []byte, width, height int) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("背景图为空")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("无法解码背景图: %w", err)
	}
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img, nil
	}
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("背景图（%s）尺寸无效 %dx%d", format, b.Dx(), b.Dy())
	}
	return Cover(img, width, height), nil
}

// Cover scales src to fill width×height, keeping its aspect ratio and
// cropping the overflow evenly on both sides.
func Cover(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	b := src.Bounds()
	scale := max(float64(width)/float64(b.Dx()), float64(height)/float64(b.Dy()))
	cropW := int(float64(width) / scale)
	cropH := int(float64(height) / scale)
	cropW = min(max(cropW, 1), b.Dx())
	cropH = min(max(cropH, 1), b.Dy())
	x0 := b.Min.X + (b.Dx()-cropW)/2
	y0 := b.Min.Y + (b.Dy()-cropH)/2
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, image.Rect(x0, y0, x0+cropW, y0+cropH), xdraw.Src, nil)
	return dst
}
