// Package generator turns a title into a rendered card. It is the single
// entry point shared by the command line and the HTTP surface.
package generator

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/ogppu/assets"
	"github.com/ByLCY/ogppu/binding"
	ogerr "github.com/ByLCY/ogppu/errors"
	"github.com/ByLCY/ogppu/renderer"
)

// DefaultFilename is used when the card template names no output file.
const DefaultFilename = "${title}.${ext}"

// Generator resolves assets for a title and composes the card.
type Generator struct {
	Provider assets.Provider
	Composer *renderer.Composer
	Logger   *log.Logger
}

// Result is one generated card.
type Result struct {
	Title    string
	Image    *renderer.RenderedImage
	Filename string
}

// New returns a Generator; a nil logger selects log.Default.
func New(provider assets.Provider, composer *renderer.Composer, logger *log.Logger) *Generator {
	return &Generator{Provider: provider, Composer: composer, Logger: logger}
}

// Generate 渲染标题对应的卡片。标题会先去除首尾空白，空标题返回 INVALID_INPUT。
func (g *Generator) Generate(ctx context.Context, title string) (*Result, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ogerr.New(ogerr.ErrCodeInvalidInput, "标题不能为空")
	}
	if g.Provider == nil || g.Composer == nil {
		return nil, ogerr.New(ogerr.ErrCodeInternal, "生成器未完整配置")
	}
	logger := g.logger().With("title", title)
	start := time.Now()

	a, err := g.Provider.Assets(ctx, title)
	if err != nil {
		return nil, err
	}
	logger.Debug("assets resolved", "background", len(a.Background), "font", len(a.Font))

	img, err := g.Composer.Compose(ctx, renderer.RenderRequest{
		Title:      title,
		Background: a.Background,
		Font:       a.Font,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("card rendered", "format", img.Format, "bytes", len(img.Data), "elapsed", time.Since(start).Round(time.Millisecond))

	return &Result{
		Title:    title,
		Image:    img,
		Filename: Filename(g.Composer.Config.Filename, title, img.Format),
	}, nil
}

// Filename expands ${title} and ${ext} in pattern. Path separators and
// control characters in the result are replaced so it stays a single
// path element.
func Filename(pattern, title string, format renderer.Format) string {
	if pattern == "" {
		pattern = DefaultFilename
	}
	name := binding.Interpolate(pattern, binding.Vars{"title": title, "ext": format.Ext()})
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == 0:
			return '_'
		case r < 0x20 || r == 0x7f:
			return -1
		default:
			return r
		}
	}, name)
	switch strings.TrimSpace(name) {
	case "", ".", "..":
		return "card." + format.Ext()
	}
	return name
}

func (g *Generator) logger() *log.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return log.Default()
}
