package renderer

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	ogerr "github.com/ByLCY/ogppu/errors"
	"github.com/ByLCY/ogppu/layout"
)

// Composer runs the card pipeline on a Backend. It holds no per-render
// state and is safe for concurrent use.
type Composer struct {
	Backend Backend
	Config  layout.Config
	Now     func() time.Time
	Logger  *log.Logger
}

// NewComposer returns a Composer with the wall clock and the default logger.
func NewComposer(backend Backend, cfg layout.Config) *Composer {
	return &Composer{Backend: backend, Config: cfg}
}

// Compose 依次执行：解码背景、激活字体、绘制背景、折行并绘制标题、
// 绘制日期戳、截取并编码。任一步失败都不返回图像，画布总会被释放。
// ctx 取消时返回 CANCELED 错误。
func (c *Composer) Compose(ctx context.Context, req RenderRequest) (*RenderedImage, error) {
	if c.Backend == nil {
		return nil, ogerr.New(ogerr.ErrCodeInternal, "未配置绘制后端")
	}
	cfg := c.Config
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ogerr.New(ogerr.ErrCodeInvalidTemplate, "画布尺寸无效: %dx%d", cfg.Width, cfg.Height)
	}
	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return nil, ogerr.Wrap(ogerr.ErrCodeInvalidTemplate, err, "输出格式无效")
	}
	logger := c.logger().With("backend", c.Backend.Name())
	step := stepTimer(logger)

	bg, err := DecodeBackground(req.Background, cfg.Width, cfg.Height)
	if err != nil {
		return nil, ogerr.AssetLoad(err, "背景图加载失败")
	}
	surface, err := c.Backend.NewSurface(cfg.Width, cfg.Height)
	if err != nil {
		return nil, ogerr.Render(err, "创建 %dx%d 画布失败", cfg.Width, cfg.Height)
	}
	defer surface.Release()
	step("decode background")

	if err := canceled(ctx); err != nil {
		return nil, err
	}
	if len(req.Font) == 0 {
		return nil, ogerr.New(ogerr.ErrCodeAssetLoad, "字体为空")
	}
	measure, err := surface.ActivateFont(req.Font, cfg.FontSize)
	if err != nil {
		return nil, ogerr.AssetLoad(err, "字体加载失败")
	}
	step("activate font")

	if err := surface.DrawImage(bg); err != nil {
		return nil, ogerr.Render(err, "绘制背景失败")
	}
	step("draw background")

	if err := canceled(ctx); err != nil {
		return nil, err
	}
	plan := layout.Build(req.Title, measure, cfg, c.now())
	col := cfg.Color.ToRGBA()
	for i, line := range plan.Lines {
		if err := surface.DrawText(line.Text, line.X, line.Middle, AlignCenter, col); err != nil {
			return nil, ogerr.Render(err, "绘制第 %d 行标题失败", i+1)
		}
	}
	step("draw title", "lines", len(plan.Lines))

	if err := surface.DrawText(plan.Stamp.Text, plan.Stamp.X, plan.Stamp.Y, AlignRight, col); err != nil {
		return nil, ogerr.Render(err, "绘制日期戳失败")
	}
	step("draw stamp", "stamp", plan.Stamp.Text)

	if err := canceled(ctx); err != nil {
		return nil, err
	}
	img, err := surface.Snapshot()
	if err != nil {
		return nil, ogerr.Render(err, "截取画布失败")
	}
	data, err := Encode(img, format)
	if err != nil {
		return nil, ogerr.Render(err, "图像编码失败")
	}
	step("encode", "format", format, "bytes", len(data))

	return &RenderedImage{
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Plan:   plan,
	}, nil
}

// canceled wraps ctx.Err() as CANCELED; errors.Is still sees the context error.
func canceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return ogerr.Wrap(ogerr.ErrCodeCanceled, err, "渲染已取消")
	}
	return nil
}

func (c *Composer) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Composer) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

// stepTimer logs the time spent since the previous step at debug level.
func stepTimer(logger *log.Logger) func(name string, keyvals ...any) {
	last := time.Now()
	return func(name string, keyvals ...any) {
		now := time.Now()
		logger.Debug(name, append([]any{"elapsed", now.Sub(last).Round(time.Microsecond)}, keyvals...)...)
		last = now
	}
}
