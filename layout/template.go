package layout

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/ogppu/binding"
	"github.com/ByLCY/ogppu/dsl"
	ogerr "github.com/ByLCY/ogppu/errors"
)

// DefaultTemplate is the card template equivalent to DefaultConfig.
const DefaultTemplate = `// ogppu 默认卡片
card ogppu v1 {
  canvas {
    width: 1920px
    height: 1080px
  }

  title {
    size: 80px
    line-height: 1.2x
    max-width: 79%
    color: #000000
  }

  stamp {
    text: "${yy}.${mm}.${dd}"
    right: 80px
    bottom: 80px
  }

  output {
    format: png
    filename: "${title}.${ext}"
  }
}
`

// FilenamePlaceholders are the names an output filename may reference.
var FilenamePlaceholders = []string{"title", "ext"}

// LoadConfig parses a card template and applies it over DefaultConfig.
func LoadConfig(r io.Reader) (Config, error) {
	doc, err := dsl.Parse(r)
	if err != nil {
		return Config{}, ogerr.Wrap(ogerr.ErrCodeInvalidTemplate, err, "模板解析失败")
	}
	return ConfigFromDocument(doc)
}

// ConfigFromDocument applies a parsed card template over DefaultConfig.
// The canvas section is applied first so percentages resolve against the
// final canvas size regardless of section order.
func ConfigFromDocument(doc *dsl.Document) (Config, error) {
	cfg := DefaultConfig()
	if doc == nil {
		return cfg, nil
	}

	for _, sec := range doc.Sections {
		switch strings.ToLower(sec.Name) {
		case "canvas", "title", "stamp", "output":
		default:
			return Config{}, templateErr(sec.Pos.Line, "未知的区块 %q", sec.Name)
		}
	}

	for _, sec := range doc.Sections {
		if strings.EqualFold(sec.Name, "canvas") {
			if err := applyCanvas(&cfg, sec); err != nil {
				return Config{}, err
			}
		}
	}
	for _, sec := range doc.Sections {
		var err error
		switch strings.ToLower(sec.Name) {
		case "title":
			err = applyTitle(&cfg, sec)
		case "stamp":
			err = applyStamp(&cfg, sec)
		case "output":
			err = applyOutput(&cfg, sec)
		}
		if err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func applyCanvas(cfg *Config, sec *dsl.Section) error {
	for _, a := range assignments(sec) {
		switch a.Key {
		case "width", "height":
			l, err := ParseLength(a.Value.Raw())
			if err != nil {
				return templateErr(a.Pos.Line, "canvas.%s: %v", a.Key, err)
			}
			if l.Unit == UnitPercent {
				return templateErr(a.Pos.Line, "canvas.%s 不支持百分比", a.Key)
			}
			px := int(math.Round(l.ToPX(0)))
			if px <= 0 {
				return templateErr(a.Pos.Line, "canvas.%s 必须为正数，得到 %s", a.Key, l)
			}
			if a.Key == "width" {
				cfg.Width = px
			} else {
				cfg.Height = px
			}
		default:
			return unknownKey(sec, a)
		}
	}
	return nil
}

func applyTitle(cfg *Config, sec *dsl.Section) error {
	for _, a := range assignments(sec) {
		raw := a.Value.Raw()
		switch a.Key {
		case "size":
			l, err := ParseLength(raw)
			if err != nil {
				return templateErr(a.Pos.Line, "title.size: %v", err)
			}
			size := l.ToPX(float64(cfg.Height))
			if size <= 0 {
				return templateErr(a.Pos.Line, "title.size 必须为正数，得到 %s", l)
			}
			cfg.FontSize = size
		case "line-height":
			spec, err := ParseLineHeight(raw)
			if err != nil {
				return templateErr(a.Pos.Line, "title.line-height: %v", err)
			}
			if spec.Resolve(1) <= 0 {
				return templateErr(a.Pos.Line, "title.line-height 必须为正数，得到 %q", raw)
			}
			cfg.LineHeight = spec
		case "max-width":
			l, err := ParseLength(raw)
			if err != nil {
				return templateErr(a.Pos.Line, "title.max-width: %v", err)
			}
			if l.Value < 0 {
				return templateErr(a.Pos.Line, "title.max-width 不能为负数，得到 %s", l)
			}
			cfg.MaxWidth = l
		case "color":
			c, err := ParseColor(raw)
			if err != nil {
				return templateErr(a.Pos.Line, "title.color: %v", err)
			}
			cfg.Color = c
		default:
			return unknownKey(sec, a)
		}
	}
	return nil
}

func applyStamp(cfg *Config, sec *dsl.Section) error {
	for _, a := range assignments(sec) {
		raw := a.Value.Raw()
		switch a.Key {
		case "text":
			if unknown := binding.Unknown(raw, StampPlaceholders...); len(unknown) > 0 {
				return templateErr(a.Pos.Line, "stamp.text 含未知占位符 %v", unknown)
			}
			cfg.StampText = raw
		case "right", "bottom":
			l, err := ParseLength(raw)
			if err != nil {
				return templateErr(a.Pos.Line, "stamp.%s: %v", a.Key, err)
			}
			if a.Key == "right" {
				cfg.StampRight = l.ToPX(float64(cfg.Width))
			} else {
				cfg.StampBottom = l.ToPX(float64(cfg.Height))
			}
		default:
			return unknownKey(sec, a)
		}
	}
	return nil
}

func applyOutput(cfg *Config, sec *dsl.Section) error {
	for _, a := range assignments(sec) {
		raw := a.Value.Raw()
		switch a.Key {
		case "format":
			switch f := strings.ToLower(raw); f {
			case "png":
				cfg.Format = "png"
			case "jpeg", "jpg":
				cfg.Format = "jpeg"
			default:
				return templateErr(a.Pos.Line, "output.format 不支持 %q（可选 png、jpeg）", raw)
			}
		case "filename":
			if strings.TrimSpace(raw) == "" {
				return templateErr(a.Pos.Line, "output.filename 不能为空")
			}
			if unknown := binding.Unknown(raw, FilenamePlaceholders...); len(unknown) > 0 {
				return templateErr(a.Pos.Line, "output.filename 含未知占位符 %v", unknown)
			}
			cfg.Filename = raw
		default:
			return unknownKey(sec, a)
		}
	}
	return nil
}

// ParseColor parses #rgb or #rrggbb.
func ParseColor(value string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return Color{}, fmt.Errorf("无法解析颜色 %q", value)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("无法解析颜色 %q: %w", value, err)
	}
	return Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}

// String formats c as #rrggbb.
func (c Color) String() string {
	rgba := c.ToRGBA()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

func assignments(sec *dsl.Section) []*dsl.Assignment {
	if sec == nil || sec.Block == nil {
		return nil
	}
	return sec.Block.Assignments
}

func unknownKey(sec *dsl.Section, a *dsl.Assignment) error {
	return templateErr(a.Pos.Line, "%s 区块不支持属性 %q", sec.Name, a.Key)
}

func templateErr(line int, format string, args ...any) error {
	return ogerr.New(ogerr.ErrCodeInvalidTemplate, "第 %d 行: %s", line, fmt.Sprintf(format, args...))
}
