// Package fonts exposes the built-in font programs. They come from the Go
// font family so a card can be rendered without any font file on disk.
// The Go fonts cover Latin, Greek and Cyrillic only; CJK titles need a font
// file such as Noto Sans JP.
package fonts

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// EmbedPrefix marks a reference to a built-in font, e.g. "embed:gobold".
const EmbedPrefix = "embed:"

// DefaultName is the built-in font used when no font is configured.
const DefaultName = "goregular"

var builtin = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"gomedium":  gomedium.TTF,
	"gomono":    gomono.TTF,
}

// Default returns the default built-in font program.
func Default() []byte {
	return builtin[DefaultName]
}

// Names lists the built-in fonts in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load 返回字体的字节数据。path 可写为 "embed:gobold"（内置字体），否则按文件路径读取。
func Load(path string) ([]byte, error) {
	if name, ok := strings.CutPrefix(path, EmbedPrefix); ok {
		data, found := builtin[strings.ToLower(name)]
		if !found {
			return nil, fmt.Errorf("未知的内置字体 %q（可选 %s）", name, strings.Join(Names(), ", "))
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("字体文件 %s 为空", path)
	}
	return data, nil
}
