package fonts

import (
	"fmt"
	"strings"

	"github.com/go-fonts/dejavu/dejavusans"
	"github.com/go-fonts/dejavu/dejavusansbold"
	"github.com/go-fonts/dejavu/dejavusansboldoblique"
	"github.com/go-fonts/dejavu/dejavusansmono"
	"github.com/go-fonts/dejavu/dejavusansoblique"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置兜底字体（DejaVu Sans，覆盖土耳其语字母与 ✓ ✗ 状态符号）。
const (
	Regular    = "dejavu-sans"
	Bold       = "dejavu-sans-bold"
	Italic     = "dejavu-sans-oblique"
	BoldItalic = "dejavu-sans-bold-oblique"
	Mono       = "dejavu-sans-mono"
)

// Go 字体族：拉丁扩展齐全，但没有 ✓ ✗ 等符号。
const (
	GoRegular    = "go-regular"
	GoBold       = "go-bold"
	GoItalic     = "go-italic"
	GoBoldItalic = "go-bold-italic"
	GoMono       = "go-mono"
)

var builtin = map[string][]byte{
	Regular:      dejavusans.TTF,
	Bold:         dejavusansbold.TTF,
	Italic:       dejavusansoblique.TTF,
	BoldItalic:   dejavusansboldoblique.TTF,
	Mono:         dejavusansmono.TTF,
	GoRegular:    goregular.TTF,
	GoBold:       gobold.TTF,
	GoItalic:     goitalic.TTF,
	GoBoldItalic: gobolditalic.TTF,
	GoMono:       gomono.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "builtin:dejavu-sans-bold" 或直接 "dejavu-sans-bold"。
func Load(name string) ([]byte, error) {
	name = strings.TrimPrefix(strings.TrimPrefix(name, "builtin:"), "built-in:")
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("内置字体 %s 不存在", name)
	}
	return data, nil
}

// ForStyle 按样式选择兜底字体。
func ForStyle(bold, italic bool) []byte {
	switch {
	case bold && italic:
		return dejavusansboldoblique.TTF
	case bold:
		return dejavusansbold.TTF
	case italic:
		return dejavusansoblique.TTF
	default:
		return dejavusans.TTF
	}
}
