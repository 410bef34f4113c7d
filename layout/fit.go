package layout

import (
	"math"
	"strings"
	"unicode"
)

const (
	DefaultMinSize = 7.0
	DefaultStep    = 0.5
	Ellipsis       = "..."
)

// Fitted 是 Fit 的结果：以 Size 绘制 Display 时宽度不超过 maxWidth。
type Fitted struct {
	Size    float64 `json:"size"`
	Display string  `json:"display"`
}

// Truncated 报告 Display 是否已被截断。
func (f Fitted) Truncated(original string) bool { return f.Display != original }

type fitConfig struct {
	minSize float64
	step    float64
}

// FitOption 调整 Fit 的最小字号与步长。
type FitOption func(*fitConfig)

// WithMinSize 设置最小字号。
func WithMinSize(v float64) FitOption {
	return func(c *fitConfig) { c.minSize = v }
}

// WithStep 设置每次缩小的步长。
func WithStep(v float64) FitOption {
	return func(c *fitConfig) { c.step = v }
}

// Fit 先按 step 缩小字号直至 minSize，仍放不下时在 minSize 下截断并追加省略号。
// 对任意 maxWidth > 0，width(Display, Size) <= maxWidth；连省略号都放不下时 Display 为空。
func Fit(width WidthFunc, text string, maxWidth, startSize float64, opts ...FitOption) Fitted {
	cfg := fitConfig{minSize: DefaultMinSize, step: DefaultStep}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.step <= 0 {
		cfg.step = DefaultStep
	}
	floor := math.Min(cfg.minSize, startSize)

	size := startSize
	if text == "" {
		return Fitted{Size: size}
	}
	if maxWidth <= 0 {
		return Fitted{Size: floor}
	}
	for width(text, size) > maxWidth && size > floor {
		size = math.Max(size-cfg.step, floor)
	}
	if width(text, size) <= maxWidth {
		return Fitted{Size: size, Display: text}
	}
	return Fitted{Size: size, Display: truncate(width, text, maxWidth, size)}
}

func truncate(width WidthFunc, text string, maxWidth, size float64) string {
	if width(Ellipsis, size) > maxWidth {
		return ""
	}
	budget := maxWidth - width(Ellipsis, size)
	runes := []rune(text)
	n := 0
	for n < len(runes) && width(string(runes[:n+1]), size) <= budget {
		n++
	}
	// 字距/连字可能让拼接后的宽度略大于分段测量，逐字回退直到满足
	for ; n > 0; n-- {
		display := strings.TrimRightFunc(string(runes[:n]), unicode.IsSpace) + Ellipsis
		if width(display, size) <= maxWidth {
			return display
		}
	}
	return Ellipsis
}
