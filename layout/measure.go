package layout

import (
	"strings"
	"unicode/utf8"
)

// Measurer 负责测量文本在指定字体与字号下的宽度（单位：pt）。
// 渲染器实现该接口，使布局阶段与最终绘制使用同一套字体度量。
type Measurer interface {
	TextWidth(content string, font FontResource, fontSize float64) float64
}

// WidthFunc 是绑定了字体后的宽度函数，供 Fit 使用。
type WidthFunc func(text string, size float64) float64

// estimateTextWidth 在没有 Measurer 时粗略估算宽度。
func estimateTextWidth(content string, fontSize float64) float64 {
	if fontSize <= 0 {
		fontSize = 12
	}
	maxChars := 0
	for _, line := range strings.Split(content, "\n") {
		if count := utf8.RuneCountInString(line); count > maxChars {
			maxChars = count
		}
	}
	return fontSize * 0.55 * float64(maxChars)
}
