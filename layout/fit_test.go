package layout

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// stubMeasurer 以固定的每字符宽度测量文本，仅用于测试，避免引入 renderer 造成循环依赖。
type stubMeasurer struct {
	perRune float64 // 每个字符占字号的比例
}

func (s stubMeasurer) TextWidth(content string, _ FontResource, fontSize float64) float64 {
	return s.perRune * fontSize * float64(utf8.RuneCountInString(content))
}

// unevenWidth 让不同字符宽度不同，并对空格额外加宽，模拟真实字体度量。
func unevenWidth(text string, size float64) float64 {
	var w float64
	for _, r := range text {
		switch {
		case r == 'W' || r == 'M' || r == 'Ş':
			w += 0.9 * size
		case r == ' ':
			w += 0.3 * size
		case r == 'i' || r == 'l' || r == '.':
			w += 0.25 * size
		default:
			w += 0.55 * size
		}
	}
	return w
}

func TestFitKeepsTextThatFits(t *testing.T) {
	got := Fit(unevenWidth, "Kısa", 200, 9)
	if got.Size != 9 || got.Display != "Kısa" {
		t.Fatalf("期望原样保留，实际 %+v", got)
	}
}

func TestFitShrinksBeforeTruncating(t *testing.T) {
	text := strings.Repeat("a", 20) // 9pt 下 99，8pt 下 88
	got := Fit(unevenWidth, text, 90, 9)
	if got.Display != text {
		t.Fatalf("缩小字号即可放下，不应截断: %+v", got)
	}
	if got.Size != 8 {
		t.Fatalf("期望字号 8，实际 %g", got.Size)
	}
}

// TestFitWidthGuarantee 验证任意输入下 Display 在 Size 下的宽度都不超过 maxWidth。
func TestFitWidthGuarantee(t *testing.T) {
	texts := []string{
		"",
		"x",
		"Anadolu Uluslararası Taşımacılık ve Lojistik A.Ş.",
		"WWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWW",
		"kelime   kelime   kelime   kelime   kelime",
		"Şoför imzası alınamadı, araç kontrol noktasında bekletildi",
	}
	widths := []float64{0.5, 2, 5, 10, 33.3, 60, 110, 250}
	sizes := []float64{5, 7, 8, 9, 12}
	for _, text := range texts {
		for _, maxWidth := range widths {
			for _, size := range sizes {
				got := Fit(unevenWidth, text, maxWidth, size)
				if w := unevenWidth(got.Display, got.Size); w > maxWidth {
					t.Fatalf("fit(%q, %g, %g) = %+v 宽度 %g 超出", text, maxWidth, size, got, w)
				}
				if got.Size > size {
					t.Fatalf("字号不应增大: start=%g got=%g", size, got.Size)
				}
				if got.Size < DefaultMinSize && got.Size < size {
					t.Fatalf("字号低于下限: %+v", got)
				}
			}
		}
	}
}

// TestFitLongCompanyName 覆盖 45 字符公司名在约 110pt 列宽中的表现。
func TestFitLongCompanyName(t *testing.T) {
	ctx := NewContext(DefaultMetrics(), ResourceSet{}, stubMeasurer{perRune: 0.5}, nil)
	name := "Anadolu Uluslararası Nakliyat ve Ticaret AŞ.."
	if n := utf8.RuneCountInString(name); n != 45 {
		t.Fatalf("测试数据应为 45 个字符，实际 %d", n)
	}
	got := ctx.Fit(name, FontBody, 110, 9)
	if got.Size != DefaultMinSize {
		t.Fatalf("期望字号降到 %g，实际 %g", DefaultMinSize, got.Size)
	}
	if !strings.HasSuffix(got.Display, Ellipsis) {
		t.Fatalf("期望以省略号结尾: %q", got.Display)
	}
	if utf8.RuneCountInString(got.Display) >= utf8.RuneCountInString(name) {
		t.Fatalf("截断后应更短: %q", got.Display)
	}
	if w := ctx.Width(got.Display, FontBody, got.Size); w > 110 {
		t.Fatalf("宽度 %g 超出 110", w)
	}
	if !got.Truncated(name) {
		t.Fatalf("应报告已截断")
	}
}

func TestFitTrimsTrailingSpaceBeforeEllipsis(t *testing.T) {
	fixed := func(text string, size float64) float64 { return float64(utf8.RuneCountInString(text)) }
	got := Fit(fixed, "abcd efgh", 8, 7)
	if got.Display != "abcd..." {
		t.Fatalf("期望 abcd...，实际 %q", got.Display)
	}
}

func TestFitEllipsisDoesNotFit(t *testing.T) {
	got := Fit(unevenWidth, "uzun bir metin", 1, 9)
	if got.Display != "" {
		t.Fatalf("连省略号都放不下时应为空，实际 %q", got.Display)
	}
}

func TestFitOptions(t *testing.T) {
	text := strings.Repeat("a", 20)
	got := Fit(unevenWidth, text, 70, 9, WithMinSize(6), WithStep(1))
	if got.Display != text || got.Size != 6 {
		t.Fatalf("期望 6pt 原文，实际 %+v", got)
	}
}
