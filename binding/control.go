package binding

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Suitability 是单个控制点检查的三态结果。
type Suitability int

const (
	Unspecified Suitability = iota
	Suitable
	NotSuitable
)

func (s Suitability) String() string {
	switch s {
	case Suitable:
		return "suitable"
	case NotSuitable:
		return "not-suitable"
	default:
		return "unspecified"
	}
}

// ControlRow 是规范化后的控制行，与固定标签列表按下标一一对应。
type ControlRow struct {
	Label       string
	Suitability Suitability
	Note        *string
}

// lowerTR 按土耳其语规则转小写（İ→i、I→ı），保证 "UYGUN DEĞİL" 这类大写输入能正确匹配。
// Caser 有状态，不能跨 goroutine 共享，因此每次新建。
func lowerTR(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

// NormalizeSuitability 将布尔、字符串枚举或 {label, uygun, aciklama} 对象统一为三态。
func NormalizeSuitability(raw any) Suitability {
	switch v := raw.(type) {
	case nil:
		return Unspecified
	case bool:
		return fromBool(v)
	case *bool:
		if v == nil {
			return Unspecified
		}
		return fromBool(*v)
	case string:
		return fromString(v)
	case map[string]any:
		return fromObjectField(v["uygun"])
	case ControlRow:
		return v.Suitability
	default:
		return Unspecified
	}
}

func fromBool(b bool) Suitability {
	if b {
		return Suitable
	}
	return NotSuitable
}

func fromObjectField(v any) Suitability {
	switch u := v.(type) {
	case bool:
		return fromBool(u)
	case *bool:
		if u == nil {
			return Unspecified
		}
		return fromBool(*u)
	default:
		return Unspecified
	}
}

func fromString(raw string) Suitability {
	s := strings.TrimSpace(lowerTR(raw))
	switch s {
	case "":
		return Unspecified
	case "uygun", "on":
		return Suitable
	case "uygunsuz", "off":
		return NotSuitable
	}
	if strings.Contains(s, "değil") || strings.Contains(s, "uygunsuz") {
		return NotSuitable
	}
	if strings.Contains(s, "uygun") && !strings.Contains(s, "not") {
		return Suitable
	}
	return Unspecified
}

// CanonicalizeControlRows 为每个标签生成一行，行数恒等于 len(labels)。
// 说明优先级：对象内的 aciklama > 同下标的并行说明数组 > nil。
func CanonicalizeControlRows(labels []string, raw []any, notes []any) []ControlRow {
	rows := make([]ControlRow, len(labels))
	for i, label := range labels {
		row := ControlRow{Label: label}
		var entry any
		if i < len(raw) {
			entry = raw[i]
		}
		row.Suitability = NormalizeSuitability(entry)
		if obj, ok := entry.(map[string]any); ok {
			row.Note = noteOf(obj["aciklama"])
		}
		if row.Note == nil && i < len(notes) {
			row.Note = noteOf(notes[i])
		}
		rows[i] = row
	}
	return rows
}

func noteOf(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ParseFlag 解析布尔或布尔样式的字段；ok 为 false 表示未填写或无法识别。
func ParseFlag(raw any) (value bool, ok bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case *bool:
		if v == nil {
			return false, false
		}
		return *v, true
	case string:
		switch strings.TrimSpace(lowerTR(v)) {
		case "true", "evet", "on", "1", "yes", "var":
			return true, true
		case "false", "hayır", "off", "0", "no", "yok":
			return false, true
		}
		return false, false
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case float64:
		return v != 0, true
	default:
		return false, false
	}
}

// Truthy 判断标志字段是否为真，用于装运标志与“已有封条”前置条件。
func Truthy(raw any) bool {
	v, ok := ParseFlag(raw)
	return ok && v
}
