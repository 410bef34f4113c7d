package binding

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Record 是一次生成所使用的原始表单数据，键名保持表单的原始字段名。
type Record = map[string]any

// Path 由 string（对象键）与 int（数组下标）组成的访问路径。
type Path []any

// String 以 a.b[0].c 形式输出路径，主要用于日志。
func (p Path) String() string {
	var b strings.Builder
	for _, seg := range p {
		switch s := seg.(type) {
		case int:
			fmt.Fprintf(&b, "[%d]", s)
		default:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			fmt.Fprint(&b, s)
		}
	}
	return b.String()
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则返回原占位符。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		if val, ok := lookup(data, ParsePath(path)); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// Resolve 沿 path 逐级访问 data，任何一级为 nil、缺失或类型不符时立即返回 def。
func Resolve(data any, path Path, def any) any {
	val, ok := lookup(data, path)
	if !ok {
		return def
	}
	return val
}

// ResolveString 返回去除首尾空白后的字符串形式；缺失时返回空串。
func ResolveString(data any, path Path) string {
	val, ok := lookup(data, path)
	if !ok {
		return ""
	}
	switch v := val.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		// YAML 会把未加引号的日期解码成 time.Time
		return v.Format(time.RFC3339)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// ParsePath 解析 a.b[0].c 形式的路径。
func ParsePath(path string) Path {
	var out Path
	for _, segment := range strings.Split(path, ".") {
		name, indexes := parseSegment(segment)
		if name != "" {
			out = append(out, name)
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				// 非法下标保留为字符串，访问时必然落空
				out = append(out, "["+idxStr+"]")
				continue
			}
			out = append(out, idx)
		}
	}
	return out
}

// AsSlice 将任意切片值转换为 []any；非切片返回 nil。
func AsSlice(v any) []any {
	switch s := v.(type) {
	case nil:
		return nil
	case []any:
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func lookup(data any, path Path) (any, bool) {
	current := data
	if current == nil {
		return nil, false
	}
	for _, seg := range path {
		var ok bool
		switch s := seg.(type) {
		case string:
			current, ok = descendMap(current, s)
		case int:
			current, ok = descendArray(current, s)
		default:
			return nil, false
		}
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	name := segment
	indexes := []string{}
	if i := strings.Index(segment, "["); i != -1 {
		name = segment[:i]
		rest := segment[i:]
		for len(rest) > 0 {
			if rest[0] != '[' {
				break
			}
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
	}
	return name, indexes
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	}
	rv := reflect.ValueOf(current)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	val := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !val.IsValid() {
		return nil, false
	}
	return val.Interface(), true
}

func descendArray(current any, idx int) (any, bool) {
	if c, ok := current.([]any); ok {
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	}
	rv := reflect.ValueOf(current)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if idx < 0 || idx >= rv.Len() {
		return nil, false
	}
	return rv.Index(idx).Interface(), true
}
