package layout

import "image"

// 该文件定义布局结果（单页显示列表）与资源描述，供布局计算、渲染与调试 JSON 共用。
// 坐标单位统一为 pt，原点在页面左下角，y 向上递增。

// Result 保存布局后的页面与资源信息。整份表单只有一页，Overflow 表示内容越过了下边距。
type Result struct {
	Page      Page         `json:"page"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
	Overflow  bool         `json:"overflow"`
}

// ResourceSet 记录解析出的字体定义。
type ResourceSet struct {
	Fonts map[string]FontResource `json:"fonts"`
}

// 布局内部使用的两个字体角色，schema 中以同名 font 资源声明。
const (
	FontBody = "Body"
	FontBold = "Bold"
)

// Font 按名称查找字体，找不到时依次退回 Body 与任意已声明字体。
func (r ResourceSet) Font(name string) FontResource {
	if font, ok := r.Fonts[name]; ok {
		return font
	}
	if font, ok := r.Fonts[FontBody]; ok {
		return font
	}
	for _, font := range r.Fonts {
		return font
	}
	return FontResource{Name: name, Family: name}
}

// FontResource 描述字体资源，src 可以是文件路径或 builtin:* 形式。
type FontResource struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Style    string `json:"style"`
	Family   string `json:"family"` // 渲染器使用的 Family 名称
	Fallback string `json:"fallback"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 记录页面尺寸、边距与最终可以直接渲染的元素。
type Page struct {
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Margin Margin     `json:"margin"`
	Rects  []Rect     `json:"rects,omitempty"`
	Lines  []Line     `json:"lines,omitempty"`
	Tables []TableBox `json:"tables"`
	Images []ImageBox `json:"images"`
	Texts  []TextBox  `json:"texts"`
}

// Margin 以 pt 为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// TextBox 表示一行已经定好位置的文本。
// Y 为基线；Width 仅在 Align 为 center/right 时用于计算对齐偏移。
type TextBox struct {
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width,omitempty"`
	Font     string  `json:"font"`
	FontSize float64 `json:"fontSize"`
	Color    Color   `json:"color"`
	Align    string  `json:"align,omitempty"` // left/center/right（默认 left）
}

// Box 是左下角 + 宽高描述的矩形区域。
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ImageBox 描述已解码的图片及其放置区域。
type ImageBox struct {
	Box
	Source string      `json:"source"`
	Image  image.Image `json:"-"`
}

// TableBox 保存固定行高表格的布局信息。
type TableBox struct {
	X            float64    `json:"x"`
	Y            float64    `json:"y"` // 表格上边缘
	Width        float64    `json:"width"`
	ColumnWidths []float64  `json:"columnWidths"`
	Rows         []TableRow `json:"rows"`
	BorderColor  Color      `json:"borderColor"`
	HeaderFill   *Color     `json:"headerFill,omitempty"`
}

// Height 返回表格总高度。
func (t TableBox) Height() float64 {
	var h float64
	for _, row := range t.Rows {
		h += row.Height
	}
	return h
}

// TableRow 记录每一行的上边缘、高度与单元格。
type TableRow struct {
	Y        float64     `json:"y"`
	Height   float64     `json:"height"`
	IsHeader bool        `json:"isHeader"`
	Cells    []TableCell `json:"cells"`
}

// TableCell 复用 TextBox 作为单元格内容。
type TableCell struct {
	Text TextBox `json:"text"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（pt），<=0 时由渲染器给默认值
}

// Rect 表示一个矩形，X/Y 为左下角。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	FillColor   *Color  `json:"fillColor,omitempty"` // 为空表示不填充
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
