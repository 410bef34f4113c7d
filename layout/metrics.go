package layout

// Metrics 是单次布局中不可变的页面常量（单位：pt）。
type Metrics struct {
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	Margin         Margin  `json:"margin"`
	LineHeight     float64 `json:"lineHeight"`
	SectionSpacing float64 `json:"sectionSpacing"`
	FieldSpacing   float64 `json:"fieldSpacing"`
	HeaderHeight   float64 `json:"headerHeight"`
	LabelWidth     float64 `json:"labelWidth"`
	RowHeight      float64 `json:"rowHeight"`
}

// A4 纸张尺寸（pt）。
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// PagePresets 记录支持的纸张尺寸（pt，纵向）。
var PagePresets = map[string][2]float64{
	"A4": {A4Width, A4Height},
	"A5": {419.53, 595.28},
}

// DefaultMetrics 返回 A4 纵向、30pt 边距的默认度量。
func DefaultMetrics() Metrics {
	return Metrics{
		Width:          A4Width,
		Height:         A4Height,
		Margin:         Margin{Top: 30, Right: 30, Bottom: 30, Left: 30},
		LineHeight:     12,
		SectionSpacing: 8,
		FieldSpacing:   4,
		HeaderHeight:   16,
		LabelWidth:     95,
		RowHeight:      11,
	}
}

// ContentWidth 返回左右边距之间的宽度。
func (m Metrics) ContentWidth() float64 {
	return m.Width - m.Margin.Left - m.Margin.Right
}

// Top 返回内容区上边缘。
func (m Metrics) Top() float64 { return m.Height - m.Margin.Top }

// Bottom 返回内容区下边缘。
func (m Metrics) Bottom() float64 { return m.Margin.Bottom }

// Column 是内容区内的一列。
type Column struct {
	X     float64 `json:"x"`
	Width float64 `json:"width"`
}
