package layout

import (
	"math"
	"strings"

	"go.uber.org/zap"
)

// 常用字号（pt）。
const (
	TitleSize    = 14.0
	HeaderSize   = 10.0
	LabelSize    = 9.0
	ValueSize    = 9.0
	InfoSize     = 8.0
	ColumnGutter = 12.0
)

var (
	textColor   = Color{R: 30, G: 30, B: 30}
	mutedColor  = Color{R: 110, G: 110, B: 110}
	borderColor = Color{R: 190, G: 190, B: 190}
	headerFill  = Color{R: 230, G: 230, B: 230}
)

// Placeholder 是缺失字段的显示值。
const Placeholder = "-"

// Context 持有一次布局过程的游标、度量与显示列表。不可跨 goroutine 共享。
type Context struct {
	metrics    Metrics
	cursor     Cursor
	resources  ResourceSet
	measurer   Measurer
	logger     *zap.Logger
	page       Page
	overflowed bool
}

// NewContext 创建布局上下文，游标位于内容区顶部。
func NewContext(m Metrics, res ResourceSet, measurer Measurer, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		metrics:   m,
		cursor:    NewCursor(m.Top()),
		resources: res,
		measurer:  measurer,
		logger:    logger,
		page: Page{
			Width:  m.Width,
			Height: m.Height,
			Margin: m.Margin,
		},
	}
}

// Metrics 返回页面常量。
func (c *Context) Metrics() Metrics { return c.metrics }

// Y 返回当前游标位置。
func (c *Context) Y() float64 { return c.cursor.Y() }

// Overflowed 报告游标是否已越过下边距。
func (c *Context) Overflowed() bool { return c.overflowed }

// Page 返回当前显示列表。
func (c *Context) Page() Page { return c.page }

// FullColumn 返回整个内容区宽度的列。
func (c *Context) FullColumn() Column {
	return Column{X: c.metrics.Margin.Left, Width: c.metrics.ContentWidth()}
}

// Width 测量 text 在字体 font、字号 size 下的宽度。
func (c *Context) Width(text, font string, size float64) float64 {
	if text == "" {
		return 0
	}
	if c.measurer == nil {
		return estimateTextWidth(text, size)
	}
	return c.measurer.TextWidth(text, c.resources.Font(font), size)
}

// WidthFunc 返回绑定字体后的宽度函数。
func (c *Context) WidthFunc(font string) WidthFunc {
	return func(text string, size float64) float64 { return c.Width(text, font, size) }
}

// Fit 以指定字体调用 Fit。
func (c *Context) Fit(text, font string, maxWidth, startSize float64, opts ...FitOption) Fitted {
	return Fit(c.WidthFunc(font), text, maxWidth, startSize, opts...)
}

// Gap 向下留白。
func (c *Context) Gap(dy float64) { c.advance(dy) }

// Title 居中绘制文档标题。
func (c *Context) Title(text string) {
	col := c.FullColumn()
	fitted := c.Fit(text, FontBold, col.Width, TitleSize)
	height := TitleSize * 1.6
	c.addText(TextBox{
		Content:  fitted.Display,
		X:        col.X,
		Y:        baseline(c.cursor.Y(), height, fitted.Size),
		Width:    col.Width,
		Font:     FontBold,
		FontSize: fitted.Size,
		Color:    textColor,
		Align:    "center",
	})
	c.advance(height + c.metrics.FieldSpacing)
}

// InfoBlock 在内容区右上角逐行右对齐绘制文本。
func (c *Context) InfoBlock(lines ...string) {
	col := c.FullColumn()
	for _, line := range lines {
		fitted := c.Fit(line, FontBody, col.Width/2, InfoSize)
		c.addText(TextBox{
			Content:  fitted.Display,
			X:        col.X,
			Y:        baseline(c.cursor.Y(), c.metrics.LineHeight, fitted.Size),
			Width:    col.Width,
			Font:     FontBody,
			FontSize: fitted.Size,
			Color:    mutedColor,
			Align:    "right",
		})
		c.advance(c.metrics.LineHeight)
	}
}

// SectionHeader 绘制横跨内容区的灰底标题带，标题居中。
func (c *Context) SectionHeader(title string) {
	col := c.FullColumn()
	top := c.cursor.Y()
	h := c.metrics.HeaderHeight
	fill := headerFill
	c.page.Rects = append(c.page.Rects, Rect{
		X:           col.X,
		Y:           top - h,
		Width:       col.Width,
		Height:      h,
		StrokeColor: borderColor,
		StrokeWidth: 0.5,
		FillColor:   &fill,
	})
	fitted := c.Fit(title, FontBold, col.Width-8, HeaderSize)
	c.addText(TextBox{
		Content:  fitted.Display,
		X:        col.X,
		Y:        baseline(top, h, fitted.Size),
		Width:    col.Width,
		Font:     FontBold,
		FontSize: fitted.Size,
		Color:    textColor,
		Align:    "center",
	})
	c.advance(h + c.metrics.FieldSpacing)
}

// Subheading 在列内绘制一行加粗小标题。
func (c *Context) Subheading(text string, col Column) {
	fitted := c.Fit(text, FontBold, col.Width, LabelSize)
	y := baseline(c.cursor.Y(), c.metrics.LineHeight, fitted.Size)
	c.addText(TextBox{
		Content:  fitted.Display,
		X:        col.X,
		Y:        y,
		Font:     FontBold,
		FontSize: fitted.Size,
		Color:    textColor,
	})
	c.page.Lines = append(c.page.Lines, Line{
		X1: col.X, Y1: y - 2,
		X2: col.X + math.Min(col.Width, c.Width(fitted.Display, FontBold, fitted.Size)), Y2: y - 2,
		Color: borderColor,
		Width: 0.5,
	})
	c.advance(c.metrics.LineHeight)
}

// LabelValue 在 col.X 处绘制加粗标签，在 col.X+LabelWidth 处绘制适配宽度后的值。
// 空值显示为 "-"。返回值的适配结果。
func (c *Context) LabelValue(label, value string, col Column) Fitted {
	top := c.cursor.Y()
	labelWidth := math.Min(c.metrics.LabelWidth, col.Width)

	lf := c.Fit(label+":", FontBold, labelWidth-4, LabelSize)
	c.addText(TextBox{
		Content:  lf.Display,
		X:        col.X,
		Y:        baseline(top, c.metrics.LineHeight, lf.Size),
		Font:     FontBold,
		FontSize: lf.Size,
		Color:    textColor,
	})

	value = strings.TrimSpace(value)
	if value == "" {
		value = Placeholder
	}
	vf := c.Fit(value, FontBody, col.Width-labelWidth, ValueSize)
	c.addText(TextBox{
		Content:  vf.Display,
		X:        col.X + labelWidth,
		Y:        baseline(top, c.metrics.LineHeight, vf.Size),
		Font:     FontBody,
		FontSize: vf.Size,
		Color:    textColor,
	})
	c.advance(c.metrics.LineHeight)
	return vf
}

// ColumnWriter 在给定列内书写内容，游标从共同起点开始。
type ColumnWriter func(col Column) error

// Columns 将内容区等分为 len(writers) 列，每列都从同一快照位置开始书写，
// 结束后游标取各列最低位置再下移 spacing。
func (c *Context) Columns(spacing float64, writers ...ColumnWriter) error {
	if len(writers) == 0 {
		return nil
	}
	full := c.FullColumn()
	share := full.Width / float64(len(writers))
	start := c.cursor.Y()
	lowest := start
	for i, write := range writers {
		c.cursor.rewind(start)
		col := Column{X: full.X + float64(i)*share, Width: share}
		if i < len(writers)-1 {
			col.Width -= ColumnGutter
		}
		if err := write(col); err != nil {
			return err
		}
		lowest = math.Min(lowest, c.cursor.Y())
	}
	c.cursor.rewind(lowest)
	c.advance(spacing)
	return nil
}

// Result 生成最终布局结果。
func (c *Context) Result(meta DocumentMeta) *Result {
	return &Result{
		Page:      c.page,
		Resources: c.resources,
		Meta:      meta,
		Overflow:  c.overflowed,
	}
}

func (c *Context) addText(tb TextBox) {
	if tb.Content == "" {
		return
	}
	c.page.Texts = append(c.page.Texts, tb)
}

// advance 下移游标；首次越过下边距时记录一次警告。内容不会分页。
func (c *Context) advance(dy float64) {
	c.cursor.MoveDown(dy)
	if !c.overflowed && c.cursor.Y() < c.metrics.Bottom() {
		c.overflowed = true
		c.logger.Warn("content exceeds page bottom margin; output stays single-page",
			zap.Float64("y", c.cursor.Y()),
			zap.Float64("bottom", c.metrics.Bottom()),
		)
	}
}

// baseline 返回在高度为 height 的带内垂直居中 size 字号文本的基线位置。
func baseline(top, height, size float64) float64 {
	return top - height/2 - size*0.35
}
