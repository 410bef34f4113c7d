package layout

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestContext(m Metrics) *Context {
	return NewContext(m, ResourceSet{}, stubMeasurer{perRune: 0.5}, nil)
}

func TestCursorMoveDownIgnoresNegative(t *testing.T) {
	c := NewCursor(100)
	c.MoveDown(10)
	c.MoveDown(-50)
	c.MoveDown(0)
	if c.Y() != 90 {
		t.Fatalf("期望 90，实际 %g", c.Y())
	}
}

// TestPrimitivesNeverRaiseCursor 逐个调用绘制原语，游标只能单调下降。
func TestPrimitivesNeverRaiseCursor(t *testing.T) {
	ctx := newTestContext(DefaultMetrics())
	col := ctx.FullColumn()
	prev := ctx.Y()
	steps := []func(){
		func() { ctx.InfoBlock("Belge No: 42", "Tarih: 01.02.2025") },
		func() { ctx.Title("ARAÇ MÜHÜR VE GİZLEME KONTROL FORMU") },
		func() { ctx.SectionHeader("Temel Bilgiler") },
		func() { ctx.LabelValue("Taşıyıcı Firma", "Anadolu", col) },
		func() { ctx.Subheading("Şoför 1", col) },
		func() { ctx.Gap(-20) },
		func() { ctx.SignatureBox("", col, 120, 30) },
		func() { ctx.ControlTable([]string{"a", "b"}, nil, nil) },
		func() {
			_ = ctx.Columns(4,
				func(c Column) error { ctx.LabelValue("A", "1", c); return nil },
				func(c Column) error { ctx.LabelValue("B", "2", c); ctx.LabelValue("C", "3", c); return nil },
			)
		},
	}
	for i, step := range steps {
		step()
		if ctx.Y() > prev {
			t.Fatalf("第 %d 步游标上移: %g -> %g", i, prev, ctx.Y())
		}
		prev = ctx.Y()
	}
}

func TestSectionHeaderBand(t *testing.T) {
	m := DefaultMetrics()
	ctx := newTestContext(m)
	top := ctx.Y()
	ctx.SectionHeader("Araç Bilgileri")

	if got, want := ctx.Y(), top-m.HeaderHeight-m.FieldSpacing; got != want {
		t.Fatalf("游标期望 %g，实际 %g", want, got)
	}
	page := ctx.Page()
	if len(page.Rects) != 1 {
		t.Fatalf("期望 1 个底色矩形，实际 %d", len(page.Rects))
	}
	band := page.Rects[0]
	if band.Width != m.ContentWidth() || band.Height != m.HeaderHeight || band.Y != top-m.HeaderHeight || band.FillColor == nil {
		t.Fatalf("底色矩形不正确: %+v", band)
	}
	title := page.Texts[0]
	if title.Content != "Araç Bilgileri" || title.Align != "center" || title.Font != FontBold {
		t.Fatalf("标题文本不正确: %+v", title)
	}
	if title.Y >= top || title.Y <= band.Y {
		t.Fatalf("标题基线应位于色带内: %+v", title)
	}
}

func TestLabelValuePlaceholderAndOffset(t *testing.T) {
	m := DefaultMetrics()
	ctx := newTestContext(m)
	col := Column{X: 40, Width: 250}
	top := ctx.Y()
	got := ctx.LabelValue("Dorse Plaka", "   ", col)

	if got.Display != Placeholder {
		t.Fatalf("空值应显示 -，实际 %q", got.Display)
	}
	if ctx.Y() != top-m.LineHeight {
		t.Fatalf("应下移 LineHeight")
	}
	texts := ctx.Page().Texts
	if len(texts) != 2 {
		t.Fatalf("期望标签与值两段文本，实际 %d", len(texts))
	}
	if texts[0].Content != "Dorse Plaka:" || texts[0].X != col.X || texts[0].Font != FontBold {
		t.Fatalf("标签不正确: %+v", texts[0])
	}
	if texts[1].X != col.X+m.LabelWidth || texts[1].Font != FontBody {
		t.Fatalf("值的位置不正确: %+v", texts[1])
	}
}

// TestColumnsReconcileToLowest 两列从同一行开始，之后的游标取较高（更靠下）的那一列。
func TestColumnsReconcileToLowest(t *testing.T) {
	m := DefaultMetrics()
	ctx := newTestContext(m)
	start := ctx.Y()
	var starts []float64
	var cols []Column

	err := ctx.Columns(m.SectionSpacing,
		func(c Column) error {
			starts = append(starts, ctx.Y())
			cols = append(cols, c)
			ctx.LabelValue("A1", "x", c)
			return nil
		},
		func(c Column) error {
			starts = append(starts, ctx.Y())
			cols = append(cols, c)
			for i := 0; i < 3; i++ {
				ctx.LabelValue("B", "y", c)
			}
			return nil
		},
	)
	if err != nil {
		t.Fatalf("Columns 返回错误: %v", err)
	}
	if starts[0] != start || starts[1] != start {
		t.Fatalf("两列都应从快照位置开始: %v", starts)
	}
	if want := start - 3*m.LineHeight - m.SectionSpacing; ctx.Y() != want {
		t.Fatalf("游标期望 %g，实际 %g", want, ctx.Y())
	}
	if cols[1].X <= cols[0].X+cols[0].Width {
		t.Fatalf("两列不应重叠: %+v", cols)
	}
}

func TestColumnsPropagatesError(t *testing.T) {
	ctx := newTestContext(DefaultMetrics())
	boom := errors.New("boom")
	err := ctx.Columns(0, func(Column) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("期望返回写入错误，实际 %v", err)
	}
}

func TestOverflowIsFlaggedOnce(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := DefaultMetrics()
	m.Height = 120
	ctx := NewContext(m, ResourceSet{}, stubMeasurer{perRune: 0.5}, zap.New(core))
	col := ctx.FullColumn()
	for i := 0; i < 20; i++ {
		ctx.LabelValue("Satır", "değer", col)
	}
	if !ctx.Overflowed() {
		t.Fatalf("内容越过下边距应被标记")
	}
	res := ctx.Result(DocumentMeta{Title: "x"})
	if !res.Overflow || res.Page.Height != 120 {
		t.Fatalf("结果应保持单页并带 overflow 标记: %+v", res.Page)
	}
	if n := logs.FilterMessageSnippet("single-page").Len(); n != 1 {
		t.Fatalf("期望记录 1 条警告，实际 %d", n)
	}
}

func TestResourceSetFontFallback(t *testing.T) {
	res := ResourceSet{Fonts: map[string]FontResource{FontBody: {Name: FontBody, Src: "body.ttf"}}}
	if got := res.Font(FontBold); got.Name != FontBody {
		t.Fatalf("未声明的字体应退回 Body，实际 %+v", got)
	}
	if got := (ResourceSet{}).Font("X"); got.Name != "X" {
		t.Fatalf("空资源集应返回占位字体，实际 %+v", got)
	}
}
