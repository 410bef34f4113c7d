package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"go.uber.org/zap"

	"github.com/ByLCY/inspecta/fonts"
	"github.com/ByLCY/inspecta/layout"
	"github.com/ByLCY/inspecta/renderer"
)

// default stroke width in pt
const defaultStrokeWidth = 0.5

// Renderer draws layout results via github.com/tdewolff/canvas.
// Layout coordinates are points with a bottom-left origin; canvas works in millimeters,
// so every coordinate is converted at this boundary.
type Renderer struct {
	fontDir   string
	fontBlobs map[string][]byte // injected fonts, by unique name
	logger    *zap.Logger

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
}

var (
	_ renderer.Renderer          = (*Renderer)(nil)
	_ renderer.MeasuringRenderer = (*Renderer)(nil)
	_ layout.Measurer            = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	FontDir string
	Fonts   map[string]Resource // injected fonts accessible via builtin:<name>
	Logger  *zap.Logger
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer resolving font paths against fontDir.
func NewRenderer(fontDir string) *Renderer {
	return NewRendererWithOptions(Options{FontDir: fontDir})
}

// NewRendererWithOptions creates a renderer with injected resources.
func NewRendererWithOptions(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Renderer{
		fontDir:      opts.FontDir,
		fontBlobs:    map[string][]byte{},
		logger:       logger,
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				// caught again when the font is used; the fallback face takes over
				logger.Warn("injected font unreadable", zap.String("font", name), zap.Error(err))
				continue
			}
			r.fontBlobs[name] = data
		}
	}
	return r
}

// Render renders the single page into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	page := result.Page
	if page.Width <= 0 || page.Height <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %gx%g", page.Width, page.Height)
	}

	width, height := toMm(page.Width), toMm(page.Height)
	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	r.applyMeta(writer, result.Meta)

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianI) // 与布局一致：左下角为原点，y 向上
	if err := r.drawPage(ctx, page, result.Resources); err != nil {
		return nil, err
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// TextWidth implements layout.Measurer. fontSize and the result are in points.
func (r *Renderer) TextWidth(content string, font layout.FontResource, fontSize float64) float64 {
	if content == "" {
		return 0
	}
	face, err := r.fontFace(font, fontSize, layout.Color{})
	if err != nil {
		// both the declared and the built-in face failed; estimate like the layout does
		return fontSize * 0.55 * float64(len([]rune(content)))
	}
	return face.TextWidth(content) * layout.MmToPt
}

// Preload loads every declared font once so fallbacks are logged at generation start.
func (r *Renderer) Preload(res layout.ResourceSet) {
	for _, font := range res.Fonts {
		if _, _, err := r.ensureFontFamily(font); err != nil {
			r.logger.Error("font unavailable", zap.String("font", font.Name), zap.Error(err))
		}
	}
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, resources layout.ResourceSet) error {
	// 背景形状在文本之前绘制
	r.drawRects(ctx, page.Rects)
	r.drawLines(ctx, page.Lines)
	if err := r.drawTables(ctx, page.Tables, resources); err != nil {
		return err
	}
	r.drawImages(ctx, page.Images)
	for _, tb := range page.Texts {
		if err := r.drawTextBox(ctx, tb, resources.Font(tb.Font)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, fontRes layout.FontResource) error {
	if tb.Content == "" {
		return nil
	}
	face, err := r.fontFace(fontRes, tb.FontSize, tb.Color)
	if err != nil {
		return err
	}

	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	// tb.Y 已经是基线
	ctx.DrawText(toMm(anchorX), toMm(tb.Y), canvas.NewTextLine(face, tb.Content, textAlign))
	return nil
}

func (r *Renderer) drawImages(ctx *canvas.Context, images []layout.ImageBox) {
	for _, img := range images {
		if img.Image == nil || img.Width <= 0 {
			continue
		}
		px := img.Image.Bounds().Dx()
		if px <= 0 {
			continue
		}
		dpmm := float64(px) / toMm(img.Width)
		ctx.DrawImage(toMm(img.X), toMm(img.Y), img.Image, canvas.DPMM(dpmm))
	}
}

func (r *Renderer) drawTables(ctx *canvas.Context, tables []layout.TableBox, resources layout.ResourceSet) error {
	for _, table := range tables {
		if len(table.ColumnWidths) == 0 {
			continue
		}
		for _, row := range table.Rows {
			x := table.X
			bottom := row.Y - row.Height
			for idx := range table.ColumnWidths {
				colWidth := table.ColumnWidths[idx]
				var fill color.Color = canvas.White
				if row.IsHeader && table.HeaderFill != nil {
					fill = colorFromLayout(*table.HeaderFill)
				}
				ctx.SetFillColor(fill)
				ctx.SetStrokeColor(colorFromLayout(table.BorderColor))
				ctx.SetStrokeWidth(toMm(defaultStrokeWidth))
				ctx.DrawPath(toMm(x), toMm(bottom), canvas.Rectangle(toMm(colWidth), toMm(row.Height)))
				x += colWidth
			}
			for _, cell := range row.Cells {
				if err := r.drawTextBox(ctx, cell.Text, resources.Font(cell.Text.Font)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(toMm(w))
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(toMm(ln.X2-ln.X1), toMm(ln.Y2-ln.Y1))
		ctx.DrawPath(toMm(ln.X1), toMm(ln.Y1), p)
	}
}

func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect) {
	for _, rc := range rects {
		w := rc.StrokeWidth
		if w <= 0 {
			w = defaultStrokeWidth
		}
		if rc.FillColor != nil {
			ctx.SetFillColor(colorFromLayout(*rc.FillColor))
		} else {
			ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		}
		ctx.SetStrokeColor(colorFromLayout(rc.StrokeColor))
		ctx.SetStrokeWidth(toMm(w))
		ctx.DrawPath(toMm(rc.X), toMm(rc.Y), canvas.Rectangle(toMm(rc.Width), toMm(rc.Height)))
	}
}

func (r *Renderer) fontFace(font layout.FontResource, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Family
	if familyName == "" {
		familyName = font.Name
	}
	if familyName == "" {
		familyName = layout.FontBody
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbErr := r.fallback(font, style)
		if fbErr != nil {
			return nil, canvas.FontRegular, fmt.Errorf("字体 %s 加载失败: %w", font.Name, err)
		}
		r.logger.Warn("font failed to load, using built-in fallback; non-Latin glyphs may render incorrectly",
			zap.String("font", font.Name),
			zap.String("src", font.Src),
			zap.Error(err),
		)
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: style}
		return fallback, style, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontResource, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(font.Name, font.Src)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) loadFontBytes(name, src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", name)
	}
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		builtin := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[builtin]; ok {
			return blob, nil
		}
		return fonts.Load(builtin)
	}
	path := src
	if !filepath.IsAbs(path) {
		if r.fontDir == "" {
			return nil, fmt.Errorf("未指定字体目录时不允许使用相对路径：%s（请改用 builtin:）", src)
		}
		path = filepath.Join(r.fontDir, path)
	}
	return os.ReadFile(path)
}

// fallback builds a family from the declared fallback source, or from the built-in
// Go face matching the requested style.
func (r *Renderer) fallback(font layout.FontResource, style canvas.FontStyle) (*canvas.FontFamily, error) {
	family := canvas.NewFontFamily("inspecta-fallback-" + font.Name)
	if font.Fallback != "" {
		if data, err := r.loadFontBytes(font.Name, font.Fallback); err == nil {
			if err := family.LoadFont(data, 0, style); err == nil {
				return family, nil
			}
		}
	}
	italic := style&canvas.FontItalic != 0
	bold := false
	switch style &^ canvas.FontItalic {
	case canvas.FontSemiBold, canvas.FontBold, canvas.FontExtraBold, canvas.FontBlack:
		bold = true
	}
	if err := family.LoadFont(fonts.ForStyle(bold, italic), 0, style); err != nil {
		return nil, err
	}
	return family, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s|%s", font.Name, font.Src, font.Style, font.Fallback)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
