package layout

import (
	"fmt"
	"unicode/utf8"

	"github.com/ByLCY/inspecta/binding"
)

// 控制表格的固定文案与字号。
const (
	StatusSuitable    = "✓ Uygun"
	StatusNotSuitable = "✗ Uygun Değil"

	tableSize        = 8.0
	tableSmallSize   = 7.0
	tableNoteMinSize = 6.0
	longLabelRunes   = 30
	cellPadding      = 3.0
)

// TableHeaders 是控制表格的表头。
var TableHeaders = [3]string{"Kontrol Noktası", "Durum", "Açıklama"}

// 三列宽度占内容区的比例：标签 / 状态 / 说明。
var tableColumnRatios = [3]float64{0.5, 0.16, 0.34}

var (
	suitableColor    = Color{R: 0, G: 128, B: 0}
	notSuitableColor = Color{R: 192, G: 0, B: 0}
)

// StatusToken 返回三态对应的状态文字与颜色。
func StatusToken(s binding.Suitability) (string, Color) {
	switch s {
	case binding.Suitable:
		return StatusSuitable, suitableColor
	case binding.NotSuitable:
		return StatusNotSuitable, notSuitableColor
	default:
		return Placeholder, textColor
	}
}

// ControlTable 在游标处绘制固定行高的控制表格：表头 + 恰好 len(labels) 行。
// 行不会换行、跳过或截断标签；说明列按宽度缩小字号并在必要时截断。
func (c *Context) ControlTable(labels []string, raw, notes []any) (TableBox, []binding.ControlRow) {
	rows := binding.CanonicalizeControlRows(labels, raw, notes)

	full := c.FullColumn()
	widths := make([]float64, len(tableColumnRatios))
	xs := make([]float64, len(tableColumnRatios))
	x := full.X
	for i, ratio := range tableColumnRatios {
		widths[i] = full.Width * ratio
		xs[i] = x
		x += widths[i]
	}

	fill := headerFill
	table := TableBox{
		X:            full.X,
		Y:            c.cursor.Y(),
		Width:        full.Width,
		ColumnWidths: widths,
		BorderColor:  borderColor,
		HeaderFill:   &fill,
	}
	rowHeight := c.metrics.RowHeight
	top := table.Y

	header := TableRow{Y: top, Height: rowHeight, IsHeader: true}
	for i, title := range TableHeaders {
		header.Cells = append(header.Cells, TableCell{Text: TextBox{
			Content:  title,
			X:        xs[i] + cellPadding,
			Y:        baseline(top, rowHeight, tableSize),
			Font:     FontBold,
			FontSize: tableSize,
			Color:    textColor,
		}})
	}
	table.Rows = append(table.Rows, header)
	top -= rowHeight

	for i, row := range rows {
		label := fmt.Sprintf("%d. %s", i+1, row.Label)
		labelSize := tableSize
		if utf8.RuneCountInString(label) > longLabelRunes {
			labelSize = tableSmallSize
		}
		status, statusColor := StatusToken(row.Suitability)

		note := Fitted{Size: tableSize, Display: Placeholder}
		if row.Note != nil {
			note = c.Fit(*row.Note, FontBody, widths[2]-2*cellPadding, tableSize, WithMinSize(tableNoteMinSize))
		}

		table.Rows = append(table.Rows, TableRow{
			Y:      top,
			Height: rowHeight,
			Cells: []TableCell{
				{Text: TextBox{Content: label, X: xs[0] + cellPadding, Y: baseline(top, rowHeight, labelSize), Font: FontBody, FontSize: labelSize, Color: textColor}},
				{Text: TextBox{Content: status, X: xs[1] + cellPadding, Y: baseline(top, rowHeight, tableSize), Font: FontBold, FontSize: tableSize, Color: statusColor}},
				{Text: TextBox{Content: note.Display, X: xs[2] + cellPadding, Y: baseline(top, rowHeight, note.Size), Font: FontBody, FontSize: note.Size, Color: textColor}},
			},
		})
		top -= rowHeight
	}

	c.page.Tables = append(c.page.Tables, table)
	c.advance(table.Height() + c.metrics.FieldSpacing)
	return table, rows
}
