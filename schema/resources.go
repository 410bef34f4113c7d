package schema

import (
	"fmt"
	"strings"

	"github.com/ByLCY/inspecta/dsl"
	"github.com/ByLCY/inspecta/fonts"
	"github.com/ByLCY/inspecta/layout"
)

func collectResources(doc *dsl.Document) layout.ResourceSet {
	res := layout.ResourceSet{Fonts: map[string]layout.FontResource{}}
	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil || stmt.Command.Name != "font" {
				continue
			}
			if font := parseFontResource(stmt.Command); font.Name != "" {
				res.Fonts[font.Name] = font
			}
		}
	}

	if _, ok := res.Fonts[layout.FontBody]; !ok {
		res.Fonts[layout.FontBody] = layout.FontResource{
			Name:   layout.FontBody,
			Src:    "builtin:" + fonts.Regular,
			Family: layout.FontBody,
		}
	}
	if _, ok := res.Fonts[layout.FontBold]; !ok {
		res.Fonts[layout.FontBold] = layout.FontResource{
			Name:   layout.FontBold,
			Src:    "builtin:" + fonts.Bold,
			Style:  "bold",
			Family: layout.FontBold,
		}
	}
	return res
}

func collectMeta(doc *dsl.Document) layout.DocumentMeta {
	meta := layout.DocumentMeta{
		Creator: "inspecta",
	}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = stmt.Assignment.Value.Text()
			case "author":
				meta.Author = stmt.Assignment.Value.Text()
			case "subject":
				meta.Subject = stmt.Assignment.Value.Text()
			case "creator":
				meta.Creator = stmt.Assignment.Value.Text()
			case "keywords":
				meta.Keywords = stmt.Assignment.Value.Strings()
			}
		}
	}
	return meta
}

func parseFontResource(cmd *dsl.Command) layout.FontResource {
	if len(cmd.Args) == 0 {
		return layout.FontResource{}
	}
	font := layout.FontResource{
		Name:   cmd.Args[0].Value,
		Family: cmd.Args[0].Value,
	}
	if cmd.Block == nil {
		return font
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		val := stmt.Assignment.Value.Text()
		switch stmt.Assignment.Key {
		case "src":
			font.Src = val
		case "style":
			font.Style = val
		case "fallback":
			font.Fallback = val
		}
	}
	return font
}

func resolvePageSize(spec dsl.PageSpec) (float64, float64, error) {
	base, ok := layout.PagePresets[strings.ToUpper(spec.Size)]
	if !ok {
		return 0, 0, fmt.Errorf("unsupported page size: %s", spec.Size)
	}
	width, height := base[0], base[1]
	for _, token := range spec.Params {
		if token.Value == "landscape" {
			width, height = height, width
		}
	}
	return width, height, nil
}

// resolveMargin reads CSS-like margin values following the `margin` keyword:
// 1 value for all sides, 2 for vertical/horizontal, 4 for top/right/bottom/left.
func resolveMargin(params []*dsl.Lexeme) (layout.Margin, bool) {
	for i, token := range params {
		if token.Value != "margin" {
			continue
		}
		var vals []float64
		for j := i + 1; j < len(params) && len(vals) < 4; j++ {
			l, ok := layout.ParseLength(params[j].Value)
			if !ok {
				break
			}
			vals = append(vals, l.ToPT())
		}
		switch len(vals) {
		case 1:
			v := vals[0]
			return layout.Margin{Top: v, Right: v, Bottom: v, Left: v}, true
		case 2, 3:
			return layout.Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, true
		case 4:
			return layout.Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, true
		}
	}
	return layout.Margin{}, false
}
