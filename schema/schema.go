// Package schema turns the form description DSL into the fixed page setup,
// section titles, fonts and ordered checklist labels used by the report assembler.
package schema

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ByLCY/inspecta/dsl"
	"github.com/ByLCY/inspecta/layout"
)

//go:embed inspection.form
var defaultSource string

// Checklist keys declared by the default schema.
const (
	Physical    = "physical"
	Concealment = "concealment"
)

// Schema is the resolved form description.
type Schema struct {
	Name       string
	Version    string
	Meta       layout.DocumentMeta
	Resources  layout.ResourceSet
	Metrics    layout.Metrics
	Signature  SignatureSize
	Title      string
	Sections   map[string]string
	Checklists map[string]Checklist
}

// SignatureSize is the box reserved for each signature, in points.
type SignatureSize struct {
	Width  float64
	Height float64
}

// Checklist is an ordered label list bound to a control array and a parallel notes array.
// Label i always corresponds to index i of both arrays.
type Checklist struct {
	Name        string
	RecordField string
	NotesField  string
	Labels      []string
}

// SectionTitle returns the declared title, or the key itself when none was declared.
func (s *Schema) SectionTitle(key string) string {
	if title, ok := s.Sections[key]; ok && title != "" {
		return title
	}
	return key
}

// Checklist returns the checklist declared under name.
func (s *Schema) Checklist(name string) (Checklist, bool) {
	c, ok := s.Checklists[name]
	return c, ok
}

// Default parses the built-in inspection form.
func Default() (*Schema, error) {
	return Parse(strings.NewReader(defaultSource))
}

// DefaultSource returns the built-in schema text.
func DefaultSource() string { return defaultSource }

// Load reads a schema file; an empty path selects the built-in schema.
func Load(path string) (*Schema, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema %s: %w", path, err)
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return s, nil
}

// Parse parses and resolves a schema.
func Parse(r io.Reader) (*Schema, error) {
	doc, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument resolves a parsed DSL document.
func FromDocument(doc *dsl.Document) (*Schema, error) {
	s := &Schema{
		Name:       doc.Name,
		Version:    doc.Version,
		Meta:       collectMeta(doc),
		Resources:  collectResources(doc),
		Metrics:    layout.DefaultMetrics(),
		Signature:  SignatureSize{Width: 120, Height: 30},
		Sections:   map[string]string{},
		Checklists: map[string]Checklist{},
	}

	page, err := doc.Page()
	if err != nil {
		return nil, err
	}
	if err := s.applyPage(page); err != nil {
		return nil, err
	}

	for _, sec := range doc.Checklists() {
		c, err := parseChecklist(sec)
		if err != nil {
			return nil, err
		}
		if _, dup := s.Checklists[c.Name]; dup {
			return nil, dsl.Errorf(sec.Pos, "checklist %s declared twice", c.Name)
		}
		s.Checklists[c.Name] = c
	}
	return s, nil
}

func (s *Schema) applyPage(page *dsl.PageSection) error {
	width, height, err := resolvePageSize(page.Spec)
	if err != nil {
		return err
	}
	s.Metrics.Width, s.Metrics.Height = width, height
	if margin, ok := resolveMargin(page.Spec.Params); ok {
		s.Metrics.Margin = margin
	}
	if page.Block == nil {
		return nil
	}

	for _, stmt := range page.Block.Statements {
		switch {
		case stmt.Assignment != nil:
			if err := s.applyMetric(stmt.Assignment); err != nil {
				return err
			}
		case stmt.Command != nil:
			cmd := stmt.Command
			switch cmd.Name {
			case "title":
				if len(cmd.Args) == 0 {
					return dsl.Errorf(cmd.Pos, "title requires text")
				}
				s.Title = cmd.Args[0].Value
			case "section":
				if len(cmd.Args) < 2 {
					return dsl.Errorf(cmd.Pos, "section requires a key and a title")
				}
				s.Sections[cmd.Args[0].Value] = cmd.Args[1].Value
			default:
				return dsl.Errorf(cmd.Pos, "unknown page command %q", cmd.Name)
			}
		}
	}
	return nil
}

func (s *Schema) applyMetric(a *dsl.Assignment) error {
	raw := a.Value.Text()
	length, ok := layout.ParseLength(raw)
	if !ok || length.Value < 0 {
		return dsl.Errorf(a.Pos, "page %s: invalid length %q", a.Key, raw)
	}
	v := length.ToPT()
	switch strings.ToLower(a.Key) {
	case "line-height":
		s.Metrics.LineHeight = v
	case "section-spacing":
		s.Metrics.SectionSpacing = v
	case "field-spacing":
		s.Metrics.FieldSpacing = v
	case "header-height":
		s.Metrics.HeaderHeight = v
	case "label-width":
		s.Metrics.LabelWidth = v
	case "row-height":
		s.Metrics.RowHeight = v
	case "signature-width":
		s.Signature.Width = v
	case "signature-height":
		s.Signature.Height = v
	default:
		return dsl.Errorf(a.Pos, "unknown page setting %q", a.Key)
	}
	return nil
}

// parseChecklist reads `checklist <name> record <field> notes <field> { "label" ... }`.
func parseChecklist(sec *dsl.ChecklistSection) (Checklist, error) {
	c := Checklist{
		Name:        sec.Name,
		RecordField: sec.RecordField,
		NotesField:  sec.NotesField,
	}
	for _, l := range sec.Labels {
		label := strings.TrimSpace(string(l.Text))
		if label == "" {
			return c, dsl.Errorf(l.Pos, "checklist %s: empty label", sec.Name)
		}
		c.Labels = append(c.Labels, label)
	}
	if len(c.Labels) == 0 {
		return c, dsl.Errorf(sec.Pos, "checklist %s: no labels", sec.Name)
	}
	return c, nil
}
