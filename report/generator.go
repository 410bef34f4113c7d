// Package report assembles the single-page seal and concealment inspection
// document from a loosely-typed form record.
package report

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ByLCY/inspecta/binding"
	"github.com/ByLCY/inspecta/layout"
	"github.com/ByLCY/inspecta/preview"
	"github.com/ByLCY/inspecta/renderer"
	canvasrenderer "github.com/ByLCY/inspecta/renderer/canvas"
	"github.com/ByLCY/inspecta/schema"
)

// unresolved matches ${...} placeholders the record could not fill.
var unresolved = regexp.MustCompile(`\s*\$\{[^}]*\}`)

// Options configures a Generator. Zero values select defaults.
type Options struct {
	// Schema describes the page, titles, fonts and checklist labels.
	// Defaults to the built-in inspection form.
	Schema *schema.Schema
	// Renderer draws and measures text. Defaults to the canvas renderer.
	Renderer renderer.MeasuringRenderer
	// FontDir resolves relative font paths for the default renderer.
	FontDir string
	// Previews receives every generated document. Defaults to a private registry.
	Previews *preview.Registry
	Logger   *zap.Logger
	// Now supplies the timestamp when the record carries none.
	Now func() time.Time
}

// Document is the result of one generation.
type Document struct {
	Bytes    []byte
	Preview  preview.Handle
	Layout   *layout.Result
	Overflow bool
}

// Generator turns form records into PDF documents. It is safe for concurrent use:
// each call owns its layout context, and the renderer's font cache is locked.
type Generator struct {
	schema   *schema.Schema
	renderer renderer.MeasuringRenderer
	previews *preview.Registry
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a Generator.
func New(opts Options) (*Generator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := opts.Schema
	if s == nil {
		var err error
		if s, err = schema.Default(); err != nil {
			return nil, NewError(ErrCodeSchemaInvalid, "load built-in schema", err)
		}
	}
	for _, name := range []string{schema.Physical, schema.Concealment} {
		if _, ok := s.Checklist(name); !ok {
			return nil, NewError(ErrCodeSchemaInvalid, "schema has no checklist "+name, nil)
		}
	}
	r := opts.Renderer
	if r == nil {
		r = canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
			FontDir: opts.FontDir,
			Logger:  logger.Named("renderer"),
		})
	}
	previews := opts.Previews
	if previews == nil {
		previews = preview.NewRegistry()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Generator{
		schema:   s,
		renderer: r,
		previews: previews,
		logger:   logger,
		now:      now,
	}, nil
}

// Previews returns the registry holding generated documents.
func (g *Generator) Previews() *preview.Registry { return g.previews }

// Generate lays out and renders rec. ctx is only checked before work starts;
// once started, generation runs to completion or fails as a whole.
func (g *Generator) Generate(ctx context.Context, rec binding.Record) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewError(ErrCodeCancelled, "generation cancelled before start", err)
	}
	start := g.now()

	res, err := g.Layout(rec)
	if err != nil {
		return nil, err
	}
	data, err := g.renderer.Render(res)
	if err != nil {
		g.logger.Error("render failed", zap.Error(err))
		return nil, NewError(ErrCodeRenderFailed, "render document", err)
	}

	handle := g.previews.Register(data)
	g.logger.Info("document generated",
		zap.String("preview", handle.ID),
		zap.Int("bytes", len(data)),
		zap.Bool("overflow", res.Overflow),
		zap.Duration("elapsed", g.now().Sub(start)),
	)
	return &Document{
		Bytes:    data,
		Preview:  handle,
		Layout:   res,
		Overflow: res.Overflow,
	}, nil
}

// Layout builds the display list for rec without rendering it.
func (g *Generator) Layout(rec binding.Record) (*layout.Result, error) {
	g.renderer.Preload(g.schema.Resources)

	a := &assembler{
		schema: g.schema,
		rec:    rec,
		now:    g.now(),
		lc:     layout.NewContext(g.schema.Metrics, g.schema.Resources, g.renderer, g.logger),
	}
	if err := a.run(); err != nil {
		return nil, NewError(ErrCodeLayoutFailed, "lay out document", err)
	}

	meta := g.schema.Meta
	meta.Title = strings.TrimSpace(unresolved.ReplaceAllString(binding.Interpolate(meta.Title, map[string]any(rec)), ""))
	return a.lc.Result(meta), nil
}
