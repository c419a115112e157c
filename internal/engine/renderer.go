// internal/engine/renderer.go
package engine

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/tinybrowser/api/schemas"
	"github.com/xkilldash9x/tinybrowser/internal/browser/dom"
	"github.com/xkilldash9x/tinybrowser/internal/browser/layout"
	"github.com/xkilldash9x/tinybrowser/internal/browser/parser"
	"github.com/xkilldash9x/tinybrowser/internal/browser/style"
	"github.com/xkilldash9x/tinybrowser/internal/config"
)

// Job is a single render request.
type Job struct {
	// Source labels the job in logs and snapshots, usually a file path.
	Source string
	HTML   string
	// CSS holds author sheets applied after the document's own <style> elements.
	CSS []string
	// Query is an optional XPath whose element geometry is reported.
	Query string
}

// Result is the outcome of a successful render pass.
type Result struct {
	Snapshot *schemas.LayoutSnapshot
	Geometry *schemas.ElementGeometry
}

// Renderer runs the parse, cascade and layout pipeline. It holds no per-pass
// state, so one Renderer can serve concurrent passes.
type Renderer struct {
	cfg    config.Interface
	logger *zap.Logger
	// sheets from render.stylesheets, parsed once
	extra []parser.StyleSheet
}

// New creates a Renderer and loads every stylesheet listed in the render
// configuration. All unreadable files are reported together.
func New(cfg config.Interface, logger *zap.Logger) (*Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Renderer{
		cfg:    cfg,
		logger: logger.With(zap.String("component", "renderer")),
	}

	var errs error
	for _, path := range cfg.Render().Stylesheets {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to read stylesheet %s: %w", path, err))
			continue
		}
		sheet := parser.NewParser(string(data)).Parse()
		r.logger.Debug("Loaded stylesheet", zap.String("path", path), zap.Int("rules", len(sheet.Rules)))
		r.extra = append(r.extra, sheet)
	}
	if errs != nil {
		return nil, errs
	}
	return r, nil
}

// Render runs one pass. A cancelled context is only checked before the pass
// starts; a pass in progress always completes.
func (r *Renderer) Render(ctx context.Context, job Job) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	passID := uuid.NewString()
	logger := r.logger.With(zap.String("pass_id", passID), zap.String("source", job.Source))
	start := time.Now()

	doc, err := dom.FromHTML(strings.NewReader(job.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	styleRoot, err := style.NewTreeBuilder(logger).Build(doc, doc.Root(), r.stylesheet(doc, job))
	if err != nil {
		return nil, fmt.Errorf("failed to build style tree: %w", err)
	}

	layoutCfg := r.cfg.Layout()
	le := layout.NewEngine(layoutCfg.ViewportWidth, layoutCfg.ViewportHeight, logger)
	root := le.BuildAndLayoutTree(styleRoot)

	snapshot := &schemas.LayoutSnapshot{
		PassID:    passID,
		Source:    job.Source,
		Viewport:  schemas.Viewport{Width: layoutCfg.ViewportWidth, Height: layoutCfg.ViewportHeight},
		CreatedAt: time.Now().UTC(),
	}
	if root != nil {
		snapshot.Root = root.Snapshot()
	}
	result := &Result{Snapshot: snapshot}

	if job.Query != "" {
		geo, err := le.GetElementGeometry(root, job.Query)
		if err != nil {
			return nil, err
		}
		result.Geometry = geo
	}

	logger.Debug("Render pass complete",
		zap.Int("boxes", snapshot.Count()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// stylesheet merges, in cascade order, the user agent sheet, configured
// sheets, the document's <style> elements and the job's own CSS.
func (r *Renderer) stylesheet(doc *dom.Document, job Job) parser.StyleSheet {
	var sheets []parser.StyleSheet
	if r.cfg.Layout().UserAgentStylesheet {
		sheets = append(sheets, style.UserAgentSheet())
	}
	sheets = append(sheets, r.extra...)
	for _, text := range dom.CollectStyleText(doc) {
		sheets = append(sheets, parser.NewParser(text).Parse())
	}
	for _, css := range job.CSS {
		sheets = append(sheets, parser.NewParser(css).Parse())
	}
	return parser.Merge(sheets...)
}

// RenderBatch renders jobs concurrently, at most render.concurrency at a
// time. results[i] belongs to jobs[i] and is nil when that job failed or was
// never started. Every failure is reported in the returned error.
func (r *Renderer) RenderBatch(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	limit := r.cfg.Render().Concurrency
	if limit <= 0 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)

	var (
		mu   sync.Mutex
		errs error
	)
	r.logger.Info("Starting batch render", zap.Int("jobs", len(jobs)), zap.Int("concurrency", limit))

	for i, job := range jobs {
		// Go blocks while the limit is reached, so cancellation is seen
		// before each new pass is scheduled.
		if err := ctx.Err(); err != nil {
			r.logger.Warn("Context cancelled, not scheduling remaining jobs",
				zap.Int("skipped", len(jobs)-i), zap.Error(err))
			mu.Lock()
			errs = multierr.Append(errs, fmt.Errorf("batch stopped after %d of %d jobs: %w", i, len(jobs), err))
			mu.Unlock()
			break
		}
		g.Go(func() error {
			res, err := r.Render(ctx, job)
			if err != nil {
				r.logger.Error("Render failed", zap.String("source", job.Source), zap.Error(err))
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", job.Source, err))
				mu.Unlock()
				// A failed job never stops its siblings.
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	r.logger.Info("Batch render finished", zap.Int("failed", len(multierr.Errors(errs))))
	return results, errs
}
