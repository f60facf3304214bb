// Package service runs the annotation pipeline: read items, annotate them,
// convert the uploadable annotations and hand the records to a sink.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"annbridge/internal/annotation"
	"annbridge/internal/conversion"
	"annbridge/internal/domain"
	"annbridge/internal/metrics"
	"annbridge/internal/typesystem"
)

// ItemResult is the outcome of one item.
type ItemResult struct {
	Item     domain.Item
	Text     string
	Records  []domain.Record
	Upload   domain.UploadResult
	// Rejected counts annotations whose conversion failed.
	Rejected int
	Err      error
}

// Summary is the outcome of a run.
type Summary struct {
	RunID      string
	BindErrors []error
	Items      []ItemResult
	Converted  int
	Sent       int
	Skipped    int
	Rejected   int
	Failed     int
}

type Pipeline struct {
	source     domain.ItemSource
	annotators []domain.Annotator
	chain      *conversion.Chain
	sink       domain.Sink
	writer     domain.DocumentWriter
	uploadable []string
	workers    int
	logger     *slog.Logger
	metrics    *metrics.Metrics

	index      *typesystem.Index
	filterable []string
}

type Option func(*Pipeline)

// WithDocumentWriter dumps every annotated document before conversion.
func WithDocumentWriter(w domain.DocumentWriter) Option {
	return func(p *Pipeline) { p.writer = w }
}

// WithUploadableTypes restricts conversion to annotations whose type is
// subsumed by one of names. Without it every annotation is converted.
func WithUploadableTypes(names ...string) Option {
	return func(p *Pipeline) { p.uploadable = names }
}

func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func New(source domain.ItemSource, annotators []domain.Annotator, chain *conversion.Chain, sink domain.Sink, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:     source,
		annotators: annotators,
		chain:      chain,
		sink:       sink,
		workers:    1,
		index:      typesystem.NewIndex(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.metrics == nil {
		p.metrics = metrics.New()
	}
	if p.workers < 1 {
		p.workers = 1
	}
	return p
}

// Bind binds the converter chain and the uploadable type filter to ts.
// Converters that fail to bind are logged, counted and returned; the
// pipeline keeps running without them. Uploadable types missing from ts
// are ignored with a warning.
func (p *Pipeline) Bind(ts *typesystem.Snapshot) []error {
	diags := p.chain.Bind(ts)
	for _, err := range diags {
		name := "unknown"
		var be *conversion.BindingError
		if errors.As(err, &be) {
			name = be.Converter
		}
		p.logger.Warn("converter inactive", "converter", name, "error", err)
		p.metrics.BindFailed(name)
	}
	p.index.Bind(ts)
	p.filterable = p.filterable[:0]
	for _, name := range p.uploadable {
		if !ts.Has(name) {
			p.logger.Warn("uploadable type not in type system", "type", name)
			continue
		}
		p.filterable = append(p.filterable, name)
	}
	return diags
}

// Run processes every item of the source. Items are independent: a failed
// item is logged and reported in the summary while the others continue.
// The returned error joins the item errors, or reports why the run could
// not start.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{RunID: uuid.NewString()}
	logger := p.logger.With("run_id", sum.RunID)

	ts, err := p.source.TypeSystem(ctx)
	if err != nil {
		return sum, fmt.Errorf("type system: %w", err)
	}
	sum.BindErrors = p.Bind(ts)

	items, err := p.source.Items(ctx)
	if err != nil {
		return sum, fmt.Errorf("list items: %w", err)
	}
	logger.Info("run started", "items", len(items), "types", ts.Len(), "workers", p.workers)

	var (
		mu       sync.Mutex
		itemErrs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			res := p.processItem(gctx, item)
			p.metrics.ItemDone(res.Err == nil, time.Since(start))

			mu.Lock()
			defer mu.Unlock()
			sum.Items = append(sum.Items, res)
			sum.Converted += len(res.Records)
			sum.Sent += res.Upload.Sent
			sum.Skipped += res.Upload.Skipped
			sum.Rejected += res.Rejected
			if res.Err != nil {
				sum.Failed++
				itemErrs = append(itemErrs, res.Err)
				logger.Error("item failed", "item", item.ID, "error", res.Err)
				return nil
			}
			logger.Debug("item done", "item", item.ID, "records", len(res.Records),
				"sent", res.Upload.Sent, "skipped", res.Upload.Skipped)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}
	sort.Slice(sum.Items, func(i, j int) bool { return sum.Items[i].Item.ID < sum.Items[j].Item.ID })

	logger.Info("run finished", "items", len(items), "failed", sum.Failed,
		"converted", sum.Converted, "rejected", sum.Rejected, "sent", sum.Sent, "skipped", sum.Skipped)
	return sum, errors.Join(itemErrs...)
}

func (p *Pipeline) processItem(ctx context.Context, item domain.Item) ItemResult {
	res := ItemResult{Item: item}
	doc, err := p.source.Document(ctx, item)
	if err != nil {
		res.Err = fmt.Errorf("item %s: read: %w", item.ID, err)
		return res
	}
	res.Text = doc.Text
	if err := p.Annotate(ctx, doc); err != nil {
		res.Err = fmt.Errorf("item %s: %w", item.ID, err)
		return res
	}
	if p.writer != nil {
		if err := p.writer.Write(doc); err != nil {
			res.Err = fmt.Errorf("item %s: dump: %w", item.ID, err)
			return res
		}
	}
	res.Records, res.Rejected, err = p.convert(doc)
	if err != nil {
		res.Err = fmt.Errorf("item %s: %w", item.ID, err)
		return res
	}
	res.Upload, err = p.sink.Upload(ctx, item, res.Records)
	p.metrics.Uploaded(res.Upload.Sent, res.Upload.Skipped)
	if err != nil {
		res.Err = fmt.Errorf("item %s: upload: %w", item.ID, err)
	}
	return res
}

// Annotate runs the annotators over doc in order.
func (p *Pipeline) Annotate(ctx context.Context, doc *annotation.Document) error {
	for _, a := range p.annotators {
		if err := a.Process(ctx, doc); err != nil {
			return fmt.Errorf("annotator %s: %w", a.Name(), err)
		}
	}
	return nil
}

// Convert converts the uploadable annotations of doc in document order.
// An annotation that fails to convert is logged and left out; the rest of
// the document still converts. Bind must have been called.
func (p *Pipeline) Convert(doc *annotation.Document) ([]domain.Record, error) {
	out, _, err := p.convert(doc)
	return out, err
}

func (p *Pipeline) convert(doc *annotation.Document) ([]domain.Record, int, error) {
	var (
		out      []domain.Record
		rejected int
	)
	for _, a := range doc.Sorted() {
		ok, err := p.Uploadable(a.Type)
		if err != nil {
			return nil, rejected, err
		}
		if !ok {
			continue
		}
		conv := p.chain.Resolve(a)
		rec, err := conv.Convert(a)
		if err != nil {
			rejected++
			p.metrics.ConvertFailed(conv.Name())
			p.logger.Warn("annotation not converted", "item", doc.ItemID, "type", a.Type,
				"begin", a.Begin(), "end", a.End(), "converter", conv.Name(), "error", err)
			continue
		}
		p.metrics.Converted(conv.Name())
		out = append(out, rec)
	}
	return out, rejected, nil
}

// Uploadable reports whether annotations of typeName pass the uploadable
// type filter. Types unknown to the bound type system never pass.
func (p *Pipeline) Uploadable(typeName string) (bool, error) {
	if len(p.uploadable) == 0 {
		return true, nil
	}
	for _, anc := range p.filterable {
		ok, err := p.index.IsSubsumed(typeName, anc)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Chain returns the converter chain of the pipeline.
func (p *Pipeline) Chain() *conversion.Chain { return p.chain }
