package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	internalLoader "github.com/goliatone/go-schemadoc/internal/schema/loader"
	"github.com/goliatone/go-schemadoc/pkg/jsonschema"
	"github.com/goliatone/go-schemadoc/pkg/render"
	"github.com/goliatone/go-schemadoc/pkg/schema"
	"github.com/goliatone/go-schemadoc/pkg/sink"
	"github.com/goliatone/go-schemadoc/pkg/visibility"
)

const defaultSinkName = "rst"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom schema loader.
func WithLoader(loader schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithDecoder injects a custom decoder, for example an OpenAPI component
// decoder.
func WithDecoder(decoder schema.Decoder) Option {
	return func(o *Orchestrator) {
		o.decoder = decoder
	}
}

// WithRegistry injects a sink registry.
func WithRegistry(registry *sink.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultSink overrides the sink used when a request omits one.
func WithDefaultSink(name string) Option {
	return func(o *Orchestrator) {
		o.defaultSink = name
	}
}

// WithPredicate replaces the visibility predicate handed to the renderer.
// Compose with visibility.Default() to keep hiding autogenerated properties.
func WithPredicate(p visibility.Predicate) Option {
	return func(o *Orchestrator) {
		o.predicate = p
	}
}

// WithMaxDepth caps nesting depth in the rendered tree.
func WithMaxDepth(depth int) Option {
	return func(o *Orchestrator) {
		o.maxDepth = &depth
	}
}

// WithTransformer registers a Transformer that patches the document before it
// reaches the sink. Transformers run in registration order.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.transformers = append(o.transformers, t)
		}
	}
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the pipeline from schema source to written
// documentation. Missing dependencies fall back to the built-in
// implementations so a single constructor call is enough for the common case.
type Orchestrator struct {
	loader          schema.Loader
	decoder         schema.Decoder
	registry        *sink.Registry
	defaultSink     string
	predicate       visibility.Predicate
	maxDepth        *int
	transformers    []Transformer
	logger          *zap.Logger
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultSink: defaultSinkName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes a single documentation run.
type Request struct {
	// Source identifies where the schema lives. Optional when Document is
	// supplied.
	Source schema.Source

	// Document bypasses the loader when the caller already holds the payload.
	Document *schema.Document

	// Sink names the output format. Empty selects the orchestrator default.
	Sink string

	// Page chrome. Empty fields fall back to the sink package defaults unless
	// NoChrome is set, in which case only the property entries are written.
	Title         string
	Anchor        string
	Preamble      string
	GeneratedNote string
	Version       string
	NoChrome      bool
}

// Generate runs load → decode → render → transform → sink and returns the
// written bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	doc, err := o.Document(ctx, req)
	if err != nil {
		return nil, err
	}

	out, err := o.sinkFor(req.Sink)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := out.Write(ctx, &buf, doc); err != nil {
		return nil, fmt.Errorf("orchestrator: write %s: %w", out.Name(), err)
	}

	o.logger.Debug("documentation generated",
		zap.String("format", out.Name()),
		zap.Int("nodes", render.Count(doc.Nodes)),
		zap.Int("bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}

// Document runs the pipeline up to, but not including, the sink.
func (o *Orchestrator) Document(ctx context.Context, req Request) (sink.Document, error) {
	if ctx == nil {
		return sink.Document{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return sink.Document{}, err
	}
	if err := o.initialiseErr; err != nil {
		return sink.Document{}, err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
		if err := o.initialiseErr; err != nil {
			return sink.Document{}, err
		}
	}

	raw, err := o.resolveDocument(ctx, req)
	if err != nil {
		return sink.Document{}, err
	}

	props, err := o.decoder.Decode(ctx, raw)
	if err != nil {
		return sink.Document{}, fmt.Errorf("orchestrator: decode schema: %w", err)
	}
	o.logger.Debug("schema decoded",
		zap.String("source", raw.Location()),
		zap.Int("properties", props.Len()),
	)

	nodes := o.renderer().Render(props)

	doc := sink.Document{
		Title:         req.Title,
		Anchor:        req.Anchor,
		Preamble:      req.Preamble,
		GeneratedNote: req.GeneratedNote,
		Version:       req.Version,
		Nodes:         nodes,
	}
	if !req.NoChrome {
		doc = doc.WithDefaults()
	}

	for _, t := range o.transformers {
		if err := t.Transform(ctx, &doc); err != nil {
			return sink.Document{}, fmt.Errorf("orchestrator: transform document: %w", err)
		}
	}
	return doc, nil
}

// Sinks lists the registered sink names.
func (o *Orchestrator) Sinks() []string {
	if o.registry == nil {
		return nil
	}
	return o.registry.List()
}

func (o *Orchestrator) renderer() *render.Renderer {
	var options []render.Option
	if o.predicate != nil {
		options = append(options, render.WithPredicate(o.predicate))
	}
	if o.maxDepth != nil {
		options = append(options, render.WithMaxDepth(*o.maxDepth))
	}
	return render.New(options...)
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (schema.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return schema.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) sinkFor(name string) (sink.Sink, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: sink registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultSink
	}

	out, err := o.registry.Get(target)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: sink %q: %w", target, err)
	}
	return out, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.loader == nil {
		o.loader = internalLoader.New(schema.NewLoaderOptions())
	}
	if o.decoder == nil {
		o.decoder = jsonschema.NewDecoder()
	}
	if o.registry == nil {
		registry, err := sink.DefaultRegistry()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default sinks: %w", err)
		} else {
			o.registry = registry
		}
	}
	if o.defaultSink == "" {
		o.defaultSink = defaultSinkName
	}

	o.defaultsApplied = true
}
