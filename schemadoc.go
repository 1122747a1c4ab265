// Package schemadoc renders reference documentation for configuration files
// described by JSON Schema.
package schemadoc

import (
	"context"

	"github.com/goliatone/go-schemadoc/pkg/orchestrator"
	"github.com/goliatone/go-schemadoc/pkg/render"
	"github.com/goliatone/go-schemadoc/pkg/schema"
	"github.com/goliatone/go-schemadoc/pkg/sink"
)

// DocNode aliases render.DocNode for callers consuming rendered trees.
type DocNode = render.DocNode

// Document aliases sink.Document, the payload handed to output sinks.
type Document = sink.Document

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate loads the schema at source and renders it with the named sink.
// An empty sink name selects reStructuredText.
func Generate(ctx context.Context, source schema.Source, sinkName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source: source,
		Sink:   sinkName,
	})
}

// GenerateFromDocument renders a pre-loaded document, bypassing the loader
// stage while still delegating to the orchestrator.
func GenerateFromDocument(ctx context.Context, doc schema.Document, sinkName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Document: &doc,
		Sink:     sinkName,
	})
}

// Render turns decoded properties into documentation nodes without any
// loading or output.
func Render(props *schema.Properties, options ...render.Option) []DocNode {
	return render.Render(props, options...)
}
