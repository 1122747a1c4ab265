// Package sink writes rendered documentation trees in concrete output formats.
package sink

import (
	"context"
	"io"

	"github.com/goliatone/go-schemadoc/pkg/render"
)

// Sink converts a Document into a byte stream (reStructuredText, Markdown,
// HTML, JSON).
type Sink interface {
	Name() string
	ContentType() string
	Write(ctx context.Context, w io.Writer, doc Document) error
}

// Document is the payload handed to a sink: page chrome plus the rendered
// nodes. Sinks omit chrome fields that are empty.
type Document struct {
	Title         string           `json:"title,omitempty"`
	Anchor        string           `json:"anchor,omitempty"`
	GeneratedNote string           `json:"generatedNote,omitempty"`
	Preamble      string           `json:"preamble,omitempty"`
	Version       string           `json:"version,omitempty"`
	Nodes         []render.DocNode `json:"nodes"`
}

// Defaults used when the caller leaves the page chrome empty.
const (
	DefaultTitle         = "Configuration with ``exp.json``"
	DefaultAnchor        = "exp"
	DefaultGeneratedNote = "This file is automatically generated! Do not edit it directly -- see schemadoc generate"
	DefaultPreamble      = "\n``exp.json`` is your go-to place for configuring parts of your app that don't belong in code. " +
		"It is located at the root of your project next to your ``package.json``.  " +
		"The following is a full list of properties available to you.\n\n\n"
)

// WithDefaults fills empty chrome fields with the package defaults.
func (d Document) WithDefaults() Document {
	if d.Title == "" {
		d.Title = DefaultTitle
	}
	if d.Anchor == "" {
		d.Anchor = DefaultAnchor
	}
	if d.GeneratedNote == "" {
		d.GeneratedNote = DefaultGeneratedNote
	}
	if d.Preamble == "" {
		d.Preamble = DefaultPreamble
	}
	return d
}
