package openapi

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-schemadoc/pkg/schema"
)

// Decoder adapts a single component of an OpenAPI document to the
// schema.Decoder contract so it can be plugged into the orchestrator.
type Decoder struct {
	component string
	options   []Option
}

var _ schema.Decoder = (*Decoder)(nil)

// NewDecoder decodes the named component of every document it receives.
func NewDecoder(component string, options ...Option) *Decoder {
	return &Decoder{component: strings.TrimSpace(component), options: options}
}

// Decode opens doc and returns the configured component's properties.
func (d *Decoder) Decode(ctx context.Context, doc schema.Document) (*schema.Properties, error) {
	if d == nil || d.component == "" {
		return nil, errors.New("openapi: component name is required")
	}
	src, err := Open(ctx, doc, d.options...)
	if err != nil {
		return nil, err
	}
	return src.Decode(d.component)
}
