package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemadoc/pkg/jsonschema"
	"github.com/goliatone/go-schemadoc/pkg/schema"
)

// ErrComponentNotFound is returned when a named component schema is missing.
var ErrComponentNotFound = errors.New("openapi: component schema not found")

// Options configures how documents are opened.
type Options struct {
	// Validate runs kin-openapi validation (examples excluded) after loading.
	Validate bool
	// Decoder decodes component schemas. Defaults to jsonschema.NewDecoder.
	Decoder *jsonschema.Decoder
}

// Option mutates Options.
type Option func(*Options)

// WithValidation toggles document validation.
func WithValidation(enabled bool) Option {
	return func(opts *Options) {
		opts.Validate = enabled
	}
}

// WithDecoder overrides the JSON Schema decoder used for components.
func WithDecoder(decoder *jsonschema.Decoder) Option {
	return func(opts *Options) {
		if decoder != nil {
			opts.Decoder = decoder
		}
	}
}

// Source is a loaded OpenAPI document.
type Source struct {
	doc     schema.Document
	api     *openapi3.T
	decoder *jsonschema.Decoder
}

// Open parses doc with kin-openapi. External references are not followed.
func Open(ctx context.Context, doc schema.Document, options ...Option) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := Options{Validate: true}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	if opts.Decoder == nil {
		opts.Decoder = jsonschema.NewDecoder()
	}

	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = false

	api, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if opts.Validate {
		if err := api.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	return &Source{doc: doc, api: api, decoder: opts.Decoder}, nil
}

// Title returns info.title, or an empty string.
func (s *Source) Title() string {
	if s == nil || s.api == nil || s.api.Info == nil {
		return ""
	}
	return s.api.Info.Title
}

// Version returns info.version, or an empty string.
func (s *Source) Version() string {
	if s == nil || s.api == nil || s.api.Info == nil {
		return ""
	}
	return s.api.Info.Version
}

// Schemas returns the sorted names of components.schemas.
func (s *Source) Schemas() []string {
	if s == nil || s.api == nil || s.api.Components == nil {
		return nil
	}
	names := make([]string, 0, len(s.api.Components.Schemas))
	for name := range s.api.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Decode returns the properties of the named component schema in declaration
// order.
func (s *Source) Decode(name string) (*schema.Properties, error) {
	name = strings.TrimSpace(name)
	if s == nil || s.api == nil || s.api.Components == nil {
		return nil, fmt.Errorf("%w: %q", ErrComponentNotFound, name)
	}
	if _, ok := s.api.Components.Schemas[name]; !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrComponentNotFound, name, strings.Join(s.Schemas(), ", "))
	}
	return s.decoder.DecodePointer(s.doc.Raw(), ComponentPointer(name))
}

// ComponentPointer returns the JSON pointer of a component schema.
func ComponentPointer(name string) string {
	escaped := strings.NewReplacer("~", "~0", "/", "~1").Replace(name)
	return "#/components/schemas/" + escaped
}
