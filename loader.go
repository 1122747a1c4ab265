package schemadoc

import (
	internalLoader "github.com/goliatone/go-schemadoc/internal/schema/loader"
	"github.com/goliatone/go-schemadoc/pkg/jsonschema"
	"github.com/goliatone/go-schemadoc/pkg/schema"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	cfg := schema.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewDecoder constructs the JSON Schema decoder used by default.
func NewDecoder(options ...jsonschema.Option) schema.Decoder {
	return jsonschema.NewDecoder(options...)
}
