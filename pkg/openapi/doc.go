// Package openapi documents the component schemas of an OpenAPI 3 document.
// kin-openapi loads and validates the document; property order is taken from
// the raw payload because kin-openapi keeps properties in Go maps.
package openapi
