// Package jsonschema decodes JSON Schema documents into ordered
// schema.Properties trees.
//
// JSON and YAML inputs share one node parser so property declaration order is
// preserved. Versioned schema files wrap the schema under a "schema" key; the
// decoder unwraps that envelope unless the root already declares properties.
// Only local $ref pointers are followed, with cycle detection and a depth cap.
package jsonschema
