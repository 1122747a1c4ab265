// Package render turns an ordered schema property tree into documentation
// nodes. It applies the visibility predicate, assembles the required and
// standalone annotations together with the description and valid-values hint,
// and expands nested object properties as child nodes. Markup, indentation and
// file output belong to sinks (see pkg/sink); DocNode values carry only the
// abstract structure and depth.
package render
