// Package template wraps a pongo2 template set for the text and HTML sinks.
// Templates load from an fs.FS (normally the embedded defaults) or a base
// directory on disk, and are parsed once then cached.
package template
