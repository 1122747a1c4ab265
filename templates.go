package schemadoc

import (
	"io/fs"

	"github.com/goliatone/go-schemadoc/pkg/sink"
)

// EmbeddedTemplates exposes the built-in Markdown and HTML sink templates so
// callers can copy and customise them without importing the sink package.
func EmbeddedTemplates() fs.FS {
	return sink.Templates()
}
