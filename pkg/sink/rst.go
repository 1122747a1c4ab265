package sink

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-schemadoc/pkg/render"
)

// DefaultIndentWidth is the number of spaces per nesting level in RST output.
const DefaultIndentWidth = 4

// RST writes Sphinx-style reStructuredText using the attribute directive.
type RST struct {
	indentWidth int
}

// RSTOption configures the RST sink.
type RSTOption func(*RST)

// WithIndentWidth sets spaces per depth level. Values below 1 are ignored.
func WithIndentWidth(width int) RSTOption {
	return func(s *RST) {
		if width > 0 {
			s.indentWidth = width
		}
	}
}

// NewRST returns the reStructuredText sink.
func NewRST(options ...RSTOption) *RST {
	s := &RST{indentWidth: DefaultIndentWidth}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (*RST) Name() string        { return "rst" }
func (*RST) ContentType() string { return "text/x-rst; charset=utf-8" }

func (s *RST) Write(ctx context.Context, w io.Writer, doc Document) error {
	var buf bytes.Buffer

	if doc.Anchor != "" {
		buf.WriteString(".. _" + doc.Anchor + ":\n\n")
	}
	if doc.Title != "" {
		buf.WriteString(doc.Title + "\n")
		buf.WriteString(strings.Repeat("=", utf8.RuneCountInString(doc.Title)) + "\n\n\n")
	}
	if doc.GeneratedNote != "" {
		buf.WriteString(".. " + doc.GeneratedNote + "\n")
	}
	buf.WriteString(doc.Preamble)

	err := render.Walk(doc.Nodes, func(node render.DocNode) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.writeNode(&buf, node)
		return nil
	})
	if err != nil {
		return err
	}

	_, err = w.Write(buf.Bytes())
	return err
}

func (s *RST) writeNode(buf *bytes.Buffer, node render.DocNode) {
	spacing := strings.Repeat(" ", node.Depth*s.indentWidth)

	buf.WriteString("\n" + spacing + ".. attribute:: " + node.Key + "\n")
	buf.WriteString("\n" + spacing + " ")
	if node.Required {
		buf.WriteString("**Required**. ")
	}
	if node.StandaloneOnly {
		buf.WriteString("**Standalone Apps Only**. ")
	}
	if node.Description != "" {
		buf.WriteString(node.Description + "\n")
	}
	if node.Hint != "" {
		buf.WriteString(spacing + " " + node.Hint + "\n")
	}
}
