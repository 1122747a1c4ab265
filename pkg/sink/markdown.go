package sink

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-schemadoc/pkg/render"
	"github.com/goliatone/go-schemadoc/pkg/sink/template"
)

const markdownTemplate = "markdown"

// Markdown writes nested CommonMark bullet lists from templates/markdown.tpl.
type Markdown struct {
	engine *template.Engine
}

// NewMarkdown builds the Markdown sink from the embedded template unless an
// option points elsewhere.
func NewMarkdown(options ...TemplateOption) (*Markdown, error) {
	cfg := newTemplateConfig(options)
	engine, err := template.New(template.WithFS(cfg.files), template.WithBaseDir(cfg.dir))
	if err != nil {
		return nil, fmt.Errorf("sink: markdown: %w", err)
	}
	if !engine.Has(markdownTemplate) {
		return nil, fmt.Errorf("sink: markdown: template %q not found", markdownTemplate+".tpl")
	}
	return &Markdown{engine: engine}, nil
}

func (*Markdown) Name() string        { return "markdown" }
func (*Markdown) ContentType() string { return "text/markdown; charset=utf-8" }

type markdownNode struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Depth int    `json:"depth"`
	Lead  string `json:"lead"`
	Hint  string `json:"hint"`
}

func (s *Markdown) Write(ctx context.Context, w io.Writer, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	flat := render.Flatten(doc.Nodes)
	nodes := make([]markdownNode, 0, len(flat))
	for _, n := range flat {
		nodes = append(nodes, markdownNode{
			Key:   n.Key,
			Type:  n.Type,
			Depth: n.Depth,
			Lead:  markdownLead(n),
			Hint:  n.Hint,
		})
	}

	return s.engine.Execute(markdownTemplate, map[string]any{
		"anchor":        doc.Anchor,
		"generatedNote": doc.GeneratedNote,
		"title":         doc.Title,
		"preamble":      strings.TrimSpace(doc.Preamble),
		"nodes":         nodes,
	}, w)
}

// markdownLead is the text following the key on a list item, with a leading
// space when non-empty. Multi-line descriptions are folded onto one line so
// the list item stays intact.
func markdownLead(n render.DocNode) string {
	var parts []string
	if n.Required {
		parts = append(parts, "**Required.**")
	}
	if n.StandaloneOnly {
		parts = append(parts, "**Standalone Apps Only.**")
	}
	if n.Description != "" {
		parts = append(parts, template.EscapeMarkdown(strings.Join(strings.Fields(n.Description), " ")))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
