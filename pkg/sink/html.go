package sink

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-schemadoc/pkg/render"
	"github.com/goliatone/go-schemadoc/pkg/sink/template"
)

const htmlTemplate = "html"

// HTML writes a nested definition list from templates/html.tpl. Descriptions
// may carry inline markup and pass through a bluemonday UGC policy; every
// other field is escaped.
type HTML struct {
	engine *template.Engine
	policy *bluemonday.Policy
}

// NewHTML builds the HTML sink from the embedded template unless an option
// points elsewhere.
func NewHTML(options ...TemplateOption) (*HTML, error) {
	cfg := newTemplateConfig(options)
	engine, err := template.New(
		template.WithFS(cfg.files),
		template.WithBaseDir(cfg.dir),
		template.WithAutoescape(true),
	)
	if err != nil {
		return nil, fmt.Errorf("sink: html: %w", err)
	}
	if !engine.Has(htmlTemplate) {
		return nil, fmt.Errorf("sink: html: template %q not found", htmlTemplate+".tpl")
	}
	return &HTML{engine: engine, policy: bluemonday.UGCPolicy()}, nil
}

func (*HTML) Name() string        { return "html" }
func (*HTML) ContentType() string { return "text/html; charset=utf-8" }

type htmlNode struct {
	Key            string `json:"key"`
	Path           string `json:"path"`
	Type           string `json:"type"`
	Required       bool   `json:"required"`
	StandaloneOnly bool   `json:"standaloneOnly"`
	Description    string `json:"description"`
	Hint           string `json:"hint"`
	HasChildren    bool   `json:"hasChildren"`
	Closes         int    `json:"closes"`
}

func (s *HTML) Write(ctx context.Context, w io.Writer, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	nodes := make([]htmlNode, 0, render.Count(doc.Nodes))
	s.flatten(&nodes, doc.Nodes, 0)

	return s.engine.Execute(htmlTemplate, map[string]any{
		"anchor":        doc.Anchor,
		"generatedNote": doc.GeneratedNote,
		"title":         doc.Title,
		"preamble":      strings.TrimSpace(doc.Preamble),
		"nodes":         nodes,
	}, w)
}

// flatten emits nodes in pre-order. pending counts the nested lists that end
// with the last node of level; the template closes them after that node.
func (s *HTML) flatten(out *[]htmlNode, level []render.DocNode, pending int) {
	for i, n := range level {
		closes := 0
		if i == len(level)-1 {
			closes = pending
		}
		view := htmlNode{
			Key:            n.Key,
			Path:           n.Path,
			Type:           n.Type,
			Required:       n.Required,
			StandaloneOnly: n.StandaloneOnly,
			Description:    s.policy.Sanitize(n.Description),
			Hint:           n.Hint,
			HasChildren:    n.HasChildren(),
		}
		if !view.HasChildren {
			view.Closes = closes
			*out = append(*out, view)
			continue
		}
		*out = append(*out, view)
		s.flatten(out, n.Children, closes+1)
	}
}
