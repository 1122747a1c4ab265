package sink

import (
	"context"
	"encoding/json"
	"io"

	"github.com/goliatone/go-schemadoc/pkg/render"
)

// JSON writes the document, including the nested node tree, as indented JSON.
type JSON struct{}

// NewJSON returns the JSON sink.
func NewJSON() *JSON { return &JSON{} }

func (*JSON) Name() string        { return "json" }
func (*JSON) ContentType() string { return "application/json" }

func (*JSON) Write(ctx context.Context, w io.Writer, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc.Nodes == nil {
		doc.Nodes = []render.DocNode{}
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	payload = append(payload, '\n')
	_, err = w.Write(payload)
	return err
}
