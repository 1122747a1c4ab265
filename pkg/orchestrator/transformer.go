package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/goliatone/go-schemadoc/pkg/render"
	"github.com/goliatone/go-schemadoc/pkg/sink"
)

// Transformer patches a rendered document before it reaches the sink.
type Transformer interface {
	Transform(ctx context.Context, doc *sink.Document) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, doc *sink.Document) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, doc *sink.Document) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, doc)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// The document shape supports page chrome and per-path node patches:
//
//	{
//	  "title": "App config",
//	  "preamble": "Everything you can set in app.json.",
//	  "nodes": {
//	    "ios.bundleIdentifier": {"description": "Reverse DNS id.", "hint": "com.example.app"}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Title         string                   `json:"title"`
	Anchor        string                   `json:"anchor"`
	Preamble      string                   `json:"preamble"`
	GeneratedNote string                   `json:"generatedNote"`
	Nodes         map[string]jsonNodePatch `json:"nodes"`
}

type jsonNodePatch struct {
	Description *string `json:"description"`
	Hint        *string `json:"hint"`
	Type        *string `json:"type"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches. Node paths use the rendered
// DocNode.Path form, where a dot inside a key is written as "\.". Patched
// nodes are new values; the rendered slices are left untouched. Patching a
// path that was not rendered (hidden or absent) is an error so stale presets
// surface early.
func (t *JSONPresetTransformer) Transform(ctx context.Context, doc *sink.Document) error {
	if doc == nil {
		return errors.New("json preset transformer: document is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	overrideString(&doc.Title, t.document.Title)
	overrideString(&doc.Anchor, t.document.Anchor)
	overrideString(&doc.Preamble, t.document.Preamble)
	overrideString(&doc.GeneratedNote, t.document.GeneratedNote)

	for path, patch := range t.document.Nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.TrimSpace(path) == "" {
			return errors.New("json preset transformer: node path is empty")
		}
		nodes, ok := patchNode(doc.Nodes, render.SplitPath(path), patch)
		if !ok {
			return fmt.Errorf("json preset transformer: node %q not found", path)
		}
		doc.Nodes = nodes
	}
	return nil
}

func overrideString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// apply returns a patched copy of node with DescriptionText reassembled.
func (p jsonNodePatch) apply(node render.DocNode) render.DocNode {
	if p.Description != nil {
		node.Description = strings.TrimSpace(*p.Description)
	}
	if p.Hint != nil {
		node.Hint = *p.Hint
	}
	if p.Type != nil {
		node.Type = *p.Type
	}
	node.DescriptionText = node.Text()
	return node
}

// patchNode returns a copy of nodes in which the node addressed by keys is
// replaced by its patched value. Only the slices along that path are copied;
// nodes is never modified.
func patchNode(nodes []render.DocNode, keys []string, patch jsonNodePatch) ([]render.DocNode, bool) {
	if len(keys) == 0 {
		return nil, false
	}
	for idx, node := range nodes {
		if node.Key != keys[0] {
			continue
		}
		if len(keys) == 1 {
			node = patch.apply(node)
		} else {
			children, ok := patchNode(node.Children, keys[1:], patch)
			if !ok {
				return nil, false
			}
			node.Children = children
		}
		out := slices.Clone(nodes)
		out[idx] = node
		return out, true
	}
	return nil, false
}
