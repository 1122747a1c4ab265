package schemadoc_test

import (
	"encoding/json"
	"io/fs"
	"strings"
	"testing"

	schemadoc "github.com/goliatone/go-schemadoc"
	"github.com/goliatone/go-schemadoc/pkg/orchestrator"
	"github.com/goliatone/go-schemadoc/pkg/render"
	"github.com/goliatone/go-schemadoc/pkg/schema"
	"github.com/goliatone/go-schemadoc/pkg/testsupport"
)

const fixturePath = "pkg/orchestrator/testdata/app-schema.json"

func TestGenerateMatchesGolden(t *testing.T) {
	output, err := schemadoc.Generate(testsupport.Context(), schema.SourceFromFile(fixturePath), "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := testsupport.MustReadGoldenString(t, "pkg/orchestrator/testdata/app.rst.golden")
	if diff := testsupport.CompareGolden(want, string(output)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateFromDocument(t *testing.T) {
	doc := testsupport.LoadDocument(t, fixturePath)

	output, err := schemadoc.GenerateFromDocument(testsupport.Context(), doc, "json",
		orchestrator.WithMaxDepth(0),
	)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var payload schemadoc.Document
	if err := json.Unmarshal(output, &payload); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(payload.Nodes) == 0 {
		t.Fatalf("expected nodes")
	}
	for _, node := range payload.Nodes {
		if len(node.Children) != 0 {
			t.Fatalf("node %s should have no children at max depth 0", node.Key)
		}
	}
}

func TestRenderAndDecoder(t *testing.T) {
	doc := testsupport.LoadDocument(t, fixturePath)
	props, err := schemadoc.NewDecoder().Decode(testsupport.Context(), doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	nodes := schemadoc.Render(props, render.WithMaxDepth(render.DefaultMaxDepth))
	if len(nodes) == 0 || nodes[0].Key != "name" {
		t.Fatalf("unexpected first node: %+v", nodes)
	}
	for _, node := range nodes {
		if node.Key == "sdkVersion" {
			t.Fatalf("autogenerated property rendered")
		}
	}
}

func TestNewLoaderReadsFiles(t *testing.T) {
	loader := schemadoc.NewLoader()
	doc, err := loader.Load(testsupport.Context(), schema.SourceFromFile(fixturePath))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.Contains(string(doc.Raw()), `"schema"`) {
		t.Fatalf("expected envelope in raw payload")
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	fsys := schemadoc.EmbeddedTemplates()
	for _, name := range []string{"markdown.tpl", "html.tpl"} {
		if _, err := fs.ReadFile(fsys, name); err != nil {
			t.Fatalf("expected %s to be embedded: %v", name, err)
		}
	}
}

func TestNewOrchestratorListsSinks(t *testing.T) {
	gen := schemadoc.NewOrchestrator()
	got := strings.Join(gen.Sinks(), ",")
	if got != "html,json,markdown,rst" {
		t.Fatalf("unexpected sinks: %s", got)
	}
}
