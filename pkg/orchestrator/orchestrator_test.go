package orchestrator_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-schemadoc/pkg/jsonschema"
	"github.com/goliatone/go-schemadoc/pkg/orchestrator"
	"github.com/goliatone/go-schemadoc/pkg/render"
	"github.com/goliatone/go-schemadoc/pkg/schema"
	"github.com/goliatone/go-schemadoc/pkg/sink"
	"github.com/goliatone/go-schemadoc/pkg/testsupport"
	"github.com/goliatone/go-schemadoc/pkg/visibility"
)

func fixtureSource() schema.Source {
	return schema.SourceFromFile(filepath.Join("testdata", "app-schema.json"))
}

func paths(nodes []render.DocNode) []string {
	var out []string
	for _, n := range render.Flatten(nodes) {
		out = append(out, n.Path)
	}
	return out
}

func TestOrchestrator_Generate_DefaultRST(t *testing.T) {
	gen := orchestrator.New()
	output, err := gen.Generate(testsupport.Context(), orchestrator.Request{Source: fixtureSource()})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	goldenPath := filepath.Join("testdata", "app.rst.golden")
	if testsupport.WriteMaybeGolden(t, goldenPath, output) {
		return
	}
	want := testsupport.MustReadGoldenString(t, goldenPath)
	if diff := testsupport.CompareGolden(want, string(output)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_Document_BypassesLoader(t *testing.T) {
	raw := []byte(`{"required": ["b"], "properties": {"b": {"description": "B"}, "a": {"type": "string"}}}`)
	doc := schema.MustNewDocument(schema.SourceFromFile("inline.json"), raw)

	gen := orchestrator.New()
	out, err := gen.Document(testsupport.Context(), orchestrator.Request{Document: &doc, NoChrome: true})
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if out.Title != "" || out.Preamble != "" {
		t.Fatalf("expected no chrome, got title %q preamble %q", out.Title, out.Preamble)
	}
	if diff := cmp.Diff([]string{"b", "a"}, paths(out.Nodes)); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if out.Nodes[0].DescriptionText != "Required. B\n" {
		t.Fatalf("unexpected description text %q", out.Nodes[0].DescriptionText)
	}
}

func TestOrchestrator_PredicateAndMaxDepth(t *testing.T) {
	hideColor := visibility.PredicateFunc(func(path string, _ schema.Descriptor) bool {
		return path != "primaryColor"
	})
	gen := orchestrator.New(
		orchestrator.WithPredicate(visibility.All(visibility.Default(), hideColor)),
		orchestrator.WithMaxDepth(0),
	)

	out, err := gen.Document(testsupport.Context(), orchestrator.Request{Source: fixtureSource()})
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if diff := cmp.Diff([]string{"name", "slug", "orientation", "ios"}, paths(out.Nodes)); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_JSONSink(t *testing.T) {
	gen := orchestrator.New(orchestrator.WithDefaultSink("json"))
	output, err := gen.Generate(testsupport.Context(), orchestrator.Request{Source: fixtureSource(), Version: "49.0.0"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(output), `"version": "49.0.0"`) {
		t.Fatalf("expected version in json output:\n%s", output)
	}
}

func TestOrchestrator_UnknownSink(t *testing.T) {
	gen := orchestrator.New()
	_, err := gen.Generate(testsupport.Context(), orchestrator.Request{Source: fixtureSource(), Sink: "pdf"})
	if !errors.Is(err, sink.ErrNotFound) {
		t.Fatalf("expected sink.ErrNotFound, got %v", err)
	}
}

func TestOrchestrator_Errors(t *testing.T) {
	gen := orchestrator.New()

	if _, err := gen.Generate(testsupport.Context(), orchestrator.Request{}); err == nil {
		t.Fatalf("expected error without source")
	}

	_, err := gen.Generate(testsupport.Context(), orchestrator.Request{
		Source: schema.SourceFromFile(filepath.Join("testdata", "missing.json")),
	})
	if err == nil || !strings.Contains(err.Error(), "load document") {
		t.Fatalf("expected load error, got %v", err)
	}

	bad := schema.MustNewDocument(schema.SourceFromFile("bad.json"), []byte(`{"properties": {"a": {"enum": "x"}}}`))
	_, err = gen.Generate(testsupport.Context(), orchestrator.Request{Document: &bad})
	var decodeErr jsonschema.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := gen.Generate(ctx, orchestrator.Request{Source: fixtureSource()}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOrchestrator_CustomDecoder(t *testing.T) {
	decoder := schema.DecoderFunc(func(context.Context, schema.Document) (*schema.Properties, error) {
		return schema.NewProperties(nil, schema.Descriptor{Key: "only"}), nil
	})
	gen := orchestrator.New(orchestrator.WithDecoder(decoder))

	out, err := gen.Document(testsupport.Context(), orchestrator.Request{Source: fixtureSource()})
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if diff := cmp.Diff([]string{"only"}, paths(out.Nodes)); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_PresetTransformer(t *testing.T) {
	files := fstest.MapFS{"preset.json": {Data: testsupport.MustReadGolden(t, filepath.Join("testdata", "preset.json"))}}
	preset, err := orchestrator.NewJSONPresetTransformerFromFS(files, "preset.json")
	if err != nil {
		t.Fatalf("preset: %v", err)
	}

	gen := orchestrator.New(orchestrator.WithTransformer(preset))
	out, err := gen.Document(testsupport.Context(), orchestrator.Request{Source: fixtureSource()})
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if out.Title != "App settings" {
		t.Fatalf("unexpected title %q", out.Title)
	}
	if out.Anchor != sink.DefaultAnchor {
		t.Fatalf("expected default anchor to survive, got %q", out.Anchor)
	}

	var patched render.DocNode
	for _, n := range render.Flatten(out.Nodes) {
		if n.Path == "ios.buildNumber" {
			patched = n
		}
	}
	if patched.DescriptionText != "Incremented on every store upload.\ndigits only" {
		t.Fatalf("unexpected patched text %q", patched.DescriptionText)
	}
}

func TestOrchestrator_PresetUnknownPath(t *testing.T) {
	preset, err := orchestrator.NewJSONPresetTransformer([]byte(`{"nodes": {"sdkVersion": {"hint": "x"}}}`))
	if err != nil {
		t.Fatalf("preset: %v", err)
	}
	gen := orchestrator.New(orchestrator.WithTransformer(preset))
	if _, err := gen.Document(testsupport.Context(), orchestrator.Request{Source: fixtureSource()}); err == nil {
		t.Fatalf("expected error for hidden node path")
	}

	if _, err := orchestrator.NewJSONPresetTransformer([]byte("  ")); err == nil {
		t.Fatalf("expected error for empty preset")
	}
}

func TestJSONPresetTransformer_LeavesRenderedNodesUntouched(t *testing.T) {
	root := schema.NewProperties(nil,
		schema.Descriptor{Key: "a.b", Description: schema.Some("Dotted key.")},
		schema.Descriptor{Key: "a", Children: schema.Some(schema.NewProperties(nil,
			schema.Descriptor{Key: "b", Description: schema.Some("Nested key.")},
		))},
	)
	rendered := render.Render(root)
	before := render.Flatten(rendered)

	preset, err := orchestrator.NewJSONPresetTransformer([]byte(`{"nodes": {
		"a\\.b": {"description": "Patched dotted."},
		"a.b": {"hint": "nested hint"}
	}}`))
	if err != nil {
		t.Fatalf("preset: %v", err)
	}
	doc := &sink.Document{Nodes: rendered}
	if err := preset.Transform(testsupport.Context(), doc); err != nil {
		t.Fatalf("transform: %v", err)
	}

	if diff := cmp.Diff(before, render.Flatten(rendered)); diff != "" {
		t.Fatalf("rendered nodes were modified (-want +got):\n%s", diff)
	}
	got := map[string]string{}
	for _, n := range render.Flatten(doc.Nodes) {
		got[n.Path] = n.DescriptionText
	}
	want := map[string]string{
		`a\.b`: "Patched dotted.\n",
		"a":    "",
		"a.b":  "Nested key.\nnested hint",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("patched text mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_LogsGeneration(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gen := orchestrator.New(orchestrator.WithLogger(zap.New(core)))

	if _, err := gen.Generate(testsupport.Context(), orchestrator.Request{Source: fixtureSource()}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	entries := logs.FilterMessage("documentation generated").All()
	if len(entries) != 1 {
		t.Fatalf("expected one generation log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["format"] != "rst" || fields["nodes"] != int64(7) {
		t.Fatalf("unexpected log fields %v", fields)
	}
}

func TestOrchestrator_Sinks(t *testing.T) {
	if diff := cmp.Diff([]string{"html", "json", "markdown", "rst"}, orchestrator.New().Sinks()); diff != "" {
		t.Fatalf("sinks mismatch (-want +got):\n%s", diff)
	}
}
