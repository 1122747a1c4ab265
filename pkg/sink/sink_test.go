package sink_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-schemadoc/pkg/render"
	"github.com/goliatone/go-schemadoc/pkg/sink"
	"github.com/goliatone/go-schemadoc/pkg/testsupport"
)

func fixtureDocument(t *testing.T) sink.Document {
	t.Helper()

	props := testsupport.MustDecode(t, filepath.Join("testdata", "app-schema.json"))
	return sink.Document{Nodes: render.Render(props)}.WithDefaults()
}

func assertGolden(t *testing.T, golden, got string) {
	t.Helper()

	if testsupport.WriteMaybeGolden(t, golden, []byte(got)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, golden)
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("output mismatch for %s (-want +got):\n%s", golden, diff)
	}
}

func TestRST_Golden(t *testing.T) {
	doc := fixtureDocument(t)

	got := testsupport.CaptureOutput(t, func(w io.Writer) error {
		return sink.NewRST().Write(testsupport.Context(), w, doc)
	})
	assertGolden(t, filepath.Join("testdata", "app.rst.golden"), got)
}

func TestRST_IndentWidth(t *testing.T) {
	doc := sink.Document{Nodes: []render.DocNode{{
		Key:      "ios",
		Children: []render.DocNode{{Key: "bundleIdentifier", Depth: 1, Description: "Bundle id.", Hint: "reverse DNS"}},
	}}}

	got := testsupport.CaptureOutput(t, func(w io.Writer) error {
		return sink.NewRST(sink.WithIndentWidth(2)).Write(testsupport.Context(), w, doc)
	})
	want := "\n.. attribute:: ios\n\n " +
		"\n  .. attribute:: bundleIdentifier\n\n   Bundle id.\n   reverse DNS\n"
	if got != want {
		t.Fatalf("indent mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestRST_OmitsEmptyChrome(t *testing.T) {
	got := testsupport.CaptureOutput(t, func(w io.Writer) error {
		return sink.NewRST().Write(testsupport.Context(), w, sink.Document{})
	})
	if got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestRST_CancelledContext(t *testing.T) {
	doc := fixtureDocument(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf strings.Builder
	err := sink.NewRST().Write(ctx, &buf, doc)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no partial output, got %d bytes", buf.Len())
	}
}

func TestMarkdown_Golden(t *testing.T) {
	doc := fixtureDocument(t)
	md, err := sink.NewMarkdown()
	if err != nil {
		t.Fatalf("new markdown sink: %v", err)
	}

	got := testsupport.CaptureOutput(t, func(w io.Writer) error {
		return md.Write(testsupport.Context(), w, doc)
	})
	assertGolden(t, filepath.Join("testdata", "app.md.golden"), got)

	// Cached templates must render identically on reuse.
	again := testsupport.CaptureOutput(t, func(w io.Writer) error {
		return md.Write(testsupport.Context(), w, doc)
	})
	if again != got {
		t.Fatalf("second render differs\nfirst:  %q\nsecond: %q", got, again)
	}
}

func TestHTML_StructureAndSanitizing(t *testing.T) {
	doc := sink.Document{
		Title: "Config <v1>",
		Nodes: []render.DocNode{
			{
				Key:         "ios",
				Path:        "ios",
				Type:        "object",
				Description: `iOS settings <script>alert("x")</script><em>only</em>`,
				Children: []render.DocNode{
					{Key: "bundleIdentifier", Path: "ios.bundleIdentifier", Depth: 1, Required: true, Hint: "a<b"},
				},
			},
			{Key: "name", Path: "name"},
		},
	}
	html, err := sink.NewHTML()
	if err != nil {
		t.Fatalf("new html sink: %v", err)
	}

	got := testsupport.CaptureOutput(t, func(w io.Writer) error {
		return html.Write(testsupport.Context(), w, doc)
	})

	for _, want := range []string{
		"<h1>Config &lt;v1&gt;</h1>",
		`<dt id="ios.bundleIdentifier"><code>bundleIdentifier</code></dt>`,
		"<em>only</em>",
		`<p class="schemadoc-hint">a&lt;b</p>`,
		`<strong class="schemadoc-required">Required.</strong>`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected output to contain %q\n%s", want, got)
		}
	}
	if strings.Contains(got, "<script>") {
		t.Fatalf("script tag survived sanitizing:\n%s", got)
	}
	if open, closed := strings.Count(got, "<dl"), strings.Count(got, "</dl>"); open != closed {
		t.Fatalf("unbalanced <dl>: %d open, %d closed\n%s", open, closed, got)
	}
	if open, closed := strings.Count(got, "<dd>"), strings.Count(got, "</dd>"); open != closed {
		t.Fatalf("unbalanced <dd>: %d open, %d closed\n%s", open, closed, got)
	}
}

func TestJSON_Tree(t *testing.T) {
	doc := fixtureDocument(t)

	got := testsupport.CaptureOutput(t, func(w io.Writer) error {
		return sink.NewJSON().Write(testsupport.Context(), w, doc)
	})

	var decoded sink.Document
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("unmarshal json output: %v", err)
	}
	if diff := testsupport.CompareGolden(doc.Nodes, decoded.Nodes); diff != "" {
		t.Fatalf("json tree mismatch (-want +got):\n%s", diff)
	}
}

func TestJSON_EmptyNodesIsArray(t *testing.T) {
	got := testsupport.CaptureOutput(t, func(w io.Writer) error {
		return sink.NewJSON().Write(testsupport.Context(), w, sink.Document{})
	})
	if !strings.Contains(got, `"nodes": []`) {
		t.Fatalf("expected empty nodes array, got %s", got)
	}
}
