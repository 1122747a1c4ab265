package template_test

import (
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-schemadoc/pkg/sink/template"
	"github.com/goliatone/go-schemadoc/pkg/testsupport"
)

func newEngine(t *testing.T, options ...template.Option) *template.Engine {
	t.Helper()

	files := fstest.MapFS{
		"hello.tpl":  {Data: []byte("Hello {{ name }}!")},
		"nested.tpl": {Data: []byte("{% for item in items %}\n{{ \"  \"|repeat:item.depth }}- {{ item.key|mdescape }}\n{% endfor %}\n")},
		"global.tpl": {Data: []byte("env={{ settings.env }}")},
	}
	engine, err := template.New(append([]template.Option{template.WithFS(files)}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_Execute(t *testing.T) {
	engine := newEngine(t)

	got := testsupport.CaptureOutput(t, func(w io.Writer) error {
		return engine.Execute("hello", map[string]any{"name": "<Ada>"}, w)
	})
	if got != "Hello <Ada>!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_Autoescape(t *testing.T) {
	engine := newEngine(t, template.WithAutoescape(true))

	got := testsupport.CaptureOutput(t, func(w io.Writer) error {
		return engine.Execute("hello.tpl", map[string]any{"name": "<Ada>"}, w)
	})
	if got != "Hello &lt;Ada&gt;!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_RepeatAndEscapeFilters(t *testing.T) {
	engine := newEngine(t)

	type item struct {
		Key   string `json:"key"`
		Depth int    `json:"depth"`
	}
	got := testsupport.CaptureOutput(t, func(w io.Writer) error {
		return engine.Execute("nested", map[string]any{
			"items": []item{{Key: "android", Depth: 0}, {Key: "version_code", Depth: 1}},
		}, w)
	})
	want := "- android\n  - version\\_code\n"
	if got != want {
		t.Fatalf("nested output mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestEngine_GlobalData(t *testing.T) {
	engine := newEngine(t, template.WithGlobalData(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}))

	got := testsupport.CaptureOutput(t, func(w io.Writer) error {
		return engine.Execute("global", nil, w)
	})
	if got != "env=staging" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_ExecuteString(t *testing.T) {
	engine := newEngine(t)

	got := testsupport.CaptureOutput(t, func(w io.Writer) error {
		return engine.ExecuteString("{{ title|upper }}", map[string]any{"title": "exp"}, w)
	})
	if got != "EXP" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)

	var buf strings.Builder
	err := engine.Execute("missing", nil, &buf)
	if err == nil {
		t.Fatalf("expected error for missing template")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no partial output, got %q", buf.String())
	}
	if engine.Has("missing") {
		t.Fatalf("expected Has to report missing template")
	}
	if !engine.Has("hello") {
		t.Fatalf("expected Has to find hello template")
	}
}

func TestNew_RequiresTemplates(t *testing.T) {
	if _, err := template.New(); err == nil {
		t.Fatalf("expected error without template sources")
	}
}
