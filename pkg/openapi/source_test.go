package openapi_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemadoc/pkg/openapi"
	"github.com/goliatone/go-schemadoc/pkg/render"
	"github.com/goliatone/go-schemadoc/pkg/schema"
	"github.com/goliatone/go-schemadoc/pkg/testsupport"
)

func openFixture(t *testing.T) *openapi.Source {
	t.Helper()

	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "app.openapi.yaml"))
	src, err := openapi.Open(testsupport.Context(), doc)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return src
}

func TestSource_Metadata(t *testing.T) {
	src := openFixture(t)

	if src.Title() != "App Config API" || src.Version() != "1.2.0" {
		t.Fatalf("unexpected info %q %q", src.Title(), src.Version())
	}
	if diff := cmp.Diff([]string{"AppConfig", "Updates"}, src.Schemas()); diff != "" {
		t.Fatalf("schemas mismatch (-want +got):\n%s", diff)
	}
}

func TestSource_DecodeKeepsOrderAndResolvesRefs(t *testing.T) {
	src := openFixture(t)

	props, err := src.Decode("AppConfig")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	var paths []string
	for _, node := range render.Flatten(render.Render(props)) {
		paths = append(paths, node.Path)
	}
	want := []string{"name", "updates", "updates.enabled", "updates.checkAutomatically", "buildNumber"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if !props.IsRequired("name") {
		t.Fatalf("expected name to be required")
	}
}

func TestSource_UnknownComponent(t *testing.T) {
	src := openFixture(t)

	if _, err := src.Decode("Missing"); !errors.Is(err, openapi.ErrComponentNotFound) {
		t.Fatalf("expected ErrComponentNotFound, got %v", err)
	}
}

func TestOpen_RejectsInvalidDocument(t *testing.T) {
	doc := schema.MustNewDocument(schema.SourceFromFile("broken.yaml"), []byte("openapi: 3.0.3\npaths: {}\n"))
	if _, err := openapi.Open(testsupport.Context(), doc); err == nil {
		t.Fatalf("expected validation error for missing info")
	}
	if _, err := openapi.Open(testsupport.Context(), doc, openapi.WithValidation(false)); err != nil {
		t.Fatalf("expected load without validation to succeed: %v", err)
	}
}

func TestDecoder_Component(t *testing.T) {
	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "app.openapi.yaml"))

	props, err := openapi.NewDecoder("Updates").Decode(testsupport.Context(), doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"enabled", "checkAutomatically"}, props.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	if _, err := openapi.NewDecoder("").Decode(testsupport.Context(), doc); err == nil {
		t.Fatalf("expected error for empty component name")
	}
}

func TestComponentPointer(t *testing.T) {
	if got := openapi.ComponentPointer("a/b~c"); got != "#/components/schemas/a~1b~0c" {
		t.Fatalf("unexpected pointer %q", got)
	}
}
