package visibility_test

import (
	"testing"

	"github.com/goliatone/go-schemadoc/pkg/schema"
	"github.com/goliatone/go-schemadoc/pkg/visibility"
)

func TestDefault_HidesAutogenerated(t *testing.T) {
	p := visibility.Default()
	if p.Visible("sdkVersion", schema.Descriptor{Key: "sdkVersion", Autogenerated: true}) {
		t.Fatalf("autogenerated descriptor should be hidden")
	}
	if !p.Visible("name", schema.Descriptor{Key: "name"}) {
		t.Fatalf("plain descriptor should be visible")
	}
	if !p.Visible("ios", schema.Descriptor{Key: "ios", StandaloneOnly: true}) {
		t.Fatalf("standalone-only descriptor should be visible")
	}
}

func TestAll_RequiresEveryPredicate(t *testing.T) {
	var seen []string
	record := visibility.PredicateFunc(func(path string, _ schema.Descriptor) bool {
		seen = append(seen, path)
		return path != "ios.buildNumber"
	})
	p := visibility.All(visibility.Default(), nil, record)

	if p.Visible("sdkVersion", schema.Descriptor{Autogenerated: true}) {
		t.Fatalf("default predicate should veto")
	}
	if len(seen) != 0 {
		t.Fatalf("later predicates should not run after a veto, saw %v", seen)
	}
	if p.Visible("ios.buildNumber", schema.Descriptor{}) {
		t.Fatalf("custom predicate should veto")
	}
	if !p.Visible("ios.bundleIdentifier", schema.Descriptor{}) {
		t.Fatalf("expected visible")
	}
	if !visibility.All().Visible("anything", schema.Descriptor{Autogenerated: true}) {
		t.Fatalf("empty conjunction should show everything")
	}
}
