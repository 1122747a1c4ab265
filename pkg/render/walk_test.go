package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemadoc/pkg/render"
)

func sampleTree() []render.DocNode {
	return []render.DocNode{
		{Key: "a", Children: []render.DocNode{
			{Key: "a1", Depth: 1, Children: []render.DocNode{{Key: "a1x", Depth: 2}}},
			{Key: "a2", Depth: 1},
		}},
		{Key: "b"},
	}
}

func TestWalk_PreOrder(t *testing.T) {
	var keys []string
	err := render.Walk(sampleTree(), func(n render.DocNode) error {
		keys = append(keys, n.Key)
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "a1", "a1x", "a2", "b"}, keys); diff != "" {
		t.Fatalf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_StopsOnError(t *testing.T) {
	stop := errors.New("stop")
	var seen int
	err := render.Walk(sampleTree(), func(n render.DocNode) error {
		seen++
		if n.Key == "a1" {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected stop error, got %v", err)
	}
	if seen != 2 {
		t.Fatalf("expected walk to stop after 2 nodes, saw %d", seen)
	}
}

func TestCount(t *testing.T) {
	if got := render.Count(sampleTree()); got != 5 {
		t.Fatalf("count = %d, want 5", got)
	}
}
