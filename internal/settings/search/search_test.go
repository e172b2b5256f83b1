package search

import (
	"errors"
	"testing"

	"github.com/dshills/prefsdoc/internal/settings"
	"github.com/dshills/prefsdoc/internal/settings/match"
	"github.com/dshills/prefsdoc/internal/settings/render"
	"github.com/dshills/prefsdoc/internal/textdoc"
)

func indexedFixture(t *testing.T) (*Index, *textdoc.Document, []*settings.Group) {
	t.Helper()
	groups := []*settings.Group{{
		Title: "Editor",
		Sections: []*settings.Section{{
			Settings: []*settings.Setting{
				{
					Key:         "editor.fontSize",
					Value:       float64(12),
					Description: []string{"Font size in pixels."},
				},
				{Key: "editor.fontFamily", Value: "monospace"},
				{Key: "files.autoSave", Value: "off"},
			},
		}},
	}}

	b := render.NewBuilder(0)
	b.PushGroups(groups)
	doc := textdoc.NewDocument(b.Content())

	ix, err := NewIndex(doc, groups)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	t.Cleanup(func() { _ = ix.Close() })
	return ix, doc, groups
}

func textAt(doc *textdoc.Document, r textdoc.Range) string {
	content := doc.Content()
	return content[doc.PositionToOffset(r.Start):doc.PositionToOffset(r.End)]
}

func TestIndexMatchesValueTerm(t *testing.T) {
	ix, doc, _ := indexedFixture(t)

	hits, err := ix.Matches("monospace")
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	ranges, ok := hits["editor.fontFamily"]
	if !ok || len(ranges) == 0 {
		t.Fatalf("no hit for editor.fontFamily, hits = %v", hits)
	}
	if got := textAt(doc, ranges[0]); got != "monospace" {
		t.Errorf("matched text = %q, want %q", got, "monospace")
	}
}

func TestIndexMatchesDescriptionTerm(t *testing.T) {
	ix, doc, _ := indexedFixture(t)

	hits, err := ix.Matches("pixels")
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %v, want only editor.fontSize", hits)
	}
	ranges := hits["editor.fontSize"]
	if len(ranges) == 0 {
		t.Fatal("no ranges for editor.fontSize")
	}
	if got := textAt(doc, ranges[0]); got != "pixels" {
		t.Errorf("matched text = %q, want %q", got, "pixels")
	}
}

func TestIndexMatchesConjunction(t *testing.T) {
	ix, _, _ := indexedFixture(t)

	hits, err := ix.Matches("font pixels")
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if _, ok := hits["editor.fontSize"]; !ok {
		t.Errorf("editor.fontSize missing from hits %v", hits)
	}
	if _, ok := hits["editor.fontFamily"]; ok {
		t.Errorf("editor.fontFamily should not satisfy both terms, hits %v", hits)
	}
}

func TestIndexMatchesExactKey(t *testing.T) {
	ix, _, _ := indexedFixture(t)

	hits, err := ix.Matches("files.autoSave")
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if _, ok := hits["files.autoSave"]; !ok {
		t.Fatalf("exact key lookup missed, hits = %v", hits)
	}
	if _, ok := hits["editor.fontSize"]; ok {
		t.Errorf("unrelated setting matched, hits = %v", hits)
	}
}

func TestIndexMatchesEmptyAndMiss(t *testing.T) {
	ix, _, _ := indexedFixture(t)

	if _, err := ix.Matches("  "); !errors.Is(err, settings.ErrEmptyFilter) {
		t.Errorf("empty query err = %v, want ErrEmptyFilter", err)
	}

	hits, err := ix.Matches("zzzunknown")
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %v, want none", hits)
	}
}

func TestIndexMatcherFiltersSettings(t *testing.T) {
	ix, _, groups := indexedFixture(t)

	matcher, err := ix.Matcher("pixels")
	if err != nil {
		t.Fatalf("Matcher: %v", err)
	}
	got, err := match.FilterSettings("pixels", groups, nil, matcher)
	if err != nil {
		t.Fatalf("FilterSettings: %v", err)
	}
	if len(got) != 1 || got[0].Setting.Key != "editor.fontSize" {
		t.Fatalf("filtered = %v", got)
	}
	// Matches are relative to the setting's own first line.
	if got[0].Matches[0].Start.Line != 1 {
		t.Errorf("relative match line = %d, want 1", got[0].Matches[0].Start.Line)
	}
}
