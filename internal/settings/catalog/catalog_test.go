package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/prefsdoc/internal/l10n"
	"github.com/dshills/prefsdoc/internal/settings"
	"github.com/dshills/prefsdoc/internal/settings/registry"
)

func prop(key string, def any) *registry.Property {
	return &registry.Property{
		Key:     key,
		Type:    registry.TypeString,
		Default: def,
		Scope:   registry.ScopeAll,
	}
}

func node(id, title string, order *int, props ...*registry.Property) *registry.Node {
	n := &registry.Node{ID: id, Title: title, Order: order}
	if len(props) > 0 {
		n.Properties = make(map[string]*registry.Property, len(props))
		for _, p := range props {
			n.Properties[p.Key] = p
		}
	}
	return n
}

func sourceOf(nodes ...*registry.Node) Source {
	return func() []*registry.Node { return nodes }
}

func groupTitles(groups []*settings.Group) []string {
	titles := make([]string, len(groups))
	for i, g := range groups {
		titles[i] = g.Title
	}
	return titles
}

func groupKeys(g *settings.Group) []string {
	var keys []string
	for _, s := range g.Settings() {
		keys = append(keys, s.Key)
	}
	return keys
}

func TestAssemblerOrdering(t *testing.T) {
	// Equal orders break by title; a missing order sorts after every
	// present order regardless of title.
	b := node("b", "B", registry.OrderOf(1), prop("b.one", "x"))
	a := node("a", "A", registry.OrderOf(1), prop("a.one", "x"))
	c := node("c", "0", nil, prop("c.one", "x"))

	groups := New(sourceOf(b, a, c)).RegisteredGroups()

	want := []string{"A", "B", "0"}
	if diff := cmp.Diff(want, groupTitles(groups)); diff != "" {
		t.Errorf("group order mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemblerTitleMerge(t *testing.T) {
	n1 := node("core", "Editor", registry.OrderOf(1), prop("editor.zeta", "x"))
	n2 := node("extras", "Editor", registry.OrderOf(2), prop("editor.alpha", "x"))

	groups := New(sourceOf(n1, n2)).RegisteredGroups()

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1 merged group", len(groups))
	}
	want := []string{"editor.alpha", "editor.zeta"}
	if diff := cmp.Diff(want, groupKeys(groups[0])); diff != "" {
		t.Errorf("merged settings mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemblerTitleFromSameIDSibling(t *testing.T) {
	untitled := node("core", "", nil, prop("core.one", "x"))
	titled := node("core", "Core", nil)

	groups := New(sourceOf(untitled, titled)).RegisteredGroups()

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Title != "Core" {
		t.Errorf("title = %q, want inherited %q", groups[0].Title, "Core")
	}
	if diff := cmp.Diff([]string{"core.one"}, groupKeys(groups[0])); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemblerUntitledGroupKeyedByID(t *testing.T) {
	n := node("experimental", "", nil, prop("experimental.x", "x"))

	groups := New(sourceOf(n)).RegisteredGroups()

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].ID != "experimental" || groups[0].Title != "experimental" {
		t.Errorf("group = %q/%q, want keyed by identifier", groups[0].ID, groups[0].Title)
	}
}

func TestAssemblerFiltersDeprecated(t *testing.T) {
	n := node("f", "F", nil,
		prop("f.live", "x"),
		&registry.Property{
			Key:        "f.flagged",
			Type:       registry.TypeString,
			Default:    "x",
			Scope:      registry.ScopeAll,
			Deprecated: true,
		},
		&registry.Property{
			Key:                "f.messaged",
			Type:               registry.TypeString,
			Default:            "x",
			Scope:              registry.ScopeAll,
			DeprecationMessage: "gone",
		},
	)

	groups := New(sourceOf(n)).RegisteredGroups()

	if diff := cmp.Diff([]string{"f.live"}, groupKeys(groups[0])); diff != "" {
		t.Errorf("deprecated properties not excluded (-want +got):\n%s", diff)
	}
}

func TestAssemblerScopeFilter(t *testing.T) {
	n := node("f", "F", nil,
		prop("f.everywhere", "x"),
		&registry.Property{
			Key:     "f.resource",
			Type:    registry.TypeString,
			Default: "x",
			Scope:   registry.ScopeResource,
		},
		&registry.Property{
			Key:     "f.globalOnly",
			Type:    registry.TypeString,
			Default: "x",
			Scope:   registry.ScopeGlobal,
		},
	)

	// The default window target accepts every property.
	groups := New(sourceOf(n)).RegisteredGroups()
	want := []string{"f.everywhere", "f.globalOnly", "f.resource"}
	if diff := cmp.Diff(want, groupKeys(groups[0])); diff != "" {
		t.Errorf("window target mismatch (-want +got):\n%s", diff)
	}

	// A resource target requires the resource scope bit.
	groups = New(sourceOf(n), WithScope(registry.ScopeResource)).RegisteredGroups()
	want = []string{"f.everywhere", "f.resource"}
	if diff := cmp.Diff(want, groupKeys(groups[0])); diff != "" {
		t.Errorf("resource target mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemblerOverrideExpansion(t *testing.T) {
	n := node("editor", "Editor", nil, &registry.Property{
		Key:  "[markdown]",
		Type: registry.TypeObject,
		Default: map[string]any{
			"editor.wordWrap": "on",
			"editor.fontSize": 12,
		},
		Scope: registry.ScopeLanguage,
	})

	groups := New(sourceOf(n)).RegisteredGroups()

	md := settings.FindSetting(groups, "[markdown]")
	if md == nil {
		t.Fatal("[markdown] missing from catalog")
	}
	if len(md.Overrides) != 2 {
		t.Fatalf("got %d overrides, want 2", len(md.Overrides))
	}
	if md.Overrides[0].Key != "editor.fontSize" || md.Overrides[1].Key != "editor.wordWrap" {
		t.Errorf("override keys = %q, %q, want sorted", md.Overrides[0].Key, md.Overrides[1].Key)
	}
	for _, o := range md.Overrides {
		if o.OverrideOf != "[markdown]" {
			t.Errorf("override %s back-reference = %q, want [markdown]", o.Key, o.OverrideOf)
		}
	}
	if md.Overrides[0].Value != 12 {
		t.Errorf("editor.fontSize override value = %v, want 12", md.Overrides[0].Value)
	}
}

func TestAssemblerDropsEmptyGroups(t *testing.T) {
	onlyDeprecated := node("dead", "Dead", registry.OrderOf(1), &registry.Property{
		Key:        "dead.gone",
		Type:       registry.TypeString,
		Default:    "x",
		Scope:      registry.ScopeAll,
		Deprecated: true,
	})
	bare := node("bare", "Bare", registry.OrderOf(2))
	live := node("live", "Live", registry.OrderOf(3), prop("live.on", "x"))

	groups := New(sourceOf(onlyDeprecated, bare, live)).RegisteredGroups()

	if diff := cmp.Diff([]string{"Live"}, groupTitles(groups)); diff != "" {
		t.Errorf("empty groups not dropped (-want +got):\n%s", diff)
	}
}

func TestAssemblerDuplicateKeyFirstWins(t *testing.T) {
	first := node("one", "One", registry.OrderOf(1), prop("shared.key", "first"))
	second := node("two", "Two", registry.OrderOf(2), prop("shared.key", "second"))

	groups := New(sourceOf(first, second)).RegisteredGroups()

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1 (duplicate-only group dropped)", len(groups))
	}
	s := settings.FindSetting(groups, "shared.key")
	if s == nil || s.Value != "first" {
		t.Errorf("shared.key value = %v, want first declaration", s)
	}
}

func TestAssemblerChildNodes(t *testing.T) {
	parent := node("lang", "Languages", registry.OrderOf(1), prop("lang.detect", "x"))
	child := node("lang.go", "Go", nil, prop("go.gofmt", "x"))
	parent.Children = []*registry.Node{child}

	groups := New(sourceOf(parent)).RegisteredGroups()

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1 (children fold into parent)", len(groups))
	}
	if len(groups[0].Sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(groups[0].Sections))
	}
	if groups[0].Sections[0].Title != "Go" {
		t.Errorf("section title = %q, want child title", groups[0].Sections[0].Title)
	}
	want := []string{"go.gofmt", "lang.detect"}
	if diff := cmp.Diff(want, groupKeys(groups[0])); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemblerCommonlyUsedFirst(t *testing.T) {
	reg := registry.NewWithBuiltins()
	groups := FromRegistry(reg).Groups()

	if len(groups) < 2 {
		t.Fatalf("got %d groups, want commonly-used plus registered", len(groups))
	}
	common := groups[0]
	if common.ID != CommonlyUsedID {
		t.Errorf("first group ID = %q, want %q", common.ID, CommonlyUsedID)
	}
	if common.Title != l10n.Sprintf(l10n.CommonlyUsedTitle) {
		t.Errorf("first group title = %q, want localized commonly-used title", common.Title)
	}

	// Ranked order is preserved, not re-sorted by key.
	if diff := cmp.Diff(DefaultCommonlyUsed, groupKeys(common)); diff != "" {
		t.Errorf("ranked order mismatch (-want +got):\n%s", diff)
	}

	// Entries are display-only copies with zero ranges.
	ranked := common.Sections[0].Settings[0]
	if !ranked.Range.IsZero() || !ranked.ValueRange.IsZero() || !ranked.KeyRange.IsZero() {
		t.Error("commonly-used entries must carry zero ranges")
	}
	original := settings.FindSetting(groups[1:], ranked.Key)
	if original == nil {
		t.Fatalf("%s missing from registered groups", ranked.Key)
	}
	if original == ranked {
		t.Error("commonly-used entry aliases the registered setting")
	}
}

func TestAssemblerCommonlyUsedSkipsUnknown(t *testing.T) {
	reg := registry.NewWithBuiltins()
	asm := FromRegistry(reg, WithCommonlyUsed([]string{"missing.key", "editor.fontSize"}))

	common := asm.Groups()[0]
	if diff := cmp.Diff([]string{"editor.fontSize"}, groupKeys(common)); diff != "" {
		t.Errorf("unknown ranked keys not skipped (-want +got):\n%s", diff)
	}
}
