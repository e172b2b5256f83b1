// Package catalog assembles the registry's configuration nodes into
// the ordered group tree rendered by the defaults document.
package catalog

import (
	"sort"
	"strings"

	"github.com/dshills/prefsdoc/internal/l10n"
	"github.com/dshills/prefsdoc/internal/settings"
	"github.com/dshills/prefsdoc/internal/settings/registry"
)

// CommonlyUsedID identifies the synthetic ranked group.
const CommonlyUsedID = "mostCommonlyUsed"

// Source supplies the configuration-node list to assemble. The
// registry's Nodes method is the usual source.
type Source func() []*registry.Node

// Assembler derives ordered display groups from a node source.
type Assembler struct {
	source Source
	scope  registry.Scope
	ranked []string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithScope sets the target scope properties are filtered against.
// A global or window target accepts every property; any other target
// requires the property to carry that scope.
func WithScope(s registry.Scope) Option {
	return func(a *Assembler) {
		a.scope = s
	}
}

// WithCommonlyUsed replaces the built-in ranked key list.
func WithCommonlyUsed(keys []string) Option {
	return func(a *Assembler) {
		a.ranked = keys
	}
}

// New creates an assembler over the given node source.
func New(source Source, opts ...Option) *Assembler {
	a := &Assembler{
		source: source,
		scope:  registry.ScopeWindow,
		ranked: DefaultCommonlyUsed,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FromRegistry creates an assembler that pulls nodes from r.
func FromRegistry(r *registry.Registry, opts ...Option) *Assembler {
	return New(r.Nodes, opts...)
}

// Groups assembles the full catalog: the synthetic commonly-used group
// followed by the registered groups.
func (a *Assembler) Groups() []*settings.Group {
	registered := a.RegisteredGroups()
	return append([]*settings.Group{a.commonlyUsed(registered)}, registered...)
}

// RegisteredGroups assembles display groups from the source nodes.
// Nodes are sorted by order, then title; nodes sharing a resolved
// title merge into one group; each group's settings end up sorted by
// key; empty groups are dropped.
func (a *Assembler) RegisteredGroups() []*settings.Group {
	nodes := sortNodes(a.source())

	var groups []*settings.Group
	seen := make(map[string]bool)
	for _, node := range nodes {
		groups = a.parseNode(node, groups, nodes, nil, seen)
	}

	var kept []*settings.Group
	for _, g := range groups {
		for _, sec := range g.Sections {
			sort.SliceStable(sec.Settings, func(i, j int) bool {
				return sec.Settings[i].Key < sec.Settings[j].Key
			})
		}
		if !g.IsEmpty() {
			kept = append(kept, g)
		}
	}
	return kept
}

// parseNode folds one node (and its children) into the group list.
// A child node contributes to its parent's group; a child title labels
// the group's current section.
func (a *Assembler) parseNode(node *registry.Node, groups []*settings.Group, all []*registry.Node, group *settings.Group, seen map[string]bool) []*settings.Group {
	title := node.Title
	if title == "" {
		for _, other := range all {
			if other.ID == node.ID && other.Title != "" {
				title = other.Title
				break
			}
		}
	}

	if title != "" {
		if group == nil {
			group = findGroup(groups, title)
			if group == nil {
				group = newGroup(node.ID, title)
				groups = append(groups, group)
			}
		} else {
			group.Sections[len(group.Sections)-1].Title = title
		}
	}

	if len(node.Properties) > 0 {
		if group == nil {
			// Untitled: the node's identifier keys the group.
			group = findGroup(groups, node.ID)
			if group == nil {
				group = newGroup(node.ID, node.ID)
				groups = append(groups, group)
			}
		}
		section := group.Sections[len(group.Sections)-1]
		for _, s := range a.parseProperties(node) {
			if !seen[s.Key] {
				section.Settings = append(section.Settings, s)
				seen[s.Key] = true
			}
		}
	}

	for _, child := range node.Children {
		groups = a.parseNode(child, groups, all, group, seen)
	}
	return groups
}

// parseProperties converts a node's declared properties to settings,
// excluding deprecated properties and properties outside the target
// scope.
func (a *Assembler) parseProperties(node *registry.Node) []*settings.Setting {
	keys := node.PropertyKeys()
	sort.Strings(keys)

	out := make([]*settings.Setting, 0, len(keys))
	for _, key := range keys {
		p := node.Properties[key]
		if p.Deprecated || p.DeprecationMessage != "" {
			continue
		}
		if !a.inScope(p) {
			continue
		}
		out = append(out, settingFromProperty(key, p))
	}
	return out
}

func (a *Assembler) inScope(p *registry.Property) bool {
	if a.scope == 0 || a.scope.Has(registry.ScopeGlobal) || a.scope.Has(registry.ScopeWindow) {
		return true
	}
	return p.Scope.Has(a.scope)
}

// commonlyUsed builds the synthetic ranked group from settings already
// assembled elsewhere in the catalog. Entries are display-only copies
// in ranked order with zero ranges and no overrides.
func (a *Assembler) commonlyUsed(groups []*settings.Group) *settings.Group {
	known := make(map[string]*settings.Setting)
	for _, g := range groups {
		for _, s := range g.Settings() {
			known[s.Key] = s
		}
	}

	section := &settings.Section{}
	for _, key := range a.ranked {
		s, ok := known[key]
		if !ok {
			continue
		}
		section.Settings = append(section.Settings, &settings.Setting{
			Key:         s.Key,
			Value:       s.Value,
			Description: append([]string(nil), s.Description...),
		})
	}

	return &settings.Group{
		ID:       CommonlyUsedID,
		Title:    l10n.Sprintf(l10n.CommonlyUsedTitle),
		Sections: []*settings.Section{section},
	}
}

// settingFromProperty builds a display setting for a declared
// property. An override-keyed object default expands its entries into
// child settings.
func settingFromProperty(key string, p *registry.Property) *settings.Setting {
	s := &settings.Setting{
		Key:   key,
		Value: p.Default,
	}
	if p.Description != "" {
		s.Description = strings.Split(p.Description, "\n")
	}

	if settings.IsOverrideKey(key) {
		if m, ok := p.Default.(map[string]any); ok {
			childKeys := make([]string, 0, len(m))
			for ck := range m {
				childKeys = append(childKeys, ck)
			}
			sort.Strings(childKeys)
			for _, ck := range childKeys {
				s.Overrides = append(s.Overrides, &settings.Setting{
					Key:        ck,
					Value:      m[ck],
					OverrideOf: key,
				})
			}
		}
	}
	return s
}

// sortNodes orders nodes by ascending order value; nodes without an
// order sort after all nodes that have one; ties break by title.
func sortNodes(nodes []*registry.Node) []*registry.Node {
	sorted := make([]*registry.Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		ni, nj := sorted[i], sorted[j]
		switch {
		case ni.Order == nil && nj.Order == nil:
			return ni.Title < nj.Title
		case ni.Order == nil:
			return false
		case nj.Order == nil:
			return true
		case *ni.Order != *nj.Order:
			return *ni.Order < *nj.Order
		default:
			return ni.Title < nj.Title
		}
	})
	return sorted
}

func findGroup(groups []*settings.Group, title string) *settings.Group {
	for _, g := range groups {
		if g.Title == title {
			return g
		}
	}
	return nil
}

func newGroup(id, title string) *settings.Group {
	return &settings.Group{
		ID:       id,
		Title:    title,
		Sections: []*settings.Section{{}},
	}
}
