package model

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/prefsdoc/internal/l10n"
	"github.com/dshills/prefsdoc/internal/settings"
	"github.com/dshills/prefsdoc/internal/settings/catalog"
	"github.com/dshills/prefsdoc/internal/settings/match"
	"github.com/dshills/prefsdoc/internal/settings/notify"
	"github.com/dshills/prefsdoc/internal/settings/registry"
	"github.com/dshills/prefsdoc/internal/settings/render"
	"github.com/dshills/prefsdoc/internal/textdoc"
)

// DefaultsModel renders the registered catalog into default-settings
// content: a banner comment, then a bracketed pair of objects holding
// the commonly-used group and the registered groups. Content and the
// range-stamped tree are derived together and cached until the registry
// changes.
type DefaultsModel struct {
	assembler *catalog.Assembler

	notifier *notify.Notifier

	mu     sync.Mutex
	cache  catalog.ContentCache
	groups []*settings.Group
	closed bool

	unsubscribe func()
}

// NewDefaultsModel builds a model over reg. Options are passed through
// to the catalog assembler.
func NewDefaultsModel(reg *registry.Registry, opts ...catalog.Option) *DefaultsModel {
	m := &DefaultsModel{
		assembler: catalog.FromRegistry(reg, opts...),
		notifier:  notify.New(),
	}
	m.unsubscribe = reg.OnChange(m.Reset)
	return m
}

// Content returns the rendered default-settings text.
func (m *DefaultsModel) Content() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.Get(m.derive)
}

// Groups returns the catalog tree with the ranges the content was
// rendered at. The commonly-used group comes first; its settings are
// rendered copies of entries in their home groups.
func (m *DefaultsModel) Groups() []*settings.Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Get(m.derive)
	return m.groups
}

// derive assembles and renders the catalog, keeping the stamped tree
// alongside the cached content. Callers hold m.mu.
func (m *DefaultsModel) derive() string {
	groups := m.assembler.Groups()

	b := render.NewBuilder(0)
	b.PushLine("// " + l10n.Sprintf(l10n.DefaultSettingsBanner))
	b.PushLine("[")
	b.PushGroups(groups[:1])
	b.PushLine(",")
	b.PushGroups(groups[1:])
	b.PushLine("]")

	m.groups = groups
	return b.Content()
}

// Preference returns the rendered setting stored under key, or nil when
// the catalog has no such setting.
func (m *DefaultsModel) Preference(key string) *settings.Setting {
	return settings.FindSetting(m.Groups(), key)
}

// Reset discards the cached content and tree; the next access
// re-derives both. The registry's change hook calls this automatically.
func (m *DefaultsModel) Reset() {
	m.mu.Lock()
	m.cache.Reset()
	m.groups = nil
	closed := m.closed
	m.mu.Unlock()

	if !closed {
		m.notifier.NotifyReload("registry")
	}
}

// Subscribe registers an observer for catalog reload notifications.
func (m *DefaultsModel) Subscribe(observer notify.Observer) *notify.Subscription {
	return m.notifier.Subscribe(observer)
}

// Close detaches the model from the registry. Safe to call more than
// once.
func (m *DefaultsModel) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.unsubscribe()
	m.notifier.Close()
}

// RenderFilteredRegion renders the settings matching filter into the
// slotSize-line region of doc starting at startLine. The region is
// replaced in one atomic edit, so lines outside it keep their content
// and numbering. The returned matches reference the freshly rendered
// copies, with match ranges translated to document coordinates.
func (m *DefaultsModel) RenderFilteredRegion(doc *textdoc.Document, filter string, matcher match.SettingMatcher, startLine, slotSize int) ([]*settings.FilterMatch, error) {
	groups := m.Groups()
	if len(groups) > 0 && groups[0].ID == catalog.CommonlyUsedID {
		// Ranked entries are copies of settings in their home groups;
		// matching them again would duplicate every result.
		groups = groups[1:]
	}

	found, err := match.FilterSettings(filter, groups, nil, matcher)
	if err != nil {
		return nil, err
	}

	section := &settings.Section{}
	out := make([]*settings.FilterMatch, 0, len(found))
	for _, fm := range found {
		c := fm.Setting.Clone()
		section.Settings = append(section.Settings, c)
		out = append(out, &settings.FilterMatch{Setting: c, Matches: fm.Matches})
	}
	result := &settings.Group{
		ID:       uuid.NewString(),
		Title:    l10n.Sprintf(l10n.SearchResultsTitle),
		Sections: []*settings.Section{section},
	}

	b := render.NewBuilder(startLine - 1)
	b.PushLine(",")
	b.PushGroups([]*settings.Group{result})
	b.PushLine("")
	if err := doc.ReplaceLineRange(startLine, slotSize, b.ContentPadded(slotSize)); err != nil {
		return nil, err
	}

	for _, fm := range out {
		fm.Matches = fm.AbsoluteMatches(fm.Setting.Range.Start.Line)
	}
	return out, nil
}
