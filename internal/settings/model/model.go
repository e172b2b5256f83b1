// Package model binds the settings core to its collaborators: a
// document model that lazily re-parses a live text document, a defaults
// model that renders the registry catalog into an annotated buffer, a
// key-bindings model, and a single-value edit surface.
package model

import (
	"sync"

	"github.com/dshills/prefsdoc/internal/settings"
	"github.com/dshills/prefsdoc/internal/settings/match"
	"github.com/dshills/prefsdoc/internal/settings/notify"
	"github.com/dshills/prefsdoc/internal/settings/parse"
	"github.com/dshills/prefsdoc/internal/textdoc"
)

// DocumentModel exposes the parsed settings tree of a live document.
// The tree is derived lazily and dropped whenever the document content
// changes; the next access re-parses. There is no incremental patching.
type DocumentModel struct {
	doc    *textdoc.Document
	parser *parse.Parser

	notifier *notify.Notifier

	mu     sync.Mutex
	groups []*settings.Group
	valid  bool
	closed bool

	unsubscribe func()
}

// NewDocumentModel binds a model to doc. rule locates the settings
// root; nil means the document root itself is the settings object.
func NewDocumentModel(doc *textdoc.Document, rule parse.RootRule) *DocumentModel {
	if rule == nil {
		rule = parse.BareRoot()
	}
	m := &DocumentModel{
		doc:      doc,
		parser:   parse.New(rule),
		notifier: notify.New(),
	}
	m.unsubscribe = doc.OnChange(m.invalidate)
	return m
}

// Document returns the underlying text document.
func (m *DocumentModel) Document() *textdoc.Document {
	return m.doc
}

// Groups returns the settings tree, re-parsing when the cached tree was
// invalidated. A closed document yields an empty tree.
func (m *DocumentModel) Groups() []*settings.Group {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.valid {
		m.groups = m.derive()
		m.valid = true
	}
	return m.groups
}

func (m *DocumentModel) derive() []*settings.Group {
	if m.doc.IsClosed() {
		return nil
	}
	return m.parser.Parse(m.doc.Content(), m.doc.OffsetToPosition)
}

// Preference returns the setting stored under key, descending into
// override blocks. It returns nil when the document has no such
// setting.
func (m *DocumentModel) Preference(key string) *settings.Setting {
	return settings.FindSetting(m.Groups(), key)
}

// Filter collects the settings matching filter over the current tree.
// Match ranges come back relative to each setting's own start line.
func (m *DocumentModel) Filter(filter string, pred match.GroupPredicate, matcher match.SettingMatcher) ([]*settings.FilterMatch, error) {
	return match.FilterSettings(filter, m.Groups(), pred, matcher)
}

// Subscribe registers an observer for the model's reload notifications.
// A reload change is raised after every document content change.
func (m *DocumentModel) Subscribe(observer notify.Observer) *notify.Subscription {
	return m.notifier.Subscribe(observer)
}

// invalidate drops the cached tree and raises the reload signal.
func (m *DocumentModel) invalidate() {
	m.mu.Lock()
	m.groups = nil
	m.valid = false
	closed := m.closed
	m.mu.Unlock()

	if !closed {
		m.notifier.NotifyReload("document")
	}
}

// Close detaches the model from its document. Safe to call more than
// once.
func (m *DocumentModel) Close() {
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
