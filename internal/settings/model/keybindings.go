package model

import (
	"github.com/dshills/prefsdoc/internal/l10n"
	"github.com/dshills/prefsdoc/internal/settings/catalog"
)

// BodyProvider supplies the preformatted default key-bindings body.
type BodyProvider func() string

// KeybindingsModel exposes the default key-bindings document: one
// localized header comment line above a provider-supplied body. The
// body is passed through untouched, never parsed.
type KeybindingsModel struct {
	provider BodyProvider
	cache    catalog.ContentCache
}

// NewKeybindingsModel builds a model over provider. A nil provider
// yields a document holding only the header.
func NewKeybindingsModel(provider BodyProvider) *KeybindingsModel {
	return &KeybindingsModel{provider: provider}
}

// Content returns the key-bindings document text.
func (m *KeybindingsModel) Content() string {
	return m.cache.Get(m.derive)
}

// Reset discards the cached content; the next Content call re-derives
// it, picking up provider and language changes.
func (m *KeybindingsModel) Reset() {
	m.cache.Reset()
}

func (m *KeybindingsModel) derive() string {
	body := ""
	if m.provider != nil {
		body = m.provider()
	}
	return "// " + l10n.Sprintf(l10n.KeybindingsHeader) + "\n" + body
}
