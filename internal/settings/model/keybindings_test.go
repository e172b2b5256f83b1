package model

import (
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/dshills/prefsdoc/internal/l10n"
)

const keybindingsBody = `[
  { "key": "ctrl+s", "command": "file.save" },
  { "key": "ctrl+w", "command": "window.close" }
]`

func TestKeybindingsModel_Content(t *testing.T) {
	m := NewKeybindingsModel(func() string { return keybindingsBody })

	content := m.Content()
	header, body, ok := strings.Cut(content, "\n")
	if !ok {
		t.Fatalf("content has no header line: %q", content)
	}
	if header != "// Override key bindings by placing them into your key bindings file." {
		t.Errorf("header = %q", header)
	}
	if body != keybindingsBody {
		t.Errorf("body altered:\n%s", body)
	}
}

func TestKeybindingsModel_NilProvider(t *testing.T) {
	m := NewKeybindingsModel(nil)

	content := m.Content()
	if !strings.HasPrefix(content, "// ") {
		t.Errorf("content = %q, want a lone header comment", content)
	}
	if strings.Count(content, "\n") != 1 {
		t.Errorf("content = %q, want header plus empty body", content)
	}
}

func TestKeybindingsModel_ResetPicksUpLanguage(t *testing.T) {
	m := NewKeybindingsModel(func() string { return "[]" })

	english := m.Content()
	if !strings.Contains(english, "key bindings") {
		t.Fatalf("english content = %q", english)
	}

	l10n.SetLanguage(language.German)
	defer l10n.SetLanguage(language.English)

	if m.Content() != english {
		t.Error("cached content changed without Reset")
	}

	m.Reset()
	if got := m.Content(); !strings.Contains(got, "Tastenzuordnungen") {
		t.Errorf("german content = %q", got)
	}
}
