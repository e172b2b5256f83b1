// Package l10n holds the localized strings stamped into generated
// documents: group titles, banner comments, and the keybindings header.
// The message ID is the English source text.
package l10n

import (
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message IDs.
const (
	CommonlyUsedTitle     = "Commonly Used"
	SearchResultsTitle    = "Search Results"
	DefaultSettingsBanner = "Overwrite settings by placing them into your settings file."
	KeybindingsHeader     = "Override key bindings by placing them into your key bindings file."
)

var translations = []struct {
	tag language.Tag
	key string
	msg string
}{
	{language.English, CommonlyUsedTitle, "Commonly Used"},
	{language.English, SearchResultsTitle, "Search Results"},
	{language.English, DefaultSettingsBanner, "Overwrite settings by placing them into your settings file."},
	{language.English, KeybindingsHeader, "Override key bindings by placing them into your key bindings file."},

	{language.German, CommonlyUsedTitle, "Häufig verwendet"},
	{language.German, SearchResultsTitle, "Suchergebnisse"},
	{language.German, DefaultSettingsBanner, "Überschreiben Sie Einstellungen, indem Sie sie in Ihre Einstellungsdatei einfügen."},
	{language.German, KeybindingsHeader, "Überschreiben Sie Tastenzuordnungen, indem Sie sie in Ihre Tastenzuordnungsdatei einfügen."},
}

func init() {
	for _, t := range translations {
		if err := message.SetString(t.tag, t.key, t.msg); err != nil {
			panic(err)
		}
	}
}

var (
	mu      sync.RWMutex
	printer = message.NewPrinter(language.English)
)

// SetLanguage switches the language used for all subsequent lookups.
// Unknown messages fall back toward English.
func SetLanguage(tag language.Tag) {
	mu.Lock()
	defer mu.Unlock()
	printer = message.NewPrinter(tag)
}

// Sprintf formats the localized message for key.
func Sprintf(key message.Reference, args ...any) string {
	mu.RLock()
	defer mu.RUnlock()
	return printer.Sprintf(key, args...)
}
