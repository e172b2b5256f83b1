package settings

import (
	"regexp"

	"github.com/dshills/prefsdoc/internal/textdoc"
)

// overrideKeyPattern matches bracketed scope qualifiers such as "[go]"
// or "[markdown][latex]".
var overrideKeyPattern = regexp.MustCompile(`^\[.*\]$`)

// IsOverrideKey reports whether key names an override block rather than
// an ordinary setting.
func IsOverrideKey(key string) bool {
	return overrideKeyPattern.MatchString(key)
}

// Setting is a single key/value entry of a settings document.
//
// Ranges are 1-based and end-exclusive in columns. Range spans the whole
// entry including any preceding description comments, KeyRange spans the
// quoted key, and ValueRange spans the value text. A setting produced
// from registry metadata rather than document text has zero ranges.
type Setting struct {
	Key   string
	Value any

	// Description holds the comment lines rendered or parsed immediately
	// above the entry, one element per line, comment markers stripped.
	Description       []string
	DescriptionRanges []textdoc.Range

	Range      textdoc.Range
	KeyRange   textdoc.Range
	ValueRange textdoc.Range

	// Overrides holds the nested entries of an override block. Populated
	// only when Key matches the override pattern.
	Overrides []*Setting

	// OverrideOf names the enclosing override block's key for a nested
	// entry. It is a back-reference by key, not an ownership edge, so a
	// setting can be copied between trees without dragging its parent.
	OverrideOf string
}

// IsOverride reports whether the setting is an override block.
func (s *Setting) IsOverride() bool {
	return IsOverrideKey(s.Key)
}

// Clone returns a deep copy of the setting with all ranges zeroed.
// Overrides are cloned recursively. Values are shared, not copied;
// callers treat setting values as immutable.
func (s *Setting) Clone() *Setting {
	c := &Setting{
		Key:        s.Key,
		Value:      s.Value,
		OverrideOf: s.OverrideOf,
	}
	if len(s.Description) > 0 {
		c.Description = append([]string(nil), s.Description...)
	}
	for _, o := range s.Overrides {
		c.Overrides = append(c.Overrides, o.Clone())
	}
	return c
}

// Section groups settings under an optional title.
type Section struct {
	Title      string
	TitleRange textdoc.Range
	Settings   []*Setting
}

// Group is a titled collection of sections occupying a contiguous region
// of a settings document.
type Group struct {
	// ID identifies the group independently of its display title. It may
	// be empty for groups recovered from plain document text.
	ID         string
	Title      string
	TitleRange textdoc.Range
	Range      textdoc.Range
	Sections   []*Section
}

// IsEmpty reports whether no section of the group holds a setting.
func (g *Group) IsEmpty() bool {
	for _, sec := range g.Sections {
		if len(sec.Settings) > 0 {
			return false
		}
	}
	return true
}

// Settings returns the group's settings across all sections in document
// order. The returned slice is freshly allocated.
func (g *Group) Settings() []*Setting {
	var out []*Setting
	for _, sec := range g.Sections {
		out = append(out, sec.Settings...)
	}
	return out
}

// FindSetting returns the first setting with the given key, searching
// groups in order and descending into override blocks. It returns nil
// when no setting matches.
func FindSetting(groups []*Group, key string) *Setting {
	for _, g := range groups {
		for _, sec := range g.Sections {
			for _, s := range sec.Settings {
				if s.Key == key {
					return s
				}
				for _, o := range s.Overrides {
					if o.Key == key {
						return o
					}
				}
			}
		}
	}
	return nil
}

// FilterMatch pairs a setting with the ranges inside it that matched a
// filter. Match ranges are relative to the setting's own start line so
// they survive the setting being re-rendered at a different position.
type FilterMatch struct {
	Setting *Setting
	Matches []textdoc.Range
}

// AbsoluteMatches translates the match ranges to document coordinates
// given the line the setting's range starts on.
func (m *FilterMatch) AbsoluteMatches(startLine int) []textdoc.Range {
	if len(m.Matches) == 0 {
		return nil
	}
	out := make([]textdoc.Range, len(m.Matches))
	for i, r := range m.Matches {
		out[i] = r.ShiftLines(startLine - 1)
	}
	return out
}
