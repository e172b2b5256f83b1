// Package match filters a settings tree through injected predicates,
// pairing each surviving setting with the sub-ranges that matched.
package match

import (
	"github.com/dshills/prefsdoc/internal/settings"
	"github.com/dshills/prefsdoc/internal/textdoc"
)

// GroupPredicate reports whether a whole group satisfies the filter,
// independently of its settings.
type GroupPredicate func(*settings.Group) bool

// SettingMatcher returns the document-absolute ranges inside a
// setting's extent that satisfy the filter. A nil or empty result means
// the setting did not match on its own.
type SettingMatcher func(*settings.Setting) []textdoc.Range

// FilterSettings walks groups and collects every setting whose group
// satisfied pred or whose matcher produced at least one range. Matcher
// output is translated to setting-relative coordinates, anchored on the
// setting's own start line, so the matches stay valid when the setting
// is re-rendered elsewhere.
//
// An empty filter is a caller error: "no filter" must be handled before
// this layer, there is no implicit match-everything fallback.
func FilterSettings(filter string, groups []*settings.Group, pred GroupPredicate, matcher SettingMatcher) ([]*settings.FilterMatch, error) {
	if filter == "" {
		return nil, settings.ErrEmptyFilter
	}

	var out []*settings.FilterMatch
	for _, g := range groups {
		groupMatched := pred != nil && pred(g)
		for _, sec := range g.Sections {
			for _, s := range sec.Settings {
				var abs []textdoc.Range
				if matcher != nil {
					abs = matcher(s)
				}
				if !groupMatched && len(abs) == 0 {
					continue
				}
				m := &settings.FilterMatch{Setting: s}
				for _, r := range abs {
					m.Matches = append(m.Matches, r.ShiftLines(-(s.Range.Start.Line - 1)))
				}
				out = append(out, m)
			}
		}
	}
	return out, nil
}
