// Package parse reconstructs a range-annotated settings tree from JSON
// document text with comments.
//
// The parser drives a push tokenizer over the text and rebuilds groups,
// sections, and settings together with the exact source range of every
// key, value, and description line. Malformed trailing input is
// tolerated: a setting opened but not completely ranged when the
// tokenizer fails is discarded, and everything parsed before the error
// is returned as the best-effort result.
package parse

import (
	"errors"
	"io"
	"strings"

	"github.com/creachadair/jtree"
	"github.com/tidwall/gjson"

	"github.com/dshills/prefsdoc/internal/settings"
	"github.com/dshills/prefsdoc/internal/textdoc"
)

// Positioner maps a 0-based byte offset in the parsed text to a 1-based
// line/column position. The document collaborator supplies it; the
// parser never derives positions itself.
type Positioner func(offset int) textdoc.Position

// Parser turns settings-document text into groups of range-annotated
// settings. The zero value is not usable; construct with New.
type Parser struct {
	rule RootRule
}

// New returns a parser that locates the settings root with rule.
func New(rule RootRule) *Parser {
	return &Parser{rule: rule}
}

// Parse tokenizes text and returns the recovered groups. A document
// with no settings root, or a settings root with no entries, yields an
// empty slice. Tokenizer errors are never returned; the best-effort
// prefix parsed before the error is.
func (p *Parser) Parse(text string, pos Positioner) []*settings.Group {
	st := jtree.NewStream(strings.NewReader(text))
	st.AllowComments(true)
	st.AllowTrailingCommas(true)

	ps := &parserState{rule: p.rule, pos: pos}
	err := st.ParseOne(ps)
	if err != nil && !errors.Is(err, io.EOF) {
		ps.dropIncomplete()
	}
	return ps.finish()
}

// memberFrame records one open object member on the path from the
// document root. setting is non-nil when the member opened a settings
// entry.
type memberFrame struct {
	name       string
	depth      int
	setting    *settings.Setting
	valueStart int
}

// container accumulates the in-memory value of an object or array under
// construction.
type container struct {
	obj   map[string]any
	arr   []any
	isObj bool
}

// comment is a buffered description line waiting for the next setting
// to open.
type comment struct {
	text string
	rng  textdoc.Range
}

// parserState is the explicit tokenizer-callback state: the container
// and member stacks mirroring the JSON structure, the settings-root
// depth marker, and the group under construction. Each handler method
// is one transition on this state.
type parserState struct {
	rule RootRule
	pos  Positioner

	depth         int
	settingsDepth int
	frames        []memberFrame
	containers    []*container

	groups     []*settings.Group
	current    *settings.Group
	curSection *settings.Section

	// override is the open override block; its member children are
	// collected into Overrides until the block's value object closes.
	override *settings.Setting

	comments []comment

	lastSetting *settings.Setting
	lastOwner   *[]*settings.Setting
	lastEnd     int
}

func (st *parserState) BeginObject(loc jtree.Anchor) error {
	l := loc.Location()
	st.note(l.Span.End)
	if st.settingsDepth == 0 {
		property, path := st.currentPath()
		if st.rule(property, path) {
			st.settingsDepth = st.depth + 1
		}
	}
	if st.depth+1 == st.settingsDepth {
		st.openGroup(l)
	}
	st.markValueStart(l)
	st.depth++
	st.containers = append(st.containers, &container{obj: map[string]any{}, isObj: true})
	return nil
}

func (st *parserState) EndObject(loc jtree.Anchor) error {
	l := loc.Location()
	st.note(l.Span.End)
	c := st.containers[len(st.containers)-1]
	st.containers = st.containers[:len(st.containers)-1]
	st.closeValue(c.obj, l)
	if st.depth == st.settingsDepth && st.current != nil {
		st.current.Range.End = st.pos(l.Span.End)
		st.sealGroup()
	}
	st.comments = nil
	st.depth--
	return nil
}

func (st *parserState) BeginArray(loc jtree.Anchor) error {
	l := loc.Location()
	st.note(l.Span.End)
	st.markValueStart(l)
	st.depth++
	st.containers = append(st.containers, &container{arr: []any{}})
	return nil
}

func (st *parserState) EndArray(loc jtree.Anchor) error {
	l := loc.Location()
	st.note(l.Span.End)
	c := st.containers[len(st.containers)-1]
	st.containers = st.containers[:len(st.containers)-1]
	st.closeValue(c.arr, l)
	st.depth--
	return nil
}

func (st *parserState) BeginMember(loc jtree.Anchor) error {
	l := loc.Location()
	st.note(l.Span.End)
	key := gjson.Parse(string(loc.Text())).String()
	keyRange := textdoc.Range{Start: st.pos(l.Span.Pos), End: st.pos(l.Span.End)}

	var s *settings.Setting
	switch {
	case st.current != nil && st.depth == st.settingsDepth:
		s = st.openSetting(key, keyRange)
		if s.IsOverride() {
			st.override = s
		}
		st.curSection.Settings = append(st.curSection.Settings, s)
		st.lastSetting, st.lastOwner = s, &st.curSection.Settings
	case st.override != nil && st.depth == st.settingsDepth+1:
		s = st.openSetting(key, keyRange)
		s.OverrideOf = st.override.Key
		st.override.Overrides = append(st.override.Overrides, s)
		st.lastSetting, st.lastOwner = s, &st.override.Overrides
	}
	st.comments = nil
	st.frames = append(st.frames, memberFrame{name: key, depth: st.depth, setting: s, valueStart: -1})
	return nil
}

func (st *parserState) EndMember(loc jtree.Anchor) error {
	l := loc.Location()
	st.note(l.Span.End)
	f := st.frames[len(st.frames)-1]
	st.frames = st.frames[:len(st.frames)-1]
	// The terminator is part of a setting's extent only when it is a
	// comma; a closing brace belongs to the enclosing object.
	if f.setting != nil && string(loc.Text()) == "," {
		f.setting.Range.End = st.pos(l.Span.End)
	}
	return nil
}

func (st *parserState) Value(loc jtree.Anchor) error {
	l := loc.Location()
	st.note(l.Span.End)
	v := gjson.Parse(string(loc.Text())).Value()
	if f := st.topFrame(); f != nil && f.depth == st.depth && f.valueStart < 0 {
		f.valueStart = l.Span.Pos
		if f.setting != nil {
			f.setting.Value = v
			f.setting.ValueRange = textdoc.Range{Start: st.pos(l.Span.Pos), End: st.pos(l.Span.End)}
			f.setting.Range.End = st.pos(l.Span.End)
		}
	}
	st.place(v)
	st.comments = nil
	return nil
}

func (st *parserState) EndOfInput(loc jtree.Anchor) {}

func (st *parserState) Comment(loc jtree.Anchor) {
	if st.current == nil {
		return
	}
	l := loc.Location()
	raw := string(loc.Text())
	end := l.Span.End
	if strings.HasSuffix(raw, "\n") {
		end--
		if strings.HasSuffix(raw, "\r\n") {
			end--
		}
	}
	st.comments = append(st.comments, comment{
		text: commentText(raw),
		rng:  textdoc.Range{Start: st.pos(l.Span.Pos), End: st.pos(end)},
	})
}

// openSetting starts a settings entry at the key token. Buffered
// comment lines become its description and pull the entry's range start
// up to the first description line.
func (st *parserState) openSetting(key string, keyRange textdoc.Range) *settings.Setting {
	s := &settings.Setting{
		Key:      key,
		KeyRange: keyRange,
		Range:    textdoc.Range{Start: keyRange.Start},
	}
	for _, c := range st.comments {
		s.Description = append(s.Description, c.text)
		s.DescriptionRanges = append(s.DescriptionRanges, c.rng)
	}
	if len(s.DescriptionRanges) > 0 {
		s.Range.Start = s.DescriptionRanges[0].Start
	}
	return s
}

func (st *parserState) openGroup(l jtree.Location) {
	sec := &settings.Section{}
	st.current = &settings.Group{
		Range:    textdoc.Range{Start: st.pos(l.Span.Pos)},
		Sections: []*settings.Section{sec},
	}
	st.curSection = sec
}

// sealGroup finishes the group under construction, keeping it only when
// it holds at least one setting.
func (st *parserState) sealGroup() {
	if st.current != nil && !st.current.IsEmpty() {
		st.groups = append(st.groups, st.current)
	}
	st.current, st.curSection = nil, nil
	st.override = nil
}

// markValueStart records a container token as the direct value of the
// innermost open member.
func (st *parserState) markValueStart(l jtree.Location) {
	if f := st.topFrame(); f != nil && f.depth == st.depth && f.valueStart < 0 {
		f.valueStart = l.Span.Pos
		if f.setting != nil {
			f.setting.ValueRange = textdoc.Range{Start: st.pos(l.Span.Pos)}
		}
	}
}

// closeValue finishes a materialized container value: it is stamped on
// the setting whose value it is, handed to the enclosing container, and
// closes the active override block when it is that block's value.
func (st *parserState) closeValue(v any, l jtree.Location) {
	if f := st.topFrame(); f != nil && f.depth == st.depth-1 && f.valueStart >= 0 {
		if f.setting != nil && f.setting.Value == nil {
			f.setting.Value = v
			f.setting.ValueRange.End = st.pos(l.Span.End)
			f.setting.Range.End = st.pos(l.Span.End)
			if f.setting == st.override {
				st.override = nil
			}
		}
	}
	st.place(v)
}

// place stores a completed value into the container being built.
func (st *parserState) place(v any) {
	if len(st.containers) == 0 {
		return
	}
	c := st.containers[len(st.containers)-1]
	if c.isObj {
		if f := st.topFrame(); f != nil {
			c.obj[f.name] = v
		}
	} else {
		c.arr = append(c.arr, v)
	}
}

func (st *parserState) topFrame() *memberFrame {
	if len(st.frames) == 0 {
		return nil
	}
	return &st.frames[len(st.frames)-1]
}

// currentPath splits the member stack into the innermost member name
// and the names enclosing it.
func (st *parserState) currentPath() (property string, path []string) {
	if len(st.frames) == 0 {
		return "", nil
	}
	for _, f := range st.frames[:len(st.frames)-1] {
		path = append(path, f.name)
	}
	return st.frames[len(st.frames)-1].name, path
}

func (st *parserState) note(end int) {
	if end > st.lastEnd {
		st.lastEnd = end
	}
}

// dropIncomplete removes the most recently opened setting when any of
// its ranges never closed, the usual state after a tokenizer error on
// truncated input.
func (st *parserState) dropIncomplete() {
	s := st.lastSetting
	if s == nil || st.lastOwner == nil {
		return
	}
	if !s.Range.End.IsZero() && !s.KeyRange.End.IsZero() && !s.ValueRange.End.IsZero() {
		return
	}
	if n := len(*st.lastOwner); n > 0 && (*st.lastOwner)[n-1] == s {
		*st.lastOwner = (*st.lastOwner)[:n-1]
	}
}

// finish seals a group left open by malformed input and returns the
// result.
func (st *parserState) finish() []*settings.Group {
	if st.current != nil {
		st.current.Range.End = st.pos(st.lastEnd)
		st.sealGroup()
	}
	return st.groups
}

func commentText(raw string) string {
	s := strings.TrimSuffix(raw, "\n")
	s = strings.TrimSuffix(s, "\r")
	switch {
	case strings.HasPrefix(s, "//"):
		s = strings.TrimPrefix(s, "//")
	case strings.HasPrefix(s, "/*"):
		s = strings.TrimSuffix(strings.TrimPrefix(s, "/*"), "*/")
	}
	return strings.TrimPrefix(strings.TrimRight(s, " \t"), " ")
}
