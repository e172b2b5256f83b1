// Package render serializes a settings catalog into JSON text with
// comments, stamping the exact source range of every emitted element.
//
// The builder accumulates output line by line. Constructed with a line
// offset, it records all ranges in the global numbering of the
// destination buffer, which lets a rendered block be spliced into an
// existing document without renumbering it.
package render

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tidwall/pretty"

	"github.com/dshills/prefsdoc/internal/settings"
	"github.com/dshills/prefsdoc/internal/textdoc"
)

const indentUnit = "  "

// Builder accumulates settings-document text. Pushing a group mutates
// the group's settings in place, stamping the ranges each element was
// written at.
type Builder struct {
	lineOffset int
	lines      []string
}

// NewBuilder returns a builder whose first emitted line will carry the
// global line number lineOffset+1. Pass 0 when building a whole
// document.
func NewBuilder(lineOffset int) *Builder {
	return &Builder{lineOffset: lineOffset}
}

// PushLine appends raw lines verbatim.
func (b *Builder) PushLine(lines ...string) {
	b.lines = append(b.lines, lines...)
}

// LineCount reports the number of lines emitted so far.
func (b *Builder) LineCount() int {
	return len(b.lines)
}

// Content returns the accumulated text.
func (b *Builder) Content() string {
	return strings.Join(b.lines, "\n")
}

// ContentPadded returns the accumulated text extended with trailing
// blank lines until it spans at least minLines lines.
func (b *Builder) ContentPadded(minLines int) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(b.lines, "\n"))
	for i := len(b.lines); i < minLines; i++ {
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PushGroups emits groups wrapped in a single object literal, a blank
// line before each group, and strips the separator from the last
// emitted setting so no dangling comma precedes the closing brace.
func (b *Builder) PushGroups(groups []*settings.Group) {
	b.pushGroups(groups, 0)
}

// PushGroupsPadded behaves like PushGroups and additionally pads with
// blank lines before the closing brace until the builder spans at least
// minLines lines, so a block spliced after this one starts at a fixed
// line.
func (b *Builder) PushGroupsPadded(groups []*settings.Group, minLines int) {
	b.pushGroups(groups, minLines)
}

func (b *Builder) pushGroups(groups []*settings.Group, minLines int) {
	b.push("{")
	var last *settings.Setting
	for _, g := range groups {
		if n := len(b.lines); n == 0 || b.lines[n-1] != "" {
			b.push("")
		}
		if s := b.pushGroup(g); s != nil {
			last = s
		}
	}
	b.stripTrailingComma(last)
	if last != nil && len(groups) > 0 {
		g := groups[len(groups)-1]
		if g.Range.End.Line == last.Range.End.Line {
			g.Range.End.Column = last.Range.End.Column
		}
	}
	if n := len(b.lines); n > 0 && b.lines[n-1] == "" {
		b.lines = b.lines[:n-1]
	}
	for len(b.lines)+1 < minLines {
		b.push("")
	}
	b.push("}")
}

// pushGroup emits one group's title, sections, and settings, stamps the
// group's range, and returns the last setting written.
func (b *Builder) pushGroup(g *settings.Group) *settings.Setting {
	startLine := b.absLine() + 1
	if g.Title != "" {
		b.push(indentUnit + "// " + g.Title)
		n := b.absLine()
		g.TitleRange = textdoc.NewRange(n, len(indentUnit)+1, n, len(b.lastLine())+1)
	}
	var last *settings.Setting
	for _, sec := range g.Sections {
		if sec.Title != "" {
			b.push(indentUnit + "// " + sec.Title)
			n := b.absLine()
			sec.TitleRange = textdoc.NewRange(n, len(indentUnit)+1, n, len(b.lastLine())+1)
		}
		for _, s := range sec.Settings {
			b.pushSetting(s, indentUnit)
			last = s
		}
	}
	endLine := b.absLine()
	if endLine > startLine && b.lastLine() == "" {
		endLine--
	}
	if endLine < startLine {
		endLine = startLine
	}
	g.Range = textdoc.NewRange(startLine, 1, endLine, b.lineLen(endLine)+1)
	return last
}

// pushSetting writes one entry: description comments, the quoted key,
// the rendered value, a trailing separator, and a blank break line. The
// entry's ranges are stamped exactly as written.
func (b *Builder) pushSetting(s *settings.Setting, indent string) {
	s.DescriptionRanges = nil
	for _, d := range s.Description {
		b.push(indent + "// " + d)
		n := b.absLine()
		s.DescriptionRanges = append(s.DescriptionRanges,
			textdoc.NewRange(n, len(indent)+1, n, len(b.lastLine())+1))
	}

	key := string(marshalValue(s.Key))
	keyLine := b.absLine() + 1
	s.KeyRange = textdoc.NewRange(keyLine, len(indent)+1, keyLine, len(indent)+1+len(key))
	start := textdoc.Position{Line: keyLine, Column: len(indent) + 1}
	if len(s.DescriptionRanges) > 0 {
		start = s.DescriptionRanges[0].Start
	}
	head := indent + key + ": "

	if len(s.Overrides) > 0 {
		b.push(head + "{")
		s.ValueRange = textdoc.Range{Start: textdoc.Position{Line: keyLine, Column: len(head) + 1}}
		var last *settings.Setting
		for _, o := range s.Overrides {
			b.pushSetting(o, indent+indentUnit)
			last = o
		}
		b.stripTrailingComma(last)
		if n := len(b.lines); n > 0 && b.lines[n-1] == "" {
			b.lines = b.lines[:n-1]
		}
		b.push(indent + "}")
		s.ValueRange.End = textdoc.Position{Line: b.absLine(), Column: len(indent) + 2}
	} else {
		vlines := renderValue(s.Value, indent)
		b.push(head + vlines[0])
		b.PushLine(vlines[1:]...)
		s.ValueRange = textdoc.Range{
			Start: textdoc.Position{Line: keyLine, Column: len(head) + 1},
			End:   textdoc.Position{Line: b.absLine(), Column: len(b.lastLine()) + 1},
		}
	}

	b.lines[len(b.lines)-1] += ","
	s.Range = textdoc.Range{
		Start: start,
		End:   textdoc.Position{Line: b.absLine(), Column: len(b.lastLine()) + 1},
	}
	b.push("")
}

// stripTrailingComma removes the separator ending the given setting's
// last line and pulls the setting's range back over it.
func (b *Builder) stripTrailingComma(s *settings.Setting) {
	if s == nil {
		return
	}
	idx := s.Range.End.Line - b.lineOffset - 1
	if idx < 0 || idx >= len(b.lines) {
		return
	}
	if line := b.lines[idx]; strings.HasSuffix(line, ",") {
		b.lines[idx] = strings.TrimSuffix(line, ",")
		s.Range.End.Column--
	}
}

func (b *Builder) push(line string) {
	b.lines = append(b.lines, line)
}

// absLine is the global line number of the last emitted line.
func (b *Builder) absLine() int {
	return b.lineOffset + len(b.lines)
}

func (b *Builder) lastLine() string {
	if len(b.lines) == 0 {
		return ""
	}
	return b.lines[len(b.lines)-1]
}

func (b *Builder) lineLen(absLine int) int {
	idx := absLine - b.lineOffset - 1
	if idx < 0 || idx >= len(b.lines) {
		return 0
	}
	return len(b.lines[idx])
}

// renderValue stringifies a value for emission. Compound values are
// pretty-printed with continuation lines indented to the current
// nesting level; the first line is returned bare so it can continue the
// key line.
func renderValue(v any, indent string) []string {
	raw := marshalValue(v)
	if len(raw) == 0 || (raw[0] != '{' && raw[0] != '[') {
		return []string{string(raw)}
	}
	out := pretty.PrettyOptions(raw, &pretty.Options{
		Width:  80,
		Prefix: indent,
		Indent: indentUnit,
	})
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	lines[0] = strings.TrimPrefix(lines[0], indent)
	return lines
}

func marshalValue(v any) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return []byte("null")
	}
	return bytes.TrimRight(buf.Bytes(), "\n")
}
