// Package textdoc provides the text-document side of the settings model:
// 1-based positions and ranges, and an in-memory document with a line
// index, offset/position conversion, and atomic range replacement.
//
// The document is deliberately a plain snapshot rather than an editing
// engine. Settings files are small; a line-start table over the full
// content keeps every conversion O(log n) and every replacement a single
// string splice.
package textdoc

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Errors returned by document operations.
var (
	// ErrDocumentClosed indicates an edit was attempted on a closed document.
	ErrDocumentClosed = errors.New("document is closed")

	// ErrLineOutOfRange indicates a line-based edit addressed a line outside
	// the document.
	ErrLineOutOfRange = errors.New("line out of range")
)

// Document is an in-memory text document. All methods are safe for
// concurrent use. Change listeners are invoked after every successful
// content mutation, outside the document lock.
type Document struct {
	mu         sync.RWMutex
	id         string
	content    string
	lineStarts []int
	version    int
	closed     bool

	listeners map[uint64]func()
	nextID    uint64
}

// NewDocument creates a document with the given initial content.
func NewDocument(content string) *Document {
	d := &Document{
		id:        uuid.NewString(),
		listeners: make(map[uint64]func()),
	}
	d.content = content
	d.lineStarts = computeLineStarts(content)
	return d
}

// computeLineStarts returns the byte offset of every line start.
// A document always has at least one line.
func computeLineStarts(s string) []int {
	starts := make([]int, 1, strings.Count(s, "\n")+1)
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// ID returns the document's unique identifier.
func (d *Document) ID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.id
}

// Content returns the full document text.
func (d *Document) Content() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.content
}

// Version returns the current content version. It increases by one on
// every successful mutation.
func (d *Document) Version() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lineStarts)
}

// Line returns the text of the 1-based line n without its trailing
// newline. Out-of-range lines return the empty string.
func (d *Document) Line(n int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if n < 1 || n > len(d.lineStarts) {
		return ""
	}
	start := d.lineStarts[n-1]
	end := len(d.content)
	if n < len(d.lineStarts) {
		end = d.lineStarts[n] - 1
	}
	return d.content[start:end]
}

// OffsetToPosition converts a 0-based byte offset into a 1-based
// line/column position. Offsets outside the content are clamped.
func (d *Document) OffsetToPosition(offset int) Position {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.offsetToPosition(offset)
}

func (d *Document) offsetToPosition(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.content) {
		offset = len(d.content)
	}
	// First line whose start is past the offset; the offset's line is the
	// one before it.
	idx := sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > offset
	}) - 1
	return Position{Line: idx + 1, Column: offset - d.lineStarts[idx] + 1}
}

// PositionToOffset converts a 1-based position into a 0-based byte
// offset. Positions outside the content are clamped.
func (d *Document) PositionToOffset(p Position) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.positionToOffset(p)
}

func (d *Document) positionToOffset(p Position) int {
	if p.Line < 1 {
		return 0
	}
	if p.Line > len(d.lineStarts) {
		return len(d.content)
	}
	start := d.lineStarts[p.Line-1]
	end := len(d.content)
	if p.Line < len(d.lineStarts) {
		end = d.lineStarts[p.Line] - 1
	}
	offset := start + p.Column - 1
	if offset < start {
		return start
	}
	if offset > end {
		return end
	}
	return offset
}

// SetContent replaces the entire document content.
func (d *Document) SetContent(content string) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDocumentClosed
	}
	d.content = content
	d.lineStarts = computeLineStarts(content)
	d.version++
	listeners := d.snapshotListeners()
	d.mu.Unlock()

	notify(listeners)
	return nil
}

// ReplaceLineRange atomically replaces the lineCount lines starting at the
// 1-based startLine with text. The replacement text is a block of lines
// joined by newlines; a trailing newline is supplied when lines follow the
// replaced region.
func (d *Document) ReplaceLineRange(startLine, lineCount int, text string) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDocumentClosed
	}
	if startLine < 1 || startLine > len(d.lineStarts) || lineCount < 0 {
		d.mu.Unlock()
		return ErrLineOutOfRange
	}

	start := d.lineStarts[startLine-1]
	endLine := startLine - 1 + lineCount
	end := len(d.content)
	if endLine < len(d.lineStarts) {
		end = d.lineStarts[endLine]
	}

	insert := text
	if end < len(d.content) && !strings.HasSuffix(insert, "\n") {
		insert += "\n"
	}

	d.content = d.content[:start] + insert + d.content[end:]
	d.lineStarts = computeLineStarts(d.content)
	d.version++
	listeners := d.snapshotListeners()
	d.mu.Unlock()

	notify(listeners)
	return nil
}

// ReplaceRange atomically replaces the text covered by r with text.
func (d *Document) ReplaceRange(r Range, text string) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDocumentClosed
	}
	start := d.positionToOffset(r.Start)
	end := d.positionToOffset(r.End)
	if end < start {
		start, end = end, start
	}
	d.content = d.content[:start] + text + d.content[end:]
	d.lineStarts = computeLineStarts(d.content)
	d.version++
	listeners := d.snapshotListeners()
	d.mu.Unlock()

	notify(listeners)
	return nil
}

// OnChange registers a callback invoked after every content mutation.
// The returned function removes the registration.
func (d *Document) OnChange(fn func()) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.listeners[id] = fn

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, id)
	}
}

// Close marks the document as closed. Further edits fail and models
// treat the document as yielding empty parse results. Close is
// idempotent.
func (d *Document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}

// IsClosed returns whether the document has been closed.
func (d *Document) IsClosed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.closed
}

// snapshotListeners copies the listener set. Callers must hold d.mu.
func (d *Document) snapshotListeners() []func() {
	if len(d.listeners) == 0 {
		return nil
	}
	fns := make([]func(), 0, len(d.listeners))
	for _, fn := range d.listeners {
		fns = append(fns, fn)
	}
	return fns
}

func notify(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
