// Package watch monitors a settings file for external changes.
//
// Editors usually replace a file on save instead of writing it in place, so
// the monitor watches the file's parent directory and filters events down to
// the target path. Rapid bursts of write and create events are coalesced and
// delivered as a single event once the file has been quiet for the debounce
// interval.
package watch

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

var errEventDropped = errors.New("event channel full, dropping event")

// Op represents the operations observed on the settings file. Coalescing may
// combine several operations into one value.
type Op uint32

const (
	// OpCreate indicates the file was created or replaced.
	OpCreate Op = 1 << iota
	// OpWrite indicates the file was written in place.
	OpWrite
	// OpRemove indicates the file was deleted.
	OpRemove
	// OpRename indicates the file was renamed away.
	OpRename
)

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// String returns the operation names joined with "|".
func (op Op) String() string {
	if op == 0 {
		return "none"
	}
	names := make([]string, 0, 4)
	if op.Has(OpCreate) {
		names = append(names, "create")
	}
	if op.Has(OpWrite) {
		names = append(names, "write")
	}
	if op.Has(OpRemove) {
		names = append(names, "remove")
	}
	if op.Has(OpRename) {
		names = append(names, "rename")
	}
	return strings.Join(names, "|")
}

// Event represents a coalesced change to the settings file.
type Event struct {
	// Path is the absolute path of the settings file.
	Path string

	// Op is the combined set of operations observed during the quiet window.
	Op Op

	// Time is when the last underlying operation was observed.
	Time time.Time
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithDebounce sets the quiet interval before a coalesced event is delivered.
func WithDebounce(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.delay = d
		}
	}
}

// WithBufferSize sets the event and error channel capacity.
func WithBufferSize(size int) Option {
	return func(m *Monitor) {
		if size > 0 {
			m.bufSize = size
		}
	}
}

// Monitor watches a single settings file through its parent directory.
type Monitor struct {
	path string
	dir  string

	watcher *fsnotify.Watcher
	delay   time.Duration
	bufSize int

	events chan Event
	errors chan error

	mu      sync.Mutex
	pending *pendingEvent
	closed  bool

	fireCh  chan struct{}
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// pendingEvent accumulates operations until the debounce timer fires.
type pendingEvent struct {
	ops   Op
	time  time.Time
	timer *time.Timer
}

// NewMonitor starts monitoring the settings file at path. The file itself may
// not exist yet; its directory must.
func NewMonitor(path string, opts ...Option) (*Monitor, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	m := &Monitor{
		path:    absPath,
		dir:     filepath.Dir(absPath),
		delay:   100 * time.Millisecond,
		bufSize: 16,
		fireCh:  make(chan struct{}, 1),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.events = make(chan Event, m.bufSize)
	m.errors = make(chan error, m.bufSize)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(m.dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	m.watcher = fsw

	m.wg.Add(1)
	go m.processLoop()

	return m, nil
}

// Path returns the absolute path of the monitored file.
func (m *Monitor) Path() string {
	return m.path
}

// Events returns the coalesced event channel. It is closed by Close.
func (m *Monitor) Events() <-chan Event {
	return m.events
}

// Errors returns the error channel. It is closed by Close.
func (m *Monitor) Errors() <-chan error {
	return m.errors
}

// Close stops the monitor and closes its channels. Safe to call more than once.
func (m *Monitor) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	if m.pending != nil {
		m.pending.timer.Stop()
		m.pending = nil
	}
	close(m.closeCh)
	m.mu.Unlock()

	m.wg.Wait()

	close(m.events)
	close(m.errors)

	return m.watcher.Close()
}

// processLoop owns delivery: only this goroutine sends on the event channel,
// so Close can safely close it after the loop exits.
func (m *Monitor) processLoop() {
	defer m.wg.Done()

	for {
		select {
		case <-m.closeCh:
			return

		case <-m.fireCh:
			m.deliver()

		case fsEvent, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			m.handleFSEvent(fsEvent)

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.sendError(err)
		}
	}
}

// handleFSEvent filters directory events down to the target file and queues
// the operation for debounced delivery.
func (m *Monitor) handleFSEvent(fsEvent fsnotify.Event) {
	if filepath.Clean(fsEvent.Name) != m.path {
		return
	}

	op := convertOp(fsEvent.Op)
	if op == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	now := time.Now()
	if p := m.pending; p != nil {
		p.ops |= op
		p.time = now
		p.timer.Reset(m.delay)
		return
	}

	p := &pendingEvent{ops: op, time: now}
	p.timer = time.AfterFunc(m.delay, m.signal)
	m.pending = p
}

// signal runs on the timer goroutine. It only pokes the process loop; the
// loop performs the delivery.
func (m *Monitor) signal() {
	select {
	case m.fireCh <- struct{}{}:
	default:
	}
}

// deliver sends the accumulated event, dropping it if the channel is full.
func (m *Monitor) deliver() {
	m.mu.Lock()
	p := m.pending
	m.pending = nil
	m.mu.Unlock()

	if p == nil {
		return
	}

	event := Event{Path: m.path, Op: p.ops, Time: p.time}
	select {
	case m.events <- event:
	default:
		m.sendError(errEventDropped)
	}
}

// sendError forwards an error without blocking.
func (m *Monitor) sendError(err error) {
	select {
	case m.errors <- err:
	default:
	}
}

// convertOp maps fsnotify operations onto Op. Permission changes don't alter
// content and are ignored.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}
