package transcript

import (
	"errors"
	"sync"
	"time"

	"github.com/harunnryd/nexus/pkg/stream"
)

// Role identifies who produced a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var (
	ErrEntryClosed  = errors.New("transcript entry is closed")
	ErrEntryOpen    = errors.New("another transcript entry is still open")
	ErrUnknownEntry = errors.New("unknown transcript entry")
)

// Entry is one user or assistant turn in the conversation.
type Entry struct {
	Role      Role
	Text      string
	CreatedAt time.Time
	Sources   []stream.Source
}

type record struct {
	entry Entry
	open  bool
}

// Store holds the ordered conversation transcript. At most one entry is open
// (mutable) at a time; closed entries never change again.
type Store struct {
	mu      sync.Mutex
	records []record
	openIdx int
	notify  func(index int)
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		openIdx: -1,
		now:     time.Now,
	}
}

// SetNotify registers a callback invoked after every mutation with the index
// of the changed entry. Calls arrive in mutation order.
func (s *Store) SetNotify(fn func(index int)) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

// Append adds a closed entry and returns its index.
func (s *Store) Append(role Role, text string) int {
	s.mu.Lock()
	s.records = append(s.records, record{entry: Entry{
		Role:      role,
		Text:      text,
		CreatedAt: s.now(),
	}})
	idx := len(s.records) - 1
	fn := s.notify
	s.mu.Unlock()
	if fn != nil {
		fn(idx)
	}
	return idx
}

// Open appends a mutable entry and returns a handle to it. It fails while a
// previously opened entry has not been closed yet.
func (s *Store) Open(role Role) (*Handle, error) {
	s.mu.Lock()
	if s.openIdx >= 0 {
		s.mu.Unlock()
		return nil, ErrEntryOpen
	}
	s.records = append(s.records, record{
		entry: Entry{Role: role, CreatedAt: s.now()},
		open:  true,
	})
	idx := len(s.records) - 1
	s.openIdx = idx
	fn := s.notify
	s.mu.Unlock()
	if fn != nil {
		fn(idx)
	}
	return &Handle{store: s, index: idx}, nil
}

// Entries returns a snapshot of the transcript.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.records))
	for i, r := range s.records {
		out[i] = cloneEntry(r.entry)
	}
	return out
}

// Entry returns a snapshot of a single entry.
func (s *Store) Entry(index int) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.records) {
		return Entry{}, ErrUnknownEntry
	}
	return cloneEntry(s.records[index].entry), nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func cloneEntry(e Entry) Entry {
	if len(e.Sources) > 0 {
		srcs := make([]stream.Source, len(e.Sources))
		copy(srcs, e.Sources)
		e.Sources = srcs
	}
	return e
}

// Handle mutates the single open entry. Once the entry is closed the handle
// becomes inert and every mutation fails.
type Handle struct {
	store *Store
	index int
}

// Index returns the entry position in the transcript.
func (h *Handle) Index() int { return h.index }

// AppendText appends a fragment to the open entry's text.
func (h *Handle) AppendText(fragment string) error {
	return h.mutate(func(e *Entry) {
		e.Text += fragment
	}, false)
}

// SetText overwrites the open entry's text.
func (h *Handle) SetText(text string) error {
	return h.mutate(func(e *Entry) {
		e.Text = text
	}, false)
}

// Complete sets the authoritative final text, attaches sources when present,
// and closes the entry.
func (h *Handle) Complete(fullText string, sources []stream.Source) error {
	return h.mutate(func(e *Entry) {
		e.Text = fullText
		if len(sources) > 0 {
			e.Sources = append([]stream.Source(nil), sources...)
		}
	}, true)
}

// CloseWithText overwrites the text and closes the entry. Used for the
// transport-failure path.
func (h *Handle) CloseWithText(text string) error {
	return h.mutate(func(e *Entry) {
		e.Text = text
	}, true)
}

// Close closes the entry leaving whatever text has accumulated.
func (h *Handle) Close() error {
	return h.mutate(nil, true)
}

func (h *Handle) mutate(apply func(*Entry), closeEntry bool) error {
	h.store.mu.Lock()
	if h.index < 0 || h.index >= len(h.store.records) {
		h.store.mu.Unlock()
		return ErrUnknownEntry
	}
	rec := &h.store.records[h.index]
	if !rec.open {
		h.store.mu.Unlock()
		return ErrEntryClosed
	}
	if apply != nil {
		apply(&rec.entry)
	}
	if closeEntry {
		rec.open = false
		h.store.openIdx = -1
	}
	fn := h.store.notify
	h.store.mu.Unlock()
	if fn != nil {
		fn(h.index)
	}
	return nil
}
