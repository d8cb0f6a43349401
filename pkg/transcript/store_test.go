package transcript

import (
	"testing"

	"github.com/harunnryd/nexus/pkg/stream"
)

func TestAppendAndOpenOrdering(t *testing.T) {
	s := NewStore()
	s.Append(RoleUser, "Hello")
	h, err := s.Open(RoleAssistant)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if h.Index() != 1 {
		t.Fatalf("expected open entry at index 1, got %d", h.Index())
	}
	entries := s.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Role != RoleUser || entries[0].Text != "Hello" {
		t.Fatalf("unexpected user entry: %+v", entries[0])
	}
	if entries[1].Role != RoleAssistant || entries[1].Text != "" {
		t.Fatalf("unexpected assistant entry: %+v", entries[1])
	}
}

func TestSecondOpenRejectedWhileOpen(t *testing.T) {
	s := NewStore()
	h, err := s.Open(RoleAssistant)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.Open(RoleAssistant); err != ErrEntryOpen {
		t.Fatalf("expected ErrEntryOpen, got %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := s.Open(RoleAssistant); err != nil {
		t.Fatalf("open after close: %v", err)
	}
}

func TestCompleteSetsFinalTextAndSources(t *testing.T) {
	s := NewStore()
	h, _ := s.Open(RoleAssistant)
	if err := h.SetText("Hi "); err != nil {
		t.Fatalf("set text: %v", err)
	}
	srcs := []stream.Source{{Title: "X", URL: "http://x", Domain: "x.com"}}
	if err := h.Complete("Hi there!", srcs); err != nil {
		t.Fatalf("complete: %v", err)
	}
	e, err := s.Entry(h.Index())
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if e.Text != "Hi there!" {
		t.Fatalf("expected final text, got %q", e.Text)
	}
	if len(e.Sources) != 1 || e.Sources[0].Domain != "x.com" {
		t.Fatalf("unexpected sources: %+v", e.Sources)
	}
}

func TestAppendTextAccumulates(t *testing.T) {
	s := NewStore()
	h, _ := s.Open(RoleAssistant)
	_ = h.AppendText("Hi ")
	_ = h.AppendText("there!")
	e, _ := s.Entry(h.Index())
	if e.Text != "Hi there!" {
		t.Fatalf("expected accumulated text, got %q", e.Text)
	}
}

func TestClosedEntryRejectsMutation(t *testing.T) {
	s := NewStore()
	h, _ := s.Open(RoleAssistant)
	if err := h.Complete("done", nil); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := h.SetText("late"); err != ErrEntryClosed {
		t.Fatalf("expected ErrEntryClosed, got %v", err)
	}
	if err := h.Complete("again", nil); err != ErrEntryClosed {
		t.Fatalf("expected ErrEntryClosed, got %v", err)
	}
	e, _ := s.Entry(h.Index())
	if e.Text != "done" {
		t.Fatalf("closed entry mutated: %q", e.Text)
	}
}

func TestNotifyOrder(t *testing.T) {
	s := NewStore()
	var seen []int
	s.SetNotify(func(idx int) { seen = append(seen, idx) })

	s.Append(RoleUser, "q")
	h, _ := s.Open(RoleAssistant)
	_ = h.SetText("a")
	_ = h.SetText("ab")
	_ = h.Complete("ab", nil)

	want := []int{0, 1, 1, 1, 1}
	if len(seen) != len(want) {
		t.Fatalf("expected %d notifications, got %d", len(want), len(seen))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("notification %d: expected index %d, got %d", i, want[i], seen[i])
		}
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewStore()
	h, _ := s.Open(RoleAssistant)
	_ = h.Complete("x", []stream.Source{{Title: "t"}})
	snap := s.Entries()
	snap[0].Sources[0].Title = "mutated"
	e, _ := s.Entry(0)
	if e.Sources[0].Title != "t" {
		t.Fatalf("snapshot mutation leaked into store")
	}
}
