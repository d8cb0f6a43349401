package audio

import (
	"errors"
	"testing"
)

type recordingSink struct {
	events []string
	failed bool
}

func (s *recordingSink) Play(clip Clip) error {
	if s.failed {
		return errors.New("device busy")
	}
	s.events = append(s.events, "play:"+clip.Format)
	return nil
}

func (s *recordingSink) Stop() {
	s.events = append(s.events, "stop")
}

func TestStartPreemptsPreviousClip(t *testing.T) {
	sink := &recordingSink{}
	p := NewPlayer(sink)

	if err := p.Start(Clip{Format: "mp3", Data: []byte{1}}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := p.Start(Clip{Format: "mp3", Data: []byte{2}}); err != nil {
		t.Fatalf("start second: %v", err)
	}

	want := []string{"play:mp3", "stop", "play:mp3"}
	if len(sink.events) != len(want) {
		t.Fatalf("expected events %v, got %v", want, sink.events)
	}
	for i := range want {
		if sink.events[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, sink.events)
		}
	}
}

func TestStopIdempotent(t *testing.T) {
	sink := &recordingSink{}
	p := NewPlayer(sink)
	p.Stop()
	if len(sink.events) != 0 {
		t.Fatalf("expected no sink calls, got %v", sink.events)
	}
	_ = p.Start(Clip{Format: "mp3"})
	p.Stop()
	p.Stop()
	want := []string{"play:mp3", "stop"}
	if len(sink.events) != len(want) {
		t.Fatalf("expected events %v, got %v", want, sink.events)
	}
	if p.Playing() {
		t.Fatalf("expected not playing after stop")
	}
}

func TestPlayErrorClearsSlot(t *testing.T) {
	sink := &recordingSink{failed: true}
	p := NewPlayer(sink)
	if err := p.Start(Clip{Format: "mp3"}); err == nil {
		t.Fatalf("expected play error")
	}
	if p.Playing() {
		t.Fatalf("expected slot empty after failed play")
	}
}
