package stream

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// chunkedReader returns one predefined chunk per Read call.
type chunkedReader struct {
	chunks []string
	pos    int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.chunks) {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[r.pos])
	r.pos++
	return n, nil
}

func collect(t *testing.T, d *Decoder) []Frame {
	t.Helper()
	var out []Frame
	for {
		f, err := d.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		out = append(out, f)
	}
}

func TestDecodeDeltasThenCompletion(t *testing.T) {
	body := "data: {\"chunk\":\"Hi \"}\n" +
		"data: {\"chunk\":\"there!\"}\n" +
		"data: {\"done\":true,\"full_text\":\"Hi there!\",\"sources\":[{\"title\":\"X\",\"url\":\"http://x\",\"domain\":\"x.com\"}]}\n"
	frames := collect(t, NewDecoder(strings.NewReader(body)))

	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	if got := frames[0].(DeltaFrame).Text(); got != "Hi " {
		t.Fatalf("expected first delta %q, got %q", "Hi ", got)
	}
	if got := frames[1].(DeltaFrame).Text(); got != "there!" {
		t.Fatalf("expected second delta %q, got %q", "there!", got)
	}
	done := frames[2].(CompletionFrame)
	if done.FullText() != "Hi there!" {
		t.Fatalf("expected full text %q, got %q", "Hi there!", done.FullText())
	}
	srcs := done.Sources()
	if len(srcs) != 1 || srcs[0].Title != "X" || srcs[0].URL != "http://x" || srcs[0].Domain != "x.com" {
		t.Fatalf("unexpected sources: %+v", srcs)
	}
}

func TestLineSplitAcrossReads(t *testing.T) {
	r := &chunkedReader{chunks: []string{
		"data: {\"ch",
		"unk\":\"hi\"}\n",
	}}
	frames := collect(t, NewDecoder(r))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if got := frames[0].(DeltaFrame).Text(); got != "hi" {
		t.Fatalf("expected delta %q, got %q", "hi", got)
	}
}

func TestMalformedLinesAreSkipped(t *testing.T) {
	body := "data: {not json}\n" +
		"data: {\"neither\":1}\n" +
		"event: noise\n" +
		"\n" +
		"data: {\"chunk\":\"ok\"}\n"
	frames := collect(t, NewDecoder(strings.NewReader(body)))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if got := frames[0].(DeltaFrame).Text(); got != "ok" {
		t.Fatalf("expected delta %q, got %q", "ok", got)
	}
}

func TestCRLFLines(t *testing.T) {
	body := "data: {\"chunk\":\"a\"}\r\ndata: {\"done\":true,\"full_text\":\"a\"}\r\n"
	frames := collect(t, NewDecoder(strings.NewReader(body)))
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[1].Kind() != KindCompletion {
		t.Fatalf("expected completion, got %s", frames[1].Kind())
	}
}

func TestTrailingLineWithoutNewline(t *testing.T) {
	body := "data: {\"chunk\":\"a\"}\ndata: {\"done\":true,\"full_text\":\"a\"}"
	frames := collect(t, NewDecoder(strings.NewReader(body)))
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[1].Kind() != KindCompletion {
		t.Fatalf("expected completion, got %s", frames[1].Kind())
	}
}

func TestStreamEndWithoutCompletion(t *testing.T) {
	body := "data: {\"chunk\":\"partial\"}\n"
	d := NewDecoder(strings.NewReader(body))
	f, err := d.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if f.Kind() != KindDelta {
		t.Fatalf("expected delta, got %s", f.Kind())
	}
	if _, err := d.Next(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) { return 0, errors.New("conn reset") }

func TestReadErrorPropagates(t *testing.T) {
	d := NewDecoder(failingReader{})
	if _, err := d.Next(); err == nil || err == io.EOF {
		t.Fatalf("expected read error, got %v", err)
	}
}
