package stream

import (
	"bytes"
	"encoding/json"
	"io"
)

const dataPrefix = "data: "

// Decoder incrementally decodes a server-sent-event byte stream into frames.
//
// Each logical event is a line of the form "data: <JSON>\n". Lines may arrive
// split across reads; an incomplete trailing line is buffered and completed by
// the next read, so no frame is lost on a chunk boundary. Lines that are not
// valid JSON, or whose payload carries neither a chunk nor a done marker, are
// skipped without terminating the stream.
type Decoder struct {
	r       io.Reader
	buf     []byte
	pending []byte
	eof     bool
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:   r,
		buf: make([]byte, 4096),
	}
}

// Next returns the next decoded frame. It returns io.EOF once the underlying
// stream is exhausted, and any other read error verbatim.
func (d *Decoder) Next() (Frame, error) {
	for {
		if f, ok := d.nextBuffered(); ok {
			return f, nil
		}
		if d.eof {
			// A final line without a trailing newline is still a complete
			// event once the stream ends.
			if f, ok := d.parseLine(d.pending); ok {
				d.pending = nil
				return f, nil
			}
			return nil, io.EOF
		}
		n, err := d.r.Read(d.buf)
		if n > 0 {
			d.pending = append(d.pending, d.buf[:n]...)
		}
		if err == io.EOF {
			d.eof = true
			continue
		}
		if err != nil {
			return nil, err
		}
	}
}

func (d *Decoder) nextBuffered() (Frame, bool) {
	for {
		idx := bytes.IndexByte(d.pending, '\n')
		if idx < 0 {
			return nil, false
		}
		line := d.pending[:idx]
		d.pending = d.pending[idx+1:]
		if f, ok := d.parseLine(line); ok {
			return f, true
		}
	}
}

func (d *Decoder) parseLine(line []byte) (Frame, bool) {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if !bytes.HasPrefix(line, []byte(dataPrefix)) {
		return nil, false
	}
	var payload struct {
		Chunk    *string  `json:"chunk"`
		Done     bool     `json:"done"`
		FullText string   `json:"full_text"`
		Sources  []Source `json:"sources"`
	}
	if err := json.Unmarshal(line[len(dataPrefix):], &payload); err != nil {
		return nil, false
	}
	if payload.Done {
		return NewCompletionFrame(payload.FullText, payload.Sources), true
	}
	if payload.Chunk != nil {
		return NewDeltaFrame(*payload.Chunk), true
	}
	return nil, false
}
