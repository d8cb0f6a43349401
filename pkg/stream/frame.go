package stream

// Kind discriminates the decoded frame variants.
type Kind string

const (
	KindDelta      Kind = "delta"
	KindCompletion Kind = "completion"
)

// Source is a citation attached to a completed reply.
type Source struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Domain string `json:"domain"`
}

// Frame is one decoded unit from the reply stream.
type Frame interface {
	Kind() Kind
}

// DeltaFrame carries an incremental text fragment of the in-progress reply.
type DeltaFrame struct {
	text string
}

func NewDeltaFrame(text string) DeltaFrame {
	return DeltaFrame{text: text}
}

func (d DeltaFrame) Kind() Kind   { return KindDelta }
func (d DeltaFrame) Text() string { return d.text }

// CompletionFrame is the terminal stream event carrying the authoritative
// final text and any citation sources.
type CompletionFrame struct {
	fullText string
	sources  []Source
}

func NewCompletionFrame(fullText string, sources []Source) CompletionFrame {
	return CompletionFrame{fullText: fullText, sources: sources}
}

func (c CompletionFrame) Kind() Kind       { return KindCompletion }
func (c CompletionFrame) FullText() string { return c.fullText }

func (c CompletionFrame) Sources() []Source {
	out := make([]Source, len(c.sources))
	copy(out, c.sources)
	return out
}
