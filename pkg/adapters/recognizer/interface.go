package recognizer

import "context"

// Result is one recognized utterance.
type Result struct {
	Transcript string
	Final      bool
}

// Recognizer defines the contract for any speech-capture implementation.
// The application consumes Results only; audio acquisition is owned by the
// implementation (or fed to it by whoever owns the capture device).
type Recognizer interface {
	// Name returns adapter name for logging.
	Name() string
	// Start initializes the recognition connection.
	Start(ctx context.Context) error
	// Stop shuts down the recognition connection.
	Stop() error
	// Results returns a channel of recognition results.
	Results() <-chan Result
}

// Config contains vendor-agnostic recognizer configuration.
type Config struct {
	Language   string
	SampleRate int
	Interim    bool
}
