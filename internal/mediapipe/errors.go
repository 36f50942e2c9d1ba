package mediapipe

import "fmt"

// Category classifies pipeline errors per their handling policy: a
// fatal error at any stage aborts the downstream buffer it feeds,
// which in turn propagates the abort to whatever stage reads from
// that buffer, all the way to the consumer.
type Category int

const (
	// CategoryStartup covers failures opening the input, probing
	// streams, or constructing codec/scale/resample contexts.
	CategoryStartup Category = iota
	// CategoryRuntime covers decode/scale/resample failures once the
	// pipeline is running.
	CategoryRuntime
	// CategoryTransient covers recoverable conditions a stage retries
	// on its own, such as astiav.ErrEagain.
	CategoryTransient
	// CategoryTiming covers PTS/timestamp mismatches the scaler and
	// resampler stages resolve by dropping, repeating, trimming, or
	// injecting silence rather than failing.
	CategoryTiming
	// CategorySubtitle covers subtitle decode/ingestion failures,
	// which never abort the video pipeline since subtitles are an
	// optional overlay.
	CategorySubtitle
)

func (c Category) String() string {
	switch c {
	case CategoryStartup:
		return "startup"
	case CategoryRuntime:
		return "runtime"
	case CategoryTransient:
		return "transient"
	case CategoryTiming:
		return "timing"
	case CategorySubtitle:
		return "subtitle"
	default:
		return "unknown"
	}
}

// StageError annotates an error with the stage and category it
// occurred in, so callers and logs can tell a startup failure in the
// demuxer from a runtime failure in the scaler without parsing
// strings.
type StageError struct {
	Stage    string
	Category Category
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Stage, e.Category, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with its originating stage and category.
func NewStageError(stage string, category Category, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Category: category, Err: err}
}
