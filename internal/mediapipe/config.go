package mediapipe

// Config holds the recognised pipeline options from spec §6.2. It is
// plain data: the owning internal/config package layers this under
// YAML defaults and CLI flag overrides before passing it to Open.
type Config struct {
	ActiveWidth int
	ActiveLines int

	FrameRateNum int
	FrameRateDen int
	Interlace    bool

	Audio bool

	// Position is a seek offset, in minutes, applied at Open.
	Position int

	// Letterbox and Pillarbox are mutually exclusive; both false means
	// widescreen sources are fit to the target by scale/pad (PadFit).
	Letterbox bool
	Pillarbox bool

	Downmix bool
	Volume  float64

	Logo        bool
	Timestamp   bool
	Subtitles   bool
	TxSubtitles bool
}

// DefaultConfig returns hacktv's own defaults: 25fps 4:3 progressive
// PAL-shaped output with audio enabled and no overlays.
func DefaultConfig() Config {
	return Config{
		ActiveWidth:  922,
		ActiveLines:  576,
		FrameRateNum: 25,
		FrameRateDen: 1,
		Interlace:    false,
		Audio:        true,
		Volume:       1.0,
	}
}

// videoTimeBaseDenominator returns the output time base denominator
// for this config, doubled when the output is interlaced so the
// consumer sees a field-rate stream of progressive frames rather than
// true interlaced fields (spec §9's resolved open question).
func (c Config) videoTimeBaseDenominator() int {
	den := c.FrameRateNum
	if c.Interlace {
		den *= 2
	}
	return den
}
