package viewport

// MarginConfig is how many lines beyond the screen are kept tokenized.
type MarginConfig struct {
	Up   int // lines kept above the first line on screen
	Down int // lines kept below the last line on screen
}

// DefaultMargins returns 20 lines each way.
func DefaultMargins() MarginConfig {
	return MarginConfig{Up: 20, Down: 20}
}

// NoMargins returns zero margins, so only lines on screen are kept.
func NoMargins() MarginConfig {
	return MarginConfig{}
}

// SetMargins replaces the margins and recomputes the window.
// Negative values are treated as zero.
func (v *Viewport) SetMargins(m MarginConfig) Range {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.margins = MarginConfig{Up: max(m.Up, 0), Down: max(m.Down, 0)}
	return v.rewindow()
}

// Margins returns the current margins.
func (v *Viewport) Margins() MarginConfig {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.margins
}
