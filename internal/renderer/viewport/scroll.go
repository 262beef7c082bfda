package viewport

// ScrollToTop scrolls to the first line.
func (v *Viewport) ScrollToTop() bool {
	return v.SetScrollTop(0)
}

// PageDown scrolls down by one screen, keeping two lines of overlap.
func (v *Viewport) PageDown() bool {
	return v.ScrollBy(v.pageSize())
}

// PageUp scrolls up by one screen, keeping two lines of overlap.
func (v *Viewport) PageUp() bool {
	return v.ScrollBy(-v.pageSize())
}

func (v *Viewport) pageSize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return max(v.linesOnScreen()-2, 1)
}
