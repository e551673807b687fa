package widget

// Session holds the per-instance initialized flag.
type Session struct {
	initialized bool
}

// Begin marks the session initialized and reports whether this call did it.
// Only the caller that gets true binds handlers and starts the first loads.
func (s *Session) Begin() bool {
	if s.initialized {
		return false
	}
	s.initialized = true
	return true
}

// Reset clears the flag so the next Begin re-initializes.
func (s *Session) Reset() {
	s.initialized = false
}

func (s *Session) Initialized() bool {
	return s.initialized
}
