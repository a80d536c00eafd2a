package console

// Modal is one entry on the dialog stack: a detail view, a wallet form, a
// confirmation prompt. Payload is owned by whoever pushed the entry and is
// returned untouched when the entry becomes visible again.
type Modal struct {
	Kind    string
	Payload any
}

// ModalStack is a LIFO of open dialogs. Opening a dialog pushes; the new
// entry hides but never discards the one beneath it. Closing pops and
// restores the previous entry exactly as it was left.
type ModalStack struct {
	stack []Modal
}

// Push opens a dialog on top of the stack.
func (s *ModalStack) Push(m Modal) {
	s.stack = append(s.stack, m)
}

// Pop closes the top dialog, returning it. ok is false when the stack was
// already empty.
func (s *ModalStack) Pop() (m Modal, ok bool) {
	if len(s.stack) == 0 {
		return Modal{}, false
	}
	m = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return m, true
}

// Current returns the visible dialog without closing it.
func (s *ModalStack) Current() (Modal, bool) {
	if len(s.stack) == 0 {
		return Modal{}, false
	}
	return s.stack[len(s.stack)-1], true
}

// Depth returns how many dialogs are open.
func (s *ModalStack) Depth() int {
	return len(s.stack)
}

// Resolve closes the top dialog and returns the restored parent, if any.
// refresh is true only when the dialog was resolved by a successful submit,
// telling the caller to re-fetch the parent's data; a cancel restores the
// parent without any side effect.
func (s *ModalStack) Resolve(submitted bool) (parent Modal, hasParent bool, refresh bool) {
	if _, ok := s.Pop(); !ok {
		return Modal{}, false, false
	}
	parent, hasParent = s.Current()
	return parent, hasParent, submitted
}
