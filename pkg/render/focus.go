package render

// FocusTrap keeps keyboard focus cycling inside a modal. Elements are
// identified by name; the trigger receives focus back on Close.
type FocusTrap struct {
	trigger  string
	elements []string
	current  int
}

// NewFocusTrap focuses the first element. A trap without elements keeps
// focus on the trigger.
func NewFocusTrap(trigger string, elements ...string) *FocusTrap {
	return &FocusTrap{trigger: trigger, elements: elements}
}

// Focused returns the element that currently has focus.
func (f *FocusTrap) Focused() string {
	if len(f.elements) == 0 {
		return f.trigger
	}
	return f.elements[f.current]
}

// Next moves focus like Tab (or Shift+Tab when shift is set), wrapping from
// the last element to the first and the other way round.
func (f *FocusTrap) Next(shift bool) string {
	n := len(f.elements)
	if n == 0 {
		return f.trigger
	}
	if shift {
		f.current = (f.current - 1 + n) % n
	} else {
		f.current = (f.current + 1) % n
	}
	return f.elements[f.current]
}

// Focus moves focus to a named element inside the trap. Unknown names are
// ignored and false is returned.
func (f *FocusTrap) Focus(name string) bool {
	for i, e := range f.elements {
		if e == name {
			f.current = i
			return true
		}
	}
	return false
}

// Close releases the trap and returns the element that regains focus.
func (f *FocusTrap) Close() string {
	f.current = 0
	return f.trigger
}
