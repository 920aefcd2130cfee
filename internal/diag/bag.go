package diag

import "fortio.org/safecast"

// Bag collects diagnostics up to a fixed cap.
type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag returns a bag holding at most max diagnostics.
func NewBag(max int) *Bag {
	capped, err := safecast.Conv[uint16](max)
	if err != nil {
		capped = ^uint16(0)
	}
	return &Bag{
		items: make([]Diagnostic, 0, capped),
		max:   capped,
	}
}

// Add appends a diagnostic, observing the cap.
// Returns false when the diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether at least one diagnostic has Severity >= Error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a read-only view of the collected diagnostics.
// Do not modify the returned slice.
func (b *Bag) Items() []Diagnostic {
	return b.items
}
