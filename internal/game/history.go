package game

// History is the set of guesses submitted to a game. Membership checks are
// constant time; List returns guesses in submission order for display.
type History struct {
	order []string
	seen  map[string]struct{}
}

// NewHistory builds a history from previously stored guesses
func NewHistory(guesses ...string) *History {
	h := &History{
		order: make([]string, 0, len(guesses)),
		seen:  make(map[string]struct{}, len(guesses)),
	}
	for _, g := range guesses {
		h.Add(g)
	}
	return h
}

// Contains reports whether guess was already submitted
func (h *History) Contains(guess string) bool {
	_, ok := h.seen[guess]
	return ok
}

// Add records guess. It returns false if guess was already present.
func (h *History) Add(guess string) bool {
	if h.Contains(guess) {
		return false
	}
	h.seen[guess] = struct{}{}
	h.order = append(h.order, guess)
	return true
}

// List returns a copy of the guesses in submission order
func (h *History) List() []string {
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

// Len returns the number of distinct guesses
func (h *History) Len() int {
	return len(h.order)
}
