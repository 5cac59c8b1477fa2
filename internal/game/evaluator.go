package game

// Placeholder marks a position of the target that has not been revealed yet
const Placeholder = '_'

// Blank returns a guess state with every position of target unrevealed
func Blank(target string) []rune {
	state := make([]rune, len([]rune(target)))
	for i := range state {
		state[i] = Placeholder
	}
	return state
}

// EvaluateLetter reveals every position of target that equals letter.
// The input state is not modified.
func EvaluateLetter(target string, state []rune, letter rune) []rune {
	next := make([]rune, len(state))
	copy(next, state)
	for i, r := range []rune(target) {
		if r == letter {
			next[i] = r
		}
	}
	return next
}

// EvaluateWord reveals every position where word agrees with target.
// Positions past the end of the shorter string are left as they are.
func EvaluateWord(target string, state []rune, word string) []rune {
	next := make([]rune, len(state))
	copy(next, state)
	t, w := []rune(target), []rune(word)
	for i := 0; i < len(t) && i < len(w); i++ {
		if t[i] == w[i] {
			next[i] = t[i]
		}
	}
	return next
}

// IsComplete reports whether state spells out target with nothing left hidden
func IsComplete(target string, state []rune) bool {
	return string(state) == target
}

func isLowerAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
