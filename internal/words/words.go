// Package words supplies target words for new games.
package words

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
)

//go:embed words.txt
var defaultList string

// ErrNoWord is returned when no word has a length inside the requested range.
var ErrNoWord = errors.New("no word matches the requested length")

// List is an immutable set of candidate words grouped by length.
type List struct {
	byLength map[int][]string
	size     int
	shortest int
	longest  int

	mu  sync.Mutex
	rng *rand.Rand
}

// Default returns the embedded word list.
func Default() *List {
	l, err := Parse(strings.NewReader(defaultList))
	if err != nil {
		panic(fmt.Sprintf("embedded word list: %v", err))
	}
	return l
}

// Load reads a word list from path, or returns the embedded list when path is empty.
func Load(path string) (*List, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	l, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse word list %s: %w", path, err)
	}
	return l, nil
}

// Parse reads one word per line. Blank lines and lines starting with # are
// skipped; words are lowercased and must then be a-z only.
func Parse(r io.Reader) (*List, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if !isWord(w) {
			return nil, fmt.Errorf("line %d: %q is not a lowercase a-z word", line, w)
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return New(words...), nil
}

// New builds a list from words, dropping duplicates.
func New(words ...string) *List {
	l := &List{
		byLength: make(map[int][]string),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		n := len(w)
		l.byLength[n] = append(l.byLength[n], w)
		if l.size == 0 || n < l.shortest {
			l.shortest = n
		}
		if n > l.longest {
			l.longest = n
		}
		l.size++
	}
	return l
}

// Seed makes Pick deterministic.
func (l *List) Seed(a, b uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rng = rand.New(rand.NewPCG(a, b))
}

// Len returns the number of distinct words.
func (l *List) Len() int {
	return l.size
}

// Pick returns a random word whose length lies in [minLength, maxLength].
// Every candidate word is equally likely. The range is clamped to the
// lengths actually present, so its width does not affect the cost.
func (l *List) Pick(minLength, maxLength int) (string, error) {
	minLength = max(minLength, l.shortest)
	maxLength = min(maxLength, l.longest)

	var candidates []string
	for n := minLength; n <= maxLength; n++ {
		candidates = append(candidates, l.byLength[n]...)
	}
	if len(candidates) == 0 {
		return "", ErrNoWord
	}

	l.mu.Lock()
	i := l.rng.IntN(len(candidates))
	l.mu.Unlock()

	return candidates[i], nil
}

func isWord(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return s != ""
}
