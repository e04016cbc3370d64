// Package names generates display names for cities, rivers and people.
// Names are cosmetic: the simulation only needs them to be non-empty.
package names

import (
	"fmt"
	"strings"

	"github.com/talgya/caravan-world/internal/entropy"
)

// Kind selects what a name is for.
type Kind string

const (
	City      Kind = "city"
	River     Kind = "river"
	FirstName Kind = "firstName"
	LastName  Kind = "lastName"
)

// ParseKind validates a kind string.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case City, River, FirstName, LastName:
		return k, nil
	}
	return "", fmt.Errorf("unknown name kind %q", s)
}

// Namer produces names of a given kind.
type Namer interface {
	Name(kind Kind) string
}

// Placeholder is the name used when no namer is available.
func Placeholder(kind Kind, id int) string {
	return fmt.Sprintf("%s-%d", kind, id)
}

// Generate asks n for a name, falling back to a placeholder built from id
// when n is nil or returns an empty string.
func Generate(n Namer, kind Kind, id int) string {
	if n != nil {
		if name := n.Name(kind); name != "" {
			return name
		}
	}
	return Placeholder(kind, id)
}

var (
	allOnsets = []string{
		"b", "br", "d", "dr", "f", "g", "gr", "h", "k", "kh", "l", "m", "n",
		"p", "r", "s", "sh", "st", "t", "th", "v", "w", "z", "",
	}
	allVowels = []string{"a", "e", "i", "o", "u", "ae", "ai", "ei", "ou", "y"}
	allCodas  = []string{"", "", "n", "r", "l", "s", "th", "m", "nd", "rk", "x"}

	citySuffixes = []string{
		"haven", "ford", "wick", "gate", "keep", "stead", "dale", "vale",
		"port", "bury", "well", "moor", "holm", "burg", "ton", "mar",
	}
	riverSuffixes = []string{"", "", "wash", "flow", "run", "water"}
)

// Language is a seeded phonology. Every nation gets its own, so the names of
// one nation share a sound. Generated names are unique within a language.
type Language struct {
	seed    int64
	rng     *entropy.Rand
	onsets  []string
	vowels  []string
	codas   []string
	endings []string
	used    map[string]bool
	name    string
}

// NewLanguage derives a phonology from seed.
func NewLanguage(seed int64) *Language {
	rng := entropy.New(seed)
	l := &Language{
		seed:    seed,
		rng:     rng,
		onsets:  subset(rng, allOnsets, 8),
		vowels:  subset(rng, allVowels, 4),
		codas:   subset(rng, allCodas, 4),
		endings: subset(rng, citySuffixes, 5),
		used:    make(map[string]bool),
	}
	l.name = capitalize(l.word(2, 3))
	return l
}

// Seed returns the seed the language was derived from.
func (l *Language) Seed() int64 {
	return l.seed
}

// Endonym is the language's name for its own people.
func (l *Language) Endonym() string {
	return l.name
}

// Name returns a fresh name of the given kind.
func (l *Language) Name(kind Kind) string {
	for i := 0; i < 100; i++ {
		name := l.compose(kind)
		if !l.used[name] {
			l.used[name] = true
			return name
		}
	}
	// Fallback: number the last attempt.
	name := fmt.Sprintf("%s %d", l.compose(kind), len(l.used))
	l.used[name] = true
	return name
}

func (l *Language) compose(kind Kind) string {
	switch kind {
	case City:
		base := l.word(1, 2)
		if l.rng.Intn(2) == 0 {
			base += l.endings[l.rng.Intn(len(l.endings))]
		}
		return capitalize(base)
	case River:
		return capitalize(l.word(1, 2) + riverSuffixes[l.rng.Intn(len(riverSuffixes))])
	case FirstName:
		return capitalize(l.word(1, 2))
	case LastName:
		return capitalize(l.word(2, 3))
	default:
		return capitalize(l.word(1, 3))
	}
}

func (l *Language) word(minSyl, maxSyl int) string {
	var b strings.Builder
	n := l.rng.IntBetween(minSyl, maxSyl)
	for i := 0; i < n; i++ {
		b.WriteString(l.onsets[l.rng.Intn(len(l.onsets))])
		b.WriteString(l.vowels[l.rng.Intn(len(l.vowels))])
		if i == n-1 || l.rng.Intn(3) == 0 {
			b.WriteString(l.codas[l.rng.Intn(len(l.codas))])
		}
	}
	return b.String()
}

// subset picks n distinct entries of items in random order.
func subset(rng *entropy.Rand, items []string, n int) []string {
	idx := rng.Perm(len(items))
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = items[idx[i]]
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
