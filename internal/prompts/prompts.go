// Package prompts holds the reflection prompts offered with each entry.
package prompts

import "math/rand/v2"

var catalogue = []string{
	"What was one small moment that brought you peace today?",
	"Think of someone you're thankful for — why?",
	"Describe a challenge today that turned out better than expected.",
}

// All returns every prompt.
func All() []string {
	return append([]string(nil), catalogue...)
}

// Picker hands out prompts at random.
type Picker struct {
	rng *rand.Rand
}

// NewPicker returns a Picker seeded from the runtime's random source.
func NewPicker() *Picker {
	return &Picker{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededPicker returns a deterministic Picker.
func NewSeededPicker(seed uint64) *Picker {
	return &Picker{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Pick returns a random prompt.
func (p *Picker) Pick() string {
	return catalogue[p.rng.IntN(len(catalogue))]
}

// Regenerate returns a random prompt different from current.
func (p *Picker) Regenerate(current string) string {
	if len(catalogue) < 2 {
		return p.Pick()
	}
	for {
		next := p.Pick()
		if next != current {
			return next
		}
	}
}
