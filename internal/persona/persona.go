// Package persona holds the static character definition: the system prompt
// and a bounded, shuffleable table of biographical facts.
package persona

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// samplePool bounds how many facts form the shuffle pool.
	samplePool = 8
	// sampleSize bounds how many facts appear in one prompt.
	sampleSize = 5
)

// Store exposes the persona prompt and fact table. Immutable after New.
type Store struct {
	prompt string
	facts  []string
}

// factsFile is the optional YAML override for the built-in fact table.
type factsFile struct {
	Prompt string   `yaml:"prompt"`
	Facts  []string `yaml:"facts"`
}

// New returns a store backed by the built-in prompt and fact table.
func New() *Store {
	return &Store{prompt: SystemPrompt, facts: defaultFacts}
}

// NewFromFile loads persona facts (and optionally a prompt override) from a
// YAML file. Facts are loaded once; the store is read-only afterwards.
func NewFromFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona facts: %w", err)
	}

	var f factsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse persona facts: %w", err)
	}
	if len(f.Facts) == 0 {
		return nil, fmt.Errorf("persona facts file %s contains no facts", path)
	}

	s := &Store{prompt: SystemPrompt, facts: f.Facts}
	if strings.TrimSpace(f.Prompt) != "" {
		s.prompt = f.Prompt
	}
	return s, nil
}

// Prompt returns the static persona prompt (with the blob placeholder intact).
func (s *Store) Prompt() string {
	return s.prompt
}

// Facts returns up to limit facts in table order.
func (s *Store) Facts(limit int) []string {
	if limit <= 0 || limit > len(s.facts) {
		limit = len(s.facts)
	}
	out := make([]string, limit)
	copy(out, s.facts[:limit])
	return out
}

// Sample draws up to sampleSize facts, pipe-delimited, from a freshly
// shuffled pool of up to samplePool facts. Each call reshuffles; nothing is
// remembered about previous samples.
func (s *Store) Sample() string {
	pool := s.Facts(samplePool)
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	n := sampleSize
	if n > len(pool) {
		n = len(pool)
	}
	return strings.Join(pool[:n], " | ")
}
