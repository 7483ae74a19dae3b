// Package questionbank provides the static fallback questions used when the
// generative model is unavailable or returns a degenerate result.
package questionbank

import (
	_ "embed"
	"fmt"
	"math/rand"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed bank.yaml
var bankYAML []byte

// Defaults applied when the requested role or difficulty is unknown.
const (
	DefaultRole       = "fullstack"
	DefaultDifficulty = "medium"
)

// repeatPrefixLen is how much of a bank entry must show up inside a previous
// question for the entry to count as already asked.
const repeatPrefixLen = 20

// Bank indexes fallback questions by role and difficulty.
type Bank struct {
	buckets map[string]map[string][]string
}

// Load parses the embedded bank.
func Load() (*Bank, error) {
	buckets := make(map[string]map[string][]string)
	if err := yaml.Unmarshal(bankYAML, &buckets); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}
	if len(buckets) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}
	return &Bank{buckets: buckets}, nil
}

// MustLoad is Load for program start-up, where a broken embedded bank is
// unrecoverable.
func MustLoad() *Bank {
	bank, err := Load()
	if err != nil {
		panic(err)
	}
	return bank
}

// Bucket returns the question list for the given role and difficulty,
// defaulting unknown keys to fullstack/medium.
func (b *Bank) Bucket(role, difficulty string) []string {
	byDifficulty, ok := b.buckets[strings.ToLower(role)]
	if !ok {
		byDifficulty = b.buckets[DefaultRole]
	}
	questions, ok := byDifficulty[strings.ToLower(difficulty)]
	if !ok || len(questions) == 0 {
		questions = byDifficulty[DefaultDifficulty]
	}
	return questions
}

// Pick selects one fallback question. Entries whose leading characters appear
// inside any previous question are filtered out to avoid exact repeats; when
// that filter would leave nothing, the full bucket is used instead.
func (b *Bank) Pick(role, difficulty string, previous []string) string {
	bucket := b.Bucket(role, difficulty)
	available := filterRepeats(bucket, previous)
	if len(available) == 0 {
		available = bucket
	}
	return available[rand.Intn(len(available))]
}

func filterRepeats(bucket, previous []string) []string {
	if len(previous) == 0 {
		return bucket
	}

	lowered := make([]string, len(previous))
	for i, prev := range previous {
		lowered[i] = strings.ToLower(prev)
	}

	available := make([]string, 0, len(bucket))
	for _, question := range bucket {
		prefix := leadingRunes(strings.ToLower(question), repeatPrefixLen)
		asked := false
		for _, prev := range lowered {
			if strings.Contains(prev, prefix) {
				asked = true
				break
			}
		}
		if !asked {
			available = append(available, question)
		}
	}
	return available
}

func leadingRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
