package questions

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Example is an input/output pair shown to players alongside the question.
type Example struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// TestCase is an input/output pair used by the grading collaborator.
type TestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

type Question struct {
	Id          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Examples    []Example  `json:"examples"`
	TestCases   []TestCase `json:"testCases"`
	StarterCode string     `json:"starterCode"`
}

var ErrInsufficientQuestions = errors.New("not enough questions for category")

// Bank supplies questions for a category. May be backed by anything that
// can return a fixed set per category.
type Bank interface {
	// GetQuestions returns count distinct questions for the category,
	// or ErrInsufficientQuestions if the category holds fewer.
	GetQuestions(category string, count int) ([]Question, error)
}

// InMemoryBank selects questions without replacement from static
// per-category sets.
type InMemoryBank struct {
	mu         sync.Mutex
	rand       *rand.Rand
	byCategory map[string][]Question
}

// NewInMemoryBank builds a bank over the given category sets. The rand
// source drives selection order; tests pass a seeded source.
func NewInMemoryBank(byCategory map[string][]Question, src rand.Source) *InMemoryBank {
	return &InMemoryBank{
		rand:       rand.New(src),
		byCategory: byCategory,
	}
}

func (b *InMemoryBank) GetQuestions(category string, count int) ([]Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.byCategory[category]
	if !ok || len(set) < count {
		return nil, fmt.Errorf("%w: %q has %d, want %d",
			ErrInsufficientQuestions, category, len(set), count)
	}
	selected := make([]Question, len(set))
	copy(selected, set)
	b.rand.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected[:count], nil
}

// Categories lists the categories the bank can serve.
func (b *InMemoryBank) Categories() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	categories := make([]string, 0, len(b.byCategory))
	for category := range b.byCategory {
		categories = append(categories, category)
	}
	return categories
}
