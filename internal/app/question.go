package app

import (
	"math/rand"
	"sync"
	"time"

	"techlingo-service/internal/domain"
)

// optionCount is the size of a multiple-choice question: one correct name
// plus three distractors.
const optionCount = 4

// QuestionGenerator builds transient multiple-choice questions from a term
// pool. The random source is injectable so tests can be deterministic.
type QuestionGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewQuestionGenerator returns a generator backed by rnd, or by a
// time-seeded source when rnd is nil.
func NewQuestionGenerator(rnd *rand.Rand) *QuestionGenerator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &QuestionGenerator{rnd: rnd}
}

// Generate picks one term from pool uniformly at random as the correct
// answer, three distinct distractor names, and shuffles the options so the
// correct position is unpredictable. Terms whose id is in exclude are
// disqualified. Fails with ErrInsufficientTerms when fewer than 4 terms
// remain eligible.
func (g *QuestionGenerator) Generate(pool []domain.Term, exclude map[int64]bool) (domain.Question, error) {
	eligible := pool
	if len(exclude) > 0 {
		eligible = make([]domain.Term, 0, len(pool))
		for _, t := range pool {
			if !exclude[t.ID] {
				eligible = append(eligible, t)
			}
		}
	}
	if len(eligible) < optionCount {
		return domain.Question{}, domain.ErrInsufficientTerms
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	correct := eligible[g.rnd.Intn(len(eligible))]

	distractors := make([]domain.Term, 0, len(eligible)-1)
	for _, t := range eligible {
		if t.ID != correct.ID {
			distractors = append(distractors, t)
		}
	}
	g.rnd.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})

	options := make([]string, 0, optionCount)
	for _, t := range distractors[:optionCount-1] {
		options = append(options, t.Name)
	}
	options = append(options, correct.Name)
	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return domain.Question{
		TermID:           correct.ID,
		Definition:       correct.Definition,
		CodeExample:      correct.CodeExample,
		RealWorldExample: correct.RealWorldExample,
		Options:          options,
		CorrectAnswer:    correct.Name,
		Category:         correct.Category,
		Difficulty:       correct.Difficulty,
	}, nil
}
