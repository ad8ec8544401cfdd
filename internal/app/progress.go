package app

import (
	"context"
	"math"
	"time"

	"techlingo-service/internal/domain"
)

// ProgressStore persists the per-(user, term) ledger rows. UpsertAnswer must
// be atomic: two concurrent first answers for the same pair resolve to one
// row via the (user_id, term_id) uniqueness constraint.
type ProgressStore interface {
	UpsertAnswer(ctx context.Context, userID, termID int64, correct bool, seenAt time.Time) (*domain.UserProgress, error)
	ProgressStats(ctx context.Context, userID int64) (mastered, timesSeen, timesCorrect int, err error)
}

// ProgressLedger scores a single answer against a term's canonical name and
// records the exposure. It never touches session or user state; the session
// engine consumes the outcome.
type ProgressLedger struct {
	store ProgressStore
	now   func() time.Time
}

func NewProgressLedger(store ProgressStore) *ProgressLedger {
	return &ProgressLedger{store: store, now: time.Now}
}

// NewProgressLedgerWithClock is test-only for deterministic timestamps.
func NewProgressLedgerWithClock(store ProgressStore, now func() time.Time) *ProgressLedger {
	return &ProgressLedger{store: store, now: now}
}

// RecordAnswer matches the submission case-sensitively against correctName,
// bumps the (userID, termID) counters, and ratchets mastered once
// times_correct crosses the threshold.
func (l *ProgressLedger) RecordAnswer(ctx context.Context, userID, termID int64, submitted, correctName string) (domain.AnswerOutcome, error) {
	correct := submitted == correctName
	row, err := l.store.UpsertAnswer(ctx, userID, termID, correct, l.now())
	if err != nil {
		return domain.AnswerOutcome{}, err
	}
	return domain.AnswerOutcome{
		Correct:      correct,
		TimesCorrect: row.TimesCorrect,
		Mastered:     row.Mastered,
	}, nil
}

// TermCounter exposes the catalog size for progress summaries.
type TermCounter interface {
	CountTerms(ctx context.Context) (int, error)
}

// StatsService serves the read-only projections: leaderboard and per-user
// progress summaries.
type StatsService struct {
	users    UserStore
	progress ProgressStore
	terms    TermCounter
}

func NewStatsService(users UserStore, progress ProgressStore, terms TermCounter) *StatsService {
	return &StatsService{users: users, progress: progress, terms: terms}
}

// TopUsers returns up to limit users ordered by total XP descending, with
// 1-based ranks. Ties keep the store's stable order.
func (s *StatsService) TopUsers(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	users, err := s.users.TopUsers(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, domain.LeaderboardEntry{
			Rank:          i + 1,
			Username:      u.Username,
			TotalXP:       u.TotalXP,
			CurrentStreak: u.CurrentStreak,
		})
	}
	return entries, nil
}

// ProgressSummary aggregates the user's ledger rows against the catalog size.
// Accuracy is a percentage rounded to one decimal.
func (s *StatsService) ProgressSummary(ctx context.Context, userID int64) (domain.ProgressSummary, error) {
	mastered, seen, correct, err := s.progress.ProgressStats(ctx, userID)
	if err != nil {
		return domain.ProgressSummary{}, err
	}
	total, err := s.terms.CountTerms(ctx)
	if err != nil {
		return domain.ProgressSummary{}, err
	}

	denom := seen
	if denom < 1 {
		denom = 1
	}
	accuracy := math.Round(100*float64(correct)/float64(denom)*10) / 10

	return domain.ProgressSummary{
		UserID:              userID,
		TermsLearned:        mastered,
		TotalTerms:          total,
		AccuracyRate:        accuracy,
		CategoriesCompleted: []string{},
	}, nil
}
