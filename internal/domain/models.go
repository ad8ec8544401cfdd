package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// Difficulty buckets used by the seeded catalog. Session filters are matched
// verbatim, so anything outside these just yields an empty pool.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// MasteryThreshold is the number of correct answers after which a term counts
// as mastered. The mastered flag never flips back.
const MasteryThreshold = 3

// Term is one vocabulary entry in the catalog. Terms are seeded once and
// read-only at runtime.
type Term struct {
	bun.BaseModel `bun:"table:terms,alias:t"`

	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	Name             string    `bun:"name,notnull" json:"name"`
	Definition       string    `bun:"definition,notnull" json:"definition"`
	Category         string    `bun:"category,notnull" json:"category"`
	Difficulty       string    `bun:"difficulty,notnull" json:"difficulty"`
	CodeExample      *string   `bun:"code_example" json:"code_example,omitempty"`
	RealWorldExample string    `bun:"real_world_example,notnull" json:"real_world_example"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// User carries the authentication identity plus the XP/streak counters the
// game engine mutates. TotalXP only ever grows.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	Email          string    `bun:"email,notnull" json:"email"`
	Username       string    `bun:"username,notnull" json:"username"`
	HashedPassword string    `bun:"hashed_password,notnull" json:"-"`
	TotalXP        int       `bun:"total_xp,notnull,default:0" json:"total_xp"`
	CurrentStreak  int       `bun:"current_streak,notnull,default:0" json:"current_streak"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// GameSession is one quiz run for one user. Completed is a one-way ratchet;
// CompletedAt is set exactly once, together with the flip.
type GameSession struct {
	bun.BaseModel `bun:"table:game_sessions,alias:gs"`

	ID             int64      `bun:"id,pk,autoincrement" json:"id"`
	UserID         int64      `bun:"user_id,notnull" json:"user_id"`
	Category       string     `bun:"category" json:"category,omitempty"`
	Difficulty     string     `bun:"difficulty" json:"difficulty,omitempty"`
	TotalQuestions int        `bun:"total_questions,notnull" json:"total_questions"`
	CorrectAnswers int        `bun:"correct_answers,notnull,default:0" json:"correct_answers"`
	XPEarned       int        `bun:"xp_earned,notnull,default:0" json:"xp_earned"`
	Completed      bool       `bun:"completed,notnull,default:false" json:"completed"`
	StartedAt      time.Time  `bun:"started_at,nullzero,notnull,default:current_timestamp" json:"started_at"`
	CompletedAt    *time.Time `bun:"completed_at" json:"completed_at,omitempty"`
}

// UserProgress is the per-(user, term) exposure/mastery ledger row. Rows are
// created lazily by the first answer and never deleted.
type UserProgress struct {
	bun.BaseModel `bun:"table:user_progress,alias:up"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID       int64     `bun:"user_id,notnull" json:"user_id"`
	TermID       int64     `bun:"term_id,notnull" json:"term_id"`
	TimesSeen    int       `bun:"times_seen,notnull,default:0" json:"times_seen"`
	TimesCorrect int       `bun:"times_correct,notnull,default:0" json:"times_correct"`
	Mastered     bool      `bun:"mastered,notnull,default:false" json:"mastered"`
	LastSeenAt   time.Time `bun:"last_seen_at,nullzero,notnull,default:current_timestamp" json:"last_seen_at"`
}

// Question is a transient multiple-choice question; only the eventual answer
// outcome is persisted. CorrectAnswer rides along with the options on
// purpose: the client is trusted and renders feedback locally.
type Question struct {
	TermID           int64    `json:"term_id"`
	Definition       string   `json:"definition"`
	CodeExample      *string  `json:"code_example,omitempty"`
	RealWorldExample string   `json:"real_world_example"`
	Options          []string `json:"options"`
	CorrectAnswer    string   `json:"correct_answer"`
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
}

// AnswerOutcome is what the progress ledger reports back for one answer.
type AnswerOutcome struct {
	Correct      bool `json:"correct"`
	TimesCorrect int  `json:"times_correct"`
	Mastered     bool `json:"mastered"`
}

// AnswerResult is the session engine's per-answer response.
type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	XPEarned      int    `json:"xp_earned"`
	Explanation   string `json:"explanation"`
}

// LeaderboardEntry is one row of the XP leaderboard; Rank is 1-based.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	Username      string `json:"username"`
	TotalXP       int    `json:"total_xp"`
	CurrentStreak int    `json:"current_streak"`
}

// ProgressSummary aggregates a user's learning progress.
// CategoriesCompleted stays empty until per-category completion lands.
type ProgressSummary struct {
	UserID              int64    `json:"user_id"`
	TermsLearned        int      `json:"terms_learned"`
	TotalTerms          int      `json:"total_terms"`
	AccuracyRate        float64  `json:"accuracy_rate"`
	CategoriesCompleted []string `json:"categories_completed"`
}
