package app

import (
	"context"
	"time"

	"techlingo-service/internal/domain"
)

const (
	// DefaultQuestionsPerSession is fixed at session creation.
	DefaultQuestionsPerSession = 5
	// BaseXP is awarded per correct answer, incrementally.
	BaseXP = 10
	// AccuracyBonusMax scales the end-of-session accuracy bonus:
	// bonus = floor(accuracy * AccuracyBonusMax).
	AccuracyBonusMax = 20
)

// SessionStore persists game sessions and applies their per-answer and
// completion updates atomically with the affected user row.
type SessionStore interface {
	CreateSession(ctx context.Context, s *domain.GameSession) error
	// Session returns ErrSessionNotFound for absent sessions and for
	// sessions owned by a different user.
	Session(ctx context.Context, sessionID, userID int64) (*domain.GameSession, error)
	UserSessions(ctx context.Context, userID int64, limit int) ([]domain.GameSession, error)
	// ApplyAnswer updates session counters and user XP/streak in one unit of
	// work. A correct answer increments correct_answers (never past
	// total_questions), adds xp to the user's total, and bumps the streak;
	// an incorrect answer resets the streak.
	ApplyAnswer(ctx context.Context, sessionID, userID int64, correct bool, xp int) error
	// CompleteSession flips completed exactly once. Only the call that wins
	// the transition sets completed_at/xp_earned and credits bonusXP to the
	// user; later calls return the stored session untouched.
	CompleteSession(ctx context.Context, sessionID, userID int64, completedAt time.Time, xpEarned, bonusXP int) (*domain.GameSession, error)
}

// TermFinder resolves a term id to its catalog record.
type TermFinder interface {
	TermByID(ctx context.Context, id int64) (*domain.Term, error)
}

// TermPool is the filtered read-only view over the catalog used to build
// questions; implementations may cache.
type TermPool interface {
	FilterTerms(ctx context.Context, category, difficulty string) ([]domain.Term, error)
}

// GameService owns the quiz-session lifecycle: start, serve questions,
// accept answers, end.
type GameService struct {
	sessions  SessionStore
	ledger    *ProgressLedger
	terms     TermFinder
	pool      TermPool
	questions *QuestionGenerator
	now       func() time.Time
}

func NewGameService(sessions SessionStore, ledger *ProgressLedger, terms TermFinder, pool TermPool, questions *QuestionGenerator) *GameService {
	return &GameService{
		sessions:  sessions,
		ledger:    ledger,
		terms:     terms,
		pool:      pool,
		questions: questions,
		now:       time.Now,
	}
}

// NewGameServiceWithClock is test-only for deterministic timestamps.
func NewGameServiceWithClock(sessions SessionStore, ledger *ProgressLedger, terms TermFinder, pool TermPool, questions *QuestionGenerator, now func() time.Time) *GameService {
	svc := NewGameService(sessions, ledger, terms, pool, questions)
	svc.now = now
	return svc
}

// StartSession creates an active session with zeroed counters. It always
// succeeds: the pool-size check is deferred to question time, so a session
// may be started for filters that currently match too few terms.
func (g *GameService) StartSession(ctx context.Context, userID int64, category, difficulty string) (*domain.GameSession, error) {
	session := &domain.GameSession{
		UserID:         userID,
		Category:       category,
		Difficulty:     difficulty,
		TotalQuestions: DefaultQuestionsPerSession,
		StartedAt:      g.now(),
	}
	if err := g.sessions.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// NextQuestion filters the term pool by the session's stored category and
// difficulty and delegates to the question generator.
func (g *GameService) NextQuestion(ctx context.Context, sessionID, userID int64) (domain.Question, error) {
	session, err := g.sessions.Session(ctx, sessionID, userID)
	if err != nil {
		return domain.Question{}, err
	}
	if session.Completed {
		return domain.Question{}, domain.ErrSessionCompleted
	}

	terms, err := g.pool.FilterTerms(ctx, session.Category, session.Difficulty)
	if err != nil {
		return domain.Question{}, err
	}
	return g.questions.Generate(terms, nil)
}

// SubmitAnswer scores one answer. The ledger records exposure/mastery; on a
// correct answer the session counter, user XP, and streak move together, on
// an incorrect one the streak resets. The submitted term is not required to
// belong to the session's filters; any catalog term id is accepted.
func (g *GameService) SubmitAnswer(ctx context.Context, sessionID, userID, termID int64, answer string) (domain.AnswerResult, error) {
	if _, err := g.sessions.Session(ctx, sessionID, userID); err != nil {
		return domain.AnswerResult{}, err
	}
	term, err := g.terms.TermByID(ctx, termID)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	outcome, err := g.ledger.RecordAnswer(ctx, userID, termID, answer, term.Name)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	xp := 0
	if outcome.Correct {
		xp = BaseXP
	}
	if err := g.sessions.ApplyAnswer(ctx, sessionID, userID, outcome.Correct, xp); err != nil {
		return domain.AnswerResult{}, err
	}

	return domain.AnswerResult{
		Correct:       outcome.Correct,
		CorrectAnswer: term.Name,
		XPEarned:      xp,
		Explanation:   term.RealWorldExample,
	}, nil
}

// EndSession completes the session and settles the accuracy bonus. The call
// is idempotent: once completed, later calls return the stored session and
// award nothing further. xp_earned recomputes the per-answer portion for
// display; only the bonus is newly credited to the user here.
func (g *GameService) EndSession(ctx context.Context, sessionID, userID int64) (*domain.GameSession, error) {
	session, err := g.sessions.Session(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Completed {
		return session, nil
	}

	bonusXP := 0
	if session.TotalQuestions > 0 {
		bonusXP = session.CorrectAnswers * AccuracyBonusMax / session.TotalQuestions
	}
	xpEarned := session.CorrectAnswers*BaseXP + bonusXP

	return g.sessions.CompleteSession(ctx, sessionID, userID, g.now(), xpEarned, bonusXP)
}

// SessionHistory returns the user's most recent sessions, newest first.
func (g *GameService) SessionHistory(ctx context.Context, userID int64) ([]domain.GameSession, error) {
	return g.sessions.UserSessions(ctx, userID, 20)
}
