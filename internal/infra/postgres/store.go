package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"techlingo-service/internal/domain"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Store persists users, game sessions, and progress rows through bun. The
// read-modify-write paths (answer application, session completion) run in
// transactions; the progress upsert rides the (user_id, term_id) uniqueness
// constraint so concurrent first answers resolve to one row.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if _, err := s.db.NewInsert().Model(u).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userBy(ctx, "email = ?", email)
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userBy(ctx, "username = ?", username)
}

func (s *Store) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.userBy(ctx, "id = ?", id)
}

func (s *Store) userBy(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	user := new(domain.User)
	err := s.db.NewSelect().Model(user).Where(where, arg).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

func (s *Store) TopUsers(ctx context.Context, limit int) ([]domain.User, error) {
	users := make([]domain.User, 0, limit)
	err := s.db.NewSelect().Model(&users).
		OrderExpr("total_xp DESC").
		Order("id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("top users: %w", err)
	}
	return users, nil
}

func (s *Store) CreateSession(ctx context.Context, session *domain.GameSession) error {
	if _, err := s.db.NewInsert().Model(session).Exec(ctx); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *Store) Session(ctx context.Context, sessionID, userID int64) (*domain.GameSession, error) {
	session := new(domain.GameSession)
	err := s.db.NewSelect().Model(session).
		Where("id = ?", sessionID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	return session, nil
}

func (s *Store) UserSessions(ctx context.Context, userID int64, limit int) ([]domain.GameSession, error) {
	sessions := make([]domain.GameSession, 0, limit)
	err := s.db.NewSelect().Model(&sessions).
		Where("user_id = ?", userID).
		OrderExpr("started_at DESC").
		Order("id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("user sessions: %w", err)
	}
	return sessions, nil
}

func (s *Store) ApplyAnswer(ctx context.Context, sessionID, userID int64, correct bool, xp int) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if !correct {
			_, err := tx.NewUpdate().Model((*domain.User)(nil)).
				Set("current_streak = 0").
				Where("id = ?", userID).
				Exec(ctx)
			return err
		}

		// The guard keeps correct_answers within total_questions even under
		// excess submissions; the XP still lands.
		_, err := tx.NewUpdate().Model((*domain.GameSession)(nil)).
			Set("correct_answers = correct_answers + 1").
			Where("id = ?", sessionID).
			Where("user_id = ?", userID).
			Where("correct_answers < total_questions").
			Exec(ctx)
		if err != nil {
			return err
		}
		_, err = tx.NewUpdate().Model((*domain.User)(nil)).
			Set("total_xp = total_xp + ?", xp).
			Set("current_streak = current_streak + 1").
			Where("id = ?", userID).
			Exec(ctx)
		return err
	})
}

func (s *Store) CompleteSession(ctx context.Context, sessionID, userID int64, completedAt time.Time, xpEarned, bonusXP int) (*domain.GameSession, error) {
	session := new(domain.GameSession)
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*domain.GameSession)(nil)).
			Set("completed = TRUE").
			Set("completed_at = ?", completedAt).
			Set("xp_earned = ?", xpEarned).
			Where("id = ?", sessionID).
			Where("user_id = ?", userID).
			Where("completed = FALSE").
			Exec(ctx)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows > 0 {
			if _, err := tx.NewUpdate().Model((*domain.User)(nil)).
				Set("total_xp = total_xp + ?", bonusXP).
				Where("id = ?", userID).
				Exec(ctx); err != nil {
				return err
			}
		}

		err = tx.NewSelect().Model(session).
			Where("id = ?", sessionID).
			Where("user_id = ?", userID).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrSessionNotFound
		}
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("complete session: %w", err)
	}
	return session, nil
}

func (s *Store) UpsertAnswer(ctx context.Context, userID, termID int64, correct bool, seenAt time.Time) (*domain.UserProgress, error) {
	inc := 0
	if correct {
		inc = 1
	}
	row := &domain.UserProgress{
		UserID:       userID,
		TermID:       termID,
		TimesSeen:    1,
		TimesCorrect: inc,
		Mastered:     inc >= domain.MasteryThreshold,
		LastSeenAt:   seenAt,
	}
	_, err := s.db.NewInsert().Model(row).
		On("CONFLICT (user_id, term_id) DO UPDATE").
		Set("times_seen = up.times_seen + 1").
		Set("times_correct = up.times_correct + EXCLUDED.times_correct").
		Set("mastered = up.mastered OR up.times_correct + EXCLUDED.times_correct >= ?", domain.MasteryThreshold).
		Set("last_seen_at = EXCLUDED.last_seen_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}
	return row, nil
}

func (s *Store) ProgressStats(ctx context.Context, userID int64) (mastered, timesSeen, timesCorrect int, err error) {
	err = s.db.NewSelect().Model((*domain.UserProgress)(nil)).
		ColumnExpr("count(*) FILTER (WHERE mastered)").
		ColumnExpr("coalesce(sum(times_seen), 0)").
		ColumnExpr("coalesce(sum(times_correct), 0)").
		Where("user_id = ?", userID).
		Scan(ctx, &mastered, &timesSeen, &timesCorrect)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("progress stats: %w", err)
	}
	return mastered, timesSeen, timesCorrect, nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}
