package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"techlingo-service/internal/domain"
)

type progressKey struct {
	userID int64
	termID int64
}

// Store is an in-memory implementation of the app's user, session, and
// progress stores. One mutex serializes every mutation, which also gives the
// atomicity the postgres store gets from transactions.
type Store struct {
	mu sync.Mutex

	users      map[int64]*domain.User
	byEmail    map[string]int64
	byUsername map[string]int64
	sessions   map[int64]*domain.GameSession
	progress   map[progressKey]*domain.UserProgress

	nextUserID     int64
	nextSessionID  int64
	nextProgressID int64
}

func NewStore() *Store {
	return &Store{
		users:      make(map[int64]*domain.User),
		byEmail:    make(map[string]int64),
		byUsername: make(map[string]int64),
		sessions:   make(map[int64]*domain.GameSession),
		progress:   make(map[progressKey]*domain.UserProgress),
	}
}

func (s *Store) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[u.Email]; ok {
		return domain.ErrConflict
	}
	if _, ok := s.byUsername[u.Username]; ok {
		return domain.ErrConflict
	}

	s.nextUserID++
	u.ID = s.nextUserID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	stored := *u
	s.users[u.ID] = &stored
	s.byEmail[u.Email] = u.ID
	s.byUsername[u.Username] = u.ID
	return nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return s.userCopyLocked(id)
}

func (s *Store) UserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return s.userCopyLocked(id)
}

func (s *Store) UserByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userCopyLocked(id)
}

func (s *Store) TopUsers(_ context.Context, limit int) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].TotalXP != users[j].TotalXP {
			return users[i].TotalXP > users[j].TotalXP
		}
		return users[i].ID < users[j].ID
	})
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (s *Store) CreateSession(_ context.Context, session *domain.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSessionID++
	session.ID = s.nextSessionID
	stored := *session
	s.sessions[session.ID] = &stored
	return nil
}

func (s *Store) Session(_ context.Context, sessionID, userID int64) (*domain.GameSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.sessionLocked(sessionID, userID)
	if err != nil {
		return nil, err
	}
	copied := *session
	return &copied, nil
}

func (s *Store) UserSessions(_ context.Context, userID int64, limit int) ([]domain.GameSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := make([]domain.GameSession, 0)
	for _, session := range s.sessions {
		if session.UserID == userID {
			sessions = append(sessions, *session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].StartedAt.After(sessions[j].StartedAt)
		}
		return sessions[i].ID > sessions[j].ID
	})
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

func (s *Store) ApplyAnswer(_ context.Context, sessionID, userID int64, correct bool, xp int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionLocked(sessionID, userID)
	if err != nil {
		return err
	}
	user, ok := s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}

	if correct {
		if session.CorrectAnswers < session.TotalQuestions {
			session.CorrectAnswers++
		}
		user.TotalXP += xp
		user.CurrentStreak++
	} else {
		user.CurrentStreak = 0
	}
	return nil
}

func (s *Store) CompleteSession(_ context.Context, sessionID, userID int64, completedAt time.Time, xpEarned, bonusXP int) (*domain.GameSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionLocked(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !session.Completed {
		session.Completed = true
		at := completedAt
		session.CompletedAt = &at
		session.XPEarned = xpEarned
		if user, ok := s.users[userID]; ok {
			user.TotalXP += bonusXP
		}
	}
	copied := *session
	return &copied, nil
}

func (s *Store) UpsertAnswer(_ context.Context, userID, termID int64, correct bool, seenAt time.Time) (*domain.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := progressKey{userID: userID, termID: termID}
	row, ok := s.progress[key]
	if !ok {
		s.nextProgressID++
		row = &domain.UserProgress{
			ID:     s.nextProgressID,
			UserID: userID,
			TermID: termID,
		}
		s.progress[key] = row
	}

	row.TimesSeen++
	if correct {
		row.TimesCorrect++
		if row.TimesCorrect >= domain.MasteryThreshold {
			row.Mastered = true
		}
	}
	row.LastSeenAt = seenAt

	copied := *row
	return &copied, nil
}

func (s *Store) ProgressStats(_ context.Context, userID int64) (mastered, timesSeen, timesCorrect int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, row := range s.progress {
		if key.userID != userID {
			continue
		}
		if row.Mastered {
			mastered++
		}
		timesSeen += row.TimesSeen
		timesCorrect += row.TimesCorrect
	}
	return mastered, timesSeen, timesCorrect, nil
}

func (s *Store) userCopyLocked(id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *Store) sessionLocked(sessionID, userID int64) (*domain.GameSession, error) {
	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}
