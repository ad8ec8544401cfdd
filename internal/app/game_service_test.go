package app_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"techlingo-service/internal/app"
	"techlingo-service/internal/domain"
	"techlingo-service/internal/infra/memory"
)

func TestSessionLifecycleScoring(t *testing.T) {
	ctx := context.Background()
	store, game, userID := newTestGame(t, termFixtures(6))

	session, err := game.StartSession(ctx, userID, "", "")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if session.TotalQuestions != 5 || session.Completed || session.CorrectAnswers != 0 {
		t.Fatalf("unexpected fresh session %+v", session)
	}

	// 4 correct answers, one wrong in the middle.
	answers := []bool{true, true, false, true, true}
	for i, correct := range answers {
		termID := int64(i + 1)
		answer := fmt.Sprintf("term-%d", termID)
		if !correct {
			answer = "wrong"
		}
		result, err := game.SubmitAnswer(ctx, session.ID, userID, termID, answer)
		if err != nil {
			t.Fatalf("submit answer %d: %v", i, err)
		}
		if result.Correct != correct {
			t.Fatalf("answer %d: expected correct=%v, got %+v", i, correct, result)
		}
		if correct && result.XPEarned != 10 {
			t.Fatalf("answer %d: expected 10 XP, got %d", i, result.XPEarned)
		}
		if !correct && result.XPEarned != 0 {
			t.Fatalf("answer %d: expected 0 XP, got %d", i, result.XPEarned)
		}
	}

	ended, err := game.EndSession(ctx, session.ID, userID)
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	if !ended.Completed || ended.CompletedAt == nil {
		t.Fatalf("expected completed session, got %+v", ended)
	}
	// 4/5 accuracy: bonus floor(0.8*20)=16, xp_earned 40+16=56.
	if ended.CorrectAnswers != 4 || ended.XPEarned != 56 {
		t.Fatalf("expected correct=4 xp=56, got correct=%d xp=%d", ended.CorrectAnswers, ended.XPEarned)
	}

	user, err := store.UserByID(ctx, userID)
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if user.TotalXP != 56 {
		t.Fatalf("expected total_xp=56 (40 incremental + 16 bonus), got %d", user.TotalXP)
	}
	if user.CurrentStreak != 2 {
		t.Fatalf("expected streak=2 after trailing corrects, got %d", user.CurrentStreak)
	}
}

func TestEndSessionIdempotent(t *testing.T) {
	ctx := context.Background()
	store, game, userID := newTestGame(t, termFixtures(6))

	session, err := game.StartSession(ctx, userID, "", "")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := game.SubmitAnswer(ctx, session.ID, userID, 1, "term-1"); err != nil {
		t.Fatalf("submit answer: %v", err)
	}

	first, err := game.EndSession(ctx, session.ID, userID)
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	second, err := game.EndSession(ctx, session.ID, userID)
	if err != nil {
		t.Fatalf("end session again: %v", err)
	}
	if second.XPEarned != first.XPEarned || !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Fatalf("second end changed session: first=%+v second=%+v", first, second)
	}

	user, err := store.UserByID(ctx, userID)
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	// 10 incremental + floor(1/5*20)=4 bonus, applied once.
	if user.TotalXP != 14 {
		t.Fatalf("expected total_xp=14 after double end, got %d", user.TotalXP)
	}
}

func TestNextQuestion(t *testing.T) {
	ctx := context.Background()
	_, game, userID := newTestGame(t, termFixtures(6))

	session, err := game.StartSession(ctx, userID, "", "")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	question, err := game.NextQuestion(ctx, session.ID, userID)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	if len(question.Options) != 4 || question.CorrectAnswer == "" {
		t.Fatalf("unexpected question %+v", question)
	}

	if _, err := game.EndSession(ctx, session.ID, userID); err != nil {
		t.Fatalf("end session: %v", err)
	}
	if _, err := game.NextQuestion(ctx, session.ID, userID); !errors.Is(err, domain.ErrSessionCompleted) {
		t.Fatalf("expected ErrSessionCompleted, got %v", err)
	}
}

func TestNextQuestionInsufficientTerms(t *testing.T) {
	ctx := context.Background()
	_, game, userID := newTestGame(t, termFixtures(3))

	// Starting succeeds even when the filtered pool is too small; only the
	// question request fails.
	session, err := game.StartSession(ctx, userID, "", "")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := game.NextQuestion(ctx, session.ID, userID); !errors.Is(err, domain.ErrInsufficientTerms) {
		t.Fatalf("expected ErrInsufficientTerms, got %v", err)
	}
}

func TestSubmitAnswerOwnership(t *testing.T) {
	ctx := context.Background()
	store, game, userID := newTestGame(t, termFixtures(6))

	other := &domain.User{Email: "other@example.com", Username: "other", HashedPassword: "x"}
	if err := store.CreateUser(ctx, other); err != nil {
		t.Fatalf("create user: %v", err)
	}

	session, err := game.StartSession(ctx, userID, "", "")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := game.SubmitAnswer(ctx, session.ID, other.ID, 1, "term-1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for foreign session, got %v", err)
	}
	if _, err := game.SubmitAnswer(ctx, session.ID, userID, 999, "term-1"); !errors.Is(err, domain.ErrTermNotFound) {
		t.Fatalf("expected ErrTermNotFound, got %v", err)
	}
}

func TestStreakTracking(t *testing.T) {
	ctx := context.Background()
	store, game, userID := newTestGame(t, termFixtures(6))

	session, err := game.StartSession(ctx, userID, "", "")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := game.SubmitAnswer(ctx, session.ID, userID, 1, "term-1"); err != nil {
			t.Fatalf("submit answer: %v", err)
		}
		user, _ := store.UserByID(ctx, userID)
		if user.CurrentStreak != i+1 {
			t.Fatalf("expected streak=%d, got %d", i+1, user.CurrentStreak)
		}
	}

	if _, err := game.SubmitAnswer(ctx, session.ID, userID, 1, "wrong"); err != nil {
		t.Fatalf("submit answer: %v", err)
	}
	user, _ := store.UserByID(ctx, userID)
	if user.CurrentStreak != 0 {
		t.Fatalf("expected streak reset to 0, got %d", user.CurrentStreak)
	}
}

func TestCorrectAnswersCapped(t *testing.T) {
	ctx := context.Background()
	store, game, userID := newTestGame(t, termFixtures(6))

	session, err := game.StartSession(ctx, userID, "", "")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	for i := 0; i < 7; i++ {
		if _, err := game.SubmitAnswer(ctx, session.ID, userID, 1, "term-1"); err != nil {
			t.Fatalf("submit answer %d: %v", i, err)
		}
	}

	current, err := store.Session(ctx, session.ID, userID)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if current.CorrectAnswers != current.TotalQuestions {
		t.Fatalf("expected correct_answers capped at %d, got %d", current.TotalQuestions, current.CorrectAnswers)
	}
}

func TestSessionHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	store, _, userID := newTestGame(t, termFixtures(6))

	base := time.Date(2024, 11, 22, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return base }
	game := app.NewGameServiceWithClock(store, app.NewProgressLedger(store), memory.NewTermCatalog(termFixtures(6)), memory.NewTermCatalog(termFixtures(6)), app.NewQuestionGenerator(rand.New(rand.NewSource(1))), clock)

	var ids []int64
	for i := 0; i < 3; i++ {
		base = base.Add(time.Minute)
		session, err := game.StartSession(ctx, userID, "", "")
		if err != nil {
			t.Fatalf("start session: %v", err)
		}
		ids = append(ids, session.ID)
	}

	history, err := game.SessionHistory(ctx, userID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(history))
	}
	for i := range history {
		if history[i].ID != ids[len(ids)-1-i] {
			t.Fatalf("expected newest first, got %v", history)
		}
	}
}

func newTestGame(t *testing.T, terms []domain.Term) (*memory.Store, *app.GameService, int64) {
	t.Helper()
	store := memory.NewStore()
	catalog := memory.NewTermCatalog(terms)
	game := app.NewGameService(store, app.NewProgressLedger(store), catalog, catalog, app.NewQuestionGenerator(rand.New(rand.NewSource(1))))

	user := &domain.User{Email: "alice@example.com", Username: "alice", HashedPassword: "x"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return store, game, user.ID
}

func termFixtures(n int) []domain.Term {
	terms := make([]domain.Term, 0, n)
	for i := 1; i <= n; i++ {
		terms = append(terms, domain.Term{
			ID:               int64(i),
			Name:             fmt.Sprintf("term-%d", i),
			Definition:       fmt.Sprintf("definition %d", i),
			Category:         "Programming",
			Difficulty:       domain.DifficultyBeginner,
			RealWorldExample: fmt.Sprintf("example %d", i),
		})
	}
	return terms
}
