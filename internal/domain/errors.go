package domain

import "errors"

var (
	// ErrSessionNotFound covers both absent sessions and sessions owned by
	// another user; ownership is deliberately indistinguishable from absence.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionCompleted is returned when a question is requested for a
	// session that already finished.
	ErrSessionCompleted = errors.New("game session already completed")
	// ErrTermNotFound indicates a term id that is not in the catalog.
	ErrTermNotFound = errors.New("term not found")
	// ErrUserNotFound indicates the user row is absent.
	ErrUserNotFound = errors.New("user not found")
	// ErrInsufficientTerms is returned when fewer than 4 terms match the
	// session's filters, so no multiple-choice question can be built.
	ErrInsufficientTerms = errors.New("not enough terms for quiz")
	// ErrEmailTaken is returned on registration with a known email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken is returned on registration with a known username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials collapses unknown-email and wrong-password into
	// one outcome so login failures leak nothing.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrUnauthenticated indicates a missing, malformed, or expired token.
	ErrUnauthenticated = errors.New("could not validate credentials")
	// ErrConflict is surfaced after bounded retries on concurrent writes.
	ErrConflict = errors.New("concurrent update conflict")
)
