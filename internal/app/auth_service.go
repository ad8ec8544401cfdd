package app

import (
	"context"
	"errors"

	"techlingo-service/internal/auth"
	"techlingo-service/internal/domain"
)

// UserStore persists user rows. CreateUser surfaces residual uniqueness
// violations (lost races after the pre-checks) as ErrConflict.
type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	UserByUsername(ctx context.Context, username string) (*domain.User, error)
	UserByID(ctx context.Context, id int64) (*domain.User, error)
	// TopUsers returns users ordered by total XP descending with a stable
	// tie order.
	TopUsers(ctx context.Context, limit int) ([]domain.User, error)
}

// TokenIssuer signs and verifies the opaque principal tokens handed to
// clients.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
	Verify(token string) (int64, error)
}

// AuthService is the identity boundary: it exchanges credentials for tokens
// and resolves tokens back to users on each request.
type AuthService struct {
	users  UserStore
	tokens TokenIssuer
}

func NewAuthService(users UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a user and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*domain.User, string, error) {
	if _, err := s.users.UserByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}
	if _, err := s.users.UserByUsername(ctx, username); err == nil {
		return nil, "", domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	user := &domain.User{
		Email:          email,
		Username:       username,
		HashedPassword: hashed,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !auth.VerifyPassword(password, user.HashedPassword) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its user. Every failure mode maps
// to ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.users.UserByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
