package application

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dfryer1193/goblog-api/auth/domain"
	"github.com/dfryer1193/goblog-api/shared/errs"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var hashCost = bcrypt.DefaultCost

// AuthResult is returned by a successful register or login
type AuthResult struct {
	User  *domain.User
	Token string
}

type AuthService struct {
	users  domain.UserRepository
	tokens *TokenIssuer
	now    func() time.Time
}

func NewAuthService(users domain.UserRepository, tokens *TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		now:    time.Now,
	}
}

// Register creates an account and signs the new user in
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return nil, errs.New(errs.ErrValidation, "Name, email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errs.New(errs.ErrValidation, "Invalid email address")
	}

	// The unique index still catches a concurrent registration.
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, errs.New(errs.ErrConflict, "Email already exists")
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, errs.New(errs.ErrValidation, "Password is too long")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Str("userID", user.ID).Msg("Registered user")

	return s.signIn(user)
}

// Login verifies credentials. Unknown emails and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	invalid := errs.New(errs.ErrInvalidCredentials, "Invalid credentials")

	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, errs.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}

	return s.signIn(user)
}

// Authenticate resolves a bearer token to the ID of a user that still exists
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		log.Debug().Err(err).Msg("Rejected bearer token")
		return "", errs.New(errs.ErrUnauthenticated, "Not authorized")
	}

	if _, err := s.users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", errs.New(errs.ErrUnauthenticated, "Not authorized")
		}
		return "", err
	}

	return userID, nil
}

func (s *AuthService) signIn(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
