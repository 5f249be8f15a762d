// Package service implements signup, login, and bearer-token resolution.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"atlasynq/control-plane/internal/security"
	userdomain "atlasynq/control-plane/internal/user/domain"
	userrepo "atlasynq/control-plane/internal/user/repository"
)

// Sentinel errors for the auth service; the HTTP layer maps them to status codes.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password so a
	// caller cannot probe which emails exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingToken       = errors.New("missing bearer token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidEmail       = errors.New("invalid email format")
)

// AuthService authenticates users and issues bearer tokens. Organization and
// workspace provisioning is deferred to the first workspace request.
type AuthService struct {
	users  userrepo.Repository
	hasher *security.Hasher
	tokens *security.TokenProvider
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(users userrepo.Repository, hasher *security.Hasher, tokens *security.TokenProvider) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Signup creates a user with the given email and password and returns a bearer
// token for it. The email is lowercased and must have a dotted domain. Returns
// ErrEmailAlreadyRegistered when the normalized email is taken, including when
// a concurrent signup wins the insert race.
func (s *AuthService) Signup(ctx context.Context, fullName, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if err := validateSignupEmail(email); err != nil {
		return "", err
	}

	// Hash before opening the transaction; argon2id is deliberately expensive
	// and must not run while holding a connection.
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return "", err
	}

	err = s.users.WithinTx(ctx, func(r userrepo.Repository) error {
		existing, err := r.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailAlreadyRegistered
		}
		return r.Create(ctx, user)
	})
	if errors.Is(err, userrepo.ErrDuplicateEmail) {
		return "", ErrEmailAlreadyRegistered
	}
	if err != nil {
		return "", err
	}

	token, _, err := s.tokens.Issue(user.ID, user.Email)
	return token, err
}

// Login authenticates with email and password and returns a bearer token.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if err := validateLoginEmail(email); err != nil {
		return "", err
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil || !s.hasher.Verify(user.PasswordHash, []byte(password)) {
		return "", ErrInvalidCredentials
	}
	token, _, err := s.tokens.Issue(user.ID, user.Email)
	return token, err
}

// Resolve turns a bearer token into the authenticated user. Returns
// ErrMissingToken for an empty token and ErrInvalidToken when decoding fails
// or the subject no longer resolves to a user. The returned user is fully
// loaded; callers need no second store round-trip.
func (s *AuthService) Resolve(ctx context.Context, token string) (*userdomain.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	claims := s.tokens.Decode(token)
	if claims == nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

// NormalizeEmail lowercases and trims an email address. All lookups and
// storage use the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignupEmail(email string) error {
	_, domain, found := strings.Cut(email, "@")
	if !found || !strings.Contains(domain, ".") {
		return ErrInvalidEmail
	}
	return nil
}

func validateLoginEmail(email string) error {
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
