package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"atlasynq/control-plane/internal/security"
	userdomain "atlasynq/control-plane/internal/user/domain"
	userrepo "atlasynq/control-plane/internal/user/repository"
)

type memUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*userdomain.User
	byEmail map[string]*userdomain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*userdomain.User{}, byEmail: map[string]*userdomain.User{}}
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id], nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byEmail[email], nil
}

func (r *memUserRepo) Create(ctx context.Context, u *userdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return userrepo.ErrDuplicateEmail
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

func (r *memUserRepo) WithinTx(ctx context.Context, fn func(userrepo.Repository) error) error {
	return fn(r)
}

func (r *memUserRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		delete(r.byEmail, u.Email)
		delete(r.byID, id)
	}
}

func newTestService(users userrepo.Repository) *AuthService {
	hasher := security.NewHasher(8*1024, 1, 1)
	tokens := security.NewTokenProvider([]byte("test-secret"), "control-plane", 15*time.Minute)
	return NewAuthService(users, hasher, tokens)
}

func TestSignup_IssuesDecodableToken(t *testing.T) {
	users := newMemUserRepo()
	s := newTestService(users)
	ctx := context.Background()

	token, err := s.Signup(ctx, "Ada", "Ada@Example.com", "s3cret!")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if token == "" {
		t.Fatal("Signup returned empty token")
	}

	user, err := s.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("Email = %q, want normalized %q", user.Email, "ada@example.com")
	}
	if user.FullName != "Ada" {
		t.Errorf("FullName = %q, want %q", user.FullName, "Ada")
	}
	if user.PasswordHash == "" || user.PasswordHash == "s3cret!" {
		t.Error("password must be stored hashed")
	}
	if user.Verified {
		t.Error("new users must not be verified")
	}
}

func TestSignup_DuplicateEmailCaseInsensitive(t *testing.T) {
	users := newMemUserRepo()
	s := newTestService(users)
	ctx := context.Background()

	if _, err := s.Signup(ctx, "Ada", "A@x.com", "s3cret!"); err != nil {
		t.Fatalf("first Signup: %v", err)
	}
	_, err := s.Signup(ctx, "Other", "a@x.com", "different")
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("second Signup err = %v, want ErrEmailAlreadyRegistered", err)
	}
}

func TestSignup_InvalidEmail(t *testing.T) {
	s := newTestService(newMemUserRepo())
	ctx := context.Background()

	for _, email := range []string{"", "no-at-sign", "a@nodot"} {
		if _, err := s.Signup(ctx, "Ada", email, "s3cret!"); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("Signup(%q) err = %v, want ErrInvalidEmail", email, err)
		}
	}
}

func TestLogin_Success(t *testing.T) {
	users := newMemUserRepo()
	s := newTestService(users)
	ctx := context.Background()

	if _, err := s.Signup(ctx, "Ada", "ada@example.com", "s3cret!"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	token, err := s.Login(ctx, "Ada@Example.COM", "s3cret!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	user, err := s.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("Email = %q", user.Email)
	}
}

func TestLogin_FailuresIndistinguishable(t *testing.T) {
	users := newMemUserRepo()
	s := newTestService(users)
	ctx := context.Background()

	if _, err := s.Signup(ctx, "Ada", "ada@example.com", "s3cret!"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	_, wrongPw := s.Login(ctx, "ada@example.com", "wrong")
	_, noUser := s.Login(ctx, "nobody@example.com", "s3cret!")

	if !errors.Is(wrongPw, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", wrongPw)
	}
	if !errors.Is(noUser, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v, want ErrInvalidCredentials", noUser)
	}
	if wrongPw.Error() != noUser.Error() {
		t.Errorf("error content differs: %q vs %q", wrongPw, noUser)
	}
}

func TestResolve_MissingAndInvalid(t *testing.T) {
	users := newMemUserRepo()
	s := newTestService(users)
	ctx := context.Background()

	if _, err := s.Resolve(ctx, ""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("empty token err = %v, want ErrMissingToken", err)
	}
	if _, err := s.Resolve(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token err = %v, want ErrInvalidToken", err)
	}
}

func TestResolve_DeletedUser(t *testing.T) {
	users := newMemUserRepo()
	s := newTestService(users)
	ctx := context.Background()

	token, err := s.Signup(ctx, "Ada", "ada@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	user, err := s.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	users.delete(user.ID)
	if _, err := s.Resolve(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Resolve after delete err = %v, want ErrInvalidToken", err)
	}
}
