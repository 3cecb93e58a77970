package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/grmskyi/user-auth-system/internal/domain/models"
	"github.com/grmskyi/user-auth-system/internal/domain/types"
	"github.com/grmskyi/user-auth-system/pkg/logger"
)

// memRepo is an in-memory UserRepo keyed by email.
type memRepo struct {
	mu        sync.Mutex
	users     map[string]*models.UserCredentials
	createErr error
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]*models.UserCredentials)}
}

func (r *memRepo) Create(ctx context.Context, user *models.UserCredentials) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return uuid.Nil, r.createErr
	}
	if _, exists := r.users[user.Email]; exists {
		return uuid.Nil, types.ErrEmailAlreadyExists
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()

	stored := *user
	r.users[user.Email] = &stored
	return user.ID, nil
}

func (r *memRepo) GetByEmail(ctx context.Context, email string) (*models.UserCredentials, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	u := *user
	return &u, nil
}

func (r *memRepo) Exists(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[email]
	return ok, nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *memRepo) delete(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, email)
}

// recorderPublisher records published events and can simulate broker failure.
type recorderPublisher struct {
	mu   sync.Mutex
	msgs []models.UserCreatedMessage
	err  error
}

func (p *recorderPublisher) PublishUserCreated(ctx context.Context, msg models.UserCreatedMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recorderPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.msgs)
}

// waitForEvents polls until the publisher has seen n events or the deadline
// passes; publication is dispatched asynchronously from Register.
func waitForEvents(t *testing.T, p *recorderPublisher, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p.count() >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d published events, saw %d", n, p.count())
}

func newTestService(t *testing.T) (*AuthService, *memRepo, *recorderPublisher) {
	t.Helper()
	log := logger.InitLogger("test", logger.LevelError)

	tokenSvc, err := NewTokenService(testSecret, time.Hour, log)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	repo := newMemRepo()
	publisher := &recorderPublisher{}
	return NewAuthService(repo, tokenSvc, publisher, log), repo, publisher
}

func registerReq() *models.UserCreateRequest {
	return &models.UserCreateRequest{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john.doe@example.com",
		Password:  "password123",
	}
}

func TestRegister_Success(t *testing.T) {
	svc, repo, publisher := newTestService(t)

	token, err := svc.Register(context.Background(), registerReq())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Fatal("register must return a non-empty access token")
	}

	sub, err := svc.tokenService.ExtractSubject(token)
	if err != nil {
		t.Fatalf("extract subject: %v", err)
	}
	if sub != "john.doe@example.com" {
		t.Fatalf("token subject mismatch: %q", sub)
	}

	stored, _ := repo.GetByEmail(context.Background(), "john.doe@example.com")
	if stored == nil {
		t.Fatal("credential record must be persisted")
	}
	if stored.GetPasswordHash() == "" || stored.GetPasswordHash() == "password123" {
		t.Fatal("stored password must be a hash, never plaintext")
	}
	if stored.Role != types.UserRoleUser.String() {
		t.Fatalf("expected role USER, got %q", stored.Role)
	}

	waitForEvents(t, publisher, 1)
	if publisher.msgs[0].Email != "john.doe@example.com" {
		t.Fatalf("event email mismatch: %q", publisher.msgs[0].Email)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo, publisher := newTestService(t)

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	waitForEvents(t, publisher, 1)

	_, err := svc.Register(context.Background(), registerReq())
	if !errors.Is(err, types.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}

	if repo.count() != 1 {
		t.Fatalf("exactly one credential record must exist, got %d", repo.count())
	}
	// No second event: the duplicate attempt never reaches the publisher.
	time.Sleep(20 * time.Millisecond)
	if publisher.count() != 1 {
		t.Fatalf("no event must be published for the duplicate attempt, got %d", publisher.count())
	}
}

func TestRegister_InsertTimeDuplicateMapsSameError(t *testing.T) {
	// A concurrent registration can pass the pre-check and lose the insert
	// race; the store-level rejection must read as the same duplicate error.
	svc, repo, _ := newTestService(t)
	repo.createErr = types.ErrEmailAlreadyExists

	_, err := svc.Register(context.Background(), registerReq())
	if !errors.Is(err, types.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists from insert-time rejection, got %v", err)
	}
}

func TestRegister_PublishFailureDoesNotFailRegistration(t *testing.T) {
	svc, repo, publisher := newTestService(t)
	publisher.err = errors.New("broker unavailable")

	token, err := svc.Register(context.Background(), registerReq())
	if err != nil {
		t.Fatalf("register must succeed when the broker is down: %v", err)
	}
	if token == "" {
		t.Fatal("register must still return a token")
	}
	if repo.count() != 1 {
		t.Fatal("credential must be durably stored despite publish failure")
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := svc.Login(context.Background(), "john.doe@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	sub, err := svc.tokenService.ExtractSubject(token)
	if err != nil {
		t.Fatalf("extract subject: %v", err)
	}
	if sub != "john.doe@example.com" {
		t.Fatalf("token subject mismatch: %q", sub)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(context.Background(), "john.doe@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "password123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email must collapse to ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_ResolvesCredential(t *testing.T) {
	svc, _, _ := newTestService(t)

	token, err := svc.Register(context.Background(), registerReq())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Email != "john.doe@example.com" {
		t.Fatalf("resolved wrong credential: %q", user.Email)
	}
}

func TestAuthenticate_UnknownSubject(t *testing.T) {
	svc, repo, _ := newTestService(t)

	token, err := svc.Register(context.Background(), registerReq())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Token stays cryptographically valid, but the subject is gone.
	repo.delete("john.doe@example.com")

	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrUnknownSubject) {
		t.Fatalf("expected ErrUnknownSubject, got %v", err)
	}
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Authenticate(context.Background(), "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
