package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/service"
	"github.com/fintrack/fintrack/internal/storage"
	"github.com/fintrack/fintrack/internal/token"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memUserStore is an in-memory user store for handler tests.
type memUserStore struct {
	users map[string]*model.User
}

func (s *memUserStore) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrEmailExists
		}
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *memUserStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *memUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) UpdateUser(_ context.Context, user *model.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	for id, u := range s.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return repository.ErrEmailExists
		}
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

// memTransactionStore is an in-memory transaction store for handler tests.
type memTransactionStore struct {
	transactions map[string]*model.Transaction
}

func (s *memTransactionStore) CreateTransaction(_ context.Context, tx *model.Transaction) error {
	clone := *tx
	s.transactions[tx.ID] = &clone
	return nil
}

func (s *memTransactionStore) GetTransactionByID(_ context.Context, id string) (*model.Transaction, error) {
	tx, ok := s.transactions[id]
	if !ok {
		return nil, repository.ErrTransactionNotFound
	}
	clone := *tx
	return &clone, nil
}

func (s *memTransactionStore) ListTransactionsByOwner(_ context.Context, userID string) ([]*model.Transaction, error) {
	result := make([]*model.Transaction, 0)
	for _, tx := range s.transactions {
		if tx.UserID == userID {
			clone := *tx
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].OccurredAt.Equal(result[j].OccurredAt) {
			return result[i].OccurredAt.After(result[j].OccurredAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (s *memTransactionStore) DeleteTransaction(_ context.Context, id string) error {
	if _, ok := s.transactions[id]; !ok {
		return repository.ErrTransactionNotFound
	}
	delete(s.transactions, id)
	return nil
}

// memObjectStore fakes the external photo host.
type memObjectStore struct {
	uploads int
	deleted []string
}

func (s *memObjectStore) Upload(_ context.Context, filename, _ string, r io.Reader) (storage.Object, error) {
	_, _ = io.Copy(io.Discard, r)
	s.uploads++
	ref := "ref-" + filename
	return storage.Object{URL: "https://img.example.com/" + ref, Ref: ref}, nil
}

func (s *memObjectStore) Delete(_ context.Context, ref string) error {
	s.deleted = append(s.deleted, ref)
	return nil
}

// noopProfileCache disables caching for handler tests.
type noopProfileCache struct{}

func (noopProfileCache) GetProfile(context.Context, string) (*model.User, error) { return nil, nil }
func (noopProfileCache) SetProfile(context.Context, *model.User) error           { return nil }
func (noopProfileCache) DeleteProfile(context.Context, string) error             { return nil }

type testAPI struct {
	router *chi.Mux
	issuer *token.Issuer
	photos *memObjectStore
}

// newTestAPI wires real services over in-memory stores behind the same
// routes the server exposes.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := testLogger()
	issuer := token.NewIssuer("handler-test-secret", time.Hour)
	photos := &memObjectStore{}

	userService := service.NewUserService(
		&memUserStore{users: make(map[string]*model.User)},
		photos,
		noopProfileCache{},
		issuer,
		nil,
		logger,
		"",
	)
	transactionService := service.NewTransactionService(
		&memTransactionStore{transactions: make(map[string]*model.Transaction)},
		nil,
		logger,
	)

	h := New()
	authHandler := NewAuthHandler(userService, logger, 5<<20)
	transactionHandler := NewTransactionHandler(transactionService, logger)

	authCfg := middleware.AuthConfig{Logger: logger, Verifier: issuer}

	r := chi.NewRouter()
	r.Get("/", h.Root)
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(authCfg))
				r.Get("/profile", authHandler.GetProfile)
				r.Put("/profile", authHandler.UpdateProfile)
			})
		})
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Post("/", transactionHandler.Create)
			r.Get("/", transactionHandler.List)
			r.Delete("/{id}", transactionHandler.Delete)
		})
	})
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return &testAPI{router: r, issuer: issuer, photos: photos}
}

func (api *testAPI) do(t *testing.T, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	return rec
}

// signup registers an account and returns its token and id.
func (api *testAPI) signup(t *testing.T, name, email string) (string, string) {
	t.Helper()

	rec := api.do(t, http.MethodPost, "/api/auth/signup",
		`{"name":"`+name+`","email":"`+email+`","password":"s3cret"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	return resp.Token, resp.User.ID
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()

	var resp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v (body %s)", err, rec.Body.String())
	}
	return resp.Error, resp.Code
}

func TestRoot(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/", "", "")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Fintrack API") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/no-such-route", "", "")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	rec := api.do(t, http.MethodPatch, "/api/auth/signup", "", "")

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
