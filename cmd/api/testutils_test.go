package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"movieshelf/proj/internal/config"
	"movieshelf/proj/internal/domain/models"
	libvalidator "movieshelf/proj/internal/lib/validator"
	"movieshelf/proj/internal/services/auth"
	"movieshelf/proj/internal/storage"

	govalidator "github.com/go-playground/validator/v10"
)

// memUsersStorage is an in-memory users store for handler and middleware
// tests.
type memUsersStorage struct {
	users  []*models.User
	nextID int64
}

func (s *memUsersStorage) Insert(_ context.Context, email, username string, passwordHash []byte) (*models.User, error) {
	for _, u := range s.users {
		if (email != "" && u.Email == email) || (username != "" && u.Username == username) {
			return nil, storage.ErrConflict
		}
	}
	s.nextID++
	u := &models.User{ID: s.nextID, Email: email, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	s.users = append(s.users, u)
	return u, nil
}

func (s *memUsersStorage) GetByIdentity(_ context.Context, email, username string) (*models.User, error) {
	for _, u := range s.users {
		if (email != "" && u.Email == email) || (username != "" && u.Username == username) {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *memUsersStorage) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func NewTestApplication(users auth.UsersStorage, t *testing.T) *Application {
	t.Helper()
	if users == nil {
		users = &memUsersStorage{}
	}
	cfg := &config.Config{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	validate := govalidator.New(govalidator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("publishyear", libvalidator.ValidatePublishYear); err != nil {
		t.Fatal(err)
	}

	return &Application{
		cfg:       cfg,
		log:       log,
		validator: validate,
		auth:      auth.New(log, users, "test-secret", time.Hour),
		Http:      &Http{log: log, cfg: cfg},
	}
}
