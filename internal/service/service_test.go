package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"productive-boards/internal/model"
	"productive-boards/internal/repository"
)

type testEnv struct {
	store    *repository.Store
	auth     *AuthService
	projects *ProjectService
	tasks    *TaskService
	comments *CommentService
	users    *UserService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	store := repository.NewStore(db)
	t.Cleanup(func() { _ = store.Close() })

	return &testEnv{
		store:    store,
		auth:     NewAuthService(store, "test-secret", time.Hour, logger),
		projects: NewProjectService(store, logger),
		tasks:    NewTaskService(store, logger),
		comments: NewCommentService(store, logger),
		users:    NewUserService(store),
	}
}

// addUser inserts a user directly, skipping password hashing.
func (e *testEnv) addUser(t *testing.T, name string) uint {
	t.Helper()
	user := model.User{Name: name, Email: name + "@example.com", PasswordHash: "-"}
	err := e.store.Transaction(context.Background(), func(repos *repository.Repositories) error {
		return repos.Users.Create(context.Background(), &user)
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user.ID
}

func assertKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("err = %v, want %v", err, kind)
	}
}
