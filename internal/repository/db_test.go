package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"productive-boards/internal/model"
)

func setupTestDB(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDB(path, nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	store := NewStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createUser(t *testing.T, store *Store, name string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: name + "@example.com", PasswordHash: "x"}
	if err := NewUserRepository(store.db).Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

func createProject(t *testing.T, store *Store, owner *model.User, title string) *model.Project {
	t.Helper()
	project := &model.Project{Title: title, OwnerID: owner.ID}
	if err := NewProjectRepository(store.db).Create(context.Background(), project); err != nil {
		t.Fatalf("create project %s: %v", title, err)
	}
	return project
}

func TestNewDB_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "test.db")

	db, err := NewDB(path, nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = NewStore(db).Close() }()

	if _, err := os.Stat(filepath.Dir(path)); os.IsNotExist(err) {
		t.Error("expected directory to be created")
	}
}

func TestWithForeignKeys(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"boards.db", "boards.db?_foreign_keys=on"},
		{"file:boards.db?cache=shared", "file:boards.db?cache=shared&_foreign_keys=on"},
		{"boards.db?_foreign_keys=off", "boards.db?_foreign_keys=off"},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			if got := withForeignKeys(tt.dsn); got != tt.want {
				t.Errorf("withForeignKeys(%q) = %q, want %q", tt.dsn, got, tt.want)
			}
		})
	}
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	owner := createUser(t, store, "ann")
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(repos *Repositories) error {
		if err := repos.Projects.Create(ctx, &model.Project{Title: "Draft", OwnerID: owner.ID}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	projects, err := NewProjectRepository(store.db).ListForUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("expected rollback, found %d projects", len(projects))
	}
}

func TestTransaction_RollsBackOnCancel(t *testing.T) {
	store := setupTestDB(t)
	owner := createUser(t, store, "ann")
	ctx, cancel := context.WithCancel(context.Background())

	err := store.Transaction(ctx, func(repos *Repositories) error {
		if err := repos.Projects.Create(ctx, &model.Project{Title: "Draft", OwnerID: owner.ID}); err != nil {
			return err
		}
		cancel()
		return nil
	})
	if err == nil {
		t.Fatal("expected error after cancellation")
	}

	projects, err := NewProjectRepository(store.db).ListForUser(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("expected rollback, found %d projects", len(projects))
	}
}

func TestOptimize(t *testing.T) {
	store := setupTestDB(t)
	if err := store.Optimize(context.Background()); err != nil {
		t.Fatalf("optimize: %v", err)
	}
}
