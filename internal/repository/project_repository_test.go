package repository

import (
	"context"
	"errors"
	"testing"

	"productive-boards/internal/model"
)

func TestProjectFindByID_NotFound(t *testing.T) {
	store := setupTestDB(t)

	_, err := NewProjectRepository(store.db).FindByID(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMembership(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	repo := NewProjectRepository(store.db)

	ann := createUser(t, store, "ann")
	bob := createUser(t, store, "bob")
	project := createProject(t, store, ann, "Roadmap")

	if err := repo.AddMember(ctx, project.ID, bob.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}
	// Second add is a no-op.
	if err := repo.AddMember(ctx, project.ID, bob.ID); err != nil {
		t.Fatalf("re-add member: %v", err)
	}

	members, err := repo.Members(ctx, project.ID)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 1 || members[0].ID != bob.ID {
		t.Fatalf("members = %+v, want [bob]", members)
	}

	loaded, err := repo.FindByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !loaded.HasMember(bob.ID) {
		t.Error("expected preloaded members to include bob")
	}
	if loaded.Owner.Name != "ann" {
		t.Errorf("owner = %q, want ann", loaded.Owner.Name)
	}

	ok, err := repo.IsMember(ctx, project.ID, bob.ID)
	if err != nil || !ok {
		t.Fatalf("IsMember = %v, %v; want true", ok, err)
	}

	removed, err := repo.RemoveMember(ctx, project.ID, bob.ID)
	if err != nil || !removed {
		t.Fatalf("RemoveMember = %v, %v; want true", removed, err)
	}
	removed, err = repo.RemoveMember(ctx, project.ID, bob.ID)
	if err != nil || removed {
		t.Fatalf("second RemoveMember = %v, %v; want false", removed, err)
	}

	loaded, err = repo.FindByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.HasMember(bob.ID) {
		t.Error("removal not visible on next read")
	}
}

func TestListForUser_UnionWithoutDuplicates(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	repo := NewProjectRepository(store.db)

	ann := createUser(t, store, "ann")
	bob := createUser(t, store, "bob")
	cat := createUser(t, store, "cat")

	owned := createProject(t, store, ann, "Owned")
	shared := createProject(t, store, bob, "Shared")
	createProject(t, store, cat, "Unrelated")

	if err := repo.AddMember(ctx, shared.ID, ann.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}
	// Both owner and member rows for the same project must still yield one entry.
	if err := repo.AddMember(ctx, owned.ID, ann.ID); err != nil {
		t.Fatalf("add owner row: %v", err)
	}
	if err := repo.AddMember(ctx, owned.ID, cat.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}

	projects, err := repo.ListForUser(ctx, ann.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	got := make(map[uint]int)
	for _, p := range projects {
		got[p.ID]++
	}
	if len(projects) != 2 || got[owned.ID] != 1 || got[shared.ID] != 1 {
		t.Errorf("projects = %v, want owned and shared once each", got)
	}
}

func TestProjectUpdate(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	repo := NewProjectRepository(store.db)

	ann := createUser(t, store, "ann")
	project := createProject(t, store, ann, "Roadmap")

	if err := repo.Update(ctx, project, map[string]any{"description": "Q3"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	loaded, err := repo.FindByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.Title != "Roadmap" || loaded.Description != "Q3" {
		t.Errorf("project = %q/%q, want Roadmap/Q3", loaded.Title, loaded.Description)
	}
}

func TestProjectDelete_Cascades(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projects := NewProjectRepository(store.db)
	tasks := NewTaskRepository(store.db)
	comments := NewCommentRepository(store.db)

	ann := createUser(t, store, "ann")
	bob := createUser(t, store, "bob")
	project := createProject(t, store, ann, "Roadmap")
	if err := projects.AddMember(ctx, project.ID, bob.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}
	task := &model.Task{ProjectID: project.ID, Title: "T1", Status: model.StatusTodo, Priority: model.PriorityMedium}
	if err := tasks.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if err := comments.Create(ctx, &model.Comment{TaskID: task.ID, UserID: bob.ID, Content: "hi"}); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	if err := projects.Delete(ctx, project.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := projects.FindByID(ctx, project.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("project find err = %v, want ErrNotFound", err)
	}
	if _, err := tasks.FindByID(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("task find err = %v, want ErrNotFound", err)
	}
	left, err := comments.ListByTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("expected comments removed, got %d", len(left))
	}
	if ok, _ := projects.IsMember(ctx, project.ID, bob.ID); ok {
		t.Error("expected membership rows removed")
	}
}
