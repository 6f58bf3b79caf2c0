package service

import (
	"context"
	"log/slog"
	"strings"

	"productive-boards/internal/access"
	"productive-boards/internal/model"
	"productive-boards/internal/optional"
	"productive-boards/internal/repository"
)

// TaskInput represents data required to create a task. Empty Status and
// Priority fall back to todo and medium.
type TaskInput struct {
	Title       string
	Description string
	Status      model.TaskStatus
	Priority    model.TaskPriority
	AssigneeID  *uint
}

// TaskPatch carries a partial task update. Only present fields are
// applied; a present null clears description and assignee.
type TaskPatch struct {
	Title       optional.Value[string]             `json:"title"`
	Description optional.Value[string]             `json:"description"`
	Status      optional.Value[model.TaskStatus]   `json:"status"`
	Priority    optional.Value[model.TaskPriority] `json:"priority"`
	AssigneeID  optional.Value[uint]               `json:"assignee_id"`
}

// TaskService wraps task-related business logic.
type TaskService struct {
	store *repository.Store
	log   *slog.Logger
}

func NewTaskService(store *repository.Store, log *slog.Logger) *TaskService {
	return &TaskService{store: store, log: log}
}

// Create adds a task under projectID. Only the project owner may create
// tasks.
func (s *TaskService) Create(ctx context.Context, principal, projectID uint, input TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalidf("title is required")
	}
	status := input.Status
	if status == "" {
		status = model.StatusTodo
	}
	if !status.IsValid() {
		return nil, invalidf("invalid status %q", status)
	}
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, invalidf("invalid priority %q", priority)
	}

	var task *model.Task
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		if _, err := authorizedProject(ctx, repos, principal, projectID, access.TaskCreate); err != nil {
			return err
		}
		if input.AssigneeID != nil {
			if _, err := repos.Users.FindByID(ctx, *input.AssigneeID); err != nil {
				return lookup(err, "assignee")
			}
		}

		created := model.Task{
			ProjectID:   projectID,
			Title:       title,
			Description: input.Description,
			Status:      status,
			Priority:    priority,
			AssigneeID:  input.AssigneeID,
		}
		if err := repos.Tasks.Create(ctx, &created); err != nil {
			return err
		}
		var err error
		task, err = repos.Tasks.FindByID(ctx, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("task created", "task_id", task.ID, "project_id", projectID, "by", principal)
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, principal, taskID uint) (*model.Task, error) {
	var task *model.Task
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		var err error
		task, err = authorizedTask(ctx, repos, principal, taskID, access.TaskView)
		return err
	})
	return task, err
}

// List returns the tasks of a project that match every filter given.
func (s *TaskService) List(ctx context.Context, principal, projectID uint, filter repository.TaskFilter) ([]model.Task, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, invalidf("invalid status %q", *filter.Status)
	}
	if filter.Priority != nil && !filter.Priority.IsValid() {
		return nil, invalidf("invalid priority %q", *filter.Priority)
	}

	var tasks []model.Task
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		if _, err := authorizedProject(ctx, repos, principal, projectID, access.TaskList); err != nil {
			return err
		}
		var err error
		tasks, err = repos.Tasks.ListByProject(ctx, projectID, filter)
		return err
	})
	return tasks, err
}

// Update applies a partial update. Owners and members may edit tasks.
func (s *TaskService) Update(ctx context.Context, principal, taskID uint, patch TaskPatch) (*model.Task, error) {
	fields, err := patchFields(patch)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, principal, taskID, access.TaskUpdate, fields, patch.AssigneeID.Ptr())
}

// Transition sets only the status field. It authorizes exactly like Update.
func (s *TaskService) Transition(ctx context.Context, principal, taskID uint, status model.TaskStatus) (*model.Task, error) {
	if !status.IsValid() {
		return nil, invalidf("invalid status %q", status)
	}
	return s.apply(ctx, principal, taskID, access.TaskStatus, map[string]any{"status": status}, nil)
}

// Delete removes a task and its comments. Only the project owner may
// delete tasks.
func (s *TaskService) Delete(ctx context.Context, principal, taskID uint) error {
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		if _, err := authorizedTask(ctx, repos, principal, taskID, access.TaskDelete); err != nil {
			return err
		}
		return repos.Tasks.Delete(ctx, taskID)
	})
	if err != nil {
		return err
	}
	s.log.Info("task deleted", "task_id", taskID, "by", principal)
	return nil
}

func (s *TaskService) apply(ctx context.Context, principal, taskID uint, action access.Action, fields map[string]any, assigneeID *uint) (*model.Task, error) {
	var task *model.Task
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		current, err := authorizedTask(ctx, repos, principal, taskID, action)
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			task = current
			return nil
		}
		if assigneeID != nil {
			if _, err := repos.Users.FindByID(ctx, *assigneeID); err != nil {
				return lookup(err, "assignee")
			}
		}
		if err := repos.Tasks.Update(ctx, taskID, fields); err != nil {
			return err
		}
		task, err = repos.Tasks.FindByID(ctx, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("task updated", "task_id", taskID, "action", string(action), "fields", len(fields), "by", principal)
	return task, nil
}

// patchFields validates a patch and returns the columns it writes.
func patchFields(patch TaskPatch) (map[string]any, error) {
	fields := make(map[string]any)
	if patch.Title.Present {
		title := strings.TrimSpace(patch.Title.Val)
		if patch.Title.Null || title == "" {
			return nil, invalidf("title must not be empty")
		}
		fields["title"] = title
	}
	if patch.Description.Present {
		fields["description"] = patch.Description.Val
	}
	if patch.Status.Present {
		if patch.Status.Null || !patch.Status.Val.IsValid() {
			return nil, invalidf("invalid status %q", patch.Status.Val)
		}
		fields["status"] = patch.Status.Val
	}
	if patch.Priority.Present {
		if patch.Priority.Null || !patch.Priority.Val.IsValid() {
			return nil, invalidf("invalid priority %q", patch.Priority.Val)
		}
		fields["priority"] = patch.Priority.Val
	}
	if patch.AssigneeID.Present {
		if patch.AssigneeID.Null {
			fields["assignee_id"] = nil
		} else {
			fields["assignee_id"] = patch.AssigneeID.Val
		}
	}
	return fields, nil
}
