package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"productive-boards/internal/model"
)

// TaskFilter narrows a task listing. Nil fields are not applied; the
// rest must all match.
type TaskFilter struct {
	Status     *model.TaskStatus
	Priority   *model.TaskPriority
	AssigneeID *uint
}

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// FindByID loads a task with its assignee and its parent project's
// members, which is everything an access decision on the task needs.
func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Project").
		Preload("Project.Members").
		First(&task, id).Error
	if err != nil {
		return nil, notFound(err, "task")
	}
	return &task, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID uint, filter TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Preload("Assignee").Where("project_id = ?", projectID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}

	var tasks []model.Task
	if err := query.Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update writes only the given columns. An empty map leaves the row,
// including updated_at, untouched.
func (r *TaskRepository) Update(ctx context.Context, taskID uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Task{ID: taskID}).Updates(fields).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// Delete removes a task and its comments.
func (r *TaskRepository) Delete(ctx context.Context, taskID uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("task_id = ?", taskID).Delete(&model.Comment{}).Error; err != nil {
		return fmt.Errorf("delete task comments: %w", err)
	}
	if err := db.Delete(&model.Task{}, taskID).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
