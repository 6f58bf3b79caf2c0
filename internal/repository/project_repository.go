package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"productive-boards/internal/model"
)

// ProjectRepository manages projects and their membership rows.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// FindByID loads a project with its owner and current members.
func (r *ProjectRepository) FindByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("users.id ASC") }).
		First(&project, id).Error
	if err != nil {
		return nil, notFound(err, "project")
	}
	return &project, nil
}

// ListForUser returns the projects userID owns or is a member of. Each
// project appears once.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID uint) ([]model.Project, error) {
	db := r.db.WithContext(ctx)
	memberOf := db.Model(&model.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)

	var projects []model.Project
	err := db.
		Preload("Owner").
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("users.id ASC") }).
		Where("owner_id = ? OR id IN (?)", userID, memberOf).
		Order("id ASC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Update writes the given columns. An empty map is a no-op.
func (r *ProjectRepository) Update(ctx context.Context, project *model.Project, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Project{ID: project.ID}).Updates(fields).Error; err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// Delete removes a project with its tasks, their comments and all
// membership rows.
func (r *ProjectRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	taskIDs := db.Model(&model.Task{}).Select("id").Where("project_id = ?", id)

	if err := db.Where("task_id IN (?)", taskIDs).Delete(&model.Comment{}).Error; err != nil {
		return fmt.Errorf("delete project comments: %w", err)
	}
	if err := db.Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete project tasks: %w", err)
	}
	if err := db.Where("project_id = ?", id).Delete(&model.ProjectMember{}).Error; err != nil {
		return fmt.Errorf("delete project members: %w", err)
	}
	if err := db.Delete(&model.Project{}, id).Error; err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// Members returns the current members of a project, without the owner.
func (r *ProjectRepository) Members(ctx context.Context, projectID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN project_members ON project_members.user_id = users.id").
		Where("project_members.project_id = ?", projectID).
		Order("users.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return users, nil
}

func (r *ProjectRepository) IsMember(ctx context.Context, projectID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return count > 0, nil
}

// AddMember inserts a membership row. Adding an existing member is a no-op.
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID uint) error {
	row := model.ProjectMember{ProjectID: projectID, UserID: userID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// RemoveMember deletes a membership row and reports whether one existed.
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectMember{})
	if result.Error != nil {
		return false, fmt.Errorf("remove member: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
