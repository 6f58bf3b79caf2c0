package service

import (
	"context"
	"log/slog"
	"strings"

	"productive-boards/internal/access"
	"productive-boards/internal/model"
	"productive-boards/internal/repository"
)

// CommentService appends and lists comments. Access follows the task's
// parent project.
type CommentService struct {
	store *repository.Store
	log   *slog.Logger
}

func NewCommentService(store *repository.Store, log *slog.Logger) *CommentService {
	return &CommentService{store: store, log: log}
}

func (s *CommentService) Create(ctx context.Context, principal, taskID uint, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, invalidf("content is required")
	}

	var comment *model.Comment
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		if _, err := authorizedTask(ctx, repos, principal, taskID, access.CommentCreate); err != nil {
			return err
		}
		author, err := repos.Users.FindByID(ctx, principal)
		if err != nil {
			return lookup(err, "user")
		}
		created := model.Comment{TaskID: taskID, UserID: principal, Content: content}
		if err := repos.Comments.Create(ctx, &created); err != nil {
			return err
		}
		created.Author = *author
		comment = &created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("comment added", "comment_id", comment.ID, "task_id", taskID, "by", principal)
	return comment, nil
}

// List returns a task's comments, oldest first.
func (s *CommentService) List(ctx context.Context, principal, taskID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		if _, err := authorizedTask(ctx, repos, principal, taskID, access.CommentList); err != nil {
			return err
		}
		var err error
		comments, err = repos.Comments.ListByTask(ctx, taskID)
		return err
	})
	return comments, err
}
