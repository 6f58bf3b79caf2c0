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

// ProjectInput represents data required to create a project.
type ProjectInput struct {
	Title       string
	Description string
}

// ProjectPatch carries the fields of a project update. Absent fields are
// left alone.
type ProjectPatch struct {
	Title       optional.Value[string] `json:"title"`
	Description optional.Value[string] `json:"description"`
}

// ProjectService implements project and membership use cases.
type ProjectService struct {
	store *repository.Store
	log   *slog.Logger
}

func NewProjectService(store *repository.Store, log *slog.Logger) *ProjectService {
	return &ProjectService{store: store, log: log}
}

// Create makes principal the owner of a new project. Any authenticated
// user may create projects.
func (s *ProjectService) Create(ctx context.Context, principal uint, input ProjectInput) (*model.Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalidf("title is required")
	}

	var project *model.Project
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		created := model.Project{Title: title, Description: input.Description, OwnerID: principal}
		if err := repos.Projects.Create(ctx, &created); err != nil {
			return err
		}
		var err error
		project, err = repos.Projects.FindByID(ctx, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("project created", "project_id", project.ID, "owner_id", principal)
	return project, nil
}

// ListMine returns the projects principal owns or is a member of.
func (s *ProjectService) ListMine(ctx context.Context, principal uint) ([]model.Project, error) {
	var projects []model.Project
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		var err error
		projects, err = repos.Projects.ListForUser(ctx, principal)
		return err
	})
	return projects, err
}

func (s *ProjectService) Get(ctx context.Context, principal, projectID uint) (*model.Project, error) {
	var project *model.Project
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		var err error
		project, err = authorizedProject(ctx, repos, principal, projectID, access.ProjectView)
		return err
	})
	return project, err
}

func (s *ProjectService) Update(ctx context.Context, principal, projectID uint, patch ProjectPatch) (*model.Project, error) {
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

	var project *model.Project
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		current, err := authorizedProject(ctx, repos, principal, projectID, access.ProjectUpdate)
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			project = current
			return nil
		}
		if err := repos.Projects.Update(ctx, current, fields); err != nil {
			return err
		}
		project, err = repos.Projects.FindByID(ctx, projectID)
		return err
	})
	return project, err
}

// Delete removes a project together with its tasks, comments and
// memberships.
func (s *ProjectService) Delete(ctx context.Context, principal, projectID uint) error {
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		if _, err := authorizedProject(ctx, repos, principal, projectID, access.ProjectDelete); err != nil {
			return err
		}
		return repos.Projects.Delete(ctx, projectID)
	})
	if err != nil {
		return err
	}
	s.log.Info("project deleted", "project_id", projectID, "by", principal)
	return nil
}

// AddMember grants userID View on the project. The owner cannot be made a
// member, and adding an existing member changes nothing.
func (s *ProjectService) AddMember(ctx context.Context, principal, projectID, userID uint) (*model.User, error) {
	var member *model.User
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		project, err := authorizedProject(ctx, repos, principal, projectID, access.ProjectMembersAdd)
		if err != nil {
			return err
		}
		member, err = repos.Users.FindByID(ctx, userID)
		if err != nil {
			return lookup(err, "user")
		}
		if member.ID == project.OwnerID {
			return invalidf("the project owner cannot be added as a member")
		}
		return repos.Projects.AddMember(ctx, projectID, userID)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("member added", "project_id", projectID, "user_id", userID, "by", principal)
	return member, nil
}

// RemoveMember revokes userID's membership. A user who is not currently a
// member, the owner included, is reported as not found.
func (s *ProjectService) RemoveMember(ctx context.Context, principal, projectID, userID uint) (*model.User, error) {
	var member *model.User
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		if _, err := authorizedProject(ctx, repos, principal, projectID, access.ProjectMembersRemove); err != nil {
			return err
		}
		var err error
		member, err = repos.Users.FindByID(ctx, userID)
		if err != nil {
			return lookup(err, "user")
		}
		removed, err := repos.Projects.RemoveMember(ctx, projectID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return notFoundf("user is not a member of this project")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("member removed", "project_id", projectID, "user_id", userID, "by", principal)
	return member, nil
}

func (s *ProjectService) ListMembers(ctx context.Context, principal, projectID uint) ([]model.User, error) {
	var members []model.User
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		if _, err := authorizedProject(ctx, repos, principal, projectID, access.ProjectMembersList); err != nil {
			return err
		}
		var err error
		members, err = repos.Projects.Members(ctx, projectID)
		return err
	})
	return members, err
}

// authorizedProject locates a project and then checks action against it.
// A missing project is NotFound before any access decision is made.
func authorizedProject(ctx context.Context, repos *repository.Repositories, principal, projectID uint, action access.Action) (*model.Project, error) {
	project, err := repos.Projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, lookup(err, "project")
	}
	if !access.Allowed(principal, project, action) {
		return nil, forbiddenf("not authorized to %s", describe(action))
	}
	return project, nil
}

// authorizedTask locates a task with its parent project and checks action
// against that project.
func authorizedTask(ctx context.Context, repos *repository.Repositories, principal, taskID uint, action access.Action) (*model.Task, error) {
	task, err := repos.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, lookup(err, "task")
	}
	if !access.CanAccessTask(principal, task, action.Level()) {
		return nil, forbiddenf("not authorized to %s", describe(action))
	}
	return task, nil
}

var actionDescriptions = map[access.Action]string{
	access.ProjectView:          "view project",
	access.ProjectUpdate:        "update project",
	access.ProjectDelete:        "delete project",
	access.ProjectMembersList:   "view members",
	access.ProjectMembersAdd:    "add members",
	access.ProjectMembersRemove: "remove members",
	access.TaskCreate:           "add tasks",
	access.TaskView:             "view task",
	access.TaskList:             "view tasks for this project",
	access.TaskUpdate:           "update task",
	access.TaskStatus:           "update task status",
	access.TaskDelete:           "delete task",
	access.CommentCreate:        "comment on this task",
	access.CommentList:          "view comments for this task",
}

func describe(action access.Action) string {
	if text, ok := actionDescriptions[action]; ok {
		return text
	}
	return string(action)
}
