package api

import (
	"time"

	"productive-boards/internal/model"
)

// userView is the only user shape ever serialized: credentials never leave
// the server.
type userView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type projectView struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	OwnerID     uint       `json:"owner_id"`
	Owner       userView   `json:"owner"`
	Members     []userView `json:"members"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type taskView struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      model.TaskStatus   `json:"status"`
	Priority    model.TaskPriority `json:"priority"`
	ProjectID   uint               `json:"project_id"`
	AssigneeID  *uint              `json:"assignee_id"`
	Assignee    *userView          `json:"assignee"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type commentView struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	TaskID    uint      `json:"task_id"`
	UserID    uint      `json:"user_id"`
	Author    userView  `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserView(u model.User) userView {
	return userView{ID: u.ID, Name: u.Name}
}

func newUserViews(users []model.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, newUserView(u))
	}
	return out
}

func newProjectView(p *model.Project) projectView {
	return projectView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		Owner:       newUserView(p.Owner),
		Members:     newUserViews(p.Members),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func newProjectViews(projects []model.Project) []projectView {
	out := make([]projectView, 0, len(projects))
	for i := range projects {
		out = append(out, newProjectView(&projects[i]))
	}
	return out
}

func newTaskView(t *model.Task) taskView {
	view := taskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		ProjectID:   t.ProjectID,
		AssigneeID:  t.AssigneeID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Assignee != nil {
		assignee := newUserView(*t.Assignee)
		view.Assignee = &assignee
	}
	return view
}

func newTaskViews(tasks []model.Task) []taskView {
	out := make([]taskView, 0, len(tasks))
	for i := range tasks {
		out = append(out, newTaskView(&tasks[i]))
	}
	return out
}

func newCommentView(c *model.Comment) commentView {
	return commentView{
		ID:        c.ID,
		Content:   c.Content,
		TaskID:    c.TaskID,
		UserID:    c.UserID,
		Author:    newUserView(c.Author),
		CreatedAt: c.CreatedAt,
	}
}

func newCommentViews(comments []model.Comment) []commentView {
	out := make([]commentView, 0, len(comments))
	for i := range comments {
		out = append(out, newCommentView(&comments[i]))
	}
	return out
}
