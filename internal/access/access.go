// Package access decides whether a principal may act on a project, a task
// or a task's comments.
//
// Projects carry the only access list in the system: the owner holds Admin,
// members hold View. Tasks inherit from their parent project and comments
// inherit from their task, so every decision ends as a project check. The
// functions here are pure: they read the ownership and membership facts
// already loaded on the model and keep no state between calls.
package access

import (
	"productive-boards/internal/model"
)

// Level is the access a caller needs for an action.
type Level int

const (
	// View covers reads, status transitions, task edits and comments.
	View Level = iota

	// Admin covers project edits, membership management and task
	// creation/deletion.
	Admin
)

// String returns "view" or "admin".
func (l Level) String() string {
	if l == Admin {
		return "admin"
	}
	return "view"
}

// Action names an operation. Every action maps to exactly one Level.
type Action string

const (
	ProjectView          Action = "project/view"
	ProjectUpdate        Action = "project/update"
	ProjectDelete        Action = "project/delete"
	ProjectMembersList   Action = "project/members/list"
	ProjectMembersAdd    Action = "project/members/add"
	ProjectMembersRemove Action = "project/members/remove"

	TaskCreate Action = "task/create"
	TaskView   Action = "task/view"
	TaskList   Action = "task/list"
	TaskUpdate Action = "task/update"
	TaskStatus Action = "task/status"
	TaskDelete Action = "task/delete"

	CommentCreate Action = "comment/create"
	CommentList   Action = "comment/list"
)

var actionLevels = map[Action]Level{
	ProjectView:          View,
	ProjectUpdate:        Admin,
	ProjectDelete:        Admin,
	ProjectMembersList:   View,
	ProjectMembersAdd:    Admin,
	ProjectMembersRemove: Admin,

	TaskCreate: Admin,
	TaskView:   View,
	TaskList:   View,
	TaskUpdate: View,
	TaskStatus: View,
	TaskDelete: Admin,

	CommentCreate: View,
	CommentList:   View,
}

// Level returns the access required for a. Unknown actions require Admin.
func (a Action) Level() Level {
	if level, ok := actionLevels[a]; ok {
		return level
	}
	return Admin
}

// CanAccessProject reports whether principal holds level on project.
// Admin belongs to the owner alone; View belongs to the owner and every
// member. The project's Members must be loaded.
func CanAccessProject(principal uint, project *model.Project, level Level) bool {
	if project == nil || principal == 0 {
		return false
	}
	if principal == project.OwnerID {
		return true
	}
	if level == Admin {
		return false
	}
	return project.HasMember(principal)
}

// CanAccessTask reports whether principal holds level on task. Tasks have
// no access list of their own; the decision is the parent project's. A task
// whose parent project is not loaded is never accessible.
func CanAccessTask(principal uint, task *model.Task, level Level) bool {
	if task == nil {
		return false
	}
	return CanAccessProject(principal, task.Project, level)
}

// CanAccessComments reports whether principal may read or add comments on
// task. Comments inherit View from their task.
func CanAccessComments(principal uint, task *model.Task) bool {
	return CanAccessTask(principal, task, View)
}

// Allowed reports whether principal may perform action on project.
func Allowed(principal uint, project *model.Project, action Action) bool {
	return CanAccessProject(principal, project, action.Level())
}
