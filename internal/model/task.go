package model

import "time"

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// IsValid reports whether s is a known status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task belongs to exactly one project for its whole life.
type Task struct {
	ID          uint   `gorm:"primaryKey"`
	ProjectID   uint   `gorm:"index;not null"`
	Project     *Project
	Title       string `gorm:"not null"`
	Description string
	Status      TaskStatus   `gorm:"index;not null;default:'todo'"`
	Priority    TaskPriority `gorm:"index;not null;default:'medium'"`
	AssigneeID  *uint        `gorm:"index"`
	Assignee    *User        `gorm:"foreignKey:AssigneeID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
