package model

import "time"

// Comment is append-only: content, task and author are fixed at creation.
type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	TaskID    uint   `gorm:"index;not null"`
	UserID    uint   `gorm:"index;not null"`
	Author    User   `gorm:"foreignKey:UserID"`
	Content   string `gorm:"not null"`
	CreatedAt time.Time
}
