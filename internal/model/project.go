package model

import "time"

// Project is owned by exactly one user and shared with members.
// The owner is never stored as a member.
type Project struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	OwnerID     uint   `gorm:"index;not null"`
	Owner       User   `gorm:"foreignKey:OwnerID"`
	Members     []User `gorm:"many2many:project_members"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectMember is the join row behind Project.Members.
type ProjectMember struct {
	ProjectID uint `gorm:"primaryKey"`
	UserID    uint `gorm:"primaryKey;index"`
	CreatedAt time.Time
}

// HasMember reports whether userID is in the loaded member list.
func (p *Project) HasMember(userID uint) bool {
	for _, m := range p.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
