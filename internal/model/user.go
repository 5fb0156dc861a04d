package model

import (
	"time"
)

type UserRole string

const (
	Learner UserRole = "learner"
	Manager UserRole = "manager"
	Admin   UserRole = "admin"
)

type User struct {
	BaseModel
	Name             string     `gorm:"size:100;not null" json:"name"`
	Email            string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Role             UserRole   `gorm:"size:20;default:'learner'" json:"role"`
	PrimaryProjectID *uint      `gorm:"index" json:"primaryProjectId,omitempty"`
	Disabled         bool       `gorm:"default:false" json:"disabled"`
	LastSeen         *time.Time `json:"lastSeen,omitempty"`
}

func (User) TableName() string {
	return "users"
}
