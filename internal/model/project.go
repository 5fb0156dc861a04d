package model

type Project struct {
	BaseModel
	Name string `gorm:"size:255;not null" json:"name"`
}

func (Project) TableName() string {
	return "projects"
}

// ProjectMember is a secondary membership; the primary one lives on User.
type ProjectMember struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint `gorm:"uniqueIndex:idx_project_member" json:"userId"`
	ProjectID uint `gorm:"uniqueIndex:idx_project_member;index" json:"projectId"`
}

func (ProjectMember) TableName() string {
	return "project_members"
}
