package model

import "time"

type TrainingItem struct {
	BaseModel
	Title string `gorm:"size:255;not null" json:"title"`
}

func (TrainingItem) TableName() string {
	return "training_items"
}

// TrainingAssignment targets exactly one of user or project, like ExamAssignment.
type TrainingAssignment struct {
	BaseModel
	TrainingItemID uint  `gorm:"index;not null" json:"trainingItemId"`
	UserID         *uint `gorm:"index" json:"userId,omitempty"`
	ProjectID      *uint `gorm:"index" json:"projectId,omitempty"`
}

func (TrainingAssignment) TableName() string {
	return "training_assignments"
}

// TrainingProgress records a user's completion of one training item, 0 to 100.
type TrainingProgress struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint       `gorm:"uniqueIndex:idx_user_training;not null" json:"userId"`
	TrainingItemID uint       `gorm:"uniqueIndex:idx_user_training;not null" json:"trainingItemId"`
	Progress       float64    `gorm:"not null" json:"progress"`
	LastViewedAt   *time.Time `json:"lastViewedAt,omitempty"`
	Rating         *int       `json:"rating,omitempty"`
	Comment        *string    `gorm:"type:text" json:"comment,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (TrainingProgress) TableName() string {
	return "training_progress"
}

const TrainingCompleteProgress = 100.0
