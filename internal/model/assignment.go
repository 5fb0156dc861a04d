package model

import (
	"errors"

	"gorm.io/gorm"
)

var ErrAssignmentTarget = errors.New("assignment must target exactly one of user or project")

// ExamAssignment grants a user, or every member of a project, the right to attempt an exam.
type ExamAssignment struct {
	BaseModel
	ExamID    uint  `gorm:"index;not null" json:"examId"`
	UserID    *uint `gorm:"index;check:chk_exam_assignment_target,(user_id IS NULL) <> (project_id IS NULL)" json:"userId,omitempty"`
	ProjectID *uint `gorm:"index" json:"projectId,omitempty"`
}

func (ExamAssignment) TableName() string {
	return "exam_assignments"
}

func (a *ExamAssignment) BeforeSave(tx *gorm.DB) error {
	if (a.UserID == nil) == (a.ProjectID == nil) {
		return ErrAssignmentTarget
	}
	return nil
}
