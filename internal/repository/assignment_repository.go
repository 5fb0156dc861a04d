package repository

import (
	"context"

	"training_exam_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

// Targets returns the directly assigned users and the assigned projects of an exam.
func (r *AssignmentRepository) Targets(ctx context.Context, tx *gorm.DB, examID uint) (userIDs, projectIDs []uint, err error) {
	var rows []model.ExamAssignment
	if err = conn(ctx, r.DB, tx).Where("exam_id = ?", examID).Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	for _, a := range rows {
		if a.UserID != nil {
			userIDs = append(userIDs, *a.UserID)
		}
		if a.ProjectID != nil {
			projectIDs = append(projectIDs, *a.ProjectID)
		}
	}
	return uniqueUints(userIDs), uniqueUints(projectIDs), nil
}

// ExamIDsForTargets lists exams assigned to the user directly or to any of the given projects.
func (r *AssignmentRepository) ExamIDsForTargets(ctx context.Context, tx *gorm.DB, userID uint, projectIDs []uint) ([]uint, error) {
	q := conn(ctx, r.DB, tx).Model(&model.ExamAssignment{})
	if len(projectIDs) > 0 {
		q = q.Where("user_id = ? OR project_id IN ?", userID, projectIDs)
	} else {
		q = q.Where("user_id = ?", userID)
	}
	var ids []uint
	if err := q.Distinct().Order("exam_id").Pluck("exam_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *AssignmentRepository) Create(ctx context.Context, a *model.ExamAssignment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}
