package service

import (
	"context"
	"errors"

	"training_exam_backend/internal/model"
	"training_exam_backend/internal/util"

	"gorm.io/gorm"
)

type ExamLookup interface {
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.Exam, error)
}

// AccessResolver decides whether a learner may attempt an exam. An exam is
// reachable when it is assigned to the user directly or to any project the
// user belongs to, primary or secondary.
type AccessResolver struct {
	Exams       ExamLookup
	Memberships ProjectMembership
	Assignments AssignmentLookup
}

func NewAccessResolver(exams ExamLookup, memberships ProjectMembership, assignments AssignmentLookup) *AccessResolver {
	return &AccessResolver{
		Exams:       exams,
		Memberships: memberships,
		Assignments: assignments,
	}
}

// CanAttempt returns the exam when the user may take it.
func (r *AccessResolver) CanAttempt(ctx context.Context, userID, examID uint) (*model.Exam, error) {
	exam, err := r.Exams.FindByID(ctx, nil, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	userIDs, projectIDs, err := r.Assignments.Targets(ctx, nil, examID)
	if err != nil {
		return nil, err
	}
	for _, id := range userIDs {
		if id == userID {
			return exam, nil
		}
	}
	if len(projectIDs) == 0 {
		return nil, util.ErrExamNotAssigned
	}

	mine, err := r.projectIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	targets := make(map[uint]struct{}, len(projectIDs))
	for _, id := range projectIDs {
		targets[id] = struct{}{}
	}
	for _, id := range mine {
		if _, ok := targets[id]; ok {
			return exam, nil
		}
	}
	return nil, util.ErrExamNotAssigned
}

// AssignedExamIDs lists every exam the user can reach.
func (r *AccessResolver) AssignedExamIDs(ctx context.Context, userID uint) ([]uint, error) {
	projects, err := r.projectIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.Assignments.ExamIDsForTargets(ctx, nil, userID, projects)
}

// An unknown user has no memberships.
func (r *AccessResolver) projectIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids, err := r.Memberships.ProjectIDs(ctx, nil, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return ids, err
}
