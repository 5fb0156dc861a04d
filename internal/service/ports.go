package service

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Collaborator ports. A nil tx means "use the default connection"; finalization
// passes its transaction so the training reset commits together with the attempt.

type ProjectMembership interface {
	ProjectIDs(ctx context.Context, tx *gorm.DB, userID uint) ([]uint, error)
}

type AssignmentLookup interface {
	Targets(ctx context.Context, tx *gorm.DB, examID uint) (userIDs, projectIDs []uint, err error)
	ExamIDsForTargets(ctx context.Context, tx *gorm.DB, userID uint, projectIDs []uint) ([]uint, error)
}

type TrainingTracker interface {
	AssignedItemIDs(ctx context.Context, tx *gorm.DB, userID uint, projectIDs []uint) ([]uint, error)
	ProgressByItem(ctx context.Context, tx *gorm.DB, userID uint, itemIDs []uint) (map[uint]float64, error)
	ResetProgress(ctx context.Context, tx *gorm.DB, userID uint, itemIDs []uint, now time.Time) error
}

// TrainingGate ties exam entry and failure consequences to training completion.
type TrainingGate interface {
	IncompleteItems(ctx context.Context, userID uint) ([]uint, error)
	ResetForFailure(ctx context.Context, tx *gorm.DB, userID uint, now time.Time) error
}
