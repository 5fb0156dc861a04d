package service

import (
	"context"
	"errors"
	"time"

	"training_exam_backend/internal/model"
	"training_exam_backend/pkg/logger"
	"training_exam_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TrainingGateService resolves a user's assigned training the same way exam
// access is resolved: direct assignment or any project membership.
type TrainingGateService struct {
	Memberships ProjectMembership
	Tracker     TrainingTracker
}

func NewTrainingGateService(memberships ProjectMembership, tracker TrainingTracker) *TrainingGateService {
	return &TrainingGateService{Memberships: memberships, Tracker: tracker}
}

// IncompleteItems returns the assigned items whose progress is below completion.
// Items without any progress record are incomplete.
func (s *TrainingGateService) IncompleteItems(ctx context.Context, userID uint) ([]uint, error) {
	items, err := s.assignedItems(ctx, nil, userID)
	if err != nil || len(items) == 0 {
		return nil, err
	}

	progress, err := s.Tracker.ProgressByItem(ctx, nil, userID, items)
	if err != nil {
		return nil, err
	}

	var incomplete []uint
	for _, id := range items {
		if progress[id] < model.TrainingCompleteProgress {
			incomplete = append(incomplete, id)
		}
	}
	return incomplete, nil
}

// ResetForFailure zeroes progress on every assigned item, creating records
// where none exist. It runs inside the finalizing transaction.
func (s *TrainingGateService) ResetForFailure(ctx context.Context, tx *gorm.DB, userID uint, now time.Time) error {
	items, err := s.assignedItems(ctx, tx, userID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	if err := s.Tracker.ResetProgress(ctx, tx, userID, items, now); err != nil {
		return err
	}

	monitoring.TrainingResets.Inc()
	logger.Log.Info("Training progress reset after failed exam",
		zap.Uint("userID", userID),
		zap.Int("items", len(items)))
	return nil
}

func (s *TrainingGateService) assignedItems(ctx context.Context, tx *gorm.DB, userID uint) ([]uint, error) {
	projects, err := s.Memberships.ProjectIDs(ctx, tx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.Tracker.AssignedItemIDs(ctx, tx, userID, projects)
}
