package repository

import (
	"context"
	"time"

	"training_exam_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TrainingRepository struct {
	DB *gorm.DB
}

func NewTrainingRepository(db *gorm.DB) *TrainingRepository {
	return &TrainingRepository{DB: db}
}

// AssignedItemIDs lists training items assigned to the user directly or via any of the projects.
func (r *TrainingRepository) AssignedItemIDs(ctx context.Context, tx *gorm.DB, userID uint, projectIDs []uint) ([]uint, error) {
	q := conn(ctx, r.DB, tx).Model(&model.TrainingAssignment{})
	if len(projectIDs) > 0 {
		q = q.Where("user_id = ? OR project_id IN ?", userID, projectIDs)
	} else {
		q = q.Where("user_id = ?", userID)
	}
	var ids []uint
	if err := q.Distinct().Order("training_item_id").Pluck("training_item_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ProgressByItem returns the user's progress per item. Items without a record are absent.
func (r *TrainingRepository) ProgressByItem(ctx context.Context, tx *gorm.DB, userID uint, itemIDs []uint) (map[uint]float64, error) {
	out := make(map[uint]float64, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	var rows []model.TrainingProgress
	if err := conn(ctx, r.DB, tx).
		Where("user_id = ? AND training_item_id IN ?", userID, itemIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.TrainingItemID] = p.Progress
	}
	return out, nil
}

// ResetProgress forces every listed item back to zero, creating missing records.
func (r *TrainingRepository) ResetProgress(ctx context.Context, tx *gorm.DB, userID uint, itemIDs []uint, now time.Time) error {
	if len(itemIDs) == 0 {
		return nil
	}
	rows := make([]model.TrainingProgress, 0, len(itemIDs))
	for _, id := range itemIDs {
		rows = append(rows, model.TrainingProgress{
			UserID:         userID,
			TrainingItemID: id,
			Progress:       0,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return conn(ctx, r.DB, tx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "training_item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"progress", "last_viewed_at", "rating", "comment", "completed_at", "updated_at",
		}),
	}).Create(&rows).Error
}

func (r *TrainingRepository) SaveProgress(ctx context.Context, p *model.TrainingProgress) error {
	return r.DB.WithContext(ctx).Save(p).Error
}
