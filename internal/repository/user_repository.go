package repository

import (
	"context"
	"time"

	"training_exam_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	return &user, err
}

// ProjectIDs returns the user's primary project followed by every secondary membership.
func (r *UserRepository) ProjectIDs(ctx context.Context, tx *gorm.DB, userID uint) ([]uint, error) {
	db := conn(ctx, r.DB, tx)

	var user model.User
	if err := db.Select("id", "primary_project_id").First(&user, userID).Error; err != nil {
		return nil, err
	}

	var ids []uint
	if user.PrimaryProjectID != nil {
		ids = append(ids, *user.PrimaryProjectID)
	}

	var secondary []uint
	if err := db.Model(&model.ProjectMember{}).
		Where("user_id = ?", userID).
		Order("project_id").
		Pluck("project_id", &secondary).Error; err != nil {
		return nil, err
	}

	return uniqueUints(append(ids, secondary...)), nil
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_seen", time.Now()).
		Error
}
