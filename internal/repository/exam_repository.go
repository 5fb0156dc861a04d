package repository

import (
	"context"

	"training_exam_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := conn(ctx, r.DB, tx).First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) FindByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]model.Exam, error) {
	var exams []model.Exam
	if len(ids) == 0 {
		return exams, nil
	}
	err := conn(ctx, r.DB, tx).Where("id IN ?", ids).Order("id").Find(&exams).Error
	return exams, err
}

// FindWithQuestions loads the exam with questions in display order and their choices.
func (r *ExamRepository) FindWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*model.Exam, error) {
	var exam model.Exam
	err := conn(ctx, r.DB, tx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, id ASC")
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) FindQuestion(ctx context.Context, tx *gorm.DB, id uint) (*model.Question, error) {
	var q model.Question
	if err := conn(ctx, r.DB, tx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *ExamRepository) FindChoice(ctx context.Context, tx *gorm.DB, id uint) (*model.Choice, error) {
	var c model.Choice
	if err := conn(ctx, r.DB, tx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
