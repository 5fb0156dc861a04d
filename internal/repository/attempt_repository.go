package repository

import (
	"context"
	"errors"
	"time"

	"training_exam_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Create inserts a new open attempt. A concurrent open attempt for the same
// (user, exam) surfaces as a unique violation, see IsUniqueViolation.
func (r *AttemptRepository) Create(ctx context.Context, tx *gorm.DB, attempt *model.ExamAttempt) error {
	return conn(ctx, r.DB, tx).Create(attempt).Error
}

func (r *AttemptRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.ExamAttempt, error) {
	var a model.ExamAttempt
	if err := conn(ctx, r.DB, tx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindForUpdate reads the attempt holding its row lock until tx ends.
// Answer saves queue behind the lock and see the attempt closed afterwards.
func (r *AttemptRepository) FindForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*model.ExamAttempt, error) {
	var a model.ExamAttempt
	if err := conn(ctx, r.DB, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindOpen returns the open attempt for (user, exam), or nil when there is none.
func (r *AttemptRepository) FindOpen(ctx context.Context, tx *gorm.DB, userID, examID uint) (*model.ExamAttempt, error) {
	var a model.ExamAttempt
	err := conn(ctx, r.DB, tx).
		Where("user_id = ? AND exam_id = ? AND submitted_at IS NULL", userID, examID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) HasPassed(ctx context.Context, tx *gorm.DB, userID, examID uint) (bool, error) {
	var count int64
	err := conn(ctx, r.DB, tx).Model(&model.ExamAttempt{}).
		Where("user_id = ? AND exam_id = ? AND submitted_at IS NOT NULL AND passed = ?", userID, examID, true).
		Count(&count).Error
	return count > 0, err
}

// ListOpenByUser returns the user's open attempts, optionally limited to some exams.
func (r *AttemptRepository) ListOpenByUser(ctx context.Context, tx *gorm.DB, userID uint, examIDs []uint) ([]model.ExamAttempt, error) {
	q := conn(ctx, r.DB, tx).Where("user_id = ? AND submitted_at IS NULL", userID)
	if examIDs != nil {
		if len(examIDs) == 0 {
			return nil, nil
		}
		q = q.Where("exam_id IN ?", examIDs)
	}
	var attempts []model.ExamAttempt
	err := q.Order("id").Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListOpenByExam(ctx context.Context, tx *gorm.DB, examID uint) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := conn(ctx, r.DB, tx).
		Where("exam_id = ? AND submitted_at IS NULL", examID).
		Order("id").
		Find(&attempts).Error
	return attempts, err
}

// OpenAttemptWindow is an open attempt together with its exam's time limit.
type OpenAttemptWindow struct {
	ID              uint
	StartedAt       time.Time
	DurationMinutes int
}

// ListOpenWindows pages through every open attempt by ascending id.
func (r *AttemptRepository) ListOpenWindows(ctx context.Context, afterID uint, limit int) ([]OpenAttemptWindow, error) {
	var rows []OpenAttemptWindow
	err := r.DB.WithContext(ctx).
		Table("exam_attempts").
		Select("exam_attempts.id, exam_attempts.started_at, exams.duration_minutes").
		Joins("JOIN exams ON exams.id = exam_attempts.exam_id").
		Where("exam_attempts.submitted_at IS NULL AND exam_attempts.deleted_at IS NULL AND exam_attempts.id > ?", afterID).
		Order("exam_attempts.id").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *AttemptRepository) ListByExam(ctx context.Context, examID uint) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.DB.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("started_at DESC, id DESC").
		Find(&attempts).Error
	return attempts, err
}

// LatestByUser returns the most recent attempt per exam for the user.
func (r *AttemptRepository) LatestByUser(ctx context.Context, userID uint, examIDs []uint) (map[uint]model.ExamAttempt, error) {
	out := make(map[uint]model.ExamAttempt)
	if len(examIDs) == 0 {
		return out, nil
	}
	var attempts []model.ExamAttempt
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND exam_id IN ?", userID, examIDs).
		Order("started_at ASC, id ASC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	for _, a := range attempts {
		out[a.ExamID] = a
	}
	return out, nil
}

// TouchIfOpen bumps updated_at only while the attempt is open. Zero rows
// affected means the attempt was closed in the meantime.
func (r *AttemptRepository) TouchIfOpen(ctx context.Context, tx *gorm.DB, id uint, now time.Time) (bool, error) {
	res := conn(ctx, r.DB, tx).Model(&model.ExamAttempt{}).
		Where("id = ? AND submitted_at IS NULL", id).
		UpdateColumn("updated_at", now)
	return res.RowsAffected == 1, res.Error
}

// AttemptResult is the finalization payload written in one statement.
type AttemptResult struct {
	SubmittedAt     time.Time
	Score           float64
	Passed          bool
	DurationSeconds int
	AutoSubmitted   bool
}

// CloseIfOpen writes the result only if the attempt is still open.
func (r *AttemptRepository) CloseIfOpen(ctx context.Context, tx *gorm.DB, id uint, res AttemptResult) (bool, error) {
	out := conn(ctx, r.DB, tx).Model(&model.ExamAttempt{}).
		Where("id = ? AND submitted_at IS NULL", id).
		Updates(map[string]interface{}{
			"submitted_at":     res.SubmittedAt,
			"score":            res.Score,
			"passed":           res.Passed,
			"duration_seconds": res.DurationSeconds,
			"auto_submitted":   res.AutoSubmitted,
		})
	return out.RowsAffected == 1, out.Error
}

// SetShuffleIfEmpty persists the shuffle state unless another request already did.
func (r *AttemptRepository) SetShuffleIfEmpty(ctx context.Context, tx *gorm.DB, id uint, state datatypes.JSON) (bool, error) {
	res := conn(ctx, r.DB, tx).Model(&model.ExamAttempt{}).
		Where("id = ? AND shuffle_state IS NULL", id).
		UpdateColumn("shuffle_state", state)
	return res.RowsAffected == 1, res.Error
}

// Override replaces score and verdict on a closed attempt.
func (r *AttemptRepository) Override(ctx context.Context, id uint, score float64, passed bool, note string, adminID uint) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.ExamAttempt{}).
		Where("id = ? AND submitted_at IS NOT NULL", id).
		Updates(map[string]interface{}{
			"score":         score,
			"passed":        passed,
			"admin_note":    note,
			"overridden_by": adminID,
		})
	return res.RowsAffected == 1, res.Error
}

// UpsertAnswer stores the choice for (attempt, question), replacing any earlier one.
func (r *AttemptRepository) UpsertAnswer(ctx context.Context, tx *gorm.DB, answer *model.AttemptAnswer) error {
	return conn(ctx, r.DB, tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"choice_id", "updated_at"}),
	}).Create(answer).Error
}

func (r *AttemptRepository) ListAnswers(ctx context.Context, tx *gorm.DB, attemptID uint) ([]model.AttemptAnswer, error) {
	var answers []model.AttemptAnswer
	err := conn(ctx, r.DB, tx).Where("attempt_id = ?", attemptID).Order("question_id").Find(&answers).Error
	return answers, err
}
