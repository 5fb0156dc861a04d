package model

import (
	"time"

	"gorm.io/datatypes"
)

// ExamAttempt is open while SubmittedAt is nil. At most one open attempt per
// (user, exam) is enforced by a partial unique index created in database.Migrate.
type ExamAttempt struct {
	BaseModel

	UserID          uint           `gorm:"index;not null" json:"userId"`
	ExamID          uint           `gorm:"index;not null" json:"examId"`
	StartedAt       time.Time      `gorm:"not null" json:"startedAt"`
	SubmittedAt     *time.Time     `json:"submittedAt,omitempty"`
	Score           *float64       `gorm:"type:decimal(5,1)" json:"score,omitempty"`
	Passed          *bool          `json:"passed,omitempty"`
	AutoSubmitted   bool           `gorm:"default:false" json:"autoSubmitted"`
	DurationSeconds *int           `json:"durationSeconds,omitempty"`
	AdminNote       *string        `gorm:"type:text" json:"adminNote,omitempty"`
	OverriddenBy    *uint          `json:"overriddenBy,omitempty"`
	ShuffleState    datatypes.JSON `json:"-"`
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}

func (a *ExamAttempt) IsOpen() bool {
	return a.SubmittedAt == nil
}

// WindowEnd returns the instant the attempt's time limit lapses.
func (a *ExamAttempt) WindowEnd(durationMinutes int) time.Time {
	return a.StartedAt.Add(time.Duration(durationMinutes) * time.Minute)
}

// AttemptAnswer holds the selected choice for one question; ChoiceID nil means unanswered.
type AttemptAnswer struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AttemptID  uint      `gorm:"uniqueIndex:idx_attempt_question;not null" json:"attemptId"`
	QuestionID uint      `gorm:"uniqueIndex:idx_attempt_question;not null" json:"questionId"`
	ChoiceID   *uint     `json:"choiceId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (AttemptAnswer) TableName() string {
	return "exam_attempt_answers"
}

// ShuffleState is the persisted presentation order of one attempt.
type ShuffleState struct {
	Seed          uint64          `json:"seed"`
	QuestionOrder []uint          `json:"questionOrder"`
	ChoiceOrder   map[uint][]uint `json:"choiceOrder"`
}
