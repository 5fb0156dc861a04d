package service

import (
	"testing"

	"training_exam_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func question(id uint, correct ...uint) model.Question {
	q := model.Question{}
	q.ID = id
	for i := uint(1); i <= 4; i++ {
		c := model.Choice{QuestionID: id}
		c.ID = id*10 + i
		for _, want := range correct {
			if c.ID == want {
				c.IsCorrect = true
			}
		}
		q.Choices = append(q.Choices, c)
	}
	return q
}

func answer(questionID uint, choiceID *uint) model.AttemptAnswer {
	return model.AttemptAnswer{QuestionID: questionID, ChoiceID: choiceID}
}

func ptr(v uint) *uint { return &v }

func TestScoringService_Score(t *testing.T) {
	s := NewScoringService()

	tests := []struct {
		name      string
		questions []model.Question
		answers   []model.AttemptAnswer
		want      ScoreResult
	}{
		{
			name:      "no questions",
			questions: nil,
			want:      ScoreResult{Correct: 0, Total: 0, Score: 0, Passed: false},
		},
		{
			name:      "one of two",
			questions: []model.Question{question(1, 12), question(2, 21)},
			answers:   []model.AttemptAnswer{answer(1, ptr(12)), answer(2, ptr(22))},
			want:      ScoreResult{Correct: 1, Total: 2, Score: 50, Passed: false},
		},
		{
			name:      "unanswered counts as wrong",
			questions: []model.Question{question(1, 11), question(2, 21), question(3, 31)},
			answers:   []model.AttemptAnswer{answer(1, ptr(11)), answer(2, ptr(21)), answer(3, nil)},
			want:      ScoreResult{Correct: 2, Total: 3, Score: 66.7, Passed: false},
		},
		{
			name:      "seven of ten is a pass",
			questions: []model.Question{question(1, 11), question(2, 21), question(3, 31), question(4, 41), question(5, 51), question(6, 61), question(7, 71), question(8, 81), question(9, 91), question(10, 101)},
			answers: []model.AttemptAnswer{
				answer(1, ptr(11)), answer(2, ptr(21)), answer(3, ptr(31)), answer(4, ptr(41)),
				answer(5, ptr(51)), answer(6, ptr(61)), answer(7, ptr(71)), answer(8, ptr(82)),
			},
			want: ScoreResult{Correct: 7, Total: 10, Score: 70, Passed: true},
		},
		{
			name:      "any of several correct choices",
			questions: []model.Question{question(1, 11, 13)},
			answers:   []model.AttemptAnswer{answer(1, ptr(13))},
			want:      ScoreResult{Correct: 1, Total: 1, Score: 100, Passed: true},
		},
		{
			name:      "answers to removed questions are ignored",
			questions: []model.Question{question(1, 11)},
			answers:   []model.AttemptAnswer{answer(1, ptr(12)), answer(9, ptr(91))},
			want:      ScoreResult{Correct: 0, Total: 1, Score: 0, Passed: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Score(tt.questions, tt.answers))
		})
	}
}

func TestScoringService_PassThresholdIsInclusive(t *testing.T) {
	s := NewScoringService()
	var questions []model.Question
	var answers []model.AttemptAnswer
	for i := uint(1); i <= 3; i++ {
		questions = append(questions, question(i, i*10+1))
		answers = append(answers, answer(i, ptr(i*10+1)))
	}
	// 3 correct of 3 passes, 2 of 3 rounds to 66.7 and fails.
	assert.True(t, s.Score(questions, answers).Passed)
	assert.False(t, s.Score(questions, answers[:2]).Passed)
}
