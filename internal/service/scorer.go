package service

import (
	"math"

	"training_exam_backend/internal/model"
)

// PassThreshold is the fixed minimum percentage for a passing verdict.
const PassThreshold = 70.0

type ScoreResult struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Score   float64 `json:"score"`
	Passed  bool    `json:"passed"`
}

type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// Score counts a question as correct when its recorded choice is one of the
// question's correct choices. Unanswered questions count as wrong.
func (s *ScoringService) Score(questions []model.Question, answers []model.AttemptAnswer) ScoreResult {
	selected := make(map[uint]uint, len(answers))
	for _, a := range answers {
		if a.ChoiceID != nil {
			selected[a.QuestionID] = *a.ChoiceID
		}
	}

	correct := 0
	for _, q := range questions {
		choiceID, ok := selected[q.ID]
		if !ok {
			continue
		}
		for _, c := range q.Choices {
			if c.ID == choiceID && c.IsCorrect {
				correct++
				break
			}
		}
	}

	total := len(questions)
	score := roundOneDecimal(float64(correct) * 100 / float64(max(1, total)))
	return ScoreResult{
		Correct: correct,
		Total:   total,
		Score:   score,
		Passed:  score >= PassThreshold,
	}
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
