package service

import (
	"slices"
	"testing"

	"training_exam_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shuffleExam(questions, choices int) *model.Exam {
	exam := &model.Exam{}
	for i := 1; i <= questions; i++ {
		q := model.Question{}
		q.ID = uint(i)
		for j := 1; j <= choices; j++ {
			c := model.Choice{QuestionID: q.ID}
			c.ID = uint(i*100 + j)
			q.Choices = append(q.Choices, c)
		}
		exam.Questions = append(exam.Questions, q)
	}
	return exam
}

func TestShuffleGenerator_IsPermutation(t *testing.T) {
	exam := shuffleExam(8, 4)
	g := NewShuffleGenerator()
	state := g.Generate(exam)

	require.Len(t, state.QuestionOrder, 8)
	sorted := slices.Clone(state.QuestionOrder)
	slices.Sort(sorted)
	assert.Equal(t, []uint{1, 2, 3, 4, 5, 6, 7, 8}, sorted)

	for _, q := range exam.Questions {
		got := slices.Clone(state.ChoiceOrder[q.ID])
		slices.Sort(got)
		assert.Equal(t, []uint{q.ID*100 + 1, q.ID*100 + 2, q.ID*100 + 3, q.ID*100 + 4}, got)
	}
}

func TestShuffleGenerator_SameSeedSameOrder(t *testing.T) {
	exam := shuffleExam(6, 5)
	g := &ShuffleGenerator{Seed: func() uint64 { return 42 }}

	a := g.Generate(exam)
	b := g.Generate(exam)
	assert.Equal(t, a, b)
	assert.EqualValues(t, 42, a.Seed)
}

func TestReconcile(t *testing.T) {
	exam := shuffleExam(3, 2)
	state := model.ShuffleState{
		Seed:          1,
		QuestionOrder: []uint{3, 1, 2},
		ChoiceOrder: map[uint][]uint{
			1: {102, 101},
			2: {202, 201},
			3: {302, 301},
		},
	}

	t.Run("unchanged content replays as is", func(t *testing.T) {
		assert.Equal(t, state, Reconcile(state, exam))
	})

	t.Run("drops removed and appends added", func(t *testing.T) {
		drifted := shuffleExam(4, 2)
		drifted.Questions = slices.Delete(drifted.Questions, 0, 1) // question 1 removed
		extra := model.Choice{QuestionID: 3}
		extra.ID = 399
		drifted.Questions[1].Choices = append(drifted.Questions[1].Choices, extra)

		got := Reconcile(state, drifted)
		assert.Equal(t, []uint{3, 2, 4}, got.QuestionOrder)
		assert.Equal(t, []uint{302, 301, 399}, got.ChoiceOrder[3])
		assert.Equal(t, []uint{401, 402}, got.ChoiceOrder[4])
		_, stale := got.ChoiceOrder[1]
		assert.False(t, stale)
	})
}
