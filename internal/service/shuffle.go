package service

import (
	"math/rand/v2"

	"training_exam_backend/internal/model"
)

// ShuffleGenerator draws a per-attempt presentation order.
type ShuffleGenerator struct {
	// Seed returns a fresh seed for every attempt; tests pin it.
	Seed func() uint64
}

func NewShuffleGenerator() *ShuffleGenerator {
	return &ShuffleGenerator{Seed: rand.Uint64}
}

// Generate shuffles the question ids and, independently, each question's choice ids.
func (g *ShuffleGenerator) Generate(exam *model.Exam) model.ShuffleState {
	seed := g.Seed()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	state := model.ShuffleState{
		Seed:          seed,
		QuestionOrder: make([]uint, 0, len(exam.Questions)),
		ChoiceOrder:   make(map[uint][]uint, len(exam.Questions)),
	}
	for _, q := range exam.Questions {
		state.QuestionOrder = append(state.QuestionOrder, q.ID)

		choices := make([]uint, 0, len(q.Choices))
		for _, c := range q.Choices {
			choices = append(choices, c.ID)
		}
		rng.Shuffle(len(choices), func(i, j int) { choices[i], choices[j] = choices[j], choices[i] })
		state.ChoiceOrder[q.ID] = choices
	}
	rng.Shuffle(len(state.QuestionOrder), func(i, j int) {
		state.QuestionOrder[i], state.QuestionOrder[j] = state.QuestionOrder[j], state.QuestionOrder[i]
	})
	return state
}

// Reconcile replays a persisted order against the exam's live content: ids no
// longer present are dropped, new ids are appended in their natural order.
func Reconcile(state model.ShuffleState, exam *model.Exam) model.ShuffleState {
	live := make([]uint, 0, len(exam.Questions))
	liveChoices := make(map[uint][]uint, len(exam.Questions))
	for _, q := range exam.Questions {
		live = append(live, q.ID)
		ids := make([]uint, 0, len(q.Choices))
		for _, c := range q.Choices {
			ids = append(ids, c.ID)
		}
		liveChoices[q.ID] = ids
	}

	out := model.ShuffleState{
		Seed:          state.Seed,
		QuestionOrder: mergeOrder(state.QuestionOrder, live),
		ChoiceOrder:   make(map[uint][]uint, len(live)),
	}
	for _, qid := range out.QuestionOrder {
		out.ChoiceOrder[qid] = mergeOrder(state.ChoiceOrder[qid], liveChoices[qid])
	}
	return out
}

func mergeOrder(persisted, live []uint) []uint {
	present := make(map[uint]bool, len(live))
	for _, id := range live {
		present[id] = true
	}

	out := make([]uint, 0, len(live))
	seen := make(map[uint]bool, len(live))
	for _, id := range persisted {
		if present[id] && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	for _, id := range live {
		if !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	return out
}
