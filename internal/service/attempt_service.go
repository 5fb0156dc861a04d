package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"training_exam_backend/internal/model"
	"training_exam_backend/internal/repository"
	"training_exam_backend/internal/util"
	"training_exam_backend/pkg/logger"
	"training_exam_backend/pkg/monitoring"
	"training_exam_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sweepPageSize = 200

type AttemptService struct {
	DB          *gorm.DB
	AttemptRepo *repository.AttemptRepository
	ExamRepo    *repository.ExamRepository
	Access      *AccessResolver
	Gate        TrainingGate
	Scorer      *ScoringService
	Shuffler    *ShuffleGenerator
	Notifier    Notifier
	// Now is the single time source; each operation reads it once.
	Now func() time.Time
}

func NewAttemptService(
	db *gorm.DB,
	attemptRepo *repository.AttemptRepository,
	examRepo *repository.ExamRepository,
	access *AccessResolver,
	gate TrainingGate,
	notifier Notifier,
) *AttemptService {
	return &AttemptService{
		DB:          db,
		AttemptRepo: attemptRepo,
		ExamRepo:    examRepo,
		Access:      access,
		Gate:        gate,
		Scorer:      NewScoringService(),
		Shuffler:    NewShuffleGenerator(),
		Notifier:    notifier,
		Now:         func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

type StartResult struct {
	AttemptID uint      `json:"attemptId"`
	ExamID    uint      `json:"examId"`
	StartedAt time.Time `json:"startedAt"`
	WindowEnd time.Time `json:"windowEnd"`
	Resumed   bool      `json:"resumed"`
}

type SubmitResult struct {
	AttemptID       uint      `json:"attemptId"`
	Score           float64   `json:"score"`
	Passed          bool      `json:"passed"`
	AutoSubmitted   bool      `json:"autoSubmitted"`
	SubmittedAt     time.Time `json:"submittedAt"`
	DurationSeconds int       `json:"durationSeconds"`
}

type ChoiceView struct {
	ID       uint    `json:"id"`
	Text     *string `json:"text,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

type QuestionView struct {
	ID               uint         `json:"id"`
	Text             string       `json:"text"`
	Choices          []ChoiceView `json:"choices"`
	SelectedChoiceID *uint        `json:"selectedChoiceId"`
}

type AttemptDetail struct {
	AttemptID        uint           `json:"attemptId"`
	ExamID           uint           `json:"examId"`
	ExamTitle        string         `json:"examTitle"`
	StartedAt        time.Time      `json:"startedAt"`
	WindowEnd        time.Time      `json:"windowEnd"`
	RemainingSeconds int            `json:"remainingSeconds"`
	Open             bool           `json:"open"`
	SubmittedAt      *time.Time     `json:"submittedAt,omitempty"`
	Score            *float64       `json:"score,omitempty"`
	Passed           *bool          `json:"passed,omitempty"`
	AutoSubmitted    bool           `json:"autoSubmitted"`
	Questions        []QuestionView `json:"questions"`
}

const (
	ExamStatusNotStarted = "not_started"
	ExamStatusInProgress = "in_progress"
	ExamStatusPassed     = "passed"
	ExamStatusFailed     = "failed"
)

type ExamSummary struct {
	ExamID          uint       `json:"examId"`
	Title           string     `json:"title"`
	DurationMinutes int        `json:"durationMinutes"`
	Status          string     `json:"status"`
	AttemptID       *uint      `json:"attemptId,omitempty"`
	Score           *float64   `json:"score,omitempty"`
	WindowEnd       *time.Time `json:"windowEnd,omitempty"`
}

// Start opens an attempt, or returns the caller's existing open attempt.
func (s *AttemptService) Start(ctx context.Context, userID, examID uint) (res *StartResult, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "AttemptService.Start")
	span.SetAttributes(attribute.Int("user.id", int(userID)), attribute.Int("exam.id", int(examID)))
	defer func() { tracing.End(span, err) }()

	now := s.Now()

	exam, err := s.Access.CanAttempt(ctx, userID, examID)
	if err != nil {
		s.refuse("access", err)
		return nil, err
	}

	open, err := s.AttemptRepo.FindOpen(ctx, nil, userID, examID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		open, err = s.expireIfDue(ctx, open, exam, now)
		if err != nil {
			return nil, err
		}
		if open.IsOpen() {
			return startResult(open, exam, true), nil
		}
	}

	passed, err := s.AttemptRepo.HasPassed(ctx, nil, userID, examID)
	if err != nil {
		return nil, err
	}
	if passed {
		s.refuse("already_passed", util.ErrAlreadyPassed)
		return nil, util.ErrAlreadyPassed
	}

	incomplete, err := s.Gate.IncompleteItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(incomplete) > 0 {
		gateErr := &util.TrainingIncompleteError{ItemIDs: incomplete}
		s.refuse("training_incomplete", gateErr)
		return nil, gateErr
	}

	full, err := s.ExamRepo.FindWithQuestions(ctx, nil, examID)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(s.Shuffler.Generate(full))
	if err != nil {
		return nil, fmt.Errorf("encode shuffle state: %w", err)
	}

	attempt := &model.ExamAttempt{
		UserID:       userID,
		ExamID:       examID,
		StartedAt:    now,
		ShuffleState: raw,
	}
	if err := s.AttemptRepo.Create(ctx, nil, attempt); err != nil {
		if !repository.IsUniqueViolation(err) {
			return nil, err
		}
		// A concurrent start won; hand back its attempt.
		existing, ferr := s.AttemptRepo.FindOpen(ctx, nil, userID, examID)
		if ferr != nil {
			return nil, ferr
		}
		if existing == nil {
			return nil, err
		}
		return startResult(existing, exam, true), nil
	}

	monitoring.AttemptsStarted.Inc()
	logger.Log.Info("Exam attempt started",
		zap.Uint("attemptID", attempt.ID),
		zap.Uint("userID", userID),
		zap.Uint("examID", examID))
	s.Notifier.Notify(ctx, AttemptEvent{
		Type:      EventAttemptStarted,
		AttemptID: attempt.ID,
		UserID:    userID,
		ExamID:    examID,
		At:        now,
	})

	return startResult(attempt, exam, false), nil
}

// Detail returns the attempt as the learner sees it, in the attempt's own order.
func (s *AttemptService) Detail(ctx context.Context, userID, attemptID uint) (res *AttemptDetail, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "AttemptService.Detail")
	span.SetAttributes(attribute.Int("attempt.id", int(attemptID)))
	defer func() { tracing.End(span, err) }()

	now := s.Now()

	attempt, exam, err := s.loadOwned(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt, err = s.expireIfDue(ctx, attempt, exam, now); err != nil {
		return nil, err
	}

	full, err := s.ExamRepo.FindWithQuestions(ctx, nil, exam.ID)
	if err != nil {
		return nil, err
	}
	state, err := s.ensureShuffle(ctx, attempt, full)
	if err != nil {
		return nil, err
	}
	answers, err := s.AttemptRepo.ListAnswers(ctx, nil, attempt.ID)
	if err != nil {
		return nil, err
	}

	selected := make(map[uint]*uint, len(answers))
	for _, a := range answers {
		selected[a.QuestionID] = a.ChoiceID
	}

	questions := make(map[uint]*model.Question, len(full.Questions))
	for i := range full.Questions {
		questions[full.Questions[i].ID] = &full.Questions[i]
	}

	end := attempt.WindowEnd(full.DurationMinutes)
	detail := &AttemptDetail{
		AttemptID:     attempt.ID,
		ExamID:        full.ID,
		ExamTitle:     full.Title,
		StartedAt:     attempt.StartedAt,
		WindowEnd:     end,
		Open:          attempt.IsOpen(),
		SubmittedAt:   attempt.SubmittedAt,
		Score:         attempt.Score,
		Passed:        attempt.Passed,
		AutoSubmitted: attempt.AutoSubmitted,
		Questions:     make([]QuestionView, 0, len(state.QuestionOrder)),
	}
	if detail.Open {
		detail.RemainingSeconds = max(0, int(end.Sub(now)/time.Second))
	}

	for _, qid := range state.QuestionOrder {
		q := questions[qid]
		choices := make(map[uint]model.Choice, len(q.Choices))
		for _, c := range q.Choices {
			choices[c.ID] = c
		}

		view := QuestionView{
			ID:               q.ID,
			Text:             q.Text,
			Choices:          make([]ChoiceView, 0, len(q.Choices)),
			SelectedChoiceID: selected[q.ID],
		}
		for _, cid := range state.ChoiceOrder[qid] {
			c := choices[cid]
			view.Choices = append(view.Choices, ChoiceView{ID: c.ID, Text: c.Text, ImageURL: c.ImageURL})
		}
		detail.Questions = append(detail.Questions, view)
	}
	return detail, nil
}

// SaveAnswer records one question's choice; a nil choice clears it.
func (s *AttemptService) SaveAnswer(ctx context.Context, userID, attemptID, questionID uint, choiceID *uint) (err error) {
	ctx, span := tracing.Tracer.Start(ctx, "AttemptService.SaveAnswer")
	span.SetAttributes(attribute.Int("attempt.id", int(attemptID)), attribute.Int("question.id", int(questionID)))
	defer func() { tracing.End(span, err) }()

	now := s.Now()

	attempt, exam, err := s.loadOwned(ctx, userID, attemptID)
	if err != nil {
		return err
	}
	if attempt, err = s.expireIfDue(ctx, attempt, exam, now); err != nil {
		return err
	}
	if !attempt.IsOpen() {
		return util.ErrAttemptClosed
	}

	question, err := s.ExamRepo.FindQuestion(ctx, nil, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	if question.ExamID != exam.ID {
		return util.ErrQuestionNotInExam
	}
	if choiceID != nil {
		choice, err := s.ExamRepo.FindChoice(ctx, nil, *choiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrChoiceNotFound
			}
			return err
		}
		if choice.QuestionID != question.ID {
			return util.ErrChoiceNotInQuestion
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		open, err := s.AttemptRepo.TouchIfOpen(ctx, tx, attempt.ID, now)
		if err != nil {
			return err
		}
		if !open {
			return util.ErrAttemptClosed
		}
		return s.AttemptRepo.UpsertAnswer(ctx, tx, &model.AttemptAnswer{
			AttemptID:  attempt.ID,
			QuestionID: question.ID,
			ChoiceID:   choiceID,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	})
	if err != nil {
		return err
	}

	s.Notifier.Notify(ctx, AttemptEvent{
		Type:      EventAnswerSaved,
		AttemptID: attempt.ID,
		UserID:    userID,
		ExamID:    exam.ID,
		At:        now,
	})
	return nil
}

// Submit closes the attempt. A lapsed attempt is closed at its window end;
// an already closed one yields its stored result.
func (s *AttemptService) Submit(ctx context.Context, userID, attemptID uint) (res *SubmitResult, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "AttemptService.Submit")
	span.SetAttributes(attribute.Int("attempt.id", int(attemptID)))
	defer func() { tracing.End(span, err) }()

	now := s.Now()

	attempt, exam, err := s.loadOwned(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.IsOpen() {
		end := attempt.WindowEnd(exam.DurationMinutes)
		if now.Before(end) {
			attempt, _, err = s.finalize(ctx, attempt, exam, now, now, false)
		} else {
			attempt, _, err = s.finalize(ctx, attempt, exam, end, now, true)
		}
		if err != nil {
			return nil, err
		}
	}
	return submitResult(attempt), nil
}

// ListMine lists the caller's assigned exams with their latest attempt,
// closing any of the caller's lapsed attempts first.
func (s *AttemptService) ListMine(ctx context.Context, userID uint) (res []ExamSummary, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "AttemptService.ListMine")
	defer func() { tracing.End(span, err) }()

	now := s.Now()

	examIDs, err := s.Access.AssignedExamIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(examIDs) == 0 {
		return []ExamSummary{}, nil
	}
	exams, err := s.ExamRepo.FindByIDs(ctx, nil, examIDs)
	if err != nil {
		return nil, err
	}

	open, err := s.AttemptRepo.ListOpenByUser(ctx, nil, userID, examIDs)
	if err != nil {
		return nil, err
	}
	if err := s.sweep(ctx, open, exams, now); err != nil {
		return nil, err
	}

	latest, err := s.AttemptRepo.LatestByUser(ctx, userID, examIDs)
	if err != nil {
		return nil, err
	}

	res = make([]ExamSummary, 0, len(exams))
	for _, e := range exams {
		summary := ExamSummary{
			ExamID:          e.ID,
			Title:           e.Title,
			DurationMinutes: e.DurationMinutes,
			Status:          ExamStatusNotStarted,
		}
		if a, ok := latest[e.ID]; ok {
			id := a.ID
			summary.AttemptID = &id
			summary.Score = a.Score
			switch {
			case a.IsOpen():
				summary.Status = ExamStatusInProgress
				end := a.WindowEnd(e.DurationMinutes)
				summary.WindowEnd = &end
			case a.Passed != nil && *a.Passed:
				summary.Status = ExamStatusPassed
			default:
				summary.Status = ExamStatusFailed
			}
		}
		res = append(res, summary)
	}
	return res, nil
}

// ListForExam returns every attempt on the exam for administrators.
func (s *AttemptService) ListForExam(ctx context.Context, examID uint) (res []model.ExamAttempt, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "AttemptService.ListForExam")
	span.SetAttributes(attribute.Int("exam.id", int(examID)))
	defer func() { tracing.End(span, err) }()

	now := s.Now()

	exam, err := s.ExamRepo.FindByID(ctx, nil, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	open, err := s.AttemptRepo.ListOpenByExam(ctx, nil, examID)
	if err != nil {
		return nil, err
	}
	if err := s.sweep(ctx, open, []model.Exam{*exam}, now); err != nil {
		return nil, err
	}
	return s.AttemptRepo.ListByExam(ctx, examID)
}

// Override replaces a closed attempt's score and verdict without rescoring.
func (s *AttemptService) Override(ctx context.Context, adminID, attemptID uint, score float64, passed bool, note string) (res *model.ExamAttempt, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "AttemptService.Override")
	span.SetAttributes(attribute.Int("attempt.id", int(attemptID)), attribute.Int("admin.id", int(adminID)))
	defer func() { tracing.End(span, err) }()

	if score < 0 || score > 100 {
		return nil, util.ErrInvalidScore
	}
	score = roundOneDecimal(score)
	now := s.Now()

	attempt, err := s.AttemptRepo.FindByID(ctx, nil, attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.IsOpen() {
		exam, err := s.ExamRepo.FindByID(ctx, nil, attempt.ExamID)
		if err != nil {
			return nil, err
		}
		if attempt, err = s.expireIfDue(ctx, attempt, exam, now); err != nil {
			return nil, err
		}
	}

	updated, err := s.AttemptRepo.Override(ctx, attempt.ID, score, passed, note, adminID)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, util.ErrAttemptStillOpen
	}

	stored, err := s.AttemptRepo.FindByID(ctx, nil, attempt.ID)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Exam attempt overridden",
		zap.Uint("attemptID", stored.ID),
		zap.Uint("adminID", adminID),
		zap.Float64("score", score),
		zap.Bool("passed", passed))
	s.Notifier.Notify(ctx, AttemptEvent{
		Type:      EventAttemptOverridden,
		AttemptID: stored.ID,
		UserID:    stored.UserID,
		ExamID:    stored.ExamID,
		Score:     stored.Score,
		Passed:    stored.Passed,
		At:        now,
	})
	return stored, nil
}

// SweepExpired closes every open attempt whose window has elapsed and
// returns how many it closed.
func (s *AttemptService) SweepExpired(ctx context.Context) (closed int, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "AttemptService.SweepExpired")
	defer func() {
		span.SetAttributes(attribute.Int("attempts.closed", closed))
		tracing.End(span, err)
	}()

	now := s.Now()
	exams := make(map[uint]*model.Exam)

	var afterID uint
	for {
		windows, err := s.AttemptRepo.ListOpenWindows(ctx, afterID, sweepPageSize)
		if err != nil {
			return closed, err
		}
		for _, w := range windows {
			afterID = w.ID
			if now.Before(w.StartedAt.Add(time.Duration(w.DurationMinutes) * time.Minute)) {
				continue
			}

			attempt, err := s.AttemptRepo.FindByID(ctx, nil, w.ID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return closed, err
			}
			if !attempt.IsOpen() {
				continue
			}
			exam, ok := exams[attempt.ExamID]
			if !ok {
				if exam, err = s.ExamRepo.FindByID(ctx, nil, attempt.ExamID); err != nil {
					return closed, err
				}
				exams[exam.ID] = exam
			}
			end := attempt.WindowEnd(exam.DurationMinutes)
			_, won, err := s.finalize(ctx, attempt, exam, end, now, true)
			if err != nil {
				return closed, err
			}
			if won {
				closed++
			}
		}
		if len(windows) < sweepPageSize {
			return closed, nil
		}
	}
}

// expireIfDue closes an open attempt whose window has elapsed, stamping it
// with the window end. It returns the attempt as stored afterwards.
func (s *AttemptService) expireIfDue(ctx context.Context, attempt *model.ExamAttempt, exam *model.Exam, now time.Time) (*model.ExamAttempt, error) {
	if !attempt.IsOpen() {
		return attempt, nil
	}
	end := attempt.WindowEnd(exam.DurationMinutes)
	if now.Before(end) {
		return attempt, nil
	}
	stored, _, err := s.finalize(ctx, attempt, exam, end, now, true)
	return stored, err
}

func (s *AttemptService) sweep(ctx context.Context, open []model.ExamAttempt, exams []model.Exam, now time.Time) error {
	byID := make(map[uint]*model.Exam, len(exams))
	for i := range exams {
		byID[exams[i].ID] = &exams[i]
	}
	for i := range open {
		exam, ok := byID[open[i].ExamID]
		if !ok {
			continue
		}
		if _, err := s.expireIfDue(ctx, &open[i], exam, now); err != nil {
			return err
		}
	}
	return nil
}

// finalize scores and closes the attempt in one transaction. The attempt
// row is locked before answers are read so no save can slip in between.
// When another request closed it first, the stored result is returned
// unchanged and won is false.
func (s *AttemptService) finalize(ctx context.Context, attempt *model.ExamAttempt, exam *model.Exam, submittedAt, now time.Time, auto bool) (stored *model.ExamAttempt, won bool, err error) {
	var score ScoreResult

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.AttemptRepo.FindForUpdate(ctx, tx, attempt.ID)
		if err != nil {
			return err
		}
		if !locked.IsOpen() {
			stored = locked
			return nil
		}

		full, err := s.ExamRepo.FindWithQuestions(ctx, tx, exam.ID)
		if err != nil {
			return err
		}
		answers, err := s.AttemptRepo.ListAnswers(ctx, tx, attempt.ID)
		if err != nil {
			return err
		}
		score = s.Scorer.Score(full.Questions, answers)

		won, err = s.AttemptRepo.CloseIfOpen(ctx, tx, attempt.ID, repository.AttemptResult{
			SubmittedAt:     submittedAt,
			Score:           score.Score,
			Passed:          score.Passed,
			DurationSeconds: int(submittedAt.Sub(locked.StartedAt) / time.Second),
			AutoSubmitted:   auto,
		})
		if err != nil {
			return err
		}
		if won && !score.Passed {
			if err := s.Gate.ResetForFailure(ctx, tx, attempt.UserID, now); err != nil {
				return fmt.Errorf("reset training progress: %w", err)
			}
		}

		stored, err = s.AttemptRepo.FindByID(ctx, tx, attempt.ID)
		return err
	})
	if err != nil {
		logger.Log.Error("Failed to finalize exam attempt",
			zap.Uint("attemptID", attempt.ID),
			zap.Error(err))
		return nil, false, err
	}
	if !won {
		return stored, false, nil
	}

	monitoring.ObserveFinalized(auto, score.Passed, score.Score)
	logger.Log.Info("Exam attempt finalized",
		zap.Uint("attemptID", stored.ID),
		zap.Uint("userID", stored.UserID),
		zap.Float64("score", score.Score),
		zap.Bool("passed", score.Passed),
		zap.Bool("auto", auto))
	s.Notifier.Notify(ctx, AttemptEvent{
		Type:      EventAttemptFinalized,
		AttemptID: stored.ID,
		UserID:    stored.UserID,
		ExamID:    stored.ExamID,
		Score:     stored.Score,
		Passed:    stored.Passed,
		At:        now,
	})
	return stored, true, nil
}

// ensureShuffle returns the attempt's presentation order, generating and
// persisting it on first access. A concurrent writer's state wins.
func (s *AttemptService) ensureShuffle(ctx context.Context, attempt *model.ExamAttempt, exam *model.Exam) (model.ShuffleState, error) {
	if len(attempt.ShuffleState) == 0 {
		raw, err := json.Marshal(s.Shuffler.Generate(exam))
		if err != nil {
			return model.ShuffleState{}, fmt.Errorf("encode shuffle state: %w", err)
		}
		written, err := s.AttemptRepo.SetShuffleIfEmpty(ctx, nil, attempt.ID, raw)
		if err != nil {
			return model.ShuffleState{}, err
		}
		if written {
			attempt.ShuffleState = raw
		} else {
			reloaded, err := s.AttemptRepo.FindByID(ctx, nil, attempt.ID)
			if err != nil {
				return model.ShuffleState{}, err
			}
			attempt.ShuffleState = reloaded.ShuffleState
		}
	}

	var state model.ShuffleState
	if err := json.Unmarshal(attempt.ShuffleState, &state); err != nil {
		return model.ShuffleState{}, fmt.Errorf("decode shuffle state: %w", err)
	}
	return Reconcile(state, exam), nil
}

func (s *AttemptService) loadOwned(ctx context.Context, userID, attemptID uint) (*model.ExamAttempt, *model.Exam, error) {
	attempt, err := s.AttemptRepo.FindByID(ctx, nil, attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrAttemptNotFound
		}
		return nil, nil, err
	}
	if attempt.UserID != userID {
		return nil, nil, util.ErrPermissionDenied
	}
	exam, err := s.ExamRepo.FindByID(ctx, nil, attempt.ExamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrExamNotFound
		}
		return nil, nil, err
	}
	return attempt, exam, nil
}

func (s *AttemptService) refuse(reason string, err error) {
	monitoring.AttemptStartRefusals.WithLabelValues(reason).Inc()
	logger.Log.Debug("Exam attempt start refused", zap.String("reason", reason), zap.Error(err))
}

func startResult(a *model.ExamAttempt, exam *model.Exam, resumed bool) *StartResult {
	return &StartResult{
		AttemptID: a.ID,
		ExamID:    a.ExamID,
		StartedAt: a.StartedAt,
		WindowEnd: a.WindowEnd(exam.DurationMinutes),
		Resumed:   resumed,
	}
}

func submitResult(a *model.ExamAttempt) *SubmitResult {
	res := &SubmitResult{
		AttemptID:     a.ID,
		AutoSubmitted: a.AutoSubmitted,
	}
	if a.SubmittedAt != nil {
		res.SubmittedAt = *a.SubmittedAt
	}
	if a.Score != nil {
		res.Score = *a.Score
	}
	if a.Passed != nil {
		res.Passed = *a.Passed
	}
	if a.DurationSeconds != nil {
		res.DurationSeconds = *a.DurationSeconds
	}
	return res
}
