package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"training_exam_backend/internal/model"
	"training_exam_backend/internal/repository"
	"training_exam_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []AttemptEvent
}

func (n *recordingNotifier) Notify(_ context.Context, e AttemptEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) types() []AttemptEventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]AttemptEventType, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	svc      *AttemptService
	clock    *fakeClock
	events   *recordingNotifier
	training *repository.TrainingRepository
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	users := repository.NewUserRepository(db)
	exams := repository.NewExamRepository(db)
	assignments := repository.NewAssignmentRepository(db)
	training := repository.NewTrainingRepository(db)

	clock := &fakeClock{now: baseTime}
	events := &recordingNotifier{}

	svc := NewAttemptService(
		db,
		repository.NewAttemptRepository(db),
		exams,
		NewAccessResolver(exams, users, assignments),
		NewTrainingGateService(users, training),
		events,
	)
	svc.Now = clock.Now

	return &fixture{db: db, svc: svc, clock: clock, events: events, training: training}
}

func (f *fixture) createUser(t *testing.T, name string, primaryProject *uint) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@example.com", Role: model.Learner, PrimaryProjectID: primaryProject}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) createProject(t *testing.T, name string) *model.Project {
	t.Helper()
	p := &model.Project{Name: name}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

// createExam builds an exam whose questions each have three choices, the
// second of which is correct.
func (f *fixture) createExam(t *testing.T, title string, durationMinutes, questions int) *model.Exam {
	t.Helper()
	exam := &model.Exam{Title: title, DurationMinutes: durationMinutes}
	for i := 0; i < questions; i++ {
		q := model.Question{DisplayOrder: i + 1, Text: fmt.Sprintf("%s question %d", title, i+1)}
		for j := 0; j < 3; j++ {
			text := fmt.Sprintf("choice %d", j+1)
			q.Choices = append(q.Choices, model.Choice{Text: &text, IsCorrect: j == 1})
		}
		exam.Questions = append(exam.Questions, q)
	}
	require.NoError(t, f.db.Create(exam).Error)
	return exam
}

func (f *fixture) assignToUser(t *testing.T, examID, userID uint) {
	t.Helper()
	require.NoError(t, f.db.Create(&model.ExamAssignment{ExamID: examID, UserID: &userID}).Error)
}

func (f *fixture) assignToProject(t *testing.T, examID, projectID uint) {
	t.Helper()
	require.NoError(t, f.db.Create(&model.ExamAssignment{ExamID: examID, ProjectID: &projectID}).Error)
}

// assignTraining assigns a new training item to the user with the given progress.
func (f *fixture) assignTraining(t *testing.T, userID uint, progress float64) *model.TrainingItem {
	t.Helper()
	item := &model.TrainingItem{Title: "Safety induction"}
	require.NoError(t, f.db.Create(item).Error)
	require.NoError(t, f.db.Create(&model.TrainingAssignment{TrainingItemID: item.ID, UserID: &userID}).Error)

	viewed := baseTime.Add(-time.Hour)
	rating := 5
	require.NoError(t, f.training.SaveProgress(context.Background(), &model.TrainingProgress{
		UserID:         userID,
		TrainingItemID: item.ID,
		Progress:       progress,
		LastViewedAt:   &viewed,
		Rating:         &rating,
	}))
	return item
}

func (f *fixture) progress(t *testing.T, userID, itemID uint) model.TrainingProgress {
	t.Helper()
	var p model.TrainingProgress
	require.NoError(t, f.db.Where("user_id = ? AND training_item_id = ?", userID, itemID).First(&p).Error)
	return p
}

func correctChoice(q model.Question) uint {
	for _, c := range q.Choices {
		if c.IsCorrect {
			return c.ID
		}
	}
	return 0
}

func wrongChoice(q model.Question) uint {
	for _, c := range q.Choices {
		if !c.IsCorrect {
			return c.ID
		}
	}
	return 0
}
