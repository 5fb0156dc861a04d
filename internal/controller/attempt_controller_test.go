package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"training_exam_backend/internal/middleware"
	"training_exam_backend/internal/model"
	"training_exam_backend/internal/service"
	"training_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-test-secret-with-enough-length"

type fakeEngine struct {
	startRes    *service.StartResult
	err         error
	savedChoice *uint
	override    struct {
		adminID uint
		score   float64
		passed  bool
		note    string
	}
}

func (f *fakeEngine) Start(_ context.Context, _, examID uint) (*service.StartResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.startRes, nil
}

func (f *fakeEngine) Detail(_ context.Context, _, attemptID uint) (*service.AttemptDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.AttemptDetail{AttemptID: attemptID, Open: true}, nil
}

func (f *fakeEngine) SaveAnswer(_ context.Context, _, _, _ uint, choiceID *uint) error {
	f.savedChoice = choiceID
	return f.err
}

func (f *fakeEngine) Submit(_ context.Context, _, attemptID uint) (*service.SubmitResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.SubmitResult{AttemptID: attemptID, Score: 50, Passed: false}, nil
}

func (f *fakeEngine) ListMine(context.Context, uint) ([]service.ExamSummary, error) {
	return []service.ExamSummary{{ExamID: 1, Status: service.ExamStatusNotStarted}}, f.err
}

func (f *fakeEngine) ListForExam(context.Context, uint) ([]model.ExamAttempt, error) {
	return nil, f.err
}

func (f *fakeEngine) Override(_ context.Context, adminID, attemptID uint, score float64, passed bool, note string) (*model.ExamAttempt, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.override.adminID, f.override.score, f.override.passed, f.override.note = adminID, score, passed, note
	a := &model.ExamAttempt{Score: &score, Passed: &passed}
	a.ID = attemptID
	return a, nil
}

func newTestRouter(engine AttemptEngine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctl := NewAttemptController(engine)

	api := r.Group("/api", middleware.AuthMiddleware(testSecret))
	api.POST("/exams/:id/attempts", ctl.StartAttempt)
	api.GET("/exams/mine", ctl.ListMyExams)
	api.GET("/attempts/:id", ctl.GetAttempt)
	api.PUT("/attempts/:id/answers", ctl.SaveAnswer)
	api.POST("/attempts/:id/submit", ctl.SubmitAttempt)

	admin := api.Group("/admin", middleware.RoleMiddleware(model.Manager))
	admin.GET("/exams/:id/attempts", ctl.ListExamAttempts)
	admin.PATCH("/attempts/:id/override", ctl.OverrideAttempt)
	return r
}

func token(t *testing.T, id uint, role model.UserRole) string {
	t.Helper()
	u := &model.User{Email: "user@example.com", Role: role}
	u.ID = id
	tok, err := util.GenerateJWT(u, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, r *gin.Engine, method, path, tok string, body interface{}) (*httptest.ResponseRecorder, util.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp util.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestStartAttempt(t *testing.T) {
	engine := &fakeEngine{startRes: &service.StartResult{AttemptID: 5, ExamID: 3}}
	r := newTestRouter(engine)
	tok := token(t, 1, model.Learner)

	w, _ := do(t, r, http.MethodPost, "/api/exams/3/attempts", tok, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	engine.startRes.Resumed = true
	w, _ = do(t, r, http.MethodPost, "/api/exams/3/attempts", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/exams/abc/attempts", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/exams/3/attempts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStartAttempt_TrainingGateRefusal(t *testing.T) {
	engine := &fakeEngine{err: &util.TrainingIncompleteError{ItemIDs: []uint{4, 9}}}
	r := newTestRouter(engine)

	w, resp := do(t, r, http.MethodPost, "/api/exams/3/attempts", token(t, 1, model.Learner), nil)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 2, data["incompleteCount"])
	assert.Equal(t, []interface{}{4.0, 9.0}, data["itemIds"])
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{util.ErrAlreadyPassed, http.StatusPreconditionFailed},
		{util.ErrExamNotAssigned, http.StatusForbidden},
		{util.ErrPermissionDenied, http.StatusForbidden},
		{util.ErrAttemptClosed, http.StatusConflict},
		{util.ErrAttemptNotFound, http.StatusNotFound},
		{util.ErrExamNotFound, http.StatusNotFound},
		{util.ErrChoiceNotInQuestion, http.StatusUnprocessableEntity},
		{util.ErrQuestionNotInExam, http.StatusUnprocessableEntity},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	tok := token(t, 1, model.Learner)
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			r := newTestRouter(&fakeEngine{err: tt.err})
			w, _ := do(t, r, http.MethodPost, "/api/attempts/7/submit", tok, nil)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSaveAnswer(t *testing.T) {
	engine := &fakeEngine{}
	r := newTestRouter(engine)
	tok := token(t, 1, model.Learner)

	w, _ := do(t, r, http.MethodPut, "/api/attempts/7/answers", tok, gin.H{"questionId": 2, "choiceId": 11})
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, engine.savedChoice)
	assert.EqualValues(t, 11, *engine.savedChoice)

	w, _ = do(t, r, http.MethodPut, "/api/attempts/7/answers", tok, gin.H{"questionId": 2, "choiceId": nil})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, engine.savedChoice)

	w, resp := do(t, r, http.MethodPut, "/api/attempts/7/answers", tok, gin.H{"choiceId": 11})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, map[string]interface{}{"QuestionID": "required"}, resp.Data)

	engine.err = util.ErrAttemptClosed
	w, _ = do(t, r, http.MethodPut, "/api/attempts/7/answers", tok, gin.H{"questionId": 2, "choiceId": 11})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOverrideAttempt(t *testing.T) {
	engine := &fakeEngine{}
	r := newTestRouter(engine)

	w, _ := do(t, r, http.MethodPatch, "/api/admin/attempts/7/override", token(t, 1, model.Learner),
		gin.H{"score": 80, "passed": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := token(t, 42, model.Admin)
	w, _ = do(t, r, http.MethodPatch, "/api/admin/attempts/7/override", admin,
		gin.H{"score": 101, "passed": true})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = do(t, r, http.MethodPatch, "/api/admin/attempts/7/override", admin,
		gin.H{"score": 0, "passed": false, "note": "cheating"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 42, engine.override.adminID)
	assert.Zero(t, engine.override.score)
	assert.False(t, engine.override.passed)
	assert.Equal(t, "cheating", engine.override.note)

	engine.err = util.ErrAttemptStillOpen
	w, _ = do(t, r, http.MethodPatch, "/api/admin/attempts/7/override", token(t, 43, model.Manager),
		gin.H{"score": 90, "passed": true})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListMyExams(t *testing.T) {
	r := newTestRouter(&fakeEngine{})
	w, resp := do(t, r, http.MethodGet, "/api/exams/mine", token(t, 1, model.Learner), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	items, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 1)
}
