package controller

import (
	"context"
	"errors"
	"net/http"

	"training_exam_backend/internal/model"
	"training_exam_backend/internal/service"
	"training_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// AttemptEngine 控制器依赖的考试作答服务接口（由 service.AttemptService 实现）
type AttemptEngine interface {
	Start(ctx context.Context, userID, examID uint) (*service.StartResult, error)
	Detail(ctx context.Context, userID, attemptID uint) (*service.AttemptDetail, error)
	SaveAnswer(ctx context.Context, userID, attemptID, questionID uint, choiceID *uint) error
	Submit(ctx context.Context, userID, attemptID uint) (*service.SubmitResult, error)
	ListMine(ctx context.Context, userID uint) ([]service.ExamSummary, error)
	ListForExam(ctx context.Context, examID uint) ([]model.ExamAttempt, error)
	Override(ctx context.Context, adminID, attemptID uint, score float64, passed bool, note string) (*model.ExamAttempt, error)
}

type AttemptController struct {
	Attempts AttemptEngine
}

func NewAttemptController(attempts AttemptEngine) *AttemptController {
	return &AttemptController{Attempts: attempts}
}

type SaveAnswerRequest struct {
	QuestionID uint  `json:"questionId" binding:"required"`
	ChoiceID   *uint `json:"choiceId"`
}

type OverrideRequest struct {
	Score  *float64 `json:"score" binding:"required,gte=0,lte=100"`
	Passed *bool    `json:"passed" binding:"required"`
	Note   string   `json:"note" binding:"max=1000"`
}

// @Summary 开始考试
// @Tags 考试
// @Security BearerAuth
// @Produce json
// @Param id path int true "考试ID"
// @Success 201 {object} util.Response
// @Failure 412 {object} util.Response
// @Router /api/exams/{id}/attempts [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	examID, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "invalid exam id")
		return
	}

	res, err := c.Attempts.Start(ctx.Request.Context(), user.UserID, examID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if res.Resumed {
		util.Success(ctx, res)
		return
	}
	util.Created(ctx, res)
}

// @Summary 获取作答详情
// @Tags 考试
// @Security BearerAuth
// @Produce json
// @Param id path int true "作答ID"
// @Success 200 {object} util.Response
// @Router /api/attempts/{id} [get]
func (c *AttemptController) GetAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	attemptID, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}

	detail, err := c.Attempts.Detail(ctx.Request.Context(), user.UserID, attemptID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 保存答案
// @Tags 考试
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "作答ID"
// @Param answer body SaveAnswerRequest true "答案"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/attempts/{id}/answers [put]
func (c *AttemptController) SaveAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	attemptID, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}

	var req SaveAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	if err := c.Attempts.SaveAnswer(ctx.Request.Context(), user.UserID, attemptID, req.QuestionID, req.ChoiceID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"attemptId": attemptID, "questionId": req.QuestionID, "choiceId": req.ChoiceID})
}

// @Summary 提交考试
// @Tags 考试
// @Security BearerAuth
// @Produce json
// @Param id path int true "作答ID"
// @Success 200 {object} util.Response
// @Router /api/attempts/{id}/submit [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	attemptID, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}

	res, err := c.Attempts.Submit(ctx.Request.Context(), user.UserID, attemptID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 我的考试
// @Tags 考试
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/exams/mine [get]
func (c *AttemptController) ListMyExams(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	exams, err := c.Attempts.ListMine(ctx.Request.Context(), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, exams)
}

// @Summary 考试作答列表
// @Tags 考试管理
// @Security BearerAuth
// @Produce json
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response
// @Router /api/admin/exams/{id}/attempts [get]
func (c *AttemptController) ListExamAttempts(ctx *gin.Context) {
	examID, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "invalid exam id")
		return
	}

	attempts, err := c.Attempts.ListForExam(ctx.Request.Context(), examID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": attempts, "total": len(attempts)})
}

// @Summary 修改成绩
// @Tags 考试管理
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "作答ID"
// @Param override body OverrideRequest true "成绩"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/admin/attempts/{id}/override [patch]
func (c *AttemptController) OverrideAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	attemptID, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}

	var req OverrideRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	attempt, err := c.Attempts.Override(ctx.Request.Context(), user.UserID, attemptID, *req.Score, *req.Passed, req.Note)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

func respondError(ctx *gin.Context, err error) {
	var gateErr *util.TrainingIncompleteError
	switch {
	case errors.As(err, &gateErr):
		util.ErrorWithData(ctx, http.StatusPreconditionFailed, gateErr.Error(), gin.H{
			"incompleteCount": len(gateErr.ItemIDs),
			"itemIds":         gateErr.ItemIDs,
		})
	case errors.Is(err, util.ErrAlreadyPassed):
		util.Error(ctx, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, util.ErrPermissionDenied), errors.Is(err, util.ErrExamNotAssigned):
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrAttemptClosed), errors.Is(err, util.ErrAttemptStillOpen):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrExamNotFound),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrChoiceNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrQuestionNotInExam),
		errors.Is(err, util.ErrChoiceNotInQuestion),
		errors.Is(err, util.ErrInvalidScore):
		util.UnprocessableEntity(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

func respondBindError(ctx *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		util.BadRequest(ctx, err.Error())
		return
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	util.ErrorWithData(ctx, http.StatusUnprocessableEntity, "validation failed", fields)
}
