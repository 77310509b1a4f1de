package controller

import (
	"algoquiz_backend/internal/service"
	"algoquiz_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Quizzes  service.QuizStore
	Progress *service.ProgressService
}

func NewQuizController(quizzes service.QuizStore, progress *service.ProgressService) *QuizController {
	return &QuizController{Quizzes: quizzes, Progress: progress}
}

// @Summary 测验列表
// @Description 分页浏览测验目录
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	quizzes, total, err := c.Quizzes.List(page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"list":  quizzes,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// @Summary 测验详情
// @Description 获取测验的题目与选项（不含正确答案标记）
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid quiz ID")
		return
	}

	quiz, err := c.Quizzes.FindWithQuestions(uint(id))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

// SubmitRequest 提交一次测验作答
// swagger:model SubmitRequest
type SubmitRequest struct {
	Answers []service.AnswerSubmission `json:"answers" binding:"required"`
}

// @Summary 提交测验作答
// @Description 评分并记录一次测验提交，返回得分与本次新解锁的成就
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Param submission body SubmitRequest true "作答内容"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "作答为空"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid quiz ID")
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Progress.SubmitAttempt(ctx.Request.Context(), user.UserID, uint(id), req.Answers)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, result)
}
