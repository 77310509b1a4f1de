package controller

import (
	"algoquiz_backend/internal/service"
	"algoquiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Stats *service.StatsService
}

func NewProgressController(stats *service.StatsService) *ProgressController {
	return &ProgressController{Stats: stats}
}

// @Summary 进度总览
// @Description 等级、经验、平均分、连击与成就数量的汇总
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/progress/summary [get]
func (c *ProgressController) GetSummary(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.Stats.GetSummary(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}

// @Summary 近七天学习数据
// @Description 最近 7 个自然日（含今天）的逐日完成量、平均分、学习时长与经验
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/progress/weekly [get]
func (c *ProgressController) GetWeekly(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	series, err := c.Stats.GetWeeklySeries(user.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, series)
}
