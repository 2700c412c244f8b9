package controller

import (
	"study_session_gateway/internal/service"
	"study_session_gateway/internal/util"

	"github.com/gin-gonic/gin"
)

// DashboardController 仪表盘摘要与进度快照

type DashboardController struct {
	ProgressService *service.ProgressService
}

func NewDashboardController(progressService *service.ProgressService) *DashboardController {
	return &DashboardController{ProgressService: progressService}
}

// @Summary 仪表盘摘要
// @Description 主动读取路径，上游失败会冒泡
// @Tags 仪表盘
// @Produce json
// @Router /api/dashboard/summary [get]
func (c *DashboardController) Summary(ctx *gin.Context) {
	summary, err := c.ProgressService.LiveDashboard(ctx.Request.Context(), util.GetTokenFromContext(ctx), userKey(ctx))
	if err != nil {
		util.BadGateway(ctx, err.Error())
		return
	}
	util.Success(ctx, summary)
}

// @Summary 进度快照
// @Description 缓存的目标/仪表盘聚合加单调刷新计数，供视图判断是否重拉
// @Tags 仪表盘
// @Produce json
// @Router /api/dashboard/snapshot [get]
func (c *DashboardController) Snapshot(ctx *gin.Context) {
	util.Success(ctx, c.ProgressService.Snapshot(userKey(ctx)))
}
