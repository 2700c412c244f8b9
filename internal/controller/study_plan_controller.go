package controller

import (
	"errors"
	"strings"

	"study_session_gateway/internal/service"
	"study_session_gateway/internal/util"

	"github.com/gin-gonic/gin"
)

// StudyPlanController 学习计划与模块补全

type StudyPlanController struct {
	PlanService       *service.PlanService
	CompletionService *service.CompletionService
}

func NewStudyPlanController(planService *service.PlanService, completionService *service.CompletionService) *StudyPlanController {
	return &StudyPlanController{PlanService: planService, CompletionService: completionService}
}

type generatePlanRequest struct {
	GoalTitle string `json:"goalTitle" binding:"required"`
	Days      int    `json:"days"`
	Level     string `json:"level"`
}

// @Summary 生成学习计划
// @Tags 学习计划
// @Accept json
// @Produce json
// @Router /api/study-plan/generate [post]
func (c *StudyPlanController) Generate(ctx *gin.Context) {
	var req generatePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	plan, err := c.PlanService.Generate(ctx.Request.Context(), util.GetTokenFromContext(ctx), req.GoalTitle, req.Days, req.Level)
	if err != nil {
		util.BadGateway(ctx, err.Error())
		return
	}
	util.Success(ctx, plan)
}

// @Summary 目标完成度
// @Tags 学习计划
// @Produce json
// @Router /api/study-plan/progress [get]
func (c *StudyPlanController) GetProgress(ctx *gin.Context) {
	goalTitle := strings.TrimSpace(ctx.Query("goalTitle"))
	if goalTitle == "" {
		util.BadRequest(ctx, "goalTitle is required")
		return
	}

	progress, err := c.PlanService.Progress(ctx.Request.Context(), util.GetTokenFromContext(ctx), userKey(ctx), goalTitle)
	if err != nil {
		util.BadGateway(ctx, err.Error())
		return
	}
	util.Success(ctx, progress)
}

type completeRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// @Summary 切换模块完成标记
// @Description 乐观更新，失败回滚；成功后整体替换进度并传播
// @Tags 学习计划
// @Accept json
// @Produce json
// @Router /api/study-plan/complete [post]
func (c *StudyPlanController) Complete(ctx *gin.Context) {
	var req completeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.CompletionService.Toggle(ctx.Request.Context(), util.GetTokenFromContext(ctx), userKey(ctx), *req.Completed)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNoActiveModule):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrNoToken):
			util.Unauthorized(ctx)
		default:
			util.BadGateway(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, progress)
}
