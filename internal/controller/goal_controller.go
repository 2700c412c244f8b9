package controller

import (
	"strconv"
	"strings"

	"study_session_gateway/internal/service"
	"study_session_gateway/internal/util"

	"github.com/gin-gonic/gin"
)

// GoalController 学习目标的增删查（直连上游）

type GoalController struct {
	GoalService *service.GoalService
}

func NewGoalController(goalService *service.GoalService) *GoalController {
	return &GoalController{GoalService: goalService}
}

// @Summary 目标列表
// @Tags 学习目标
// @Produce json
// @Router /api/goals [get]
func (c *GoalController) List(ctx *gin.Context) {
	goals, err := c.GoalService.List(ctx.Request.Context(), util.GetTokenFromContext(ctx), userKey(ctx))
	if err != nil {
		util.BadGateway(ctx, err.Error())
		return
	}
	util.Success(ctx, goals)
}

type createGoalRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	TargetDate  string   `json:"targetDate"`
	Topics      []string `json:"topics"`
}

// @Summary 创建目标
// @Tags 学习目标
// @Accept json
// @Produce json
// @Router /api/goals [post]
func (c *GoalController) Create(ctx *gin.Context) {
	var req createGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		util.BadRequest(ctx, "title is required")
		return
	}

	goal, err := c.GoalService.Create(ctx.Request.Context(), util.GetTokenFromContext(ctx), req.Title, req.Description, req.TargetDate, req.Topics)
	if err != nil {
		util.BadGateway(ctx, err.Error())
		return
	}
	util.Created(ctx, goal)
}

// @Summary 删除目标
// @Tags 学习目标
// @Produce json
// @Router /api/goals/{id} [delete]
func (c *GoalController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid goal id")
		return
	}

	if err := c.GoalService.Delete(ctx.Request.Context(), util.GetTokenFromContext(ctx), userKey(ctx), id); err != nil {
		util.BadGateway(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}
