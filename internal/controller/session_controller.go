package controller

import (
	"strings"

	"study_session_gateway/internal/model"
	"study_session_gateway/internal/service"
	"study_session_gateway/internal/util"

	"github.com/gin-gonic/gin"
)

// SessionController 处理学习会话的API请求

type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

func userKey(ctx *gin.Context) string {
	if user := util.GetUserFromContext(ctx); user != nil {
		return user.UserKey()
	}
	return "anonymous"
}

// @Summary 获取会话状态
// @Tags 学习会话
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/session [get]
func (c *SessionController) GetState(ctx *gin.Context) {
	util.Success(ctx, c.SessionService.State(userKey(ctx)))
}

type startModuleRequest struct {
	GoalTitle string       `json:"goalTitle" binding:"required"`
	Module    model.Module `json:"module" binding:"required"`
}

// @Summary 进入学习模块
// @Description 从计划视图选择一个模块，播种会话并作废旧模块的在途抓取
// @Tags 学习会话
// @Accept json
// @Produce json
// @Router /api/session/module [post]
func (c *SessionController) StartModule(ctx *gin.Context) {
	var req startModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if strings.TrimSpace(req.Module.Title) == "" {
		util.BadRequest(ctx, "module title is required")
		return
	}

	state := c.SessionService.StartModule(userKey(ctx), req.GoalTitle, req.Module)
	util.Success(ctx, state)
}

// @Summary 离开学习流
// @Description 唯一清除选中模块的路径；笔记与对话记录保留
// @Tags 学习会话
// @Produce json
// @Router /api/session/module [delete]
func (c *SessionController) ClearModule(ctx *gin.Context) {
	util.Success(ctx, c.SessionService.ClearModule(userKey(ctx)))
}

// @Summary 合并更新会话
// @Description 字段级合并，缺省字段保持原值
// @Tags 学习会话
// @Accept json
// @Produce json
// @Router /api/session [patch]
func (c *SessionController) Patch(ctx *gin.Context) {
	var patch model.SessionPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, c.SessionService.Patch(userKey(ctx), patch))
}

type chatRequest struct {
	Text string `json:"text" binding:"required"`
}

// @Summary 问AI助教
// @Tags 学习会话
// @Accept json
// @Produce json
// @Router /api/session/chat [post]
func (c *SessionController) Chat(ctx *gin.Context) {
	var req chatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		util.BadRequest(ctx, "text is required")
		return
	}

	state, err := c.SessionService.SendChat(ctx.Request.Context(), util.GetTokenFromContext(ctx), userKey(ctx), text)
	if err != nil {
		util.BadGateway(ctx, err.Error())
		return
	}
	util.Success(ctx, state)
}
