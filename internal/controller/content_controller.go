package controller

import (
	"study_session_gateway/internal/model"
	"study_session_gateway/internal/service"
	"study_session_gateway/internal/util"

	"github.com/gin-gonic/gin"
)

// ContentController 文章/视频标签页的内容抓取

type ContentController struct {
	SessionService *service.SessionService
	ContentService *service.ContentService
}

func NewContentController(sessionService *service.SessionService, contentService *service.ContentService) *ContentController {
	return &ContentController{SessionService: sessionService, ContentService: contentService}
}

// activeModule 两个抓取端点共用：没有活动模块就没有身份可抓
func (c *ContentController) activeModule(ctx *gin.Context) (model.ModuleKey, *model.Module, bool) {
	state := c.SessionService.State(userKey(ctx))
	if state.SelectedModule == nil {
		util.BadRequest(ctx, util.ErrNoActiveModule.Error())
		return model.ModuleKey{}, nil, false
	}
	key := model.ModuleKey{GoalTitle: state.SelectedGoalTitle, ModuleTitle: state.SelectedModule.Title}
	return key, state.SelectedModule, true
}

// @Summary 标签页状态
// @Description 文章与视频各自独立的 idle/loading/error/ready 状态
// @Tags 内容
// @Produce json
// @Router /api/content [get]
func (c *ContentController) GetStates(ctx *gin.Context) {
	article, video := c.ContentService.States(userKey(ctx))
	util.Success(ctx, gin.H{
		"article": article,
		"video":   video,
	})
}

// @Summary 抓取文章内容
// @Tags 内容
// @Produce json
// @Router /api/content/article [post]
func (c *ContentController) FetchArticle(ctx *gin.Context) {
	key, module, ok := c.activeModule(ctx)
	if !ok {
		return
	}
	state := c.ContentService.FetchArticle(ctx.Request.Context(), util.GetTokenFromContext(ctx), userKey(ctx), key, module.Type, module.ID)
	util.Success(ctx, state)
}

// @Summary 抓取视频元数据
// @Tags 内容
// @Produce json
// @Router /api/content/video [post]
func (c *ContentController) FetchVideo(ctx *gin.Context) {
	key, module, ok := c.activeModule(ctx)
	if !ok {
		return
	}
	state := c.ContentService.FetchVideo(ctx.Request.Context(), util.GetTokenFromContext(ctx), userKey(ctx), key, module.ID)
	util.Success(ctx, state)
}
