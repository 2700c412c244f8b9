package controller

import (
	"study_session_gateway/internal/config"
	"study_session_gateway/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Config *config.Config
}

func NewHealthController(cfg *config.Config) *HealthController {
	return &HealthController{Config: cfg}
}

// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"upstream": c.Config.Upstream.BaseURL,
		},
	})
}
