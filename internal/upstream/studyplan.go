package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"study_session_gateway/internal/model"
)

type planRequest struct {
	GoalTitle string `json:"goalTitle"`
	Days      int    `json:"days"`
	Level     string `json:"level"`
}

type planResponse struct {
	Plan     *model.StudyPlan `json:"plan"`
	PlanText string           `json:"planText"`
}

var fencedBlock = regexp.MustCompile("^```[a-zA-Z]*\\n")

// stripFences AI偶尔把JSON包在```围栏里返回
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = fencedBlock.ReplaceAllString(s, "")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// GeneratePlan 生成（或取回已存储的）学习计划
// 上游既可能返回结构化 plan，也可能返回待解析的 planText
func (c *Client) GeneratePlan(ctx context.Context, token, goalTitle string, days int, level string) (*model.StudyPlan, error) {
	var resp planResponse
	err := c.do(ctx, "plan", http.MethodPost, "/api/study-plan/generate", token, planRequest{
		GoalTitle: goalTitle,
		Days:      days,
		Level:     level,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Plan != nil {
		return resp.Plan, nil
	}
	if resp.PlanText != "" {
		var plan model.StudyPlan
		if err := json.Unmarshal([]byte(stripFences(resp.PlanText)), &plan); err != nil {
			return nil, fmt.Errorf("parse planText: %w", err)
		}
		return &plan, nil
	}
	return nil, fmt.Errorf("empty plan response")
}

// progressPayload 三个字段名是上游的叫法，网关对外统一成 ModuleProgress
type progressPayload struct {
	GoalProgress     int `json:"goalProgress"`
	CompletedModules int `json:"completedModules"`
	TotalModules     int `json:"totalModules"`
}

func (p progressPayload) toModel() model.ModuleProgress {
	return model.ModuleProgress{
		Percent: p.GoalProgress,
		Done:    p.CompletedModules,
		Total:   p.TotalModules,
	}
}

// PlanProgress 目标当前完成度，整体替换语义
func (c *Client) PlanProgress(ctx context.Context, token, goalTitle string) (model.ModuleProgress, error) {
	var resp progressPayload
	path := "/api/study-plan/progress?goalTitle=" + url.QueryEscape(goalTitle)
	if err := c.do(ctx, "progress", http.MethodGet, path, token, nil, &resp); err != nil {
		return model.ModuleProgress{}, err
	}
	return resp.toModel(), nil
}

type completeRequest struct {
	GoalTitle   string `json:"goalTitle"`
	ModuleID    int    `json:"moduleId"`
	ModuleTitle string `json:"moduleTitle"`
	Completed   bool   `json:"completed"`
}

// CompleteModule 切换模块完成标记，返回服务端权威计数
func (c *Client) CompleteModule(ctx context.Context, token string, key model.ModuleKey, moduleID int, completed bool) (model.ModuleProgress, error) {
	var resp progressPayload
	err := c.do(ctx, "complete", http.MethodPost, "/api/study-plan/complete", token, completeRequest{
		GoalTitle:   key.GoalTitle,
		ModuleID:    moduleID,
		ModuleTitle: key.ModuleTitle,
		Completed:   completed,
	}, &resp)
	if err != nil {
		return model.ModuleProgress{}, err
	}
	return resp.toModel(), nil
}
