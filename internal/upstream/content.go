package upstream

import (
	"context"
	"net/http"

	"study_session_gateway/internal/model"
)

type articleRequest struct {
	GoalTitle   string `json:"goalTitle"`
	ModuleTitle string `json:"moduleTitle"`
	ModuleType  string `json:"moduleType"`
	ModuleID    int    `json:"moduleId"`
}

type articleResponse struct {
	Content string `json:"content"`
}

// ArticleContent 文章内容，单次尝试，失败交由标签页自行展示
func (c *Client) ArticleContent(ctx context.Context, token string, key model.ModuleKey, moduleType model.ModuleType, moduleID int) (string, error) {
	var resp articleResponse
	err := c.do(ctx, "article", http.MethodPost, "/api/articles/content", token, articleRequest{
		GoalTitle:   key.GoalTitle,
		ModuleTitle: key.ModuleTitle,
		ModuleType:  string(moduleType),
		ModuleID:    moduleID,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

type videoRequest struct {
	GoalTitle   string `json:"goalTitle"`
	ModuleTitle string `json:"moduleTitle"`
	ModuleID    int    `json:"moduleId"`
	Language    string `json:"language"`
}

// VideoContent 视频元数据
// 上游检索偶发抖动，这里按策略有界重试，重试过程对调用方不可见
func (c *Client) VideoContent(ctx context.Context, token string, key model.ModuleKey, moduleID int) (*model.VideoContent, error) {
	c.mu.RLock()
	policy := c.videoRetry
	c.mu.RUnlock()

	var resp model.VideoContent
	err := policy.Do(ctx, "video", func() error {
		return c.do(ctx, "video", http.MethodPost, "/api/videos/content", token, videoRequest{
			GoalTitle:   key.GoalTitle,
			ModuleTitle: key.ModuleTitle,
			ModuleID:    moduleID,
			Language:    c.Language(),
		}, &resp)
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
