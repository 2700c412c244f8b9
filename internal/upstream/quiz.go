package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"study_session_gateway/internal/model"
)

type quizGenerateRequest struct {
	GoalTitle   string `json:"goalTitle"`
	ModuleTitle string `json:"moduleTitle"`
	ModuleID    int    `json:"moduleId"`
}

type quizGenerateResponse struct {
	Quiz     *model.Quiz `json:"quiz"`
	QuizText string      `json:"quizText"`
}

// GenerateQuiz 生成（或取回）模块测验
// correctIndex/explanation 在出分前可能被上游剥离
func (c *Client) GenerateQuiz(ctx context.Context, token string, key model.ModuleKey, moduleID int) (*model.Quiz, error) {
	var resp quizGenerateResponse
	err := c.do(ctx, "quiz_generate", http.MethodPost, "/api/quiz/generate", token, quizGenerateRequest{
		GoalTitle:   key.GoalTitle,
		ModuleTitle: key.ModuleTitle,
		ModuleID:    moduleID,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Quiz != nil {
		return resp.Quiz, nil
	}
	if resp.QuizText != "" {
		var quiz model.Quiz
		if err := json.Unmarshal([]byte(stripFences(resp.QuizText)), &quiz); err != nil {
			return nil, fmt.Errorf("parse quizText: %w", err)
		}
		return &quiz, nil
	}
	return nil, fmt.Errorf("empty quiz response")
}

type quizSubmitRequest struct {
	GoalTitle   string             `json:"goalTitle"`
	ModuleTitle string             `json:"moduleTitle"`
	ModuleID    int                `json:"moduleId"`
	Answers     []model.QuizAnswer `json:"answers"`
}

// SubmitQuiz 提交完整答案集，得分由服务端计算
func (c *Client) SubmitQuiz(ctx context.Context, token string, key model.ModuleKey, moduleID int, answers []model.QuizAnswer) (model.QuizResult, error) {
	var resp model.QuizResult
	err := c.do(ctx, "quiz_submit", http.MethodPost, "/api/quiz/submit", token, quizSubmitRequest{
		GoalTitle:   key.GoalTitle,
		ModuleTitle: key.ModuleTitle,
		ModuleID:    moduleID,
		Answers:     answers,
	}, &resp)
	if err != nil {
		return model.QuizResult{}, err
	}
	return resp, nil
}
