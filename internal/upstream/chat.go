package upstream

import (
	"context"
	"net/http"

	"study_session_gateway/internal/model"
)

type chatMessagePayload struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type chatRequest struct {
	Messages     []chatMessagePayload `json:"messages"`
	SystemPrompt string               `json:"systemPrompt,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// TutorReply 把会话的完整对话记录发给AI助教，取回一条回复
func (c *Client) TutorReply(ctx context.Context, token string, transcript []model.ChatMessage, systemPrompt string) (string, error) {
	msgs := make([]chatMessagePayload, 0, len(transcript))
	for _, m := range transcript {
		msgs = append(msgs, chatMessagePayload{Role: string(m.Role), Text: m.Text})
	}

	var resp chatResponse
	err := c.do(ctx, "chat", http.MethodPost, "/api/ai-chat", token, chatRequest{
		Messages:     msgs,
		SystemPrompt: systemPrompt,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Reply, nil
}
