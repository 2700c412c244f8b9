package model

type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleTutor ChatRole = "tutor"
)

// ChatMessage 会话内的一条对话，ID在会话内严格递增
type ChatMessage struct {
	ID   int      `json:"id"`
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// SessionState 当前模块访问的内存聚合，贯穿所有标签页
// 只能通过合并式 Patch 修改，禁止整体替换
type SessionState struct {
	IsCompleted       bool          `json:"isCompleted"`
	Notes             string        `json:"notes"`
	ChatMessages      []ChatMessage `json:"chatMessages"`
	ChatInput         string        `json:"chatInput"`
	ChatLoading       bool          `json:"chatLoading"`
	SelectedGoalTitle string        `json:"selectedGoalTitle"`
	SelectedModule    *Module       `json:"selectedModule"`
}

// SessionPatch 合并补丁，nil字段保持原值
// SelectedModule 不在补丁内：模块切换走 StartModule/ClearModule 生命周期
type SessionPatch struct {
	IsCompleted       *bool   `json:"isCompleted"`
	Notes             *string `json:"notes"`
	ChatInput         *string `json:"chatInput"`
	ChatLoading       *bool   `json:"chatLoading"`
	SelectedGoalTitle *string `json:"selectedGoalTitle"`
}
