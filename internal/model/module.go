package model

type ModuleType string

const (
	ModuleVideo   ModuleType = "video"
	ModuleArticle ModuleType = "article"
	ModuleQuiz    ModuleType = "quiz"
	ModuleNote    ModuleType = "note"
)

// Module 学习计划中的一个学习单元
// 注意：模块ID只在所属计划内唯一，全局身份是 (goalTitle, moduleId)
type Module struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Duration    string     `json:"duration"`
	Type        ModuleType `json:"type"`
	Completed   bool       `json:"completed"`
	Description string     `json:"description"`
}

// ModuleKey 模块身份，用于陈旧响应丢弃与测验去重
type ModuleKey struct {
	GoalTitle   string `json:"goalTitle"`
	ModuleTitle string `json:"moduleTitle"`
}

type PlanDay struct {
	Day     string   `json:"day"`
	Date    string   `json:"date"`
	Modules []Module `json:"modules"`
}

// StudyPlan AI生成的学习计划
type StudyPlan struct {
	Days []PlanDay `json:"days"`
}
