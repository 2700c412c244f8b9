package model

// TodayTask 仪表盘"今日任务"条目
type TodayTask struct {
	GoalTitle   string `json:"goalTitle"`
	ModuleID    int    `json:"moduleId"`
	ModuleTitle string `json:"moduleTitle"`
	Type        string `json:"type"`
	Duration    string `json:"duration"`
	Completed   bool   `json:"completed"`
}

type DashboardSummary struct {
	TasksCompletedToday int         `json:"tasksCompletedToday"`
	StudyMinutesToday   int         `json:"studyMinutesToday"`
	StreakDays          int         `json:"streakDays"`
	TodaysTasks         []TodayTask `json:"todaysTasks"`
}

// VideoContent 视频标签页展示所需的元数据
type VideoContent struct {
	VideoID      string `json:"videoId"`
	URL          string `json:"url"`
	VideoTitle   string `json:"videoTitle,omitempty"`
	ChannelTitle string `json:"channelTitle,omitempty"`
}
