package model

// Goal 用户学习目标
// progress/daysLeft 由上游服务端计算，网关侧只读
type Goal struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Progress int    `json:"progress"`
	DaysLeft int    `json:"daysLeft"`
}
