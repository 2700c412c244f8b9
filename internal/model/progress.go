package model

// ModuleProgress 当前目标的完成度计数，完全来自服务端
// 任何一次补全/测验提交后整体替换，网关侧不做任何重算
type ModuleProgress struct {
	Percent int `json:"percent"`
	Done    int `json:"done"`
	Total   int `json:"total"`
}
