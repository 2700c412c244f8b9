package model

// QuizQuestion 单选题
// CorrectIndex/Explanation 在出分前可能被上游隐藏，客户端不得假定存在
type QuizQuestion struct {
	ID          int      `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	CorrectIndex *int    `json:"correctIndex,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

type Quiz struct {
	Title     string         `json:"title"`
	Questions []QuizQuestion `json:"questions"`
}

// QuizAnswer 提交载荷中的一项
type QuizAnswer struct {
	QuestionID    int `json:"questionId"`
	SelectedIndex int `json:"selectedIndex"`
}

// QuizResult 一次提交的最终得分，收到后不可变
type QuizResult struct {
	Score   int `json:"score"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}
