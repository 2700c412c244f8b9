package service

import (
	"context"
	"sync"

	"study_session_gateway/internal/model"
	"study_session_gateway/internal/upstream"
	"study_session_gateway/internal/util"
	"study_session_gateway/pkg/logger"
	"study_session_gateway/pkg/monitoring"

	"go.uber.org/zap"
)

type QuizPhase string

const (
	QuizUninitialized QuizPhase = "uninitialized"
	QuizGenerating    QuizPhase = "generating"
	QuizReady         QuizPhase = "ready"
	QuizSubmitting    QuizPhase = "submitting"
	QuizScored        QuizPhase = "scored"
	QuizFailed        QuizPhase = "failed"
)

// QuizState 一次模块访问的测验状态机
// 显式阶段标签让非法组合（出分同时还在加载之类）不可表示
type QuizState struct {
	Phase    QuizPhase         `json:"phase"`
	Key      model.ModuleKey   `json:"key"`
	ModuleID int               `json:"moduleId"`
	Quiz     *model.Quiz       `json:"quiz,omitempty"`
	Answers  map[int]int       `json:"answers"`
	Result   *model.QuizResult `json:"result,omitempty"`
	Err      string            `json:"error,omitempty"`
}

// SubmitEnabled 答案键集与题目ID集完全相等才允许提交
func (q QuizState) SubmitEnabled() bool {
	if q.Quiz == nil || len(q.Quiz.Questions) == 0 {
		return false
	}
	if len(q.Answers) != len(q.Quiz.Questions) {
		return false
	}
	for _, question := range q.Quiz.Questions {
		if _, ok := q.Answers[question.ID]; !ok {
			return false
		}
	}
	return true
}

type quizVisit struct {
	state      QuizState
	generation uint64
}

type QuizService struct {
	mu       sync.Mutex
	client   *upstream.Client
	progress *ProgressService
	visits   map[string]*quizVisit
}

func NewQuizService(client *upstream.Client, progress *ProgressService) *QuizService {
	return &QuizService{
		client:   client,
		progress: progress,
		visits:   make(map[string]*quizVisit),
	}
}

func (s *QuizService) visit(userKey string) *quizVisit {
	v, ok := s.visits[userKey]
	if !ok {
		v = &quizVisit{state: QuizState{Phase: QuizUninitialized, Answers: map[int]int{}}}
		s.visits[userKey] = v
	}
	return v
}

func copyQuizState(st QuizState) QuizState {
	out := st
	out.Answers = make(map[int]int, len(st.Answers))
	for k, v := range st.Answers {
		out.Answers[k] = v
	}
	return out
}

func (s *QuizService) State(userKey string) QuizState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyQuizState(s.visit(userKey).state)
}

// Invalidate 模块身份变化：当前访问作废，在途的生成结果将被丢弃
func (s *QuizService) Invalidate(userKey string, key model.ModuleKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.visit(userKey)
	if v.state.Key == key && v.state.Phase != QuizUninitialized {
		return
	}
	v.generation++
	v.state = QuizState{Phase: QuizUninitialized, Key: key, Answers: map[int]int{}}
}

// Generate 身份首次可用时触发一次；同一身份不重复触发
// 生成失败后允许重新生成
func (s *QuizService) Generate(ctx context.Context, token, userKey string, key model.ModuleKey, moduleID int) QuizState {
	s.mu.Lock()
	v := s.visit(userKey)
	if v.state.Key == key {
		switch v.state.Phase {
		case QuizGenerating, QuizReady, QuizSubmitting, QuizScored:
			st := copyQuizState(v.state)
			s.mu.Unlock()
			return st
		case QuizFailed:
			if v.state.Quiz != nil {
				// 提交失败态：测验还在，不重新生成
				st := copyQuizState(v.state)
				s.mu.Unlock()
				return st
			}
		}
	} else {
		v.generation++
	}
	v.state = QuizState{Phase: QuizGenerating, Key: key, ModuleID: moduleID, Answers: map[int]int{}}
	gen := v.generation
	s.mu.Unlock()

	quiz, err := s.client.GenerateQuiz(ctx, token, key, moduleID)

	s.mu.Lock()
	defer s.mu.Unlock()
	v = s.visit(userKey)
	if v.generation != gen {
		monitoring.StaleDiscards.WithLabelValues("quiz").Inc()
		return copyQuizState(v.state)
	}
	if err != nil {
		v.state.Phase = QuizFailed
		v.state.Err = err.Error()
		return copyQuizState(v.state)
	}
	v.state.Phase = QuizReady
	v.state.Quiz = quiz
	v.state.Err = ""
	return copyQuizState(v.state)
}

// Answer 每题一个答案，可反复修改直到出分
func (s *QuizService) Answer(userKey string, questionID, selectedIndex int) (QuizState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.visit(userKey)
	st := &v.state
	switch st.Phase {
	case QuizReady:
	case QuizFailed:
		if st.Quiz == nil {
			return copyQuizState(*st), util.ErrQuizNotReady
		}
	case QuizScored:
		return copyQuizState(*st), util.ErrQuizAlreadyScored
	default:
		return copyQuizState(*st), util.ErrQuizNotReady
	}

	known := false
	for _, q := range st.Quiz.Questions {
		if q.ID == questionID {
			known = true
			break
		}
	}
	if !known {
		return copyQuizState(*st), util.ErrUnknownQuestion
	}

	st.Answers[questionID] = selectedIndex
	return copyQuizState(*st), nil
}

// Submit 提交完整答案集
// 出分是终态，不再提供重交；失败保留答案集待重试
func (s *QuizService) Submit(ctx context.Context, token, userKey string) (QuizState, error) {
	s.mu.Lock()
	v := s.visit(userKey)
	st := &v.state

	switch st.Phase {
	case QuizReady:
	case QuizFailed:
		if st.Quiz == nil {
			s.mu.Unlock()
			return s.State(userKey), util.ErrQuizNotReady
		}
	case QuizScored:
		s.mu.Unlock()
		return s.State(userKey), util.ErrQuizAlreadyScored
	default:
		s.mu.Unlock()
		return s.State(userKey), util.ErrQuizNotReady
	}

	if !st.SubmitEnabled() {
		s.mu.Unlock()
		return s.State(userKey), util.ErrQuizIncomplete
	}

	st.Phase = QuizSubmitting
	st.Err = ""
	key := st.Key
	moduleID := st.ModuleID
	answers := make([]model.QuizAnswer, 0, len(st.Answers))
	for _, q := range st.Quiz.Questions {
		answers = append(answers, model.QuizAnswer{QuestionID: q.ID, SelectedIndex: st.Answers[q.ID]})
	}
	gen := v.generation
	s.mu.Unlock()

	result, err := s.client.SubmitQuiz(ctx, token, key, moduleID, answers)

	s.mu.Lock()
	v = s.visit(userKey)
	if v.generation != gen {
		monitoring.StaleDiscards.WithLabelValues("quiz").Inc()
		st := copyQuizState(v.state)
		s.mu.Unlock()
		return st, nil
	}
	if err != nil {
		v.state.Phase = QuizFailed
		v.state.Err = err.Error()
		st := copyQuizState(v.state)
		s.mu.Unlock()
		return st, err
	}
	v.state.Phase = QuizScored
	v.state.Result = &result
	snapshot := copyQuizState(v.state)
	s.mu.Unlock()

	// 出分后恰好触发一次进度传播，次级刷新失败不冒泡
	s.progress.Refresh(ctx, token, userKey)
	if _, err := s.progress.LoadModuleProgress(ctx, token, userKey, key.GoalTitle); err != nil {
		logger.Log.Warn("出分后刷新目标进度失败", zap.Error(err))
	}
	return snapshot, nil
}
