package controller

import (
	"errors"

	"study_session_gateway/internal/model"
	"study_session_gateway/internal/service"
	"study_session_gateway/internal/util"

	"github.com/gin-gonic/gin"
)

// QuizController 测验子流程：生成→作答→提交→出分

type QuizController struct {
	SessionService *service.SessionService
	QuizService    *service.QuizService
}

func NewQuizController(sessionService *service.SessionService, quizService *service.QuizService) *QuizController {
	return &QuizController{SessionService: sessionService, QuizService: quizService}
}

// quizView 对外视图：出分前剥掉 correctIndex/explanation
type quizView struct {
	Phase         service.QuizPhase `json:"phase"`
	Quiz          *model.Quiz       `json:"quiz,omitempty"`
	Answers       map[int]int       `json:"answers"`
	Result        *model.QuizResult `json:"result,omitempty"`
	Error         string            `json:"error,omitempty"`
	SubmitEnabled bool              `json:"submitEnabled"`
}

func redact(st service.QuizState) quizView {
	view := quizView{
		Phase:         st.Phase,
		Quiz:          st.Quiz,
		Answers:       st.Answers,
		Result:        st.Result,
		Error:         st.Err,
		SubmitEnabled: st.Phase == service.QuizReady && st.SubmitEnabled(),
	}
	if st.Quiz != nil && st.Phase != service.QuizScored {
		hidden := &model.Quiz{Title: st.Quiz.Title, Questions: make([]model.QuizQuestion, len(st.Quiz.Questions))}
		for i, q := range st.Quiz.Questions {
			q.CorrectIndex = nil
			q.Explanation = ""
			hidden.Questions[i] = q
		}
		view.Quiz = hidden
	}
	return view
}

// @Summary 测验状态
// @Tags 测验
// @Produce json
// @Router /api/quiz [get]
func (c *QuizController) GetState(ctx *gin.Context) {
	util.Success(ctx, redact(c.QuizService.State(userKey(ctx))))
}

// @Summary 生成测验
// @Description 同一模块身份只触发一次，身份变化后重新生成
// @Tags 测验
// @Produce json
// @Router /api/quiz/generate [post]
func (c *QuizController) Generate(ctx *gin.Context) {
	state := c.SessionService.State(userKey(ctx))
	if state.SelectedModule == nil {
		util.BadRequest(ctx, util.ErrNoActiveModule.Error())
		return
	}
	key := model.ModuleKey{GoalTitle: state.SelectedGoalTitle, ModuleTitle: state.SelectedModule.Title}

	st := c.QuizService.Generate(ctx.Request.Context(), util.GetTokenFromContext(ctx), userKey(ctx), key, state.SelectedModule.ID)
	util.Success(ctx, redact(st))
}

type answerRequest struct {
	QuestionID    int `json:"questionId"`
	SelectedIndex int `json:"selectedIndex"`
}

// @Summary 作答
// @Tags 测验
// @Accept json
// @Produce json
// @Router /api/quiz/answer [post]
func (c *QuizController) Answer(ctx *gin.Context) {
	var req answerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	st, err := c.QuizService.Answer(userKey(ctx), req.QuestionID, req.SelectedIndex)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, redact(st))
}

// @Summary 提交测验
// @Description 答案集必须覆盖全部题目；出分后不再受理
// @Tags 测验
// @Produce json
// @Router /api/quiz/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	st, err := c.QuizService.Submit(ctx.Request.Context(), util.GetTokenFromContext(ctx), userKey(ctx))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizIncomplete),
			errors.Is(err, util.ErrQuizAlreadyScored),
			errors.Is(err, util.ErrQuizNotReady):
			util.BadRequest(ctx, err.Error())
		default:
			// 上游提交失败：答案集已保留，可重试
			util.BadGateway(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, redact(st))
}
