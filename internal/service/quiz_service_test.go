package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"study_session_gateway/internal/model"
	"study_session_gateway/internal/util"
)

var testQuiz = model.Quiz{
	Title: "Limits Check",
	Questions: []model.QuizQuestion{
		{ID: 1, Question: "q1", Options: []string{"a", "b", "c", "d"}},
		{ID: 2, Question: "q2", Options: []string{"a", "b", "c", "d"}},
		{ID: 3, Question: "q3", Options: []string{"a", "b", "c", "d"}},
	},
}

type quizFixture struct {
	quiz     *QuizService
	progress *ProgressService

	generateCalls int
	submitCalls   int
	submitStatus  int
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()
	fx := &quizFixture{submitStatus: http.StatusOK}
	client := testUpstream(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/quiz/generate":
			fx.generateCalls++
			json.NewEncoder(w).Encode(map[string]interface{}{"quiz": testQuiz})
		case "/api/quiz/submit":
			fx.submitCalls++
			if fx.submitStatus != http.StatusOK {
				http.Error(w, `{"error":"scoring unavailable"}`, fx.submitStatus)
				return
			}
			json.NewEncoder(w).Encode(model.QuizResult{Score: 2, Total: 3, Percent: 67})
		default:
			w.Write([]byte(`{}`))
		}
	}))
	fx.progress = NewProgressService(client)
	fx.quiz = NewQuizService(client, fx.progress)
	return fx
}

func (fx *quizFixture) ready(t *testing.T, key model.ModuleKey) {
	t.Helper()
	fx.quiz.Invalidate("u1", key)
	if st := fx.quiz.Generate(context.Background(), "tok", "u1", key, 7); st.Phase != QuizReady {
		t.Fatalf("generate: phase = %s, err = %s", st.Phase, st.Err)
	}
}

func (fx *quizFixture) answerAll(t *testing.T) {
	t.Helper()
	for _, q := range testQuiz.Questions {
		if _, err := fx.quiz.Answer("u1", q.ID, 0); err != nil {
			t.Fatalf("answer %d: %v", q.ID, err)
		}
	}
}

func TestGenerateOncePerModuleIdentity(t *testing.T) {
	fx := newQuizFixture(t)
	key := model.ModuleKey{GoalTitle: "g", ModuleTitle: "m"}

	fx.ready(t, key)
	fx.quiz.Generate(context.Background(), "tok", "u1", key, 7)
	if fx.generateCalls != 1 {
		t.Errorf("same identity must not regenerate, got %d calls", fx.generateCalls)
	}

	other := model.ModuleKey{GoalTitle: "g", ModuleTitle: "m2"}
	fx.quiz.Invalidate("u1", other)
	fx.quiz.Generate(context.Background(), "tok", "u1", other, 8)
	if fx.generateCalls != 2 {
		t.Errorf("new identity must trigger one generation, got %d calls", fx.generateCalls)
	}
}

func TestSubmitRequiresFullAnswerSet(t *testing.T) {
	fx := newQuizFixture(t)
	key := model.ModuleKey{GoalTitle: "g", ModuleTitle: "m"}
	fx.ready(t, key)

	fx.quiz.Answer("u1", 1, 0)
	fx.quiz.Answer("u1", 2, 1)

	if _, err := fx.quiz.Submit(context.Background(), "tok", "u1"); !errors.Is(err, util.ErrQuizIncomplete) {
		t.Fatalf("partial answers: err = %v, want ErrQuizIncomplete", err)
	}
	if fx.submitCalls != 0 {
		t.Errorf("gate must short-circuit before the request, got %d calls", fx.submitCalls)
	}

	fx.quiz.Answer("u1", 3, 2)
	st, err := fx.quiz.Submit(context.Background(), "tok", "u1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if st.Phase != QuizScored {
		t.Errorf("phase = %s, want scored", st.Phase)
	}
	if st.Result == nil || st.Result.Percent != 67 {
		t.Errorf("result = %+v, want 2/3 = 67%%", st.Result)
	}
}

func TestScoredIsTerminal(t *testing.T) {
	fx := newQuizFixture(t)
	key := model.ModuleKey{GoalTitle: "g", ModuleTitle: "m"}
	fx.ready(t, key)
	fx.answerAll(t)
	if _, err := fx.quiz.Submit(context.Background(), "tok", "u1"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := fx.quiz.Answer("u1", 1, 3); !errors.Is(err, util.ErrQuizAlreadyScored) {
		t.Errorf("answer after scoring: err = %v, want ErrQuizAlreadyScored", err)
	}
	if _, err := fx.quiz.Submit(context.Background(), "tok", "u1"); !errors.Is(err, util.ErrQuizAlreadyScored) {
		t.Errorf("resubmit: err = %v, want ErrQuizAlreadyScored", err)
	}
	if fx.submitCalls != 1 {
		t.Errorf("exactly one scoring request expected, got %d", fx.submitCalls)
	}
}

func TestSubmitFailureKeepsAnswers(t *testing.T) {
	fx := newQuizFixture(t)
	key := model.ModuleKey{GoalTitle: "g", ModuleTitle: "m"}
	fx.ready(t, key)
	fx.answerAll(t)

	fx.submitStatus = http.StatusBadGateway
	st, err := fx.quiz.Submit(context.Background(), "tok", "u1")
	if err == nil {
		t.Fatal("expected scoring failure")
	}
	if st.Phase != QuizFailed {
		t.Errorf("phase = %s, want failed", st.Phase)
	}
	if len(st.Answers) != len(testQuiz.Questions) {
		t.Errorf("answers must survive a failed submit: %+v", st.Answers)
	}

	// 失败后可以直接重试，不需要重新作答
	fx.submitStatus = http.StatusOK
	st, err = fx.quiz.Submit(context.Background(), "tok", "u1")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if st.Phase != QuizScored {
		t.Errorf("phase after retry = %s, want scored", st.Phase)
	}
}

func TestScoringTriggersProgressRefresh(t *testing.T) {
	fx := newQuizFixture(t)
	key := model.ModuleKey{GoalTitle: "g", ModuleTitle: "m"}
	fx.ready(t, key)
	fx.answerAll(t)

	if _, err := fx.quiz.Submit(context.Background(), "tok", "u1"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if n := fx.progress.RefreshCount("u1"); n != 1 {
		t.Errorf("scoring must propagate progress exactly once, refresh count = %d", n)
	}
}

func TestAnswerBeforeGenerateRejected(t *testing.T) {
	fx := newQuizFixture(t)
	if _, err := fx.quiz.Answer("u1", 1, 0); !errors.Is(err, util.ErrQuizNotReady) {
		t.Errorf("err = %v, want ErrQuizNotReady", err)
	}
	if _, err := fx.quiz.Answer("u1", 99, 0); !errors.Is(err, util.ErrQuizNotReady) {
		t.Errorf("err = %v, want ErrQuizNotReady", err)
	}
}

func TestAnswerUnknownQuestionRejected(t *testing.T) {
	fx := newQuizFixture(t)
	fx.ready(t, model.ModuleKey{GoalTitle: "g", ModuleTitle: "m"})
	if _, err := fx.quiz.Answer("u1", 99, 0); !errors.Is(err, util.ErrUnknownQuestion) {
		t.Errorf("err = %v, want ErrUnknownQuestion", err)
	}
}
