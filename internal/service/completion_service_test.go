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

type completionFixture struct {
	session    *SessionService
	progress   *ProgressService
	completion *CompletionService
}

func newCompletionFixture(t *testing.T, handler http.Handler) *completionFixture {
	t.Helper()
	client := testUpstream(t, handler)
	progress := NewProgressService(client)
	content := NewContentService(client)
	quiz := NewQuizService(client, progress)
	session := NewSessionService(client, content, quiz)
	return &completionFixture{
		session:    session,
		progress:   progress,
		completion: NewCompletionService(client, session, progress),
	}
}

func TestToggleReplacesProgressAndBumpsRefresh(t *testing.T) {
	fx := newCompletionFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/study-plan/complete":
			json.NewEncoder(w).Encode(map[string]int{
				"goalProgress": 63, "completedModules": 5, "totalModules": 8,
			})
		case "/api/goals":
			json.NewEncoder(w).Encode([]model.Goal{{ID: 1, Title: "Master Calculus", Progress: 63}})
		case "/api/dashboard/summary":
			json.NewEncoder(w).Encode(model.DashboardSummary{TasksCompletedToday: 3})
		default:
			http.NotFound(w, r)
		}
	}))
	fx.session.StartModule("u1", "Master Calculus", model.Module{ID: 5, Title: "Integrals"})

	progress, err := fx.completion.Toggle(context.Background(), "tok", "u1", true)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	want := model.ModuleProgress{Percent: 63, Done: 5, Total: 8}
	if progress != want {
		t.Errorf("progress = %+v, want %+v", progress, want)
	}

	if st := fx.session.State("u1"); !st.IsCompleted {
		t.Error("completion flag must stick after a successful toggle")
	}
	snap := fx.progress.Snapshot("u1")
	if snap.ModuleProgress != want {
		t.Errorf("module progress must be replaced wholesale: %+v", snap.ModuleProgress)
	}
	if snap.RefreshCount != 1 {
		t.Errorf("refresh count = %d, want 1", snap.RefreshCount)
	}
	if len(snap.Goals) != 1 || snap.Dashboard.TasksCompletedToday != 3 {
		t.Errorf("secondary views not refreshed: %+v", snap)
	}
}

func TestToggleRollsBackOnFailure(t *testing.T) {
	fx := newCompletionFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"db down"}`, http.StatusInternalServerError)
	}))
	fx.session.StartModule("u1", "g", model.Module{ID: 1, Title: "m", Completed: false})

	_, err := fx.completion.Toggle(context.Background(), "tok", "u1", true)
	if err == nil {
		t.Fatal("expected upstream error")
	}
	st := fx.session.State("u1")
	if st.IsCompleted {
		t.Error("flag must roll back to its pre-toggle value on failure")
	}
	if st.SelectedModule.Completed {
		t.Error("module copy must roll back with the flag")
	}
	if n := fx.progress.RefreshCount("u1"); n != 0 {
		t.Errorf("failed toggle must not propagate progress, refresh count = %d", n)
	}
}

func TestToggleRoundTripRestoresOriginal(t *testing.T) {
	fx := newCompletionFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/study-plan/complete" {
			var body struct {
				Completed bool `json:"completed"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			done := 4
			if body.Completed {
				done = 5
			}
			json.NewEncoder(w).Encode(map[string]int{
				"goalProgress": done * 10, "completedModules": done, "totalModules": 10,
			})
			return
		}
		w.Write([]byte(`{}`))
	}))
	fx.session.StartModule("u1", "g", model.Module{ID: 1, Title: "m", Completed: false})

	if _, err := fx.completion.Toggle(context.Background(), "tok", "u1", true); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if _, err := fx.completion.Toggle(context.Background(), "tok", "u1", false); err != nil {
		t.Fatalf("second toggle: %v", err)
	}

	st := fx.session.State("u1")
	if st.IsCompleted {
		t.Error("toggling twice must land on the original flag")
	}
	want := model.ModuleProgress{Percent: 40, Done: 4, Total: 10}
	if got := fx.progress.Snapshot("u1").ModuleProgress; got != want {
		t.Errorf("progress after round trip = %+v, want %+v", got, want)
	}
}

func TestToggleRequiresTokenAndModule(t *testing.T) {
	calls := 0
	fx := newCompletionFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{}`))
	}))

	if _, err := fx.completion.Toggle(context.Background(), "", "u1", true); !errors.Is(err, util.ErrNoToken) {
		t.Errorf("missing token: err = %v, want ErrNoToken", err)
	}
	if _, err := fx.completion.Toggle(context.Background(), "tok", "u1", true); !errors.Is(err, util.ErrNoActiveModule) {
		t.Errorf("no active module: err = %v, want ErrNoActiveModule", err)
	}
	if calls != 0 {
		t.Errorf("guards must skip the upstream request, got %d calls", calls)
	}
}
