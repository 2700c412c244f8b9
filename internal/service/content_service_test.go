package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"study_session_gateway/internal/model"
)

func TestContentFetchStates(t *testing.T) {
	client := testUpstream(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/articles/content":
			json.NewEncoder(w).Encode(map[string]string{"content": "article body"})
		case "/api/videos/content":
			http.Error(w, `{"error":"no video found"}`, http.StatusNotFound)
		}
	}))
	svc := NewContentService(client)

	key := model.ModuleKey{GoalTitle: "Master Calculus", ModuleTitle: "Power Rule & Chain Rule"}

	article := svc.FetchArticle(context.Background(), "tok", "u1", key, model.ModuleArticle, 3)
	if article.Phase != FetchReady || article.Content != "article body" {
		t.Fatalf("unexpected article state %+v", article)
	}

	// 视频失败不能影响文章标签页
	video := svc.FetchVideo(context.Background(), "tok", "u1", key, 3)
	if video.Phase != FetchError || video.Error == "" {
		t.Fatalf("expected clean error state, got %+v", video)
	}

	gotArticle, gotVideo := svc.States("u1")
	if gotArticle.Phase != FetchReady {
		t.Errorf("article state clobbered by video failure: %+v", gotArticle)
	}
	if gotVideo.Phase != FetchError {
		t.Errorf("unexpected video state %+v", gotVideo)
	}
}

func TestStaleArticleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	client := testUpstream(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(map[string]string{"content": "stale content"})
	}))
	svc := NewContentService(client)

	key1 := model.ModuleKey{GoalTitle: "g1", ModuleTitle: "m1"}
	key2 := model.ModuleKey{GoalTitle: "g2", ModuleTitle: "m2"}

	done := make(chan ArticleState, 1)
	go func() {
		done <- svc.FetchArticle(context.Background(), "tok", "u1", key1, model.ModuleArticle, 1)
	}()

	// 等抓取进入loading后切换模块身份
	for {
		article, _ := svc.States("u1")
		if article.Phase == FetchLoading {
			break
		}
		time.Sleep(time.Millisecond)
	}
	svc.Invalidate("u1", key2)
	close(release)

	result := <-done
	if result.Content == "stale content" {
		t.Fatal("stale response must not be applied after identity change")
	}

	article, _ := svc.States("u1")
	if article.Phase != FetchIdle || article.Content != "" {
		t.Errorf("expected idle state for new identity, got %+v", article)
	}
}

func TestInvalidateSameKeyKeepsState(t *testing.T) {
	client := testUpstream(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"content": "body"})
	}))
	svc := NewContentService(client)

	key := model.ModuleKey{GoalTitle: "g", ModuleTitle: "m"}
	svc.FetchArticle(context.Background(), "tok", "u1", key, model.ModuleArticle, 1)

	svc.Invalidate("u1", key)
	article, _ := svc.States("u1")
	if article.Phase != FetchReady {
		t.Errorf("re-entering the same module must not drop loaded content: %+v", article)
	}
}
