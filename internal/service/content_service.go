package service

import (
	"context"
	"sync"

	"study_session_gateway/internal/model"
	"study_session_gateway/internal/upstream"
	"study_session_gateway/pkg/logger"
	"study_session_gateway/pkg/monitoring"

	"go.uber.org/zap"
)

type FetchPhase string

const (
	FetchIdle    FetchPhase = "idle"
	FetchLoading FetchPhase = "loading"
	FetchError   FetchPhase = "error"
	FetchReady   FetchPhase = "ready"
)

// ArticleState / VideoState 每个标签页独立的抓取状态
// 一个标签页失败不影响另一个
type ArticleState struct {
	Phase   FetchPhase `json:"phase"`
	Content string     `json:"content,omitempty"`
	Error   string     `json:"error,omitempty"`
}

type VideoState struct {
	Phase FetchPhase          `json:"phase"`
	Video *model.VideoContent `json:"video,omitempty"`
	Error string              `json:"error,omitempty"`
}

// moduleContent 单个用户当前模块的标签页内容
// generation 在模块身份变化时递增，在途结果回来后对不上号就丢弃
type moduleContent struct {
	key        model.ModuleKey
	generation uint64
	article    ArticleState
	video      VideoState
}

type ContentService struct {
	mu     sync.Mutex
	client *upstream.Client
	byUser map[string]*moduleContent
}

func NewContentService(client *upstream.Client) *ContentService {
	return &ContentService{
		client: client,
		byUser: make(map[string]*moduleContent),
	}
}

func (s *ContentService) entry(userKey string) *moduleContent {
	mc, ok := s.byUser[userKey]
	if !ok {
		mc = &moduleContent{
			article: ArticleState{Phase: FetchIdle},
			video:   VideoState{Phase: FetchIdle},
		}
		s.byUser[userKey] = mc
	}
	return mc
}

// Invalidate 切换模块身份：旧的在途抓取作废，状态回到idle
func (s *ContentService) Invalidate(userKey string, key model.ModuleKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mc := s.entry(userKey)
	if mc.key == key {
		return
	}
	mc.key = key
	mc.generation++
	mc.article = ArticleState{Phase: FetchIdle}
	mc.video = VideoState{Phase: FetchIdle}
}

// States 两个标签页的当前状态快照
func (s *ContentService) States(userKey string) (ArticleState, VideoState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mc := s.entry(userKey)
	return mc.article, mc.video
}

// begin 登记一次抓取：对齐身份、置loading、捕获代号
func (s *ContentService) begin(userKey string, key model.ModuleKey, tab string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	mc := s.entry(userKey)
	if mc.key != key {
		mc.key = key
		mc.generation++
		mc.article = ArticleState{Phase: FetchIdle}
		mc.video = VideoState{Phase: FetchIdle}
	}
	switch tab {
	case "article":
		mc.article = ArticleState{Phase: FetchLoading}
	case "video":
		mc.video = VideoState{Phase: FetchLoading}
	}
	return mc.generation
}

// FetchArticle 文章标签页内容，单次尝试
// 结果只在身份代号仍匹配时生效，陈旧响应丢弃不渲染
func (s *ContentService) FetchArticle(ctx context.Context, token, userKey string, key model.ModuleKey, moduleType model.ModuleType, moduleID int) ArticleState {
	gen := s.begin(userKey, key, "article")

	content, err := s.client.ArticleContent(ctx, token, key, moduleType, moduleID)

	s.mu.Lock()
	defer s.mu.Unlock()
	mc := s.entry(userKey)
	if mc.generation != gen {
		monitoring.StaleDiscards.WithLabelValues("article").Inc()
		logger.Log.Debug("丢弃陈旧的文章响应",
			zap.String("goal", key.GoalTitle), zap.String("module", key.ModuleTitle))
		return mc.article
	}
	if err != nil {
		mc.article = ArticleState{Phase: FetchError, Error: err.Error()}
	} else {
		mc.article = ArticleState{Phase: FetchReady, Content: content}
	}
	return mc.article
}

// FetchVideo 视频标签页内容，重试策略在抓取层内生效
func (s *ContentService) FetchVideo(ctx context.Context, token, userKey string, key model.ModuleKey, moduleID int) VideoState {
	gen := s.begin(userKey, key, "video")

	video, err := s.client.VideoContent(ctx, token, key, moduleID)

	s.mu.Lock()
	defer s.mu.Unlock()
	mc := s.entry(userKey)
	if mc.generation != gen {
		monitoring.StaleDiscards.WithLabelValues("video").Inc()
		logger.Log.Debug("丢弃陈旧的视频响应",
			zap.String("goal", key.GoalTitle), zap.String("module", key.ModuleTitle))
		return mc.video
	}
	if err != nil {
		mc.video = VideoState{Phase: FetchError, Error: err.Error()}
	} else {
		mc.video = VideoState{Phase: FetchReady, Video: video}
	}
	return mc.video
}
