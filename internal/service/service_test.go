package service

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"study_session_gateway/internal/config"
	"study_session_gateway/internal/upstream"
	"study_session_gateway/pkg/logger"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func testUpstream(t *testing.T, handler http.Handler) *upstream.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return upstream.NewClient(config.UpstreamConfig{
		BaseURL:         srv.URL,
		Timeout:         5 * time.Second,
		Language:        "en",
		VideoRetryMax:   2,
		VideoRetryDelay: time.Millisecond,
	})
}
