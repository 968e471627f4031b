package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/etsy-booster-kit/internal/controller"
	"github.com/shouni/etsy-booster-kit/internal/observability"
	"github.com/shouni/etsy-booster-kit/internal/shell"
	"github.com/shouni/etsy-booster-kit/pkg/credential"
	"github.com/shouni/etsy-booster-kit/pkg/domain"
)

// fakeGateway は全画面の Gateway を満たす固定応答のフェイクです。
type fakeGateway struct {
	mu          sync.Mutex
	trendsCalls int
}

func (f *fakeGateway) GenerateListing(context.Context, domain.ImageRef, string) (*domain.ListingData, error) {
	return &domain.ListingData{Title: "Boho Sun Print", Description: "Warm print", Tags: []string{"boho"}}, nil
}

func (f *fakeGateway) GenerateLifestyleMockup(context.Context, domain.ImageRef, string) (domain.ImageRef, error) {
	return "data:image/png;base64,bW9ja3Vw", nil
}

func (f *fakeGateway) GenerateStandaloneMockup(context.Context, string, domain.AspectRatio, domain.Resolution) (domain.ImageRef, error) {
	return "data:image/png;base64,c3RhbmRhbG9uZQ==", nil
}

func (f *fakeGateway) EditImage(context.Context, domain.ImageRef, string) (domain.ImageRef, error) {
	return "data:image/png;base64,ZWRpdGVk", nil
}

func (f *fakeGateway) FetchMarketTrends(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trendsCalls++
	return "Cottagecore is rising", nil
}

func (f *fakeGateway) SendChatMessage(_ context.Context, message string) (string, error) {
	return "echo: " + message, nil
}

type testEnv struct {
	handler http.Handler
	broker  *credential.MemoryBroker
	nav     *shell.Navigator
	gw      *fakeGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gw := &fakeGateway{}
	broker := credential.NewMemoryBroker(nil)

	trends, err := controller.NewTrendSpy(gw, broker)
	require.NoError(t, err)
	listing, err := controller.NewListingGenerator(gw, broker)
	require.NoError(t, err)
	mockup, err := controller.NewMockupStudio(gw, broker)
	require.NoError(t, err)
	chat, err := controller.NewChat(gw)
	require.NoError(t, err)
	settings, err := controller.NewSettings(broker)
	require.NoError(t, err)

	nav := shell.NewNavigator(map[domain.Page]shell.Activator{domain.PageTrendSpy: trends})
	reg := prometheus.NewRegistry()

	h, err := NewServer(Deps{
		Navigator:   nav,
		Dashboard:   controller.NewDashboard(),
		Trends:      trends,
		Listing:     listing,
		Mockup:      mockup,
		Chat:        chat,
		Settings:    settings,
		Credentials: broker,
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		HTTPMetrics: observability.NewHTTPMetrics(reg),
	})
	require.NoError(t, err)
	return &testEnv{handler: h, broker: broker, nav: nav, gw: gw}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNewServer_RequiresDeps(t *testing.T) {
	_, err := NewServer(Deps{})
	assert.Error(t, err)
}

func TestHealthzAndMiddleware(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	t.Run("preflight は 204 を返す", func(t *testing.T) {
		w := env.do(t, http.MethodOptions, "/api/listing", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("metrics にリクエスト数が出る", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/metrics", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "etsybooster_http_requests_total")
	})
}

func TestShell(t *testing.T) {
	env := newTestEnv(t)
	env.broker.Select("test-key")

	t.Run("不明な画面は 400", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/shell/page", `{"page":"billing"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Trend Spy の初回表示で分析を取得する", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/shell/page", `{"page":"trend_spy"}`)
		require.Equal(t, http.StatusOK, w.Code)
		snap := decodeBody[shell.Snapshot](t, w)
		assert.Equal(t, domain.PageTrendSpy, snap.Current)

		env.nav.Wait()
		trends := decodeBody[controller.TrendsSnapshot](t, env.do(t, http.MethodGet, "/api/trends", ""))
		assert.Equal(t, "Cottagecore is rising", trends.Analysis)
		assert.Equal(t, 1, env.gw.trendsCalls)
	})
}

func TestListingFlow(t *testing.T) {
	env := newTestEnv(t)
	env.broker.Select("test-key")

	t.Run("デザイン未選択の生成は 400", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/listing/generate", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("画像でない入力は 400", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/listing/design", `{"image":"not base64!"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("素の base64 は data URI に正規化される", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/listing/design", `{"image":"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAIAAACQd1Pe"}`)
		require.Equal(t, http.StatusOK, w.Code)
		snap := decodeBody[controller.ListingSnapshot](t, w)
		assert.True(t, strings.HasPrefix(snap.Design.String(), "data:image/png;base64,"))
	})

	t.Run("生成結果が返る", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/listing/generate", "")
		require.Equal(t, http.StatusOK, w.Code)
		snap := decodeBody[controller.ListingSnapshot](t, w)
		assert.Equal(t, controller.StateSuccess, snap.State)
		require.NotNil(t, snap.Listing)
		assert.Equal(t, "Boho Sun Print", snap.Listing.Title)
		assert.False(t, snap.Mockup.IsZero())
	})

	t.Run("クリアすると初期状態に戻る", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/api/listing", "")
		require.Equal(t, http.StatusOK, w.Code)
		snap := decodeBody[controller.ListingSnapshot](t, w)
		assert.Equal(t, controller.StateIdle, snap.State)
		assert.Nil(t, snap.Listing)
	})
}

func TestMockupFlow(t *testing.T) {
	env := newTestEnv(t)
	env.broker.Select("test-key")

	w := env.do(t, http.MethodPut, "/api/mockup/settings", `{"aspectRatio":"2:1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/mockup/edit", `{"instruction":"warmer"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "編集対象がない")

	w = env.do(t, http.MethodPut, "/api/mockup/settings", `{"prompt":"Tote bag","aspectRatio":"9:16","resolution":"2K"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/mockup/generate", "")
	require.Equal(t, http.StatusOK, w.Code)
	snap := decodeBody[controller.MockupSnapshot](t, w)
	assert.Equal(t, domain.AspectRatioTall, snap.AspectRatio)
	assert.Equal(t, controller.StateSuccess, snap.GenerateState)

	w = env.do(t, http.MethodPost, "/api/mockup/edit", `{"instruction":"warmer"}`)
	require.Equal(t, http.StatusOK, w.Code)
	snap = decodeBody[controller.MockupSnapshot](t, w)
	assert.Equal(t, domain.ImageRef("data:image/png;base64,ZWRpdGVk"), snap.Result)
	assert.Empty(t, snap.EditPrompt)
}

func TestChatFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/chat/messages", `{"text":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "閉じている")

	env.do(t, http.MethodPost, "/api/chat/open", "")

	w = env.do(t, http.MethodPost, "/api/chat/messages", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/chat/messages", `{"text":"How do I price?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decodeBody[controller.ChatSnapshot](t, w)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "echo: How do I price?", snap.Messages[1].Text)
	assert.Equal(t, controller.ChatGreeting, snap.Greeting)

	w = env.do(t, http.MethodPost, "/api/chat/close", "")
	snap = decodeBody[controller.ChatSnapshot](t, w)
	assert.Empty(t, snap.Messages)
	assert.False(t, snap.Open)
}

func TestCredential(t *testing.T) {
	env := newTestEnv(t)

	got := decodeBody[credentialResponse](t, env.do(t, http.MethodGet, "/api/credential", ""))
	assert.False(t, got.CredentialSelected)

	// キー未選択のまま生成すると選択待ちになるが、処理は続行される
	env.do(t, http.MethodPut, "/api/listing/design", `{"image":"data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAIAAACQd1Pe"}`)
	w := env.do(t, http.MethodPost, "/api/listing/generate", "")
	require.Equal(t, http.StatusOK, w.Code)
	got = decodeBody[credentialResponse](t, env.do(t, http.MethodGet, "/api/credential", ""))
	assert.True(t, got.PromptPending)

	w = env.do(t, http.MethodPut, "/api/credential", `{"apiKey":"paid-key"}`)
	require.Equal(t, http.StatusOK, w.Code)
	got = decodeBody[credentialResponse](t, w)
	assert.True(t, got.CredentialSelected)
	assert.False(t, got.PromptPending)
}
