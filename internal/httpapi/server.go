// Package httpapi はシェルと各画面のコントローラーを JSON API として公開します。
package httpapi

import (
	"fmt"
	"net/http"

	"github.com/shouni/etsy-booster-kit/internal/controller"
	"github.com/shouni/etsy-booster-kit/internal/observability"
	"github.com/shouni/etsy-booster-kit/internal/shell"
	"github.com/shouni/etsy-booster-kit/pkg/credential"
)

// maxBodyBytes はリクエストボディの上限です。data URI の画像を含むため大きめにしています。
const maxBodyBytes = 32 << 20

// Deps は Server が公開する画面とインフラです。
type Deps struct {
	Navigator   *shell.Navigator
	Dashboard   *controller.Dashboard
	Trends      *controller.TrendSpy
	Listing     *controller.ListingGenerator
	Mockup      *controller.MockupStudio
	Chat        *controller.Chat
	Settings    *controller.Settings
	Credentials *credential.MemoryBroker

	// Metrics は /metrics で公開するハンドラーです。nil の場合は登録しません。
	Metrics     http.Handler
	HTTPMetrics *observability.HTTPMetrics
}

type Server struct {
	deps Deps
}

// NewServer はルーティングとミドルウェアを組み立てた http.Handler を返します。
func NewServer(d Deps) (http.Handler, error) {
	switch {
	case d.Navigator == nil:
		return nil, fmt.Errorf("navigator は必須です")
	case d.Dashboard == nil, d.Trends == nil, d.Listing == nil, d.Mockup == nil, d.Chat == nil, d.Settings == nil:
		return nil, fmt.Errorf("すべての画面コントローラーが必要です")
	case d.Credentials == nil:
		return nil, fmt.Errorf("credentials は必須です")
	}

	s := &Server{deps: d}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics)
	}

	mux.HandleFunc("GET /api/shell", s.handleGetShell)
	mux.HandleFunc("PUT /api/shell/page", s.handleSelectPage)

	mux.HandleFunc("GET /api/dashboard", s.handleGetDashboard)

	mux.HandleFunc("GET /api/trends", s.handleGetTrends)
	mux.HandleFunc("POST /api/trends/refresh", s.handleRefreshTrends)
	mux.HandleFunc("POST /api/trends/credential", s.handleTrendsCredential)

	mux.HandleFunc("GET /api/listing", s.handleGetListing)
	mux.HandleFunc("DELETE /api/listing", s.handleClearListing)
	mux.HandleFunc("PUT /api/listing/design", s.handleSelectDesign)
	mux.HandleFunc("PUT /api/listing/description", s.handleSetDescription)
	mux.HandleFunc("POST /api/listing/generate", s.handleGenerateListing)

	mux.HandleFunc("GET /api/mockup", s.handleGetMockup)
	mux.HandleFunc("PUT /api/mockup/settings", s.handleMockupSettings)
	mux.HandleFunc("PUT /api/mockup/image", s.handleLoadMockupImage)
	mux.HandleFunc("POST /api/mockup/generate", s.handleGenerateMockup)
	mux.HandleFunc("POST /api/mockup/edit", s.handleEditMockup)

	mux.HandleFunc("GET /api/chat", s.handleGetChat)
	mux.HandleFunc("POST /api/chat/open", s.handleOpenChat)
	mux.HandleFunc("POST /api/chat/close", s.handleCloseChat)
	mux.HandleFunc("POST /api/chat/messages", s.handleSendChat)

	mux.HandleFunc("GET /api/credential", s.handleGetCredential)
	mux.HandleFunc("PUT /api/credential", s.handleSelectCredential)

	return chainMiddlewares(mux,
		withMetrics(d.HTTPMetrics),
		withLogging,
		withCORS,
		withRequestID,
	), nil
}
