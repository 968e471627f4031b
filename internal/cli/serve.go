package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/shouni/etsy-booster-kit/internal/controller"
	"github.com/shouni/etsy-booster-kit/internal/httpapi"
	"github.com/shouni/etsy-booster-kit/internal/observability"
	"github.com/shouni/etsy-booster-kit/internal/shell"
	"github.com/shouni/etsy-booster-kit/pkg/credential"
	"github.com/shouni/etsy-booster-kit/pkg/domain"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port > 0 {
				app.cfg.Port = port
			}
			h, err := app.buildServer()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), app.cfg.Addr(), h)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "override ETSYBOOSTER_PORT")
	return cmd
}

// buildServer は API 経由でキーを選択する MemoryBroker を使って全画面を組み立てます。
func (a *App) buildServer() (http.Handler, error) {
	broker := credential.NewMemoryBroker(a.envSource())
	gw, err := a.gateway(broker)
	if err != nil {
		return nil, err
	}

	trends, err := controller.NewTrendSpy(gw, broker)
	if err != nil {
		return nil, err
	}
	listing, err := controller.NewListingGenerator(gw, broker)
	if err != nil {
		return nil, err
	}
	mockup, err := controller.NewMockupStudio(gw, broker)
	if err != nil {
		return nil, err
	}
	chat, err := controller.NewChat(gw)
	if err != nil {
		return nil, err
	}
	settings, err := controller.NewSettings(broker)
	if err != nil {
		return nil, err
	}

	return httpapi.NewServer(httpapi.Deps{
		Navigator:   shell.NewNavigator(map[domain.Page]shell.Activator{domain.PageTrendSpy: trends}),
		Dashboard:   controller.NewDashboard(),
		Trends:      trends,
		Listing:     listing,
		Mockup:      mockup,
		Chat:        chat,
		Settings:    settings,
		Credentials: broker,
		Metrics:     promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
		HTTPMetrics: observability.NewHTTPMetrics(a.registry),
	})
}

func serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP サーバーを起動します", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP サーバーが停止しました: %w", err)
	case <-ctx.Done():
	}

	slog.Info("HTTP サーバーを停止します")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("シャットダウンに失敗しました: %w", err)
	}
	return nil
}
