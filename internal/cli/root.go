// Package cli は etsybooster のサブコマンドを定義します。
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/shouni/etsy-booster-kit/internal/config"
	"github.com/shouni/etsy-booster-kit/internal/observability"
	"github.com/shouni/etsy-booster-kit/internal/terminal"
	"github.com/shouni/etsy-booster-kit/pkg/credential"
	"github.com/shouni/etsy-booster-kit/pkg/gateway"
)

// errFailed は生成が失敗状態で終わったことを終了コードに反映するためのエラーです。
// 利用者向けのメッセージは表示済みです。
var errFailed = errors.New("generation failed")

// App はコマンド間で共有する依存関係です。
type App struct {
	Out io.Writer
	In  io.Reader

	// Factory は上流クライアントの生成方法です。nil なら genai を使います。
	Factory gateway.ClientFactory
	// Ask はキー入力の方法です。nil なら huh のフォームを使います。
	Ask terminal.AskFunc

	envFiles []string
	logLevel string
	noPrompt bool

	cfg      *config.Config
	registry *prometheus.Registry
	metrics  *observability.GatewayMetrics
}

// NewRootCmd はルートコマンドとすべてのサブコマンドを組み立てます。
func NewRootCmd(app *App) *cobra.Command {
	if app.Out == nil {
		app.Out = os.Stdout
	}
	if app.In == nil {
		app.In = os.Stdin
	}

	root := &cobra.Command{
		Use:   "etsybooster",
		Short: "AI toolkit for Etsy sellers",
		Long: `EtsyBooster generates Etsy listings and product mockups from your designs,
analyses marketplace trends with search grounding and answers shop questions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init()
		},
	}
	root.PersistentFlags().StringSliceVar(&app.envFiles, "env-file", []string{".env"}, "dotenv files to load before reading the environment")
	root.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "override ETSYBOOSTER_LOG_LEVEL (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&app.noPrompt, "no-prompt", false, "never ask for an API key interactively")

	root.AddCommand(
		newServeCmd(app),
		newListingCmd(app),
		newMockupCmd(app),
		newEditCmd(app),
		newTrendsCmd(app),
		newChatCmd(app),
	)
	return root
}

func (a *App) init() error {
	cfg, err := config.Load(a.envFiles...)
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg
	a.registry = prometheus.NewRegistry()
	a.metrics = observability.NewGatewayMetrics(a.registry)
	slog.SetDefault(observability.NewLogger(os.Stderr, cfg.LogLevel))
	return nil
}

// envSource は設定された環境変数から API キーを読む Source です。
func (a *App) envSource() *credential.EnvBroker {
	return credential.NewEnvBroker(config.APIKeyEnvVars...)
}

// broker は対話用の Broker を返します。--no-prompt の場合は環境変数だけを使います。
func (a *App) broker() interface {
	credential.Broker
	credential.Source
} {
	if a.noPrompt {
		return a.envSource()
	}
	b := terminal.NewPromptBroker(a.envSource())
	if a.Ask != nil {
		b.WithAsk(a.Ask)
	}
	return b
}

// gateway は source を参照して呼び出しごとに上流クライアントを作る Gateway を返します。
func (a *App) gateway(source credential.Source) (*gateway.Client, error) {
	factory := a.Factory
	if factory == nil {
		factory = gateway.NewGenAIFactory()
	}
	opts := append(a.cfg.GatewayOptions(), gateway.WithRecorder(a.metrics))
	return gateway.NewClient(source, factory, opts...)
}

// Execute はシグナルで取り消される ctx でルートコマンドを実行します。
func Execute(ctx context.Context, app *App) error {
	return NewRootCmd(app).ExecuteContext(ctx)
}
