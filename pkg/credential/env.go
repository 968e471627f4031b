package credential

import (
	"context"
	"log/slog"
	"os"
)

// EnvBroker は環境変数から API キーを読み取る Broker / Source です。
// 先頭から順に評価し、最初に値が入っている変数を採用します。
type EnvBroker struct {
	keys   []string
	lookup func(string) (string, bool)
}

// NewEnvBroker は参照する環境変数名を指定して EnvBroker を作成します。
func NewEnvBroker(keys ...string) *EnvBroker {
	return &EnvBroker{keys: keys, lookup: os.LookupEnv}
}

func (b *EnvBroker) Current(context.Context) (Credential, error) {
	for _, k := range b.keys {
		if v, ok := b.lookup(k); ok && v != "" {
			return Credential{APIKey: v}, nil
		}
	}
	return Credential{}, ErrNoCredential
}

func (b *EnvBroker) HasSelectedCredential(ctx context.Context) bool {
	_, err := b.Current(ctx)
	return err == nil
}

// PromptSelectCredential は対話手段を持たないため、設定方法をログに出すだけです。
func (b *EnvBroker) PromptSelectCredential(ctx context.Context) error {
	slog.WarnContext(ctx, "API キーが設定されていません。有料プロジェクトのキーを環境変数に設定してください", "env", b.keys)
	return nil
}
