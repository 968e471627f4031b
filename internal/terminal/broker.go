// Package terminal はターミナル上での認証情報の選択と、結果の整形表示を提供します。
package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/huh/v2"

	"github.com/shouni/etsy-booster-kit/pkg/credential"
)

// ErrPromptCancelled はキー入力がキャンセルされた場合に返ります。
var ErrPromptCancelled = errors.New("credential prompt cancelled")

// AskFunc はキーを入力させる関数です。
type AskFunc func(ctx context.Context) (string, error)

// PromptBroker は huh のパスワード入力でキーを選択させる Broker です。
// 選択されたキーは内部の MemoryBroker に保持され、Source としても使えます。
type PromptBroker struct {
	store *credential.MemoryBroker
	ask   AskFunc
}

// NewPromptBroker は PromptBroker を作成します。fallback は入力前に使うキーの参照先です。
func NewPromptBroker(fallback credential.Source) *PromptBroker {
	return &PromptBroker{
		store: credential.NewMemoryBroker(fallback),
		ask:   askWithForm,
	}
}

// WithAsk は入力方法を差し替えた PromptBroker を返します。
func (b *PromptBroker) WithAsk(ask AskFunc) *PromptBroker {
	b.ask = ask
	return b
}

func (b *PromptBroker) Current(ctx context.Context) (credential.Credential, error) {
	return b.store.Current(ctx)
}

func (b *PromptBroker) HasSelectedCredential(ctx context.Context) bool {
	return b.store.HasSelectedCredential(ctx)
}

// PromptSelectCredential はキーの入力を求めます。空の入力は選択状態を変えません。
func (b *PromptBroker) PromptSelectCredential(ctx context.Context) error {
	key, err := b.ask(ctx)
	if err != nil {
		return err
	}
	if key = strings.TrimSpace(key); key != "" {
		b.store.Select(key)
	}
	return nil
}

func askWithForm(ctx context.Context) (string, error) {
	var key string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("API key required").
				Description("High-quality generation requires an API key from a paid Google Cloud project."),
			huh.NewInput().
				Title("API key").
				Placeholder("AIza...").
				EchoMode(huh.EchoModePassword).
				Value(&key),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrPromptCancelled
		}
		return "", fmt.Errorf("キー入力フォームの実行に失敗しました: %w", err)
	}
	return key, nil
}
