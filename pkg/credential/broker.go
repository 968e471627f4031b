// Package credential は API キーの選択状態を確認・要求するホスト側の機能を抽象化します。
package credential

import (
	"context"
	"errors"
	"log/slog"
)

// ErrNoCredential は有効な認証情報が選択されていない場合のエラーです。
var ErrNoCredential = errors.New("no API credential selected")

// Credential は上流の生成AIサービスへ送る認証情報です。
type Credential struct {
	APIKey string
}

// IsZero は認証情報が空かどうかを返します。
func (c Credential) IsZero() bool {
	return c.APIKey == ""
}

// Broker は認証情報の選択状態を確認し、利用者に選択を促す機能です。
type Broker interface {
	// HasSelectedCredential は認証情報が選択済みかを返します。
	HasSelectedCredential(ctx context.Context) bool
	// PromptSelectCredential は利用者に選択を促し、完了またはキャンセルで戻ります。
	PromptSelectCredential(ctx context.Context) error
}

// Source は呼び出しごとに最新の認証情報を返します。
type Source interface {
	Current(ctx context.Context) (Credential, error)
}

// SourceFunc は関数を Source として扱うためのアダプターです。
type SourceFunc func(ctx context.Context) (Credential, error)

func (f SourceFunc) Current(ctx context.Context) (Credential, error) {
	return f(ctx)
}

// Static は固定の認証情報を返す Source です。
func Static(apiKey string) Source {
	return SourceFunc(func(context.Context) (Credential, error) {
		if apiKey == "" {
			return Credential{}, ErrNoCredential
		}
		return Credential{APIKey: apiKey}, nil
	})
}

// Gate は有料モデルを呼ぶ前の確認を行います。
// 未選択なら一度だけ選択を促し、結果を再確認せずにそのまま続行します（楽観的継続）。
// 選択を促した場合は true を返します。
func Gate(ctx context.Context, broker Broker) bool {
	if broker == nil || broker.HasSelectedCredential(ctx) {
		return false
	}
	if err := broker.PromptSelectCredential(ctx); err != nil {
		slog.WarnContext(ctx, "認証情報の選択が完了しませんでしたが、処理を続行します", "error", err)
	}
	return true
}
