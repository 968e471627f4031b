// Package controller は画面ごとの状態とオーケストレーションを保持します。
// 各コントローラーは自身の状態だけを排他的に所有し、Gateway の失敗は利用者向けの状態に変換します。
package controller

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shouni/etsy-booster-kit/pkg/credential"
	"github.com/shouni/etsy-booster-kit/pkg/gateway"
)

// State は単一アクションの進行状態です。
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

var (
	// ErrBusy は同じアクションが実行中の場合に返ります。
	ErrBusy = errors.New("operation already in progress")
	// ErrNoDesign はデザイン画像が未選択のまま生成しようとした場合に返ります。
	ErrNoDesign = errors.New("select a design image first")
	// ErrNothingToEdit は編集対象の画像がない場合に返ります。
	ErrNothingToEdit = errors.New("no image to edit")
	// ErrEmptyInstruction は編集指示が空の場合に返ります。
	ErrEmptyInstruction = errors.New("edit instruction is empty")
	// ErrEmptyMessage は空のチャットメッセージを送ろうとした場合に返ります。
	ErrEmptyMessage = errors.New("message is empty")
	// ErrChatClosed はチャットが閉じている場合に返ります。
	ErrChatClosed = errors.New("chat is closed")
)

// IsPrecondition は利用者の操作で解消できる前提条件エラーかを返します。
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNoDesign) ||
		errors.Is(err, ErrNothingToEdit) ||
		errors.Is(err, ErrEmptyInstruction) ||
		errors.Is(err, ErrEmptyMessage) ||
		errors.Is(err, ErrChatClosed)
}

// detach は実行中のリクエストを取り消さないよう、呼び出し元のキャンセルを切り離します。
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// alert は失敗を利用者向けのメッセージに変換します。
// 権限・課金系の失敗では再選択を促すべきかどうかも返します。
func alert(err error, permissionMsg, genericMsg string) (string, bool) {
	if gateway.IsPermissionOrBilling(err) {
		return permissionMsg, true
	}
	return genericMsg, false
}

// reprompt は認証情報の再選択を促します。再選択後の再試行は利用者に任せます。
func reprompt(ctx context.Context, broker credential.Broker) {
	if broker == nil {
		return
	}
	if err := broker.PromptSelectCredential(ctx); err != nil {
		slog.WarnContext(ctx, "認証情報の再選択に失敗しました", "error", err)
	}
}

func logFailure(ctx context.Context, msg string, err error) {
	slog.WarnContext(ctx, msg, "error", err, "kind", gateway.Classify(err).String())
}
