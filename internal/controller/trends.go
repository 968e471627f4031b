package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/shouni/etsy-booster-kit/pkg/credential"
	"github.com/shouni/etsy-booster-kit/pkg/gateway"
)

// TrendsGateway は TrendSpy が必要とする Gateway の操作です。
type TrendsGateway interface {
	FetchMarketTrends(ctx context.Context) (string, error)
}

// TrendsSnapshot は TrendSpy の表示用スナップショットです。
type TrendsSnapshot struct {
	State           State  `json:"state"`
	Analysis        string `json:"analysis"`
	NeedsCredential bool   `json:"needsCredential"`
}

// TrendSpy は検索グラウンディング付きの市場トレンド分析を扱います。
// キーが未選択の場合は自動で選択を促さず、NeedsCredential を立てて利用者の操作を待ちます。
type TrendSpy struct {
	gw     TrendsGateway
	broker credential.Broker

	mu              sync.Mutex
	state           State
	analysis        string
	needsCredential bool
}

func NewTrendSpy(gw TrendsGateway, broker credential.Broker) (*TrendSpy, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway は必須です")
	}
	if broker == nil {
		return nil, fmt.Errorf("broker は必須です")
	}
	return &TrendSpy{gw: gw, broker: broker, state: StateIdle}, nil
}

// Activate は画面の初回表示時に呼ばれます。
func (t *TrendSpy) Activate(ctx context.Context) {
	if err := t.Refresh(ctx); err != nil {
		logFailure(ctx, "トレンド分析を開始できませんでした", err)
	}
}

// Refresh はキーの選択状態を確認し、選択済みであれば分析を取得します。
func (t *TrendSpy) Refresh(ctx context.Context) error {
	t.mu.Lock()
	if t.state == StateLoading {
		t.mu.Unlock()
		return ErrBusy
	}
	t.mu.Unlock()

	if !t.broker.HasSelectedCredential(ctx) {
		t.mu.Lock()
		t.needsCredential = true
		t.mu.Unlock()
		return nil
	}
	return t.fetch(ctx)
}

// SelectCredential はキーの選択を促し、結果を確認せずに分析を取得します。
func (t *TrendSpy) SelectCredential(ctx context.Context) error {
	t.mu.Lock()
	if t.state == StateLoading {
		t.mu.Unlock()
		return ErrBusy
	}
	t.mu.Unlock()

	if err := t.broker.PromptSelectCredential(ctx); err != nil {
		logFailure(ctx, "認証情報の選択が完了しませんでした", err)
	}
	return t.fetch(ctx)
}

func (t *TrendSpy) fetch(ctx context.Context) error {
	t.mu.Lock()
	if t.state == StateLoading {
		t.mu.Unlock()
		return ErrBusy
	}
	t.state = StateLoading
	t.needsCredential = false
	t.mu.Unlock()

	analysis, err := t.gw.FetchMarketTrends(detach(ctx))

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		logFailure(ctx, "トレンド分析の取得に失敗しました", err)
		t.state = StateError
		t.analysis = TrendsErrorText
		if gateway.IsPermissionOrBilling(err) {
			t.needsCredential = true
		}
		return nil
	}
	t.state = StateSuccess
	t.analysis = analysis
	return nil
}

// Snapshot は現在の状態のコピーを返します。
func (t *TrendSpy) Snapshot() TrendsSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TrendsSnapshot{
		State:           t.state,
		Analysis:        t.analysis,
		NeedsCredential: t.needsCredential,
	}
}
