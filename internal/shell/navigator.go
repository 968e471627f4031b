// Package shell は現在表示中の画面と、画面の初回表示時の処理を管理します。
package shell

import (
	"context"
	"sync"

	"github.com/shouni/etsy-booster-kit/pkg/domain"
)

// Activator は初回表示時に処理を開始する画面が実装します。
type Activator interface {
	Activate(ctx context.Context)
}

// MenuItem はサイドバーの 1 項目です。
type MenuItem struct {
	Page  domain.Page `json:"page"`
	Label string      `json:"label"`
	Icon  string      `json:"icon"`
}

// Menu はサイドバーの表示順の項目一覧です。
var Menu = []MenuItem{
	{Page: domain.PageDashboard, Label: "Dashboard", Icon: "dashboard"},
	{Page: domain.PageTrendSpy, Label: "Trend Spy", Icon: "visibility"},
	{Page: domain.PageListingGenerator, Label: "AI Creative Suite", Icon: "auto_awesome"},
	{Page: domain.PageMockupStudio, Label: "Mockup Studio", Icon: "checkroom"},
	{Page: domain.PageChat, Label: "Assistant", Icon: "chat"},
	{Page: domain.PageSettings, Label: "Settings", Icon: "settings"},
}

// Snapshot はシェルの表示内容です。
type Snapshot struct {
	Current domain.Page `json:"current"`
	Menu    []MenuItem  `json:"menu"`
}

// Navigator は現在の画面を 1 つだけ保持します。
// Activator を登録した画面は、初めて選択された時にバックグラウンドで Activate が呼ばれます。
type Navigator struct {
	mu         sync.Mutex
	current    domain.Page
	activators map[domain.Page]Activator
	activated  map[domain.Page]bool
	wg         sync.WaitGroup
}

// NewNavigator はダッシュボードを表示した状態の Navigator を作成します。
func NewNavigator(activators map[domain.Page]Activator) *Navigator {
	acts := make(map[domain.Page]Activator, len(activators))
	for p, a := range activators {
		if a != nil {
			acts[p] = a
		}
	}
	return &Navigator{
		current:    domain.PageDashboard,
		activators: acts,
		activated:  make(map[domain.Page]bool),
	}
}

// Select は現在の画面を切り替えます。
func (n *Navigator) Select(ctx context.Context, page domain.Page) error {
	if !page.Valid() {
		_, err := domain.ParsePage(string(page))
		return err
	}

	n.mu.Lock()
	n.current = page
	act, ok := n.activators[page]
	first := ok && !n.activated[page]
	if first {
		n.activated[page] = true
	}
	n.mu.Unlock()

	if first {
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			act.Activate(context.WithoutCancel(ctx))
		}()
	}
	return nil
}

// Current は現在の画面を返します。
func (n *Navigator) Current() domain.Page {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *Navigator) Snapshot() Snapshot {
	return Snapshot{Current: n.Current(), Menu: append([]MenuItem(nil), Menu...)}
}

// Wait は実行中の Activate がすべて終わるまで待ちます。
func (n *Navigator) Wait() {
	n.wg.Wait()
}
