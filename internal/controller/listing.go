package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/etsy-booster-kit/pkg/credential"
	"github.com/shouni/etsy-booster-kit/pkg/domain"
)

// ListingGateway は ListingGenerator が必要とする Gateway の操作です。
type ListingGateway interface {
	GenerateListing(ctx context.Context, image domain.ImageRef, userContext string) (*domain.ListingData, error)
	GenerateLifestyleMockup(ctx context.Context, design domain.ImageRef, scene string) (domain.ImageRef, error)
}

// ListingSnapshot は ListingGenerator の表示用スナップショットです。
type ListingSnapshot struct {
	State       State               `json:"state"`
	Design      domain.ImageRef     `json:"design,omitempty"`
	Description string              `json:"description"`
	Listing     *domain.ListingData `json:"listing,omitempty"`
	Mockup      domain.ImageRef     `json:"mockup,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
	Alert       string              `json:"alert,omitempty"`
}

// ListingGenerator はデザイン画像から出品情報とライフスタイルモックアップを同時に生成します。
type ListingGenerator struct {
	gw     ListingGateway
	broker credential.Broker

	mu          sync.Mutex
	state       State
	design      domain.ImageRef
	description string
	listing     *domain.ListingData
	mockup      domain.ImageRef
	alert       string
}

// NewListingGenerator は ListingGenerator を作成します。
func NewListingGenerator(gw ListingGateway, broker credential.Broker) (*ListingGenerator, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway は必須です")
	}
	if broker == nil {
		return nil, fmt.Errorf("broker は必須です")
	}
	return &ListingGenerator{gw: gw, broker: broker, state: StateIdle}, nil
}

// SelectDesign はデザイン画像を設定し、前回の結果を破棄します。
func (g *ListingGenerator) SelectDesign(ref domain.ImageRef) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateLoading {
		return ErrBusy
	}
	g.design = ref
	g.resetResultLocked()
	return nil
}

// SetDescription はスタイルの説明を設定します。
func (g *ListingGenerator) SetDescription(description string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.description = description
}

// Clear はデザインと結果をすべて破棄します。
func (g *ListingGenerator) Clear() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateLoading {
		return ErrBusy
	}
	g.design = ""
	g.resetResultLocked()
	return nil
}

func (g *ListingGenerator) resetResultLocked() {
	g.state = StateIdle
	g.listing = nil
	g.mockup = ""
	g.alert = ""
}

// Generate は出品情報とモックアップを並行して生成します。
// どちらかが失敗した場合、部分的な結果は表示せずエラー状態にします。
// 戻り値のエラーは前提条件違反のみで、生成の失敗は Snapshot に反映されます。
func (g *ListingGenerator) Generate(ctx context.Context) error {
	g.mu.Lock()
	if g.state == StateLoading {
		g.mu.Unlock()
		return ErrBusy
	}
	if g.design.IsZero() {
		g.mu.Unlock()
		return ErrNoDesign
	}
	g.mu.Unlock()

	credential.Gate(ctx, g.broker)

	g.mu.Lock()
	if g.state == StateLoading {
		g.mu.Unlock()
		return ErrBusy
	}
	design, description := g.design, g.description
	g.resetResultLocked()
	g.state = StateLoading
	g.mu.Unlock()

	listingContext, scene := description, description
	if strings.TrimSpace(description) == "" {
		listingContext, scene = DefaultListingContext, DefaultMockupScene
	}

	var (
		listing *domain.ListingData
		mockup  domain.ImageRef
	)
	// 片方が失敗してももう片方は取り消さず、両方の完了を待つ
	var eg errgroup.Group
	ectx := detach(ctx)
	eg.Go(func() error {
		res, err := g.gw.GenerateListing(ectx, design, listingContext)
		if err != nil {
			return err
		}
		listing = res
		return nil
	})
	eg.Go(func() error {
		res, err := g.gw.GenerateLifestyleMockup(ectx, design, scene)
		if err != nil {
			return err
		}
		mockup = res
		return nil
	})
	err := eg.Wait()

	g.mu.Lock()
	var prompt bool
	if err != nil {
		g.state = StateError
		g.alert, prompt = alert(err, ListingPermissionAlert, ListingGenericAlert)
	} else {
		g.state = StateSuccess
		g.listing = listing
		g.mockup = mockup
	}
	g.mu.Unlock()

	if err != nil {
		logFailure(ctx, "出品情報の生成に失敗しました", err)
	}
	if prompt {
		reprompt(ctx, g.broker)
	}
	return nil
}

// Snapshot は現在の状態のコピーを返します。
func (g *ListingGenerator) Snapshot() ListingSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	snap := ListingSnapshot{
		State:       g.state,
		Design:      g.design,
		Description: g.description,
		Mockup:      g.mockup,
		Alert:       g.alert,
	}
	if g.listing != nil {
		l := *g.listing
		l.Tags = append([]string(nil), g.listing.Tags...)
		snap.Listing = &l
		snap.Warnings = l.Warnings()
	}
	return snap
}
