package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shouni/etsy-booster-kit/pkg/credential"
	"github.com/shouni/etsy-booster-kit/pkg/domain"
)

// MockupGateway は MockupStudio が必要とする Gateway の操作です。
type MockupGateway interface {
	GenerateStandaloneMockup(ctx context.Context, prompt string, aspectRatio domain.AspectRatio, resolution domain.Resolution) (domain.ImageRef, error)
	EditImage(ctx context.Context, source domain.ImageRef, instruction string) (domain.ImageRef, error)
}

// MockupSettings は MockupStudio の入力値です。空のフィールドは変更しません。
type MockupSettings struct {
	Prompt      *string `json:"prompt,omitempty"`
	AspectRatio *string `json:"aspectRatio,omitempty"`
	Resolution  *string `json:"resolution,omitempty"`
	EditPrompt  *string `json:"editPrompt,omitempty"`
}

// MockupSnapshot は MockupStudio の表示用スナップショットです。
type MockupSnapshot struct {
	Prompt        string             `json:"prompt"`
	AspectRatio   domain.AspectRatio `json:"aspectRatio"`
	Resolution    domain.Resolution  `json:"resolution"`
	EditPrompt    string             `json:"editPrompt"`
	Result        domain.ImageRef    `json:"result,omitempty"`
	GenerateState State              `json:"generateState"`
	EditState     State              `json:"editState"`
	Alert         string             `json:"alert,omitempty"`
}

// MockupStudio はプロンプトからのモックアップ生成と、生成結果の編集を扱います。
// 生成と編集はそれぞれ独立して実行中フラグを持ちます。
type MockupStudio struct {
	gw     MockupGateway
	broker credential.Broker

	mu            sync.Mutex
	prompt        string
	aspectRatio   domain.AspectRatio
	resolution    domain.Resolution
	editPrompt    string
	result        domain.ImageRef
	generateState State
	editState     State
	alert         string
}

// NewMockupStudio は MockupStudio を既定値で作成します。
func NewMockupStudio(gw MockupGateway, broker credential.Broker) (*MockupStudio, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway は必須です")
	}
	if broker == nil {
		return nil, fmt.Errorf("broker は必須です")
	}
	return &MockupStudio{
		gw:            gw,
		broker:        broker,
		prompt:        DefaultMockupPrompt,
		aspectRatio:   domain.AspectRatioSquare,
		resolution:    domain.Resolution1K,
		generateState: StateIdle,
		editState:     StateIdle,
	}, nil
}

// Apply は入力値を反映します。不正なアスペクト比や解像度は何も変更せずにエラーを返します。
func (m *MockupStudio) Apply(s MockupSettings) error {
	var (
		ar  domain.AspectRatio
		res domain.Resolution
		err error
	)
	if s.AspectRatio != nil {
		if ar, err = domain.ParseAspectRatio(*s.AspectRatio); err != nil {
			return err
		}
	}
	if s.Resolution != nil {
		if res, err = domain.ParseResolution(*s.Resolution); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s.Prompt != nil {
		m.prompt = *s.Prompt
	}
	if s.AspectRatio != nil {
		m.aspectRatio = ar
	}
	if s.Resolution != nil {
		m.resolution = res
	}
	if s.EditPrompt != nil {
		m.editPrompt = *s.EditPrompt
	}
	return nil
}

// LoadImage は既存の画像を編集対象として読み込みます。
func (m *MockupStudio) LoadImage(ref domain.ImageRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generateState == StateLoading || m.editState == StateLoading {
		return ErrBusy
	}
	m.result = ref
	return nil
}

// Generate は現在のプロンプトでモックアップを生成します。
// 画像が返らなかった場合、直前の結果はそのまま残ります。
func (m *MockupStudio) Generate(ctx context.Context) error {
	m.mu.Lock()
	if m.generateState == StateLoading {
		m.mu.Unlock()
		return ErrBusy
	}
	m.mu.Unlock()

	credential.Gate(ctx, m.broker)

	m.mu.Lock()
	if m.generateState == StateLoading {
		m.mu.Unlock()
		return ErrBusy
	}
	prompt, ar, res := m.prompt, m.aspectRatio, m.resolution
	m.generateState = StateLoading
	m.alert = ""
	m.mu.Unlock()

	img, err := m.gw.GenerateStandaloneMockup(detach(ctx), prompt, ar, res)

	m.mu.Lock()
	var again bool
	if err != nil {
		m.generateState = StateError
		m.alert, again = alert(err, MockupPermissionAlert, MockupGenericAlert)
	} else {
		m.generateState = StateSuccess
		if !img.IsZero() {
			m.result = img
		}
	}
	m.mu.Unlock()

	if err != nil {
		logFailure(ctx, "モックアップの生成に失敗しました", err)
	}
	if again {
		reprompt(ctx, m.broker)
	}
	return nil
}

// Edit は現在の結果画像を編集指示に従って編集します。
// 呼び出しが成功すると、画像が返ったかどうかに関わらず編集指示をクリアします。
func (m *MockupStudio) Edit(ctx context.Context) error {
	m.mu.Lock()
	if m.editState == StateLoading {
		m.mu.Unlock()
		return ErrBusy
	}
	if err := m.editPreconditionLocked(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()

	credential.Gate(ctx, m.broker)

	m.mu.Lock()
	if m.editState == StateLoading {
		m.mu.Unlock()
		return ErrBusy
	}
	if err := m.editPreconditionLocked(); err != nil {
		m.mu.Unlock()
		return err
	}
	source, instruction := m.result, m.editPrompt
	m.editState = StateLoading
	m.alert = ""
	m.mu.Unlock()

	edited, err := m.gw.EditImage(detach(ctx), source, instruction)

	m.mu.Lock()
	var again bool
	if err != nil {
		m.editState = StateError
		m.alert, again = alert(err, EditPermissionAlert, EditGenericAlert)
	} else {
		m.editState = StateSuccess
		if !edited.IsZero() {
			m.result = edited
		}
		m.editPrompt = ""
	}
	m.mu.Unlock()

	if err != nil {
		logFailure(ctx, "画像の編集に失敗しました", err)
	}
	if again {
		reprompt(ctx, m.broker)
	}
	return nil
}

func (m *MockupStudio) editPreconditionLocked() error {
	if m.result.IsZero() {
		return ErrNothingToEdit
	}
	if strings.TrimSpace(m.editPrompt) == "" {
		return ErrEmptyInstruction
	}
	return nil
}

// Snapshot は現在の状態のコピーを返します。
func (m *MockupStudio) Snapshot() MockupSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MockupSnapshot{
		Prompt:        m.prompt,
		AspectRatio:   m.aspectRatio,
		Resolution:    m.resolution,
		EditPrompt:    m.editPrompt,
		Result:        m.result,
		GenerateState: m.generateState,
		EditState:     m.editState,
		Alert:         m.alert,
	}
}
