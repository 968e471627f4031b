// Package gateway は外部の生成AIサービスへのすべての呼び出しを担当します。
// リトライ・バックオフ・キャッシュは行わず、上流のエラーは分類可能な形でそのまま返します。
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/etsy-booster-kit/pkg/credential"
	"github.com/shouni/etsy-booster-kit/pkg/domain"
	"google.golang.org/genai"
)

// Client は AI Gateway Client です。
type Client struct {
	source      credential.Source
	factory     ClientFactory
	models      Models
	recorder    Recorder
	compression uploadCompression
	now         func() time.Time
}

// Option は Client の任意設定です。
type Option func(*Client)

// WithModels は操作ごとのモデル名を上書きします。空の項目は既定値のままです。
func WithModels(m Models) Option {
	return func(c *Client) {
		c.models = m.withDefaults()
	}
}

// WithRecorder は呼び出し結果の記録先を設定します。
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithUploadCompression は minBytes を超える入力画像を指定品質の JPEG に圧縮してから送信します。
func WithUploadCompression(quality, minBytes int) Option {
	return func(c *Client) {
		c.compression = uploadCompression{enabled: true, quality: quality, minBytes: minBytes}
	}
}

// WithClock は時刻の取得元を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient は依存関係を注入して Client を初期化します。
func NewClient(source credential.Source, factory ClientFactory, opts ...Option) (*Client, error) {
	if source == nil {
		return nil, fmt.Errorf("source (credential.Source) is required")
	}
	if factory == nil {
		return nil, fmt.Errorf("factory (ClientFactory) is required")
	}

	c := &Client{
		source:  source,
		factory: factory,
		models:  DefaultModels(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GenerateListing はデザイン画像と補足情報から出品テキストを生成します。
// タグ数やタイトル長は検証せず、上流が返した内容をそのまま返します。
func (c *Client) GenerateListing(ctx context.Context, image domain.ImageRef, userContext string) (_ *domain.ListingData, err error) {
	defer c.observe(OpGenerateListing, c.now(), &err, nil)

	imgPart, err := c.toImagePart(image)
	if err != nil {
		return nil, err
	}
	textPart := &genai.Part{Text: fmt.Sprintf(listingPromptFormat, userContext)}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMIMEType,
		ResponseSchema:   listingSchema(),
	}

	resp, err := c.generate(ctx, c.models.Listing, userContent(imgPart, textPart), cfg)
	if err != nil {
		return nil, fmt.Errorf("出品テキスト生成エラー: %w", err)
	}

	return parseListing(responseText(resp))
}

// GenerateLifestyleMockup はデザイン画像を使ったライフスタイルモックアップを生成します。
// 画像が返らなかった場合は空の ImageRef を返し、エラーにはしません。
func (c *Client) GenerateLifestyleMockup(ctx context.Context, design domain.ImageRef, scene string) (ref domain.ImageRef, err error) {
	defer c.observe(OpGenerateLifestyleMockup, c.now(), &err, &ref)

	imgPart, err := c.toImagePart(design)
	if err != nil {
		return "", err
	}
	textPart := &genai.Part{Text: fmt.Sprintf(lifestylePromptFormat, scene)}

	cfg := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{
			AspectRatio: string(domain.AspectRatioSquare),
			ImageSize:   string(domain.Resolution1K),
		},
	}

	resp, err := c.generate(ctx, c.models.Mockup, userContent(imgPart, textPart), cfg)
	if err != nil {
		return "", fmt.Errorf("モックアップ生成エラー: %w", err)
	}
	return extractImage(ctx, OpGenerateLifestyleMockup, resp), nil
}

// GenerateStandaloneMockup はテキストのみから指定サイズの画像を生成します。
func (c *Client) GenerateStandaloneMockup(ctx context.Context, prompt string, aspectRatio domain.AspectRatio, resolution domain.Resolution) (ref domain.ImageRef, err error) {
	defer c.observe(OpGenerateStandaloneMockup, c.now(), &err, &ref)

	ar, err := domain.ParseAspectRatio(string(aspectRatio))
	if err != nil {
		return "", err
	}
	res, err := domain.ParseResolution(string(resolution))
	if err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{
			AspectRatio: string(ar),
			ImageSize:   string(res),
		},
	}

	resp, err := c.generate(ctx, c.models.Mockup, userContent(&genai.Part{Text: prompt}), cfg)
	if err != nil {
		return "", fmt.Errorf("モックアップ生成エラー: %w", err)
	}
	return extractImage(ctx, OpGenerateStandaloneMockup, resp), nil
}

// EditImage は既存の画像に自然言語の編集指示を適用します。
func (c *Client) EditImage(ctx context.Context, source domain.ImageRef, instruction string) (ref domain.ImageRef, err error) {
	defer c.observe(OpEditImage, c.now(), &err, &ref)

	imgPart, err := c.toImagePart(source)
	if err != nil {
		return "", err
	}

	resp, err := c.generate(ctx, c.models.Edit, userContent(imgPart, &genai.Part{Text: instruction}), nil)
	if err != nil {
		return "", fmt.Errorf("画像編集エラー: %w", err)
	}
	return extractImage(ctx, OpEditImage, resp), nil
}

// FetchMarketTrends は検索グラウンディング付きでトレンド分析の文章を取得します。
func (c *Client) FetchMarketTrends(ctx context.Context) (_ string, err error) {
	defer c.observe(OpFetchMarketTrends, c.now(), &err, nil)

	query := fmt.Sprintf(trendsQueryFormat, c.now().Year())
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	resp, err := c.generate(ctx, c.models.Trends, userContent(&genai.Part{Text: query}), cfg)
	if err != nil {
		return "", fmt.Errorf("トレンド取得エラー: %w", err)
	}
	if text := responseText(resp); text != "" {
		return text, nil
	}
	return TrendsUnavailable, nil
}

// SendChatMessage はシステム指示付きの使い捨てセッションでメッセージを 1 件送信します。
// 履歴は送信しません。
func (c *Client) SendChatMessage(ctx context.Context, message string) (_ string, err error) {
	defer c.observe(OpSendChatMessage, c.now(), &err, nil)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(ChatSystemInstruction, genai.RoleUser),
	}

	resp, err := c.generate(ctx, c.models.Chat, userContent(&genai.Part{Text: message}), cfg)
	if err != nil {
		return "", fmt.Errorf("チャット送信エラー: %w", err)
	}
	if text := responseText(resp); text != "" {
		return text, nil
	}
	return AssistantUnavailable, nil
}

// generate は最新の認証情報でクライアントを作成し、1 回だけ呼び出します。
func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	cred, err := c.source.Current(ctx)
	if err != nil {
		return nil, err
	}
	gen, err := c.factory(ctx, cred)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Geminiにリクエストします", "model", model)
	resp, err := gen.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// observe は結果を Recorder に渡します。ref が空の場合は画像なしとして記録します。
func (c *Client) observe(op string, start time.Time, errp *error, ref *domain.ImageRef) {
	if c.recorder == nil {
		return
	}
	outcome := OutcomeSuccess
	switch {
	case errp != nil && *errp != nil:
		outcome = Classify(*errp).String()
	case ref != nil && ref.IsZero():
		outcome = OutcomeNoImage
	}
	c.recorder.ObserveCall(op, outcome, c.now().Sub(start))
}

// listingPayload は必須項目の欠落を判別するためにポインタで受けます。
type listingPayload struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
}

func parseListing(text string) (*domain.ListingData, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, malformed(OpGenerateListing, errors.New("empty response"))
	}

	var p listingPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, malformed(OpGenerateListing, fmt.Errorf("JSON のパースに失敗しました: %w", err))
	}

	var missing []string
	if p.Title == nil {
		missing = append(missing, "title")
	}
	if p.Description == nil {
		missing = append(missing, "description")
	}
	if p.Tags == nil {
		missing = append(missing, "tags")
	}
	if len(missing) > 0 {
		return nil, malformed(OpGenerateListing, fmt.Errorf("必須項目がありません: %s", strings.Join(missing, ", ")))
	}

	return &domain.ListingData{
		Title:       *p.Title,
		Description: *p.Description,
		Tags:        *p.Tags,
	}, nil
}
