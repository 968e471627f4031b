package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/etsy-booster-kit/pkg/domain"
	"github.com/shouni/etsy-booster-kit/pkg/imgutil"
	"google.golang.org/genai"
)

// uploadCompression はインライン画像を送信前に JPEG 圧縮する設定です。
type uploadCompression struct {
	enabled  bool
	quality  int
	minBytes int
}

// toImagePart は data URI を genai.Part (InlineData) に変換します。
func (c *Client) toImagePart(ref domain.ImageRef) (*genai.Part, error) {
	data, mimeType, err := imgutil.DecodeDataURI(ref)
	if err != nil {
		return nil, fmt.Errorf("入力画像の読み込みに失敗しました: %w", err)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("MIMEタイプが画像ではありません: %s", mimeType)
	}

	if c.compression.enabled {
		data, mimeType = imgutil.ShrinkForUpload(data, mimeType, c.compression.quality, c.compression.minBytes)
	}

	return &genai.Part{
		InlineData: &genai.Blob{
			MIMEType: mimeType,
			Data:     data,
		},
	}, nil
}

// extractImage はレスポンスの最初の候補から最初のインライン画像を取り出します。
// 画像が含まれない場合はエラーではなく空の ImageRef を返します。
func extractImage(ctx context.Context, op string, resp *genai.GenerateContentResponse) domain.ImageRef {
	if resp == nil || len(resp.Candidates) == 0 {
		slog.WarnContext(ctx, "Geminiからの有効な候補がありませんでした", "operation", op)
		return ""
	}

	// 最初の候補 (Candidate) のみを利用する。
	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return imgutil.EncodeDataURI(part.InlineData.Data, part.InlineData.MIMEType)
			}
		}
	}

	// 安全フィルター等によるブロックは画像なしとして扱い、ログだけ残す
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		slog.WarnContext(ctx, "画像生成が異常終了しました", "operation", op, "finish_reason", candidate.FinishReason)
		return ""
	}

	slog.InfoContext(ctx, "レスポンスに画像データが含まれていませんでした", "operation", op)
	return ""
}

// userContent はパーツをユーザーターンの Content にまとめます。
func userContent(parts ...*genai.Part) []*genai.Content {
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

// listingSchema は ListingData に対応する構造化出力スキーマです。
func listingSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
			"tags": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"title", "description", "tags"},
	}
}

// responseText はレスポンス中のテキストを連結して返します。nil の場合は空文字列です。
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Text()
}
