package imgutil

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shouni/etsy-booster-kit/pkg/domain"
)

// DefaultMIMEType は MIME タイプが判別できない場合に使う値です。
const DefaultMIMEType = "image/png"

// ErrEmptyImage は画像データが空の場合のエラーです。
var ErrEmptyImage = errors.New("image data is empty")

// EncodeDataURI は画像バイナリを data URI に変換します。
func EncodeDataURI(data []byte, mimeType string) domain.ImageRef {
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}
	return domain.ImageRef("data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// DecodeDataURI は data URI もしくは素の base64 文字列から画像バイナリを取り出します。
// MIME タイプは URI のヘッダを優先し、なければ内容から推定します。
func DecodeDataURI(ref domain.ImageRef) ([]byte, string, error) {
	raw := strings.TrimSpace(string(ref))
	if raw == "" {
		return nil, "", ErrEmptyImage
	}

	var mimeType, payload string
	if strings.HasPrefix(raw, "data:") {
		header, body, ok := strings.Cut(raw, ",")
		if !ok {
			return nil, "", fmt.Errorf("data URI にペイロードがありません")
		}
		meta := strings.TrimPrefix(header, "data:")
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", fmt.Errorf("base64 以外の data URI は未対応です: %s", header)
		}
		mimeType = strings.TrimSuffix(meta, ";base64")
		payload = body
	} else {
		payload = raw
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("base64 デコードに失敗しました: %w", err)
	}
	if len(data) == 0 {
		return nil, "", ErrEmptyImage
	}
	if mimeType == "" {
		mimeType = DetectMIMEType(data)
	}
	return data, mimeType, nil
}

// DetectMIMEType は内容から画像の MIME タイプを推定します。画像と判定できなければ image/png を返します。
func DetectMIMEType(data []byte) string {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return DefaultMIMEType
	}
	return mimeType
}

// Extension は MIME タイプに対応するファイル拡張子を返します。不明な場合は .png です。
func Extension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
