package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shouni/etsy-booster-kit/pkg/credential"
	"google.golang.org/genai"
)

// Kind は上流エラーの分類です。
type Kind int

const (
	KindNone Kind = iota
	// KindMalformedResponse は構造化出力に必須項目が欠けている場合です。
	KindMalformedResponse
	// KindPermissionOrBilling は権限不足や課金設定の問題で、認証情報の再選択が必要な場合です。
	KindPermissionOrBilling
	// KindGeneric はそれ以外のすべての失敗です。
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindMalformedResponse:
		return "malformed_response"
	case KindPermissionOrBilling:
		return "permission_or_billing"
	default:
		return "generic"
	}
}

// permissionMarkers はプロバイダのエラーメッセージに含まれる権限・課金系の文言です。
// 文言が変わった場合はここだけを直します。
var permissionMarkers = []string{
	"permission denied",
	"403",
	"requested entity was not found",
}

// UpstreamError は Gateway が自ら検出した上流レスポンスの異常です。
type UpstreamError struct {
	Kind      Kind
	Operation string
	Err       error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Operation, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Operation, e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func malformed(op string, err error) error {
	return &UpstreamError{Kind: KindMalformedResponse, Operation: op, Err: err}
}

// Classify はエラーを分類します。分類はすべてこの関数に集約します。
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) && upstream.Kind != KindNone {
		return upstream.Kind
	}

	if errors.Is(err, credential.ErrNoCredential) {
		return KindPermissionOrBilling
	}

	if code, ok := apiErrorCode(err); ok && (code == http.StatusForbidden || code == http.StatusNotFound) {
		return KindPermissionOrBilling
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range permissionMarkers {
		if strings.Contains(msg, marker) {
			return KindPermissionOrBilling
		}
	}
	return KindGeneric
}

// IsPermissionOrBilling は認証情報の再選択を促すべきエラーかを返します。
func IsPermissionOrBilling(err error) bool {
	return Classify(err) == KindPermissionOrBilling
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}
