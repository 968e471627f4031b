package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAspectRatio は未対応のアスペクト比が指定された場合のエラーです。
	ErrInvalidAspectRatio = errors.New("unsupported aspect ratio")
	// ErrInvalidResolution は未対応の解像度が指定された場合のエラーです。
	ErrInvalidResolution = errors.New("unsupported resolution")
)

// ImageRef は生成・編集された画像を表す data URI (data:image/<mime>;base64,<payload>) です。
// ゼロ値（空文字列）は「画像なし」を意味し、エラーではありません。
type ImageRef string

// IsZero は画像が含まれていない場合に true を返します。
func (r ImageRef) IsZero() bool {
	return r == ""
}

func (r ImageRef) String() string {
	return string(r)
}

// AspectRatio は画像生成時のアスペクト比です。
type AspectRatio string

const (
	AspectRatioSquare    AspectRatio = "1:1"
	AspectRatioPortrait  AspectRatio = "3:4"
	AspectRatioLandscape AspectRatio = "4:3"
	AspectRatioWide      AspectRatio = "16:9"
	AspectRatioTall      AspectRatio = "9:16"
)

// AspectRatios は選択可能なアスペクト比を表示順で返します。
func AspectRatios() []AspectRatio {
	return []AspectRatio{AspectRatioSquare, AspectRatioPortrait, AspectRatioLandscape, AspectRatioWide, AspectRatioTall}
}

// Valid はサポート対象のアスペクト比かどうかを返します。
func (a AspectRatio) Valid() bool {
	for _, v := range AspectRatios() {
		if a == v {
			return true
		}
	}
	return false
}

// ParseAspectRatio は文字列をアスペクト比に変換します。空文字列は 1:1 として扱います。
func ParseAspectRatio(s string) (AspectRatio, error) {
	if s == "" {
		return AspectRatioSquare, nil
	}
	a := AspectRatio(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAspectRatio, s)
	}
	return a, nil
}

// Resolution は画像生成時の出力サイズです。
type Resolution string

const (
	Resolution1K Resolution = "1K"
	Resolution2K Resolution = "2K"
	Resolution4K Resolution = "4K"
)

// Resolutions は選択可能な解像度を返します。
func Resolutions() []Resolution {
	return []Resolution{Resolution1K, Resolution2K, Resolution4K}
}

func (r Resolution) Valid() bool {
	switch r {
	case Resolution1K, Resolution2K, Resolution4K:
		return true
	}
	return false
}

// ParseResolution は文字列を解像度に変換します。空文字列は 1K として扱います。
func ParseResolution(s string) (Resolution, error) {
	if s == "" {
		return Resolution1K, nil
	}
	r := Resolution(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidResolution, s)
	}
	return r, nil
}
