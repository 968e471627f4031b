package domain

import (
	"fmt"
	"unicode/utf8"
)

const (
	// MaxTitleLength は Etsy のタイトル上限文字数です。
	MaxTitleLength = 140
	// ExpectedTagCount は Etsy が許容するタグの数です。
	ExpectedTagCount = 13
)

// ListingData は AI が生成した出品用テキスト一式です。
// タグ数やタイトル長は上流のスキーマを信頼し、ここでは補正しません。
type ListingData struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Warnings は想定から外れている項目を表示用に列挙します。データ自体は変更しません。
func (l *ListingData) Warnings() []string {
	if l == nil {
		return nil
	}
	var warnings []string
	if n := utf8.RuneCountInString(l.Title); n > MaxTitleLength {
		warnings = append(warnings, fmt.Sprintf("title is %d characters, limit is %d", n, MaxTitleLength))
	}
	if len(l.Tags) != ExpectedTagCount {
		warnings = append(warnings, fmt.Sprintf("got %d tags, expected %d", len(l.Tags), ExpectedTagCount))
	}
	return warnings
}
