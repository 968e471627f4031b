package domain

import "fmt"

// Page はシェルで選択されている画面です。
type Page string

const (
	PageDashboard        Page = "dashboard"
	PageTrendSpy         Page = "trend_spy"
	PageListingGenerator Page = "listing_generator"
	PageMockupStudio     Page = "mockup_studio"
	PageChat             Page = "chat"
	PageSettings         Page = "settings"
)

// Pages はサイドバーの表示順で全画面を返します。
func Pages() []Page {
	return []Page{PageDashboard, PageTrendSpy, PageListingGenerator, PageMockupStudio, PageChat, PageSettings}
}

func (p Page) Valid() bool {
	for _, v := range Pages() {
		if p == v {
			return true
		}
	}
	return false
}

// ParsePage は文字列を Page に変換します。
func ParsePage(s string) (Page, error) {
	p := Page(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown page: %q", s)
	}
	return p, nil
}
