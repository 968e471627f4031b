package terminal

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/shouni/etsy-booster-kit/internal/controller"
	"github.com/shouni/etsy-booster-kit/pkg/domain"
)

// Etsy 風のオレンジを基調にしたパレット
var (
	ColorPrimary   = lipgloss.Color("#F97415")
	ColorText      = lipgloss.Color("#1C130D")
	ColorTextMuted = lipgloss.Color("#9E6B47")
	ColorBorder    = lipgloss.Color("#E9D9CE")
	ColorUser      = lipgloss.Color("#0F172A")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorError     = lipgloss.Color("#EF4444")
	ColorSuccess   = lipgloss.Color("#10B981")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTextMuted)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	TagStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Padding(0, 1)

	AlertStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	UserStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorUser)

	AssistantStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)
)

// RenderListing は生成された出品情報をパネル表示します。
func RenderListing(w io.Writer, snap controller.ListingSnapshot) {
	if snap.Alert != "" {
		RenderAlert(w, snap.Alert)
		return
	}
	if snap.Listing == nil {
		return
	}
	tags := make([]string, 0, len(snap.Listing.Tags))
	for _, t := range snap.Listing.Tags {
		tags = append(tags, TagStyle.Render("#"+t))
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		LabelStyle.Render("Title"),
		snap.Listing.Title,
		"",
		LabelStyle.Render("Description"),
		snap.Listing.Description,
		"",
		LabelStyle.Render(fmt.Sprintf("Tags (%d)", len(snap.Listing.Tags))),
		strings.Join(tags, " "),
	)
	fmt.Fprintln(w, TitleStyle.Render("Generated listing"))
	fmt.Fprintln(w, PanelStyle.Render(body))
	for _, warning := range snap.Warnings {
		fmt.Fprintln(w, WarningStyle.Render("! "+warning))
	}
}

// RenderTrends はトレンド分析の本文を表示します。
func RenderTrends(w io.Writer, snap controller.TrendsSnapshot) {
	fmt.Fprintln(w, TitleStyle.Render("Market Trend Spy"))
	switch {
	case snap.NeedsCredential:
		fmt.Fprintln(w, WarningStyle.Render(controller.TrendsKeyNotice))
	case snap.Analysis == "":
		fmt.Fprintln(w, LabelStyle.Render(controller.TrendsPlaceholder))
	case snap.State == controller.StateError:
		RenderAlert(w, snap.Analysis)
	default:
		fmt.Fprintln(w, PanelStyle.Render(snap.Analysis))
	}
}

// RenderChatMessage はチャットの 1 メッセージを表示します。
func RenderChatMessage(w io.Writer, m domain.ChatMessage) {
	label := AssistantStyle.Render("assistant")
	if m.Role == domain.RoleUser {
		label = UserStyle.Render("you")
	}
	fmt.Fprintf(w, "%s %s\n", label, m.Text)
}

// RenderSaved は保存した画像のパスを表示します。
func RenderSaved(w io.Writer, what, path string) {
	fmt.Fprintln(w, SuccessStyle.Render("✓ "+what+" saved to "+path))
}

func RenderAlert(w io.Writer, msg string) {
	fmt.Fprintln(w, AlertStyle.Render(msg))
}
