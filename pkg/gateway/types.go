package gateway

const (
	DefaultListingModel = "gemini-3-flash-preview"
	DefaultMockupModel  = "gemini-3-pro-image-preview"
	DefaultEditModel    = "gemini-2.5-flash-image"
	DefaultTrendsModel  = "gemini-3-pro-image-preview"
	DefaultChatModel    = "gemini-3-pro-preview"

	// ChatSystemInstruction はチャットセッションに与える固定のシステム指示です。
	ChatSystemInstruction = "You are an Etsy expert advisor."

	TrendsUnavailable    = "Trends unavailable."
	AssistantUnavailable = "Assistant unavailable."

	listingPromptFormat = `Identify the niche, aesthetic, and specific keywords for this design. User context: "%s".
Generate a high-converting Etsy listing in JSON format with:
'title' (max 140 chars),
'description' (SEO-friendly markdown),
'tags' (exactly 13 optimized keywords).`

	lifestylePromptFormat = "A professional high-resolution lifestyle mockup of a high-end product (like a t-shirt or art print) featuring this design. Setting: %s. Realistic textures, cinematic studio lighting, premium aesthetic."

	trendsQueryFormat = "Current top 3 rising niche trends for Etsy Print-on-Demand in %d. Use search data."

	jsonMIMEType = "application/json"
)

// Operation 名はメトリクスとログのラベルに使います。
const (
	OpGenerateListing          = "generate_listing"
	OpGenerateLifestyleMockup  = "generate_lifestyle_mockup"
	OpGenerateStandaloneMockup = "generate_standalone_mockup"
	OpEditImage                = "edit_image"
	OpFetchMarketTrends        = "fetch_market_trends"
	OpSendChatMessage          = "send_chat_message"
)

// 呼び出し結果のラベルです。エラー時は Kind の文字列を使います。
const (
	OutcomeSuccess = "success"
	OutcomeNoImage = "no_image"
)

// Models は操作ごとに利用するモデル名です。
type Models struct {
	Listing string
	Mockup  string
	Edit    string
	Trends  string
	Chat    string
}

// DefaultModels は既定のモデル構成を返します。
func DefaultModels() Models {
	return Models{
		Listing: DefaultListingModel,
		Mockup:  DefaultMockupModel,
		Edit:    DefaultEditModel,
		Trends:  DefaultTrendsModel,
		Chat:    DefaultChatModel,
	}
}

// withDefaults は空のモデル名を既定値で埋めます。
func (m Models) withDefaults() Models {
	d := DefaultModels()
	if m.Listing == "" {
		m.Listing = d.Listing
	}
	if m.Mockup == "" {
		m.Mockup = d.Mockup
	}
	if m.Edit == "" {
		m.Edit = d.Edit
	}
	if m.Trends == "" {
		m.Trends = d.Trends
	}
	if m.Chat == "" {
		m.Chat = d.Chat
	}
	return m
}
