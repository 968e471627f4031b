package controller

// 利用者に表示するメッセージです。
const (
	ListingPermissionAlert = "This high-quality generation requires an API key from a paid project. Please select your key in the next dialog."
	ListingGenericAlert    = "Something went wrong. Please try again with a clear description."

	MockupPermissionAlert = "This feature requires an API key from a paid GCP project. Please select a valid key."
	MockupGenericAlert    = "Image generation failed. Please check your prompt and try again."
	EditPermissionAlert   = "Selected key project issue. Please select a valid key from a paid project."
	EditGenericAlert      = "Editing failed."

	TrendsErrorText   = "Error fetching trends. Please ensure you have a valid API key selected and are connected to the internet."
	TrendsPlaceholder = "Click refresh to start analysis."
	TrendsKeyNotice   = "Trend analysis uses high-quality search grounding which requires a selected API key from a paid project."

	ChatGreeting = "Hello! I am your EtsyBooster assistant. How can I help you optimize your shop today?"
	ChatFallback = "Sorry, I encountered an error."

	// DefaultListingContext と DefaultMockupScene は説明が空の場合に使います。
	DefaultListingContext = "Modern minimalist style"
	DefaultMockupScene    = "Clean studio setting"

	DefaultMockupPrompt = "Classic white t-shirt hanging on a wooden hanger, minimalist room"
)
