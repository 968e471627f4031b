package controller

// Stat はダッシュボードの指標カードです。
type Stat struct {
	Title  string `json:"title"`
	Value  string `json:"value"`
	Growth string `json:"growth"`
	Icon   string `json:"icon"`
}

// TrendingItem はダッシュボードの注目商品です。
type TrendingItem struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Status   string `json:"status"`
	Score    int    `json:"score"`
	ImageURL string `json:"imageUrl"`
}

// DashboardSnapshot はダッシュボードの表示内容です。
type DashboardSnapshot struct {
	Greeting string         `json:"greeting"`
	Subtitle string         `json:"subtitle"`
	Stats    []Stat         `json:"stats"`
	Trending []TrendingItem `json:"trending"`
}

// Dashboard は固定のサンプルデータを表示するだけの画面です。
type Dashboard struct{}

func NewDashboard() *Dashboard {
	return &Dashboard{}
}

func (*Dashboard) Snapshot() DashboardSnapshot {
	return DashboardSnapshot{
		Greeting: "Good morning, Seller",
		Subtitle: "Here's what's happening in the Etsy marketplace today.",
		Stats: []Stat{
			{Title: "Top Niche Today", Value: "Minimalist Wall Art", Growth: "+12%", Icon: "trending_up"},
			{Title: "Avg Sales Velocity", Value: "24 sales/day", Growth: "+5%", Icon: "shopping_cart"},
			{Title: "Trending POD", Value: "Embroidered Hoodies", Growth: "+8%", Icon: "checkroom"},
		},
		Trending: []TrendingItem{
			{ID: 1, Title: "Digital Planner 2024", Price: "$12.50", Status: "High Demand", Score: 98, ImageURL: "https://picsum.photos/seed/planner/400/300"},
			{ID: 2, Title: "Boho Wall Set", Price: "$24.00", Status: "High Demand", Score: 94, ImageURL: "https://picsum.photos/seed/wallart/400/300"},
			{ID: 3, Title: "Custom Hoodie", Price: "$45.00", Status: "Med Demand", Score: 89, ImageURL: "https://picsum.photos/seed/hoodie/400/300"},
			{ID: 4, Title: "Crystal Necklace", Price: "$18.99", Status: "Med Demand", Score: 87, ImageURL: "https://picsum.photos/seed/jewelry/400/300"},
		},
	}
}
