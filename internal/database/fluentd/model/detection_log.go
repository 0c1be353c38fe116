package model

// DetectionLog 鏡像寫入成功的偵測紀錄
type DetectionLog struct {
	IP          string `json:"ip"`
	UserAgent   string `json:"user_agent"`
	Timestamp   string `json:"timestamp"`
	URL         string `json:"url"`
	PageContent string `json:"page_content"`
	Referrer    string `json:"referrer"`
	Keywords    string `json:"keywords"`
	BotType     string `json:"bot_type"`
	Detected    bool   `json:"detected"`
	Store       string `json:"store"`
	Version     string `json:"version,omitempty"`
	LoggedAt    string `json:"logged_at"`
}
