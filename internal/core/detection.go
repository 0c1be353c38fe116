package core

// BotType 分類結果（封閉集合）
type BotType string

const (
	BotChatGPT BotType = "ChatGPT"
	BotGemini  BotType = "Gemini"
	BotClaude  BotType = "Claude"
	BotNone    BotType = "None"
)

// 紀錄固定欄位
const (
	DetectionPageContent = "Bot Detection API Endpoint"
	DetectionEndpoint    = "Home page (/) - AI Bot Detection Active"
	DetectionNote        = "This endpoint detects ChatGPT (ChatGPT-User/1.0; +https://openai.com/bot), Gemini (Google), and Claude (Claude-User/1.0; +Claude-User@anthropic.com) user agents"
	UnknownClientIP      = "unknown"
)

// DetectionKeywordTags 後面會再附上小寫的 bot type
var DetectionKeywordTags = []string{"bot", "detection", "automation"}

// DetectionColumn 持久化欄位標題，順序即為 CSV header 順序
type DetectionColumn string

const (
	ColumnIP          DetectionColumn = "IP"
	ColumnUserAgent   DetectionColumn = "User Agent"
	ColumnTimestamp   DetectionColumn = "Timestamp"
	ColumnURL         DetectionColumn = "URL"
	ColumnPageContent DetectionColumn = "Page Content"
	ColumnReferrer    DetectionColumn = "Referrer"
	ColumnKeywords    DetectionColumn = "Keywords"
	ColumnBotType     DetectionColumn = "Bot Type"
	ColumnDetected    DetectionColumn = "Detected"
)

var DetectionColumns = []DetectionColumn{
	ColumnIP,
	ColumnUserAgent,
	ColumnTimestamp,
	ColumnURL,
	ColumnPageContent,
	ColumnReferrer,
	ColumnKeywords,
	ColumnBotType,
	ColumnDetected,
}

// ISO-8601 UTC，毫秒精度
const DetectionTimeLayout = "2006-01-02T15:04:05.000Z"

// 儲存後端
type DetectionStoreKind string

const (
	StoreCSV   DetectionStoreKind = "csv"
	StoreMongo DetectionStoreKind = "mongo"
	StoreRedis DetectionStoreKind = "redis"
)

// CSV 讀取模式
type CSVReaderMode string

const (
	CSVReaderStrict CSVReaderMode = "strict"
	CSVReaderSplit  CSVReaderMode = "split"
)
