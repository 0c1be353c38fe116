package dto

import (
	"strconv"

	"botwatch/internal/core"
)

// DetectionRecord 每次請求 / 產生一筆，寫入後不再修改
type DetectionRecord struct {
	IP          string       `json:"ip" bson:"ip"`
	UserAgent   string       `json:"user_agent" bson:"user_agent"`
	Timestamp   string       `json:"timestamp" bson:"timestamp"`
	URL         string       `json:"url" bson:"url"`
	PageContent string       `json:"page_content" bson:"page_content"`
	Referrer    string       `json:"referrer" bson:"referrer"`
	Keywords    string       `json:"keywords" bson:"keywords"`
	BotType     core.BotType `json:"bot_type" bson:"bot_type"`
	Detected    bool         `json:"detected" bson:"detected"`
}

// Values 依 core.DetectionColumns 順序輸出
func (r DetectionRecord) Values() []string {
	return []string{
		r.IP,
		r.UserAgent,
		r.Timestamp,
		r.URL,
		r.PageContent,
		r.Referrer,
		r.Keywords,
		string(r.BotType),
		strconv.FormatBool(r.Detected),
	}
}

// Row 轉為讀取端格式（key 為欄位標題）
func (r DetectionRecord) Row() DetectionRow {
	values := r.Values()
	row := make(DetectionRow, len(core.DetectionColumns))
	for i, col := range core.DetectionColumns {
		row[string(col)] = values[i]
	}
	return row
}

// DetectionRow 讀取端回傳的一筆紀錄，key 為欄位標題
type DetectionRow map[string]string

// ===== HTTP response =====

type DetectResponseDto struct {
	Success   bool         `json:"success"`
	BotType   core.BotType `json:"botType,omitempty"`
	Message   string       `json:"message"`
	ClientIP  string       `json:"clientIP,omitempty"`
	UserAgent string       `json:"userAgent"`
	Timestamp string       `json:"timestamp"`
	Endpoint  string       `json:"endpoint"`
	Note      string       `json:"note,omitempty"`
	Logged    string       `json:"logged"`
}

type LogsResponseDto struct {
	Message      string         `json:"message"`
	TotalRecords int            `json:"totalRecords"`
	Data         []DetectionRow `json:"data"`
}

type ErrorResponseDto struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"requestID,omitempty"`
}

type HealthResponseDto struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type IPResponseDto struct {
	ClientIP  string            `json:"clientIP"`
	UserAgent string            `json:"userAgent"`
	Timestamp string            `json:"timestamp"`
	Headers   map[string]string `json:"headers"`
}
