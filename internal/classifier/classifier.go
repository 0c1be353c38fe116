package classifier

import (
	"strings"

	"botwatch/internal/core"
)

// Signature 一個 bot type 與其任一命中即成立的 User-Agent 片段
type Signature struct {
	BotType core.BotType
	Tokens  []string
}

// Signatures 依優先順序排列，先命中者勝出。
// Gemini 的 "Google" 會一併涵蓋 Googlebot 等一般爬蟲，維持舊版行為。
var Signatures = []Signature{
	{
		BotType: core.BotChatGPT,
		Tokens:  []string{"ChatGPT-User/1.0; +https://openai.com/bot", "GPTBot"},
	},
	{
		BotType: core.BotGemini,
		Tokens:  []string{"Google", "Gemini"},
	},
	{
		BotType: core.BotClaude,
		Tokens:  []string{"Claude-User/1.0; +Claude-User@anthropic.com", "Claude-User"},
	},
}

// Classify 大小寫敏感的子字串比對，不做任何正規化
func Classify(userAgent string) (core.BotType, bool) {
	for _, sig := range Signatures {
		if sig.Match(userAgent) {
			return sig.BotType, true
		}
	}
	return core.BotNone, false
}

// Match 任一 token 為 userAgent 子字串即成立
func (s Signature) Match(userAgent string) bool {
	for _, token := range s.Tokens {
		if strings.Contains(userAgent, token) {
			return true
		}
	}
	return false
}

// Matches 回傳每個 bot type 是否命中（不受優先順序影響），供除錯 log 使用
func Matches(userAgent string) map[core.BotType]bool {
	out := make(map[core.BotType]bool, len(Signatures))
	for _, sig := range Signatures {
		out[sig.BotType] = sig.Match(userAgent)
	}
	return out
}
