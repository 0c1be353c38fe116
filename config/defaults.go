package config

import "github.com/spf13/viper"

// 預設值；key 需與 mapstructure 路徑一致（以 "__" 分隔）
var defaults = map[string]any{
	"APP__ENV":                   "development",
	"APP__PORT":                  3000,
	"APP__NAME":                  "botwatch",
	"APP__VERSION":               "1.0.0",
	"LOG__LEVEL":                 "info",
	"DETECTION__STORE":           "csv",
	"DETECTION__CSV_PATH":        "bot_detections.csv",
	"DETECTION__CSV_READER":      "strict",
	"DETECTION__TRUST_PROXY":     true,
	"DETECTION__STATS_CRON":      "0 * * * * *",
	"DETECTION__REDIS_KEY":       "botwatch:detection_logs",
	"REDIS__HOST":                "127.0.0.1",
	"REDIS__PORT":                6379,
	"MONGODB__DATABASE":          "botwatch",
	"FLUENTD__PORT":              24224,
	"FLUENTD__TAG_PREFIX":        "botwatch",
	"TELEMETRY__METRIC__ENABLED": true,
}

// SetDefaults 將預設值寫入 viper，並讓 PORT 作為 APP__PORT 的別名
func SetDefaults(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	_ = v.BindEnv("APP__PORT", "APP__PORT", "PORT")
}

// Default 回傳不經 viper 的預設設定（metric 關閉，供測試使用）
func Default() *Configuration {
	return &Configuration{
		App: App{
			Env:     "development",
			Port:    3000,
			Name:    "botwatch",
			Version: "1.0.0",
		},
		Log: Log{Level: "info"},
		Detection: Detection{
			Store:      "csv",
			CSVPath:    "bot_detections.csv",
			CSVReader:  "strict",
			TrustProxy: true,
			StatsCron:  "0 * * * * *",
			RedisKey:   "botwatch:detection_logs",
		},
		Redis:   Redis{Host: "127.0.0.1", Port: 6379},
		MongoDB: MongoDB{Database: "botwatch"},
		Fluentd: Fluentd{Port: 24224, TagPrefix: "botwatch"},
	}
}
