package config

type Detection struct {
	// 紀錄存放位置：csv / mongo / redis
	Store string `mapstructure:"STORE" json:"store" yaml:"store" validate:"required,oneof=csv mongo redis"`
	// CSV 檔案路徑（相對路徑以工作目錄為準）
	CSVPath string `mapstructure:"CSV_PATH" json:"csvPath" yaml:"csvPath" validate:"required_if=Store csv"`
	// strict：標準 CSV 解碼；split：逐行以逗號切割（與舊版讀取器一致）
	CSVReader string `mapstructure:"CSV_READER" json:"csvReader" yaml:"csvReader" validate:"omitempty,oneof=strict split"`
	// 是否信任 X-Forwarded-For / X-Real-IP / X-Client-IP；關閉時 /ip 不開放
	TrustProxy bool `mapstructure:"TRUST_PROXY" json:"trustProxy" yaml:"trustProxy"`
	// 統計排程（含秒欄位）
	StatsCron string `mapstructure:"STATS_CRON" json:"statsCron" yaml:"statsCron"`
	RedisKey  string `mapstructure:"REDIS_KEY" json:"redisKey" yaml:"redisKey" validate:"required_if=Store redis"`
}
