package config

// Fluentd 請求 / 回應 / 偵測紀錄的鏡像輸出；關閉時使用 NoopClient
type Fluentd struct {
	Enabled bool   `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	Host    string `mapstructure:"HOST" json:"host" yaml:"host" validate:"required_if=Enabled true"`
	Port    int    `mapstructure:"PORT" json:"port" yaml:"port" validate:"omitempty,min=1,max=65535"`
	// tag 形如 <TagPrefix>.request_log；空白時使用 APP__NAME
	TagPrefix string `mapstructure:"TAG_PREFIX" json:"tagPrefix" yaml:"tagPrefix"`
	// 秒
	Timeout int64 `mapstructure:"TIMEOUT" json:"timeout" yaml:"timeout" validate:"min=0"`
}
