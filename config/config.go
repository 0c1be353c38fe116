package config

// Configuration 對應環境變數 <SECTION>__<KEY>，例如 DETECTION__STORE
type Configuration struct {
	App       App             `mapstructure:"APP" json:"app" yaml:"app"`
	Log       Log             `mapstructure:"LOG" json:"log" yaml:"log"`
	Detection Detection       `mapstructure:"DETECTION" json:"detection" yaml:"detection"`
	Auth      Auth            `mapstructure:"AUTH" json:"auth" yaml:"auth"`
	Redis     Redis           `mapstructure:"REDIS" json:"redis" yaml:"redis"`
	MongoDB   MongoDB         `mapstructure:"MONGODB" json:"mongodb" yaml:"mongodb"`
	Telemetry TelemetryConfig `mapstructure:"TELEMETRY" json:"telemetry" yaml:"telemetry"`
	Fluentd   Fluentd         `mapstructure:"FLUENTD" json:"fluentd" yaml:"fluentd"`
}
