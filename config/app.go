package config

type App struct {
	// 當前開發環境
	Env string `mapstructure:"ENV" json:"env" yaml:"env" validate:"omitempty,oneof=development test production"`
	// 服務端口（亦接受 PORT 環境變數）
	Port uint32 `mapstructure:"PORT" json:"port" yaml:"port" validate:"required,max=65535"`
	// 服務名稱，同時作為 metric 前綴
	Name string `mapstructure:"NAME" json:"name" yaml:"name" validate:"required"`
	// 服務版本
	Version        string `mapstructure:"VERSION" json:"version" yaml:"version"`
	SwaggerEnabled bool   `mapstructure:"SWAGGER_ENABLED" json:"swagger_enabled" yaml:"swagger_enabled"`
	PprofEnabled   bool   `mapstructure:"PPROF_ENABLED" json:"pprof_enabled" yaml:"pprof_enabled"`
}
