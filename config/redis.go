package config

// Redis 僅在 DETECTION__STORE=redis 時連線
type Redis struct {
	Host     string `mapstructure:"HOST" json:"host" yaml:"host" validate:"omitempty,hostname|ip"`
	Port     int    `mapstructure:"PORT" json:"port" yaml:"port" validate:"omitempty,min=1,max=65535"`
	Password string `mapstructure:"PASSWORD" json:"-" yaml:"password"`
	DB       int    `mapstructure:"DB" json:"db" yaml:"db" validate:"min=0,max=15"`
}
