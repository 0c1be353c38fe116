package config

type Auth struct {
	// 設定後 /logs 需帶 Bearer JWT（HS256）；留空則不驗證
	JWTSecret string `mapstructure:"JWT_SECRET" json:"-" yaml:"jwtSecret"`
}
