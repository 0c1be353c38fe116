package config

type Log struct {
	// debug / info / warn / error / dpanic / panic / fatal
	Level string `mapstructure:"LEVEL" json:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
}
