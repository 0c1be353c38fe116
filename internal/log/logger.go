package log

import (
	"fmt"
	"os"

	"botwatch/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(conf *config.Configuration) (*zap.Logger, error) {
	return NewLoggerWithWriters(conf, zapcore.AddSync(os.Stdout), zapcore.AddSync(os.Stderr))
}

// NewLoggerWithWriters 與 NewLogger 相同，但可指定 stdout / stderr（測試用）
func NewLoggerWithWriters(conf *config.Configuration, stdoutWriter, stderrWriter zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := NewLevel(conf.Log.Level)
	if err != nil {
		return nil, err
	}
	return NewLoggerWithLevel(conf, level, stdoutWriter, stderrWriter), nil
}

// NewLevel 建立可在執行期調整的輸出層級
func NewLevel(level string) (zap.AtomicLevel, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zap.AtomicLevel{}, err
	}
	return zap.NewAtomicLevelAt(lvl), nil
}

// NewLoggerWithLevel 所有輸出都受 level 控制，之後呼叫 level.SetLevel 立即生效
func NewLoggerWithLevel(conf *config.Configuration, atomic zap.AtomicLevel, stdoutWriter, stderrWriter zapcore.WriteSyncer) *zap.Logger {
	// 1) Encoder 設定（JSON、ISO8601 時間、caller/level 鍵等）
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.MessageKey = "message"
	encCfg.LevelKey = "level"
	encCfg.TimeKey = "ts"
	encCfg.CallerKey = "caller"
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	encoder := zapcore.NewJSONEncoder(encCfg)

	// 2) 分流到 stdout / stderr（同時受全域門檻控制）
	stdoutLevel := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return atomic.Enabled(l) && l < zapcore.WarnLevel
	})
	stderrLevel := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return atomic.Enabled(l) && l >= zapcore.WarnLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, stdoutWriter, stdoutLevel),
		zapcore.NewCore(encoder, stderrWriter, stderrLevel),
	)

	// 3) Options：顯示 caller；stacktrace 只在 Error+ 時出現
	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.Fields(
			zap.String("service", conf.App.Name),
			zap.String("version", conf.App.Version),
		),
	}

	logger := zap.New(core, opts...)
	logger.Debug("logger initialized", zap.Stringer("level", atomic.Level()))

	return logger
}

// ParseLevel 空字串視為 info；無法辨識的層級回傳錯誤
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return lvl, nil
}
