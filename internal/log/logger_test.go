package log

import (
	"bytes"
	"strings"
	"testing"

	"botwatch/config"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerSplitsByLevel(t *testing.T) {
	conf := config.Default()
	conf.Log.Level = "debug"

	var stdout, stderr bytes.Buffer
	logger, err := NewLoggerWithWriters(conf, zapcore.AddSync(&stdout), zapcore.AddSync(&stderr))
	if err != nil {
		t.Fatalf("NewLoggerWithWriters() error = %v", err)
	}
	logger.Debug("debug line")
	logger.Warn("warn line")
	_ = logger.Sync()

	if !strings.Contains(stdout.String(), "debug line") || strings.Contains(stdout.String(), "warn line") {
		t.Errorf("stdout = %s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "warn line") || strings.Contains(stderr.String(), "debug line") {
		t.Errorf("stderr = %s", stderr.String())
	}
	if !strings.Contains(stdout.String(), `"service":"botwatch"`) {
		t.Errorf("stdout missing service field: %s", stdout.String())
	}
}

func TestNewLoggerLevelThreshold(t *testing.T) {
	conf := config.Default()
	conf.Log.Level = "error"

	var stdout, stderr bytes.Buffer
	logger, err := NewLoggerWithWriters(conf, zapcore.AddSync(&stdout), zapcore.AddSync(&stderr))
	if err != nil {
		t.Fatalf("NewLoggerWithWriters() error = %v", err)
	}
	logger.Warn("dropped")
	_ = logger.Sync()
	if strings.Contains(stderr.String(), "dropped") {
		t.Errorf("warn should be filtered at error level: %s", stderr.String())
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	conf := config.Default()
	conf.Log.Level = "verbose"
	if _, err := NewLogger(conf); err == nil {
		t.Error("NewLogger() should reject unknown level")
	}
}

func TestNewLoggerWithLevelChangesAtRuntime(t *testing.T) {
	level, err := NewLevel("warn")
	if err != nil {
		t.Fatalf("NewLevel() error = %v", err)
	}
	var stdout, stderr bytes.Buffer
	logger := NewLoggerWithLevel(config.Default(), level, zapcore.AddSync(&stdout), zapcore.AddSync(&stderr))

	logger.Info("before")
	level.SetLevel(zapcore.DebugLevel)
	logger.Debug("after")
	_ = logger.Sync()

	if strings.Contains(stdout.String(), "before") {
		t.Errorf("info should be filtered at warn: %s", stdout.String())
	}
	if !strings.Contains(stdout.String(), "after") {
		t.Errorf("debug should pass after SetLevel: %s", stdout.String())
	}
}
