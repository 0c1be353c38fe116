package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"botwatch/config"

	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Configuration {
	t.Helper()
	conf := config.Default()
	conf.App.Env = "test"
	conf.Detection.CSVPath = filepath.Join(t.TempDir(), "bot_detections.csv")
	return conf
}

func TestWireAppServesRoutes(t *testing.T) {
	app, cleanup, err := wireApp(testConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("wireApp() error = %v", err)
	}
	defer cleanup()

	w := httptest.NewRecorder()
	app.server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("X-App-Version"); got != "1.0.0" {
		t.Errorf("X-App-Version = %q", got)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "GPTBot/1.0")
	app.server.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d", w.Code)
	}
	if n, err := app.detectionService.Count(req.Context()); err != nil || n != 1 {
		t.Errorf("Count() = %d, %v; want 1", n, err)
	}
}

func TestWireCommand(t *testing.T) {
	cmd, cleanup, err := wireCommand(testConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("wireCommand() error = %v", err)
	}
	defer cleanup()
	if cmd == nil {
		t.Fatal("wireCommand() returned nil command")
	}
}

func TestWireAppRejectsUnknownStore(t *testing.T) {
	conf := testConfig(t)
	conf.Detection.Store = "sqlite"
	if _, _, err := wireApp(conf, zap.NewNop()); err == nil {
		t.Error("wireApp() should fail for an unknown store")
	}
}
