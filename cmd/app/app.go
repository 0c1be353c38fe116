package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"botwatch/config"
	"botwatch/internal/cron"
	"botwatch/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RuntimeInfo struct {
	Env       string    `json:"env"`
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	GoVersion string    `json:"go_version"`
	StartAt   time.Time `json:"start_at"`
}

type App struct {
	conf             *config.Configuration
	logger           *zap.Logger
	cronSrv          *cron.Cron
	server           *http.Server
	healthService    *service.HealthService
	detectionService *service.DetectionService

	appInfo  RuntimeInfo // 版本/環境快照（來源 = conf.App）
	serveErr chan error
}

// newHttpServer 外層加上 X-App-Version 標頭，涵蓋 404 與 panic 回應
func newHttpServer(
	conf *config.Configuration,
	router *gin.Engine,
) *http.Server {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v := conf.App.Version; v != "" {
			w.Header().Set("X-App-Version", v)
		}
		router.ServeHTTP(w, r)
	})
	return &http.Server{
		Addr:              ":" + strconv.FormatUint(uint64(conf.App.Port), 10),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func newApp(
	conf *config.Configuration,
	logger *zap.Logger,
	server *http.Server,
	healthService *service.HealthService,
	detectionService *service.DetectionService,
	cronSrv *cron.Cron,
) *App {
	return &App{
		conf:             conf,
		logger:           logger,
		server:           server,
		healthService:    healthService,
		detectionService: detectionService,
		cronSrv:          cronSrv,
		appInfo: RuntimeInfo{
			Env:       conf.App.Env,
			Name:      conf.App.Name,
			Version:   conf.App.Version,
			GoVersion: runtime.Version(),
			StartAt:   time.Now(),
		},
		serveErr: make(chan error, 1),
	}
}

func (a *App) Run() error {
	// 1) 啟動時寫入版本/環境資訊
	info := a.appInfo
	a.logger.Info("app runtime info",
		zap.String("env", info.Env),
		zap.String("name", info.Name),
		zap.String("version", info.Version),
		zap.String("go_version", info.GoVersion),
		zap.Time("start_at", info.StartAt),
	)

	// 2) 先綁定 port，綁定失敗直接回傳
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return err
	}
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("http server stopped", zap.Error(err))
			a.serveErr <- err
		}
	}()

	port := a.conf.App.Port
	a.logger.Info("server is running", zap.Uint32("port", port))
	a.logger.Info("access the API", zap.String("url", "http://localhost:"+strconv.FormatUint(uint64(port), 10)))
	a.logger.Info("AI bot detection active",
		zap.Strings("bots", []string{"ChatGPT", "Gemini", "Claude"}),
		zap.String("store", a.detectionService.StoreDescription()),
	)

	// 3) 啟動 cron
	if err := a.cronSrv.Run(); err != nil {
		return err
	}
	a.logger.Info("cron server started")

	a.healthService.SetReady(true)
	return nil
}

// Done 在 http server 非預期結束時送出錯誤
func (a *App) Done() <-chan error {
	return a.serveErr
}

func (a *App) Stop(ctx context.Context) error {
	a.healthService.SetReady(false)

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("http server shutdown failed", zap.Error(err))
		return err
	}
	a.logger.Info("http server has been stop")

	if a.cronSrv == nil {
		return nil
	}
	if err := a.cronSrv.Stop(ctx); err != nil {
		return err
	}
	a.logger.Info("cron server has been stop")

	return nil
}
