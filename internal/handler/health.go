package handler

import (
	"net/http"
	"runtime"
	"time"

	"botwatch/config"
	"botwatch/internal/core"
	"botwatch/internal/dto"
	"botwatch/internal/service"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	config       *config.Configuration
	healthStatus *service.HealthService
	startAt      time.Time
}

func NewHealthHandler(config *config.Configuration, status *service.HealthService) *HealthHandler {
	return &HealthHandler{config: config, healthStatus: status, startAt: time.Now()}
}

// Health 不依賴儲存後端
// @Summary 服務存活檢查
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponseDto
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponseDto{
		Status:    "OK",
		Message:   "Server is running",
		Timestamp: time.Now().UTC().Format(core.DetectionTimeLayout),
	})
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	if h.healthStatus.IsLive() {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
		return
	}
	c.Status(http.StatusServiceUnavailable)
}

// Readiness 附上最近一次儲存後端檢查結果
func (h *HealthHandler) Readiness(c *gin.Context) {
	store := h.healthStatus.Store()
	body := gin.H{"status": "ready", "store": gin.H{"healthy": store.Healthy}}
	if store.Error != "" {
		body["store"] = gin.H{"healthy": false, "error": store.Error}
	}
	if h.healthStatus.IsReady() {
		c.JSON(http.StatusOK, body)
		return
	}
	body["status"] = "not ready"
	c.JSON(http.StatusServiceUnavailable, body)
}

// Version
// @Summary 版本與執行資訊
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /version [get]
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"env":        h.config.App.Env,
		"name":       h.config.App.Name,
		"version":    h.config.App.Version,
		"go_version": runtime.Version(),
		"start_at":   h.startAt.UTC().Format(time.RFC3339),
		"uptime":     time.Since(h.startAt).Truncate(time.Second).String(),
	})
}
