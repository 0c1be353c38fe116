package handler

import (
	"botwatch/config"
	"botwatch/internal/core"
	"botwatch/internal/pkg/request"
	"botwatch/internal/pkg/response"
	"botwatch/internal/service"
	"botwatch/internal/telemetry"

	"github.com/gin-gonic/gin"
)

type DetectionHandler struct {
	trace            *telemetry.Trace
	config           *config.Configuration
	detectionService *service.DetectionService
}

func NewDetectionHandler(
	trace *telemetry.Trace,
	config *config.Configuration,
	detectionService *service.DetectionService,
) *DetectionHandler {
	return &DetectionHandler{trace: trace, config: config, detectionService: detectionService}
}

// Detect AI bot 偵測
// @Summary 依 User-Agent 判斷 AI bot 並寫入偵測紀錄
// @Tags Detection
// @Produce json
// @Success 200 {object} dto.DetectResponseDto
// @Router / [get]
func (h *DetectionHandler) Detect(c *gin.Context) {
	ctx, span, end := h.trace.WithSpan(c)
	defer end(nil)

	req := request.NewRequestContext(c.Request, h.config.Detection.TrustProxy)
	resp := h.detectionService.Detect(ctx, req)

	h.trace.ApplyTraceAttributes(span, core.TraceDetectionMeta{
		ClientIP:   h.detectionService.ClientIP(req),
		UserAgent:  resp.UserAgent,
		BotType:    string(resp.BotType),
		Detected:   resp.Success,
		Store:      h.config.Detection.Store,
		TrustProxy: h.config.Detection.TrustProxy,
	})
	response.Success(c, resp)
}

// Logs 偵測紀錄
// @Summary 讀取所有偵測紀錄（由舊到新）
// @Tags Detection
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.LogsResponseDto
// @Failure 401 {object} dto.ErrorResponseDto
// @Failure 500 {object} dto.ErrorResponseDto
// @Router /logs [get]
func (h *DetectionHandler) Logs(c *gin.Context) {
	ctx, span, end := h.trace.WithSpan(c)

	logs, err := h.detectionService.ReadLogs(ctx)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	h.trace.ApplyTraceAttributes(span, core.TraceDetectionReadMeta{
		Store:   h.config.Detection.Store,
		Records: logs.TotalRecords,
	})
	end(nil)
	response.Success(c, logs)
}

// IP 請求來源資訊
// @Summary 顯示解析出的 client IP 與代理標頭
// @Tags Detection
// @Produce json
// @Success 200 {object} dto.IPResponseDto
// @Router /ip [get]
func (h *DetectionHandler) IP(c *gin.Context) {
	_, _, end := h.trace.WithSpan(c)
	defer end(nil)

	req := request.NewRequestContext(c.Request, h.config.Detection.TrustProxy)
	response.Success(c, h.detectionService.IPInfo(req))
}
