package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"botwatch/config"
	"botwatch/internal/classifier"
	"botwatch/internal/core"
	"botwatch/internal/database"
	fluentdModel "botwatch/internal/database/fluentd/model"
	fluentdRepo "botwatch/internal/database/fluentd/repository"
	"botwatch/internal/dto"
	cErr "botwatch/internal/pkg/error"
	"botwatch/internal/telemetry"

	"go.uber.org/zap"
)

type DetectionService struct {
	trace   *telemetry.Trace
	metric  *telemetry.Metric
	logger  *zap.Logger
	config  *config.Configuration
	store   database.DetectionStore
	logRepo *fluentdRepo.LogRepository
	now     func() time.Time
}

func NewDetectionService(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
	config *config.Configuration,
	store database.DetectionStore,
	logRepo *fluentdRepo.LogRepository,
) *DetectionService {
	return &DetectionService{
		trace:   trace,
		metric:  metric,
		logger:  logger,
		config:  config,
		store:   store,
		logRepo: logRepo,
		now:     time.Now,
	}
}

// Detect 分類、寫入一筆紀錄並組出回應；寫入失敗不影響回應
func (s *DetectionService) Detect(ctx context.Context, req core.RequestContext) *dto.DetectResponseDto {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	userAgent := req.UserAgent()
	clientIP := s.ClientIP(req)
	s.logger.Info("request received",
		zap.String("client_ip", clientIP),
		zap.String("user_agent", userAgent),
	)

	botType, detected := classifier.Classify(userAgent)
	if s.logger.Core().Enabled(zap.DebugLevel) {
		fields := make([]zap.Field, 0, len(classifier.Signatures))
		for bot, hit := range classifier.Matches(userAgent) {
			fields = append(fields, zap.Bool("is_"+strings.ToLower(string(bot)), hit))
		}
		s.logger.Debug("signature matches", fields...)
	}

	s.Record(ctx, req, botType, detected)

	resp := &dto.DetectResponseDto{
		Success:   detected,
		UserAgent: userAgent,
		Timestamp: s.now().UTC().Format(core.DetectionTimeLayout),
		Endpoint:  core.DetectionEndpoint,
	}
	if s.config.Detection.TrustProxy {
		resp.ClientIP = clientIP
	}
	if detected {
		resp.BotType = botType
		resp.Message = fmt.Sprintf("%s bot detected successfully!", botType)
		resp.Logged = "Detection logged to " + s.storeLabel()
	} else {
		resp.Message = "No AI bot detected"
		resp.Note = core.DetectionNote
		resp.Logged = "Request logged to " + s.storeLabel()
	}
	return resp
}

// Record 組出紀錄並嘗試寫入一次；失敗只記 log 與 metric
func (s *DetectionService) Record(
	ctx context.Context,
	req core.RequestContext,
	botType core.BotType,
	detected bool,
) dto.DetectionRecord {
	record := s.NewRecord(req, botType, detected)
	s.metric.ObserveDetection(botType)

	// 客戶端斷線仍要寫完這一筆
	writeCtx := context.WithoutCancel(ctx)
	if err := s.store.Append(writeCtx, record); err != nil {
		s.metric.ObserveLogWriteFail(string(s.storeKind()))
		s.logger.Error("detection log write failed",
			zap.String("store", s.store.Describe()),
			zap.String("ip", record.IP),
			zap.String("bot_type", string(record.BotType)),
			zap.Error(err),
		)
		return record
	}
	s.logger.Info("detection log written",
		zap.String("ip", record.IP),
		zap.String("bot_type", string(record.BotType)),
		zap.Bool("detected", record.Detected),
	)

	if err := s.logRepo.LogDetection(writeCtx, fluentdModel.DetectionLog{
		IP:          record.IP,
		UserAgent:   record.UserAgent,
		Timestamp:   record.Timestamp,
		URL:         record.URL,
		PageContent: record.PageContent,
		Referrer:    record.Referrer,
		Keywords:    record.Keywords,
		BotType:     string(record.BotType),
		Detected:    record.Detected,
		Store:       string(s.storeKind()),
	}); err != nil {
		s.logger.Warn("detection log mirror failed", zap.Error(err))
	}
	return record
}

// NewRecord 不做 I/O
func (s *DetectionService) NewRecord(req core.RequestContext, botType core.BotType, detected bool) dto.DetectionRecord {
	return dto.DetectionRecord{
		IP:          s.ClientIP(req),
		UserAgent:   req.UserAgent(),
		Timestamp:   s.now().UTC().Format(core.DetectionTimeLayout),
		URL:         req.URL(),
		PageContent: core.DetectionPageContent,
		Referrer:    req.Referrer(),
		Keywords:    keywords(botType),
		BotType:     botType,
		Detected:    detected,
	}
}

// ReadLogs 無紀錄時回傳 "No logs found yet"
func (s *DetectionService) ReadLogs(ctx context.Context) (*dto.LogsResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)

	rows, err := s.store.ReadAll(ctx)
	if err != nil {
		end(err)
		s.logger.Error("detection log read failed", zap.String("store", s.store.Describe()), zap.Error(err))
		return nil, cErr.LogReadError(err.Error())
	}
	end(nil)

	if len(rows) == 0 {
		return &dto.LogsResponseDto{
			Message:      "No logs found yet",
			TotalRecords: 0,
			Data:         []dto.DetectionRow{},
		}, nil
	}
	return &dto.LogsResponseDto{
		Message:      "Bot detection logs",
		TotalRecords: len(rows),
		Data:         rows,
	}, nil
}

// Count 更新紀錄數 gauge
func (s *DetectionService) Count(ctx context.Context) (int, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	n, err := s.store.Count(ctx)
	end(err)
	if err != nil {
		return 0, err
	}
	s.metric.SetDetectionLogRecords(string(s.storeKind()), n)
	return n, nil
}

func (s *DetectionService) ClientIP(req core.RequestContext) string {
	return req.ClientIP(s.config.Detection.TrustProxy)
}

// IPInfo 只回傳有出現的代理標頭
func (s *DetectionService) IPInfo(req core.RequestContext) *dto.IPResponseDto {
	headers := make(map[string]string, 3)
	for _, name := range []string{"X-Forwarded-For", "X-Real-IP", "X-Client-IP"} {
		if v := req.Header(name); v != "" {
			headers[strings.ToLower(name)] = v
		}
	}
	return &dto.IPResponseDto{
		ClientIP:  s.ClientIP(req),
		UserAgent: req.UserAgent(),
		Timestamp: s.now().UTC().Format(core.DetectionTimeLayout),
		Headers:   headers,
	}
}

func (s *DetectionService) StoreDescription() string {
	return s.store.Describe()
}

func (s *DetectionService) storeKind() core.DetectionStoreKind {
	if s.config.Detection.Store == "" {
		return core.StoreCSV
	}
	return core.DetectionStoreKind(s.config.Detection.Store)
}

func (s *DetectionService) storeLabel() string {
	switch s.storeKind() {
	case core.StoreMongo:
		return "MongoDB"
	case core.StoreRedis:
		return "Redis"
	default:
		return "CSV file"
	}
}

func keywords(botType core.BotType) string {
	tags := make([]string, 0, len(core.DetectionKeywordTags)+1)
	tags = append(tags, core.DetectionKeywordTags...)
	tags = append(tags, strings.ToLower(string(botType)))
	b, _ := json.Marshal(tags)
	return string(b)
}
