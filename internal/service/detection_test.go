package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"botwatch/config"
	"botwatch/internal/core"
	"botwatch/internal/database/client"
	fluentdRepo "botwatch/internal/database/fluentd/repository"
	"botwatch/internal/dto"
	cErr "botwatch/internal/pkg/error"
	"botwatch/internal/telemetry"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeStore struct {
	mu        sync.Mutex
	records   []dto.DetectionRecord
	appendErr error
	readErr   error
	ctxErr    error
}

func (f *fakeStore) Append(ctx context.Context, record dto.DetectionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxErr = ctx.Err()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeStore) ReadAll(ctx context.Context) ([]dto.DetectionRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	rows := make([]dto.DetectionRow, 0, len(f.records))
	for _, r := range f.records {
		rows = append(rows, r.Row())
	}
	return rows, nil
}

func (f *fakeStore) Count(ctx context.Context) (int, error) {
	rows, err := f.ReadAll(ctx)
	return len(rows), err
}

func (f *fakeStore) Describe() string { return "fake" }
func (f *fakeStore) Close() error     { return nil }

type mirrorClient struct {
	mu   sync.Mutex
	tags []string
	err  error
}

func (m *mirrorClient) Post(ctx context.Context, tag string, message any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags = append(m.tags, tag)
	return m.err
}

func (m *mirrorClient) Close() error { return nil }

func newTestDetectionService(t *testing.T, conf *config.Configuration, store *fakeStore, mirror client.Client) (*DetectionService, *observer.ObservedLogs) {
	t.Helper()
	if mirror == nil {
		mirror = &client.NoopClient{}
	}
	trace, _, err := telemetry.NewTrace(nil)
	if err != nil {
		t.Fatalf("NewTrace() error = %v", err)
	}
	observed, logs := observer.New(zap.DebugLevel)
	s := NewDetectionService(trace, telemetry.NewMetric(nil), zap.New(observed), conf, store, fluentdRepo.NewLogRepository(conf, mirror))
	s.now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 890_000_000, time.UTC) }
	return s, logs
}

func requestFrom(headers map[string]string) core.RequestContext {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return core.RequestContext{
		Headers:       h,
		Method:        http.MethodGet,
		Path:          "/?utm=1",
		Scheme:        "http",
		Host:          "localhost:3000",
		PeerAddr:      "127.0.0.1",
		TransportAddr: "127.0.0.1:54321",
	}
}

func TestDetectRecordsChatGPT(t *testing.T) {
	store := &fakeStore{}
	s, _ := newTestDetectionService(t, config.Default(), store, nil)

	resp := s.Detect(context.Background(), requestFrom(map[string]string{
		"User-Agent":      "Mozilla/5.0 AppleWebKit/537.36; compatible; ChatGPT-User/1.0; +https://openai.com/bot",
		"X-Forwarded-For": "203.0.113.5, 10.0.0.1",
		"Referer":         "https://example.com",
	}))

	if !resp.Success || resp.BotType != core.BotChatGPT {
		t.Fatalf("resp = %#v", resp)
	}
	if resp.Message != "ChatGPT bot detected successfully!" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.ClientIP != "203.0.113.5" || resp.Note != "" || resp.Endpoint != core.DetectionEndpoint {
		t.Errorf("resp = %#v", resp)
	}
	if resp.Timestamp != "2025-03-04T05:06:07.890Z" {
		t.Errorf("timestamp = %q", resp.Timestamp)
	}

	if len(store.records) != 1 {
		t.Fatalf("records = %d, want 1", len(store.records))
	}
	r := store.records[0]
	if r.IP != "203.0.113.5" || r.URL != "http://localhost:3000/?utm=1" || r.Referrer != "https://example.com" {
		t.Errorf("record = %#v", r)
	}
	if r.Keywords != `["bot","detection","automation","chatgpt"]` || r.PageContent != core.DetectionPageContent {
		t.Errorf("record = %#v", r)
	}
	if !r.Detected || r.BotType != core.BotChatGPT {
		t.Errorf("record = %#v", r)
	}
}

func TestDetectNoBot(t *testing.T) {
	store := &fakeStore{}
	s, _ := newTestDetectionService(t, config.Default(), store, nil)

	resp := s.Detect(context.Background(), requestFrom(map[string]string{"User-Agent": "curl/8.0"}))

	if resp.Success || resp.BotType != "" {
		t.Errorf("resp = %#v", resp)
	}
	if resp.Message != "No AI bot detected" || resp.Note != core.DetectionNote {
		t.Errorf("resp = %#v", resp)
	}
	if resp.Logged != "Request logged to CSV file" {
		t.Errorf("logged = %q", resp.Logged)
	}
	if len(store.records) != 1 || store.records[0].BotType != core.BotNone || store.records[0].Detected {
		t.Errorf("records = %#v", store.records)
	}
	if store.records[0].Keywords != `["bot","detection","automation","none"]` {
		t.Errorf("keywords = %q", store.records[0].Keywords)
	}
}

func TestDetectGoogleIsGemini(t *testing.T) {
	store := &fakeStore{}
	s, _ := newTestDetectionService(t, config.Default(), store, nil)

	resp := s.Detect(context.Background(), requestFrom(map[string]string{
		"User-Agent": "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
	}))
	if resp.BotType != core.BotGemini || resp.Logged != "Detection logged to CSV file" {
		t.Errorf("resp = %#v", resp)
	}
}

func TestDetectDirectModeIgnoresProxyHeaders(t *testing.T) {
	conf := config.Default()
	conf.Detection.TrustProxy = false
	store := &fakeStore{}
	s, _ := newTestDetectionService(t, conf, store, nil)

	resp := s.Detect(context.Background(), requestFrom(map[string]string{
		"User-Agent":      "Claude-User",
		"X-Forwarded-For": "203.0.113.5",
	}))
	if resp.ClientIP != "" {
		t.Errorf("clientIP = %q, want omitted", resp.ClientIP)
	}
	if store.records[0].IP != "127.0.0.1" {
		t.Errorf("ip = %q, want peer address", store.records[0].IP)
	}
}

func TestRecordWriteFailureIsLogged(t *testing.T) {
	store := &fakeStore{appendErr: errors.New("disk full")}
	mirror := &mirrorClient{}
	s, logs := newTestDetectionService(t, config.Default(), store, mirror)

	resp := s.Detect(context.Background(), requestFrom(map[string]string{"User-Agent": "GPTBot"}))
	if !resp.Success {
		t.Errorf("response should not be affected by write failure: %#v", resp)
	}

	failures := logs.FilterMessage("detection log write failed").All()
	if len(failures) != 1 {
		t.Fatalf("write failure logs = %d, want 1", len(failures))
	}
	fields := failures[0].ContextMap()
	if fields["bot_type"] != "ChatGPT" || fields["ip"] != "127.0.0.1" {
		t.Errorf("fields = %#v", fields)
	}
	if len(mirror.tags) != 0 {
		t.Errorf("failed writes should not be mirrored: %v", mirror.tags)
	}
}

func TestRecordIgnoresCancelledContext(t *testing.T) {
	store := &fakeStore{}
	s, _ := newTestDetectionService(t, config.Default(), store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Record(ctx, requestFrom(nil), core.BotNone, false)

	if len(store.records) != 1 {
		t.Fatalf("records = %d, want 1", len(store.records))
	}
	if store.ctxErr != nil {
		t.Errorf("append saw ctx error %v", store.ctxErr)
	}
}

func TestRecordMirrorsToFluentd(t *testing.T) {
	mirror := &mirrorClient{err: errors.New("unreachable")}
	s, logs := newTestDetectionService(t, config.Default(), &fakeStore{}, mirror)

	s.Record(context.Background(), requestFrom(nil), core.BotClaude, true)

	if len(mirror.tags) != 1 || mirror.tags[0] != string(core.FluentdDetection) {
		t.Errorf("tags = %v", mirror.tags)
	}
	if logs.FilterMessage("detection log mirror failed").Len() != 1 {
		t.Error("mirror failure should be logged at warn level")
	}
}

func TestReadLogs(t *testing.T) {
	store := &fakeStore{}
	s, _ := newTestDetectionService(t, config.Default(), store, nil)
	ctx := context.Background()

	empty, err := s.ReadLogs(ctx)
	if err != nil {
		t.Fatalf("ReadLogs() error = %v", err)
	}
	if empty.Message != "No logs found yet" || empty.TotalRecords != 0 || empty.Data == nil {
		t.Errorf("empty = %#v", empty)
	}

	s.Record(ctx, requestFrom(map[string]string{"User-Agent": "Gemini"}), core.BotGemini, true)
	s.Record(ctx, requestFrom(nil), core.BotNone, false)

	logs, err := s.ReadLogs(ctx)
	if err != nil {
		t.Fatalf("ReadLogs() error = %v", err)
	}
	if logs.Message != "Bot detection logs" || logs.TotalRecords != 2 || len(logs.Data) != 2 {
		t.Fatalf("logs = %#v", logs)
	}
	if logs.Data[0]["Bot Type"] != "Gemini" || logs.Data[1]["Bot Type"] != "None" {
		t.Errorf("order = %#v", logs.Data)
	}

	n, err := s.Count(ctx)
	if err != nil || n != 2 {
		t.Errorf("Count() = %d, %v", n, err)
	}
}

func TestReadLogsFailure(t *testing.T) {
	store := &fakeStore{readErr: errors.New("permission denied")}
	s, _ := newTestDetectionService(t, config.Default(), store, nil)

	_, err := s.ReadLogs(context.Background())
	var appErr *cErr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("error = %v, want *cErr.Error", err)
	}
	if appErr.HttpCode() != http.StatusInternalServerError || appErr.Error() != "Error reading logs" || appErr.ErrorDesc() != "permission denied" {
		t.Errorf("error = %d %q %q", appErr.HttpCode(), appErr.Error(), appErr.ErrorDesc())
	}
}

func TestIPInfoOmitsAbsentHeaders(t *testing.T) {
	s, _ := newTestDetectionService(t, config.Default(), &fakeStore{}, nil)

	info := s.IPInfo(requestFrom(map[string]string{"X-Real-IP": "198.51.100.7", "User-Agent": "curl"}))
	if info.ClientIP != "198.51.100.7" || info.UserAgent != "curl" {
		t.Errorf("info = %#v", info)
	}
	if len(info.Headers) != 1 || info.Headers["x-real-ip"] != "198.51.100.7" {
		t.Errorf("headers = %#v", info.Headers)
	}
}
