package service

import (
	"sync"
	"sync/atomic"
	"time"
)

// HealthService 保存 liveness / readiness 與最近一次儲存後端檢查結果
type HealthService struct {
	live  atomic.Bool
	ready atomic.Bool

	mu        sync.RWMutex
	storeErr  error
	checkedAt time.Time
}

// StoreStatus 最近一次儲存後端檢查
type StoreStatus struct {
	Healthy   bool
	Error     string
	CheckedAt time.Time
}

func NewHealthService() *HealthService {
	s := &HealthService{}
	s.live.Store(true)
	return s
}

// SetReady 啟動完成後設為 true，關機前設回 false
func (s *HealthService) SetReady(v bool) {
	s.ready.Store(v)
}

func (s *HealthService) IsLive() bool {
	return s.live.Load()
}

// IsReady 服務已啟動且最近一次儲存檢查成功（尚未檢查視為成功）
func (s *HealthService) IsReady() bool {
	if !s.ready.Load() {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storeErr == nil
}

// ReportStore 由排程回報儲存後端狀態
func (s *HealthService) ReportStore(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeErr = err
	s.checkedAt = time.Now().UTC()
}

func (s *HealthService) Store() StoreStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := StoreStatus{Healthy: s.storeErr == nil, CheckedAt: s.checkedAt}
	if s.storeErr != nil {
		status.Error = s.storeErr.Error()
	}
	return status
}
