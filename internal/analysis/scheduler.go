package analysis

import (
	"context"
	"sync"
)

type HealthScheduler struct {
	mu      sync.Mutex
	monitor *HealthMonitor
	workers map[int64]context.CancelFunc
}

func NewHealthScheduler(monitor *HealthMonitor) *HealthScheduler {
	return &HealthScheduler{monitor: monitor, workers: map[int64]context.CancelFunc{}}
}

func (s *HealthScheduler) EnsureTenant(ctx context.Context, tenantID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workers[tenantID]; ok {
		return
	}
	workerCtx, cancel := context.WithCancel(ctx)
	s.workers[tenantID] = cancel
	go s.monitor.Run(workerCtx, tenantID)
}
