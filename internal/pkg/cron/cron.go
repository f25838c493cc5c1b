package cron

import (
	"log/slog"
	"sync"
	"time"
)

// SessionPurger 清理过期会话
type SessionPurger interface {
	PurgeExpiredSessions(dryRun bool) (int64, error)
}

type Service struct {
	purger   SessionPurger
	interval time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

func NewService(purger SessionPurger, interval time.Duration) *Service {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Service{
		purger:   purger,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	s.wg.Add(1)
	go s.runSessionCleanup()
	slog.Info("cron service started", "session_cleanup_interval", s.interval)
}

// Stop 停止定时任务并等待当前任务结束，可重复调用
func (s *Service) Stop() {
	s.once.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	slog.Info("cron service stopped")
}

// runSessionCleanup 按固定间隔清理过期会话
func (s *Service) runSessionCleanup() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.RunNow()
		}
	}
}

// RunNow 立即执行一次会话清理，返回删除的数量
func (s *Service) RunNow() int64 {
	if s.purger == nil {
		return 0
	}
	n, err := s.purger.PurgeExpiredSessions(false)
	if err != nil {
		slog.Error("session cleanup failed", "error", err)
		return 0
	}
	if n > 0 {
		slog.Info("expired sessions removed", "count", n)
	}
	return n
}
