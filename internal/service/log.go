package service

import (
	"strings"
	"sync"
	"time"

	"github.com/7x11x13/youtube-up/internal/types"
)

// LogService 日志服务
// 内存环形保留最近日志，供命令行在出错时输出诊断尾部
type LogService struct {
	logs         []types.SimpleLog
	mutex        sync.RWMutex
	limit        int              // 最大保留日志条数
	deduplicator *LogDeduplicator // 日志归并器
	enableDedup  bool             // 是否启用归并
}

// NewLogService 创建日志服务
func NewLogService() *LogService {
	s := &LogService{
		logs:         make([]types.SimpleLog, 0, 500),
		limit:        500,
		deduplicator: NewLogDeduplicator(),
		enableDedup:  true,
	}
	// 启动定时刷新协程
	go s.startFlushLoop()
	return s
}

// startFlushLoop 启动定时刷新循环
func (s *LogService) startFlushLoop() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.flushPending()
	}
}

// flushPending 刷新待归并的日志
func (s *LogService) flushPending() {
	if !s.enableDedup {
		return
	}

	mergedLogs := s.deduplicator.FlushAll()
	if len(mergedLogs) == 0 {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, merged := range mergedLogs {
		s.logs = append(s.logs, merged.SimpleLog)
	}

	if len(s.logs) > s.limit {
		s.logs = s.logs[len(s.logs)-s.limit:]
	}
}

// Add 添加日志（实现 LogServiceInterface 接口）
func (s *LogService) Add(log types.SimpleLog) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.enableDedup {
		mergedLogs := s.deduplicator.Process(log)
		for _, merged := range mergedLogs {
			s.logs = append(s.logs, merged.SimpleLog)
		}
	} else {
		s.logs = append(s.logs, log)
	}

	// 超过限制时，移除最旧的日志
	if len(s.logs) > s.limit {
		s.logs = s.logs[len(s.logs)-s.limit:]
	}
}

// Query 查询日志
func (s *LogService) Query(query types.LogQuery) []types.SimpleLog {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	limit := query.Limit
	if limit <= 0 {
		limit = 100
	}

	result := make([]types.SimpleLog, 0, limit)

	// 倒序遍历，最新的在前面
	for i := len(s.logs) - 1; i >= 0 && len(result) < limit; i-- {
		log := s.logs[i]

		if query.Keyword != "" && !strings.Contains(log.Message, query.Keyword) {
			continue
		}
		if query.Platform != "" && log.Platform != query.Platform {
			continue
		}
		if query.Level != "" && log.Level != query.Level {
			continue
		}

		result = append(result, log)
	}

	return result
}

// GetAll 获取所有日志
func (s *LogService) GetAll(limit int) []types.SimpleLog {
	if limit <= 0 {
		limit = 100
	}
	return s.Query(types.LogQuery{Limit: limit})
}

// Tail 按时间正序返回最近n条，出错时打印诊断用
func (s *LogService) Tail(n int) []types.SimpleLog {
	logs := s.GetAll(n)
	// GetAll 返回倒序，这里翻转
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs
}

// Clear 清空日志
func (s *LogService) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.logs = make([]types.SimpleLog, 0, s.limit)
	if s.deduplicator != nil {
		s.deduplicator.FlushAll()
	}
}

// Count 获取日志数量
func (s *LogService) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.logs)
}

// SetDedupEnabled 设置是否启用日志归并
func (s *LogService) SetDedupEnabled(enabled bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// 如果关闭归并，先刷新所有待归并的日志
	if !enabled && s.enableDedup {
		mergedLogs := s.deduplicator.FlushAll()
		for _, merged := range mergedLogs {
			s.logs = append(s.logs, merged.SimpleLog)
		}
	}

	s.enableDedup = enabled
}

// IsDedupEnabled 获取归并是否启用
func (s *LogService) IsDedupEnabled() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.enableDedup
}
