package service

import (
	"runtime"
	"time"

	"github.com/arcadia-chat/arcadia/config"
	"github.com/arcadia-chat/arcadia/logger"
	"github.com/arcadia-chat/arcadia/web/entity"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

var startTime = time.Now()

// ServerService reports an operational snapshot of the host process.
type ServerService struct{}

func (s *ServerService) GetStatus() *entity.StatusSnapshot {
	status := &entity.StatusSnapshot{
		Uptime:     int64(time.Since(startTime).Seconds()),
		Goroutines: runtime.NumGoroutine(),
		Version:    config.GetVersion(),
	}

	percents, err := cpu.Percent(0, false)
	if err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.MemUsed = memInfo.Used
		status.MemTotal = memInfo.Total
	}

	return status
}

// GetLogs returns recent log lines at or below the given level.
func (s *ServerService) GetLogs(count int, level string) []string {
	return logger.GetLogs(count, level)
}
