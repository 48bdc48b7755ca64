package job

import (
	"os"
	"path/filepath"

	"github.com/arcadia-chat/arcadia/config"
	"github.com/arcadia-chat/arcadia/logger"
)

type ClearLogsJob struct{}

func NewClearLogsJob() *ClearLogsJob {
	return new(ClearLogsJob)
}

// Here Run is an interface method of the Job interface
func (j *ClearLogsJob) Run() {
	logPath := filepath.Join(config.GetLogFolder(), "arcadia.log")
	prevPath := logPath + ".prev"

	content, err := os.ReadFile(logPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warning("clear logs job err:", err)
		}
		return
	}

	if err := os.WriteFile(prevPath, content, 0o644); err != nil {
		logger.Warning("clear logs job err:", err)
		return
	}

	// truncate in place so the logger's open handle keeps writing to the
	// same inode
	if err := os.Truncate(logPath, 0); err != nil {
		logger.Warning("clear logs job err:", err)
	}
}
