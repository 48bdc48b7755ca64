package job

import (
	"github.com/arcadia-chat/arcadia/database"
	"github.com/arcadia-chat/arcadia/logger"
)

// CheckpointJob flushes the WAL back into the main database file so the file
// on disk stays small and restorable.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

// Here Run is an interface method of the Job interface
func (j *CheckpointJob) Run() {
	if err := database.Checkpoint(); err != nil {
		logger.Warning("checkpoint job err:", err)
	}
}
