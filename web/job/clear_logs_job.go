// Package job contains the scheduled maintenance jobs run by the web
// server's cron.
package job

import (
	"os"
	"path/filepath"

	"github.com/ku-unplugged/livelog/config"
	"github.com/ku-unplugged/livelog/logger"
)

type ClearLogsJob struct{}

func NewClearLogsJob() *ClearLogsJob {
	return new(ClearLogsJob)
}

// Run rotates the log file: the previous generation is overwritten with
// the current content and the live file is truncated.
func (j *ClearLogsJob) Run() {
	logPath := filepath.Join(config.GetLogFolder(), "livelog.log")
	prevPath := logPath + ".prev"

	content, err := os.ReadFile(logPath)
	if err != nil {
		logger.Warning("clear logs job err:", err)
		return
	}
	if err := os.WriteFile(prevPath, content, 0o660); err != nil {
		logger.Warning("clear logs job err:", err)
		return
	}
	if err := os.Truncate(logPath, 0); err != nil {
		logger.Warning("clear logs job err:", err)
	}
}
