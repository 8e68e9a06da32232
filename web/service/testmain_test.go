package service

import (
	"os"
	"testing"

	"github.com/ku-unplugged/livelog/logger"

	"github.com/op/go-logging"
)

func TestMain(m *testing.M) {
	logDir, err := os.MkdirTemp("", "livelog-test-logs")
	if err != nil {
		panic(err)
	}
	os.Setenv("LIVELOG_LOG_FOLDER", logDir)
	logger.InitLogger(logging.DEBUG)

	code := m.Run()

	logger.CloseLogger()
	os.RemoveAll(logDir)
	os.Exit(code)
}
