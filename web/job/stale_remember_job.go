package job

import (
	"time"

	"github.com/ku-unplugged/livelog/logger"
	"github.com/ku-unplugged/livelog/web/service"
)

// StaleRememberJob clears remember digests that have not been refreshed
// within the remember-cookie lifetime, so orphaned cookies stop
// resolving to accounts.
type StaleRememberJob struct {
	accountService service.AccountService
	olderThan      time.Duration
}

func NewStaleRememberJob(olderThan time.Duration) *StaleRememberJob {
	return &StaleRememberJob{olderThan: olderThan}
}

func (j *StaleRememberJob) Run() {
	n, err := j.accountService.PurgeStaleRemembers(j.olderThan)
	if err != nil {
		logger.Warning("stale remember job err:", err)
		return
	}
	if n > 0 {
		logger.Infof("cleared %d stale remember token(s)", n)
	}
}
