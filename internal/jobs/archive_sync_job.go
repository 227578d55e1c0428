package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ArchiveSyncJobName is the name of the legacy archive import job
const ArchiveSyncJobName = "archive_sync"

// ReferenceImportService defines the interface for importing legacy
// quotation references. This lets the job call the service without
// importing the service package directly.
type ReferenceImportService interface {
	// Sync imports legacy reference numbers not yet known locally.
	// Returns how many new references were added.
	Sync(ctx context.Context) (int64, error)
}

// ArchiveSyncJob periodically imports reference numbers from the legacy
// accounting database so newly generated numbers never collide with them.
type ArchiveSyncJob struct {
	service ReferenceImportService
	logger  *zap.Logger
	timeout time.Duration
}

// NewArchiveSyncJob creates a new archive import job.
// The timeout controls how long one import run is allowed to take.
func NewArchiveSyncJob(service ReferenceImportService, logger *zap.Logger, timeout time.Duration) *ArchiveSyncJob {
	return &ArchiveSyncJob{
		service: service,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes one import. Called by the scheduler per the cron expression.
func (j *ArchiveSyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("starting archive sync job")

	imported, err := j.service.Sync(ctx)
	if err != nil {
		j.logger.Error("archive sync failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("archive sync job completed",
		zap.Int64("imported", imported),
		zap.Duration("duration", time.Since(start)))
}

// RegisterArchiveSyncJob registers the import job with the scheduler.
// If runOnStart is true an import also runs immediately in a background
// goroutine so API startup is not blocked.
func RegisterArchiveSyncJob(scheduler *Scheduler, service ReferenceImportService, logger *zap.Logger, cronExpr string, timeout time.Duration, runOnStart bool) error {
	job := NewArchiveSyncJob(service, logger, timeout)

	if runOnStart {
		go job.Run()
	}

	return scheduler.AddJob(ArchiveSyncJobName, cronExpr, job.Run)
}
