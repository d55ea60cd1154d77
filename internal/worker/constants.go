package worker

import "time"

// Log messages - worker pool
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgQueueFull       = "Worker queue full, job dropped"
)

// Log messages - catalog refresh job
const (
	LogMsgCatalogRefreshStarting  = "Catalog refresh starting"
	LogMsgCatalogRefreshCompleted = "Catalog refresh completed"
)

// DefaultJobTimeout bounds a single job run
const DefaultJobTimeout = time.Minute
