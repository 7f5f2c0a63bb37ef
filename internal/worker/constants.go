package worker

import "time"

// DefaultJobTimeout bounds a single job run
const DefaultJobTimeout = 10 * time.Minute

// Job names, used in logs and as the metrics label
const (
	JobNamePropertyTick = "property_tick"
	JobNameBoostPurge   = "boost_purge"
)

// Log messages - pool
const (
	LogMsgWorkerJobFailed    = "Worker job failed"
	LogMsgWorkerJobCompleted = "Worker job completed"
	LogMsgQueueFull          = "Worker queue full, dropping job"
	LogMsgPoolStopping       = "Worker pool stopping"
)

// Log messages - jobs
const (
	LogMsgTickSkipped       = "Property tick skipped, another replica holds the lock"
	LogMsgTickSummary       = "Property tick finished"
	LogMsgMaintenanceNotice = "Maintenance reminder"
	LogMsgAttentionFailed   = "Failed to load properties needing attention"
)
