package redis

import (
	"sync"

	"go.uber.org/zap"
)

// cacheTasks carries queued cache refresh closures to the workers.
var (
	cacheTasks chan func()
	workerOnce sync.Once
)

// InitCacheWorker starts workerCount goroutines draining a buffered
// task queue. Cache refreshes ride this pool so request handlers never
// block on redis round-trips.
func InitCacheWorker(workerCount, bufferSize int) {
	workerOnce.Do(func() {
		cacheTasks = make(chan func(), bufferSize)
		for i := 0; i < workerCount; i++ {
			go func() {
				for task := range cacheTasks {
					runTask(task)
				}
			}()
		}
	})
}

func runTask(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("cache task panic", zap.Any("error", rec))
		}
	}()
	task()
}

// SubmitCacheTask queues a task, dropping it (with a log) when the
// queue is full: a lost cache refresh only means a stale view until the
// next trigger.
func SubmitCacheTask(action func()) {
	if cacheTasks == nil {
		go runTask(action)
		return
	}
	select {
	case cacheTasks <- action:
	default:
		zap.L().Warn("cache task queue full, dropping task")
	}
}
