package tasks

// TaskSchedulerInterface defines the interface for background task
// scheduling. The main application starts and stops the scheduler; handlers
// may enqueue ad-hoc tasks.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
