package workers

// Worker is a background job with its own schedule.
type Worker interface {
	// Start schedules the worker and returns once it is registered
	Start() error

	// Stop halts the schedule; in-flight runs finish
	Stop()

	// Name returns the worker name for logging
	Name() string
}
