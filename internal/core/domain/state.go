package domain

// JobState is the completion state of a compilation job.
type JobState uint8

const (
	// JobPending means the compiler has not returned yet.
	JobPending JobState = iota
	// JobSucceeded means a shader was produced.
	JobSucceeded
	// JobFailed means the compiler rejected the source.
	JobFailed
)

// Terminal reports whether the job has finished.
func (s JobState) Terminal() bool {
	return s != JobPending
}

func (s JobState) String() string {
	switch s {
	case JobPending:
		return "pending"
	case JobSucceeded:
		return "succeeded"
	case JobFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PassStatus is the state of a pass as seen by callers.
type PassStatus string

const (
	// PassIdle means no shader and no job.
	PassIdle PassStatus = "idle"
	// PassCompiling means a job is in flight.
	PassCompiling PassStatus = "compiling"
	// PassReady means a shader is installed.
	PassReady PassStatus = "ready"
	// PassFailed means the last compilation failed.
	PassFailed PassStatus = "failed"
)
