package port

import "time"

type MetricsRecorder interface {
	// RecordShown counts a displayed record by kind (user, vehicle)
	RecordShown(kind string)

	// StepFinished observes one plugin hook execution
	StepFinished(plugin, phase string, err error, elapsed time.Duration)

	// ReleaseFinished counts a finished release run by outcome
	ReleaseFinished(status string)
}
