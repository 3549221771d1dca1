// Package reporter provides progress reporting interfaces and implementations.
package reporter

// Reporter defines the interface for progress reporting.
type Reporter interface {
	BatchStarted(info BatchStartInfo)
	JobStarted(info JobInfo)
	JobSkipped(info JobInfo, reason string)
	PipelineStarted(totalFrames int)
	PipelineProgress(snapshot ProgressSnapshot)
	JobComplete(outcome JobOutcome)
	BatchComplete(summary BatchSummary)
	Warning(message string)
	Error(err ReporterError)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) BatchStarted(BatchStartInfo)       {}
func (NullReporter) JobStarted(JobInfo)                {}
func (NullReporter) JobSkipped(JobInfo, string)        {}
func (NullReporter) PipelineStarted(int)               {}
func (NullReporter) PipelineProgress(ProgressSnapshot) {}
func (NullReporter) JobComplete(JobOutcome)            {}
func (NullReporter) BatchComplete(BatchSummary)        {}
func (NullReporter) Warning(string)                    {}
func (NullReporter) Error(ReporterError)               {}
