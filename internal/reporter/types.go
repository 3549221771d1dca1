package reporter

import "time"

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	TotalFiles int
	FileList   []string
	OutputDir  string
}

// JobInfo describes the current file before the pipeline starts.
type JobInfo struct {
	InputFile        string
	OutputFile       string
	SourceResolution string
	TargetResolution string
	Model            string
	Scale            int
	Encoder          string
	FrameCount       int
	CurrentFile      int
	TotalFiles       int
}

// ProgressSnapshot contains pipeline progress information. Position and
// Total count output-video frames, so collapsed duplicates advance the
// position by their full run length.
type ProgressSnapshot struct {
	Position   int
	Total      int
	Duplicates int
	FPS        float64
	Elapsed    time.Duration
}

// JobOutcome contains final per-file results.
type JobOutcome struct {
	InputFile  string
	OutputFile string
	Frames     int
	Duplicates int
	Duration   time.Duration
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	SuccessfulCount int
	SkippedCount    int
	TotalFiles      int
	TotalDuration   time.Duration
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}
