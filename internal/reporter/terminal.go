package reporter

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/five82/uplift/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu       sync.Mutex
	progress *progressbar.ProgressBar
	cyan     *color.Color
	green    *color.Color
	yellow   *color.Color
	red      *color.Color
	bold     *color.Color
	faint    *color.Color
}

// NewTerminalReporter creates a new terminal reporter.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{
		cyan:   color.New(color.FgCyan, color.Bold),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow, color.Bold),
		red:    color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
		faint:  color.New(color.Faint),
	}
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		fmt.Fprintln(os.Stderr)
		r.progress = nil
	}
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	fmt.Println()
	_, _ = r.cyan.Println("BATCH")
	r.printLabel(10, "Files:", fmt.Sprintf("%d", info.TotalFiles))
	r.printLabel(10, "Output:", info.OutputDir)
}

func (r *TerminalReporter) JobStarted(info JobInfo) {
	fmt.Println()
	_, _ = r.cyan.Println("VIDEO")
	if info.TotalFiles > 1 {
		r.printLabel(12, "File:", fmt.Sprintf("%s (%d/%d)", info.InputFile, info.CurrentFile, info.TotalFiles))
	} else {
		r.printLabel(12, "File:", info.InputFile)
	}
	r.printLabel(12, "Output:", info.OutputFile)
	r.printLabel(12, "Resolution:", fmt.Sprintf("%s -> %s", info.SourceResolution, info.TargetResolution))
	r.printLabel(12, "Model:", fmt.Sprintf("%s (x%d)", info.Model, info.Scale))
	r.printLabel(12, "Encoder:", info.Encoder)
	if info.FrameCount > 0 {
		r.printLabel(12, "Frames:", fmt.Sprintf("%d", info.FrameCount))
	}
}

func (r *TerminalReporter) JobSkipped(info JobInfo, reason string) {
	fmt.Println()
	fmt.Printf("  %s %s (%s)\n", r.bold.Sprint("Skipped:"), info.InputFile, r.faint.Sprint(reason))
}

func (r *TerminalReporter) PipelineStarted(totalFrames int) {
	r.finishProgress()

	r.mu.Lock()
	defer r.mu.Unlock()

	max := int64(totalFrames)
	if max <= 0 {
		max = -1 // Spinner when the frame count is unknown.
	}

	r.progress = progressbar.NewOptions64(
		max,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Upscaling [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) PipelineProgress(snapshot ProgressSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress == nil {
		return
	}
	r.progress.Describe(fmt.Sprintf("[duplicates: %d] [fps: %.0f]", snapshot.Duplicates, snapshot.FPS))
	_ = r.progress.Set(snapshot.Position)
}

func (r *TerminalReporter) JobComplete(outcome JobOutcome) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.green.Printf("  Finished %s\n", outcome.OutputFile)
	r.printLabel(12, "Frames:", fmt.Sprintf("%d (%d duplicates collapsed)", outcome.Frames, outcome.Duplicates))
	r.printLabel(12, "Time:", util.FormatDuration(outcome.Duration.Seconds()))
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	if summary.TotalFiles <= 1 {
		return
	}
	fmt.Println()
	_, _ = r.cyan.Println("SUMMARY")
	r.printLabel(12, "Upscaled:", fmt.Sprintf("%d/%d", summary.SuccessfulCount, summary.TotalFiles))
	if summary.SkippedCount > 0 {
		r.printLabel(12, "Skipped:", fmt.Sprintf("%d", summary.SkippedCount))
	}
	r.printLabel(12, "Time:", util.FormatDuration(summary.TotalDuration.Seconds()))
}

func (r *TerminalReporter) Warning(message string) {
	r.finishProgress()
	fmt.Printf("  %s %s\n", r.yellow.Sprint("Warning:"), message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.red.Printf("  %s\n", err.Title)
	if err.Message != "" {
		fmt.Printf("    %s\n", err.Message)
	}
	if err.Context != "" {
		fmt.Printf("    %s\n", r.faint.Sprint(err.Context))
	}
	if err.Suggestion != "" {
		fmt.Printf("    %s\n", err.Suggestion)
	}
}
