// Package processing orchestrates upscaling for a list of video files.
package processing

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/uplift/internal/config"
	"github.com/five82/uplift/internal/errors"
	"github.com/five82/uplift/internal/ffprobe"
	"github.com/five82/uplift/internal/logging"
	"github.com/five82/uplift/internal/pipeline"
	"github.com/five82/uplift/internal/reporter"
	"github.com/five82/uplift/internal/upscaler"
	"github.com/five82/uplift/internal/util"
	"github.com/five82/uplift/internal/video"
)

// JobResult contains the result of a single file run.
type JobResult struct {
	Filename   string
	OutputFile string
	Duration   time.Duration
	Skipped    bool
}

// ProcessVideos runs the pipeline over each input file in order. The first
// pipeline error aborts the batch; files whose output would be a no-op
// (already present, or no upscaling needed) are skipped with a notice.
func ProcessVideos(
	ctx context.Context,
	cfg *config.Config,
	filesToProcess []string,
	outputDir string,
	targetFilenameOverride string,
	rep reporter.Reporter,
	logger *logging.Logger,
) ([]JobResult, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}

	batchStart := time.Now()
	var results []JobResult
	skipped := 0

	if len(filesToProcess) > 1 {
		var fileNames []string
		for _, f := range filesToProcess {
			fileNames = append(fileNames, util.GetFilename(f))
		}
		rep.BatchStarted(reporter.BatchStartInfo{
			TotalFiles: len(filesToProcess),
			FileList:   fileNames,
			OutputDir:  outputDir,
		})
	}

	for fileIdx, inputPath := range filesToProcess {
		if ctx.Err() != nil {
			return results, errors.NewCancelledError()
		}

		fileStart := time.Now()
		inputFilename := util.GetFilename(inputPath)

		override := ""
		if len(filesToProcess) == 1 && targetFilenameOverride != "" {
			override = targetFilenameOverride
		}
		outputPath := util.ResolveOutputPath(inputPath, outputDir, override)

		if util.FileExists(outputPath) && !cfg.ReplaceOutput {
			rep.Warning(fmt.Sprintf("Output file already exists: %s. Skipping.", outputPath))
			logger.Info("Skipping %s: output exists", inputFilename)
			skipped++
			results = append(results, JobResult{Filename: inputFilename, OutputFile: outputPath, Skipped: true})
			continue
		}

		info, err := ffprobe.GetMediaInfo(inputPath)
		if err != nil {
			rep.Error(reporter.ReporterError{
				Title:      "Analysis error",
				Message:    fmt.Sprintf("could not analyze %s", inputFilename),
				Context:    err.Error(),
				Suggestion: "Check that the file is a valid video",
			})
			return results, err
		}
		logger.Debug("%s: %dx%d, %.3f fps, %d frames",
			inputFilename, info.Width, info.Height, info.FrameRate, info.FrameCount)

		job, err := video.New(cfg, inputPath, outputPath, info)
		if err != nil {
			return results, err
		}
		for _, note := range job.Notes {
			rep.Warning(note)
			logger.Warn("%s", note)
		}

		jobInfo := reporter.JobInfo{
			InputFile:        inputFilename,
			OutputFile:       outputPath,
			SourceResolution: fmt.Sprintf("%dx%d", job.SourceWidth, job.SourceHeight),
			TargetResolution: fmt.Sprintf("%dx%d", job.Width, job.Height),
			Model:            job.Model.String(),
			Scale:            job.Scale,
			Encoder:          job.Encoder,
			FrameCount:       job.FrameCount,
			CurrentFile:      fileIdx + 1,
			TotalFiles:       len(filesToProcess),
		}

		if job.SkipUpscale() {
			rep.JobSkipped(jobInfo, "source already covers the target resolution")
			logger.Info("Skipping %s: no upscaling needed", inputFilename)
			skipped++
			results = append(results, JobResult{Filename: inputFilename, OutputFile: outputPath, Skipped: true})
			continue
		}

		rep.JobStarted(jobInfo)
		logger.Info("Upscaling %s -> %s (model %s x%d, encoder %s)",
			inputFilename, outputPath, job.Model, job.Scale, job.Encoder)

		up, err := upscaler.NewNCNN(job.Model, job.Scale, cfg.ScratchDir)
		if err != nil {
			rep.Error(reporter.ReporterError{
				Title:   "Upscaler error",
				Message: err.Error(),
			})
			return results, err
		}

		err = pipeline.Run(ctx, job, up, cfg.UpscaleWorkers, rep)
		_ = up.Close()
		if err != nil {
			rep.Error(reporter.ReporterError{
				Title:   "Pipeline error",
				Message: err.Error(),
				Context: fmt.Sprintf("File: %s", inputPath),
			})
			logger.Error("Pipeline failed for %s: %v", inputFilename, err)
			return results, err
		}

		duration := time.Since(fileStart)
		rep.JobComplete(reporter.JobOutcome{
			InputFile:  inputFilename,
			OutputFile: outputPath,
			Frames:     job.FrameCount,
			Duration:   duration,
		})
		logger.Info("Finished %s in %s", inputFilename, util.FormatDuration(duration.Seconds()))

		results = append(results, JobResult{
			Filename:   inputFilename,
			OutputFile: outputPath,
			Duration:   duration,
		})
	}

	rep.BatchComplete(reporter.BatchSummary{
		SuccessfulCount: len(results) - skipped,
		SkippedCount:    skipped,
		TotalFiles:      len(filesToProcess),
		TotalDuration:   time.Since(batchStart),
	})

	return results, nil
}
