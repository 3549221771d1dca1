// Package main provides the CLI entry point for uplift.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/uplift/internal/config"
	"github.com/five82/uplift/internal/discovery"
	"github.com/five82/uplift/internal/errors"
	"github.com/five82/uplift/internal/ffmpeg"
	"github.com/five82/uplift/internal/logging"
	"github.com/five82/uplift/internal/processing"
	"github.com/five82/uplift/internal/reporter"
	"github.com/five82/uplift/internal/upscaler"
	"github.com/five82/uplift/internal/util"
)

const (
	appName    = "uplift"
	appVersion = "0.1.0"
)

// cliArgs holds the parsed command-line flags.
type cliArgs struct {
	inputPath          string
	outputPath         string
	width              int
	height             int
	encoder            string
	model              string
	duplicateThreshold float64
	replaceOutput      bool
	workers            int
	logDir             string
	verbose            bool
	noLog              bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var ca cliArgs

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "AI video upscaler",
		Long:          "Uplift upscales videos with an AI super-resolution model while copying audio, subtitles and metadata from the original file.",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), ca)
		},
	}

	// The help flag is registered without a shorthand so -h stays free for
	// --height.
	cmd.Flags().Bool("help", false, "Display this help message and exit")

	cmd.Flags().StringVarP(&ca.inputPath, "input", "i", "", "Input video file or directory")
	cmd.Flags().StringVarP(&ca.outputPath, "output", "o", "", "Output video file or directory")
	cmd.Flags().IntVarP(&ca.width, "width", "w", 0, "Target video width in pixels")
	cmd.Flags().IntVarP(&ca.height, "height", "h", 0, "Target video height in pixels")
	cmd.Flags().StringVarP(&ca.encoder, "encoder", "e", config.DefaultEncoder, "FFmpeg video encoder")
	cmd.Flags().StringVarP(&ca.model, "model", "m", config.DefaultModel,
		"Upscaling model (realcugan | realesrgan | realesrgan-anime | realesr-anime)")
	cmd.Flags().Float64Var(&ca.duplicateThreshold, "duplicate_threshold", config.DefaultDuplicateThreshold,
		"Similarity threshold for collapsing duplicate frames (0.0-1.0)")
	cmd.Flags().BoolVar(&ca.replaceOutput, "replace_output", false, "Replace existing output files instead of skipping")
	cmd.Flags().IntVar(&ca.workers, "workers", config.DefaultUpscaleWorkers, "Parallel upscaling workers")
	cmd.Flags().StringVarP(&ca.logDir, "log-dir", "l", "", "Log directory (defaults to ~/.local/state/uplift/logs)")
	cmd.Flags().BoolVarP(&ca.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.Flags().BoolVar(&ca.noLog, "no-log", false, "Disable log file creation")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func run(ctx context.Context, ca cliArgs) error {
	if err := ffmpeg.CheckAvailable(); err != nil {
		return err
	}

	inputPath, err := filepath.Abs(ca.inputPath)
	if err != nil {
		return errors.NewPathError(fmt.Sprintf("invalid input path: %s", ca.inputPath))
	}

	filesToProcess, err := discovery.ResolveInputs(inputPath)
	if err != nil {
		return err
	}

	outputDir, targetFilename, err := resolveOutputPath(inputPath, ca.outputPath, len(filesToProcess))
	if err != nil {
		return err
	}
	if err := util.EnsureDirectory(outputDir); err != nil {
		return errors.NewIOError("creating output directory", err)
	}

	cfg := config.NewConfig(inputPath, outputDir)
	cfg.Width = ca.width
	cfg.Height = ca.height
	cfg.Encoder = ca.encoder
	cfg.Model = ca.model
	cfg.DuplicateThreshold = ca.duplicateThreshold
	cfg.ReplaceOutput = ca.replaceOutput
	cfg.UpscaleWorkers = ca.workers
	cfg.Verbose = ca.verbose
	cfg.NoLog = ca.noLog

	if err := cfg.Validate(); err != nil {
		return errors.NewArgumentError(err.Error())
	}
	if _, err := upscaler.ParseModel(cfg.Model); err != nil {
		return err
	}
	if err := ffmpeg.ValidateEncoder(cfg.Encoder); err != nil {
		return err
	}

	logDir := ca.logDir
	if logDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.NewIOError("resolving home directory", err)
		}
		logDir = filepath.Join(homeDir, ".local", "state", "uplift", "logs")
	}
	cfg.LogDir = logDir

	logger, err := logging.Setup(logDir, ca.verbose, ca.noLog)
	if err != nil {
		return errors.NewIOError("setting up logging", err)
	}
	defer func() { _ = logger.Close() }()

	logger.Info("Processing %d file(s) into %s", len(filesToProcess), outputDir)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	rep := reporter.NewTerminalReporter()
	if _, err := processing.ProcessVideos(ctx, cfg, filesToProcess, outputDir, targetFilename, rep, logger); err != nil {
		return err
	}

	fmt.Println("Completed!")
	return nil
}

// resolveOutputPath determines the output directory and optional target
// filename. A single-file input whose output carries a video extension is
// treated as an explicit target file; with several inputs such an output
// is rejected; anything else is a directory. With no output argument,
// files land next to their inputs.
func resolveOutputPath(inputPath, outputPath string, fileCount int) (outputDir, targetFilename string, err error) {
	if outputPath == "" {
		info, statErr := os.Stat(inputPath)
		if statErr != nil {
			return "", "", errors.NewPathError(fmt.Sprintf("input path does not exist: %s", inputPath))
		}
		if info.IsDir() {
			return inputPath, "", nil
		}
		return filepath.Dir(inputPath), "", nil
	}

	outputPath, err = filepath.Abs(outputPath)
	if err != nil {
		return "", "", errors.NewPathError(fmt.Sprintf("invalid output path: %s", outputPath))
	}

	if fileCount == 1 && util.HasVideoExtension(outputPath) {
		return filepath.Dir(outputPath), filepath.Base(outputPath), nil
	}

	if fileCount > 1 && util.HasVideoExtension(outputPath) {
		return "", "", errors.NewArgumentError("output must be a directory when processing multiple files")
	}

	return outputPath, "", nil
}
