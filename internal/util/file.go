package util

import (
	"os"
	"path/filepath"
	"strings"
)

// VideoExtensions is the list of supported video file extensions.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
	".flv":  true,
}

// IsVideoFile checks if the given path is a valid video file.
func IsVideoFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	return VideoExtensions[ext]
}

// HasVideoExtension checks the extension alone, without touching the filesystem.
func HasVideoExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return VideoExtensions[ext]
}

// GetFilename returns the filename from a path.
func GetFilename(path string) string {
	return filepath.Base(path)
}

// GetFileStem returns the filename without extension.
func GetFileStem(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// GetFileSize returns the size of a file in bytes.
func GetFileSize(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()), nil
}

// EnsureDirectory creates a directory if it doesn't exist.
func EnsureDirectory(path string) error {
	return os.MkdirAll(path, 0755)
}

// DirectoryExists checks if a directory exists.
func DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ResolveOutputPath determines the output path for an upscaled file.
// With no override the input stem gains an "_upscaled" suffix and keeps
// its original extension.
func ResolveOutputPath(inputPath, outputDir, targetOverride string) string {
	if targetOverride != "" {
		return filepath.Join(outputDir, targetOverride)
	}
	stem := GetFileStem(inputPath)
	ext := filepath.Ext(inputPath)
	return filepath.Join(outputDir, stem+"_upscaled"+ext)
}
