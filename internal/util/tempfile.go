package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// MinScratchSpaceMB is the minimum free space required for upscaler scratch
// directories (in MB).
const MinScratchSpaceMB = 100

// ScratchDir represents a temporary working directory with cleanup.
type ScratchDir struct {
	path string
}

// Path returns the path to the scratch directory.
func (s *ScratchDir) Path() string {
	return s.path
}

// Cleanup removes the scratch directory and all its contents.
func (s *ScratchDir) Cleanup() error {
	if s.path == "" {
		return nil
	}
	return os.RemoveAll(s.path)
}

// GetAvailableSpace returns the available disk space in bytes for the given path.
// Returns 0 if the space cannot be determined.
func GetAvailableSpace(path string) uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0
	}
	return stat.Bavail * uint64(stat.Bsize)
}

// CheckDiskSpace checks if there is sufficient disk space and logs a warning if low.
// Returns true if space is sufficient or cannot be determined.
func CheckDiskSpace(path string, logger func(format string, args ...any)) bool {
	available := GetAvailableSpace(path)
	if available == 0 {
		return true // Cannot determine, assume OK
	}

	availableMB := available / (1024 * 1024)
	if availableMB < MinScratchSpaceMB {
		if logger != nil {
			logger("Low disk space in %s: %d MB available (minimum recommended: %d MB)",
				path, availableMB, MinScratchSpaceMB)
		}
		return false
	}
	return true
}

// CreateScratchDir creates a temporary directory with the given prefix under
// baseDir. The caller is responsible for calling Cleanup() when done.
func CreateScratchDir(baseDir, prefix string) (*ScratchDir, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if err := EnsureDirectory(baseDir); err != nil {
		return nil, fmt.Errorf("failed to create scratch base directory: %w", err)
	}

	CheckDiskSpace(baseDir, nil)

	randomSuffix, err := generateRandomString(8)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random string: %w", err)
	}

	dirName := fmt.Sprintf("%s_%s", prefix, randomSuffix)
	dirPath := filepath.Join(baseDir, dirName)

	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory in %s: %w", baseDir, err)
	}

	return &ScratchDir{path: dirPath}, nil
}

// generateRandomString generates a random hex string of the given length.
func generateRandomString(length int) (string, error) {
	bytes := make([]byte, (length+1)/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes)[:length], nil
}
