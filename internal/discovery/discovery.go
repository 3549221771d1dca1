// Package discovery provides file discovery for video processing.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/five82/uplift/internal/errors"
	"github.com/five82/uplift/internal/util"
)

// FindVideoFiles finds video files in the given directory.
// Returns files sorted alphabetically by filename.
func FindVideoFiles(inputDir string) ([]string, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, errors.NewPathError(fmt.Sprintf("directory does not exist: %s", inputDir))
	}
	if !info.IsDir() {
		return nil, errors.NewPathError(fmt.Sprintf("%s is not a directory", inputDir))
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, errors.NewIOError(fmt.Sprintf("cannot read directory %s", inputDir), err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		// Skip hidden files
		if strings.HasPrefix(name, ".") {
			continue
		}

		fullPath := filepath.Join(inputDir, name)
		if util.IsVideoFile(fullPath) {
			files = append(files, fullPath)
		}
	}

	if len(files) == 0 {
		return nil, errors.NewNoFilesFoundError(inputDir)
	}

	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(files[i])) < strings.ToLower(filepath.Base(files[j]))
	})

	return files, nil
}

// ResolveInputs expands an input path into the list of files to process.
// A file is returned as-is (after an extension check); a directory is
// scanned for recognized video files.
func ResolveInputs(inputPath string) ([]string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, errors.NewPathError(fmt.Sprintf("input file or directory not found: %s", inputPath))
	}

	if info.IsDir() {
		return FindVideoFiles(inputPath)
	}

	if !util.HasVideoExtension(inputPath) {
		return nil, errors.NewArgumentError(fmt.Sprintf(
			"unrecognized video extension: %s", filepath.Ext(inputPath)))
	}
	return []string{inputPath}, nil
}
