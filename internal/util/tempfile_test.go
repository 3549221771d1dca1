package util

import (
	"os"
	"strings"
	"testing"
)

func TestCreateScratchDir(t *testing.T) {
	base := t.TempDir()

	scratch, err := CreateScratchDir(base, "uplift")
	if err != nil {
		t.Fatalf("CreateScratchDir() error = %v", err)
	}

	if !strings.HasPrefix(GetFilename(scratch.Path()), "uplift_") {
		t.Errorf("scratch dir name = %q, want uplift_ prefix", scratch.Path())
	}
	if !DirectoryExists(scratch.Path()) {
		t.Error("scratch directory was not created")
	}

	if err := scratch.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if DirectoryExists(scratch.Path()) {
		t.Error("scratch directory still exists after Cleanup")
	}
}

func TestScratchDirNamesAreUnique(t *testing.T) {
	base := t.TempDir()

	a, err := CreateScratchDir(base, "uplift")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = a.Cleanup() }()

	b, err := CreateScratchDir(base, "uplift")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = b.Cleanup() }()

	if a.Path() == b.Path() {
		t.Errorf("two scratch dirs share the same path: %s", a.Path())
	}
}

func TestCleanupEmptyPathIsNoop(t *testing.T) {
	var s ScratchDir
	if err := s.Cleanup(); err != nil {
		t.Errorf("Cleanup on zero value = %v, want nil", err)
	}
}

func TestGetAvailableSpace(t *testing.T) {
	if GetAvailableSpace(os.TempDir()) == 0 {
		t.Skip("cannot determine available space on this system")
	}

	if GetAvailableSpace("/nonexistent/path/for/sure") != 0 {
		t.Error("GetAvailableSpace on a missing path should be 0")
	}
}
