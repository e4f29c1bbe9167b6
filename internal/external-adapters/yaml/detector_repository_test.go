package yaml

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ochairo/mubench/internal/domain/entities"
)

func TestDetectorRepository_GetDetector(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dummy/detector.yml", `version: "0.0.13"
executable: bin/dummy.sh
args: ["--verbose"]
release:
  url: https://example.com/dummy.sh
  md5: d41d8cd98f00b204e9800998ecf8427e
`)

	repo := NewDetectorRepository(dir)
	detector, err := repo.GetDetector("dummy")
	if err != nil {
		t.Fatalf("GetDetector() error = %v", err)
	}

	if detector.Version != "0.0.13" {
		t.Errorf("Version = %s, want 0.0.13", detector.Version)
	}
	if detector.ExecutablePath() != filepath.Join(detector.Path, "bin", "dummy.sh") {
		t.Errorf("ExecutablePath() = %s", detector.ExecutablePath())
	}
	if detector.Fingerprint() != "0.0.13+d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("Fingerprint() = %s", detector.Fingerprint())
	}

	names, err := repo.ListDetectors()
	if err != nil {
		t.Fatalf("ListDetectors() error = %v", err)
	}
	if len(names) != 1 || names[0] != "dummy" {
		t.Errorf("ListDetectors() = %v, want [dummy]", names)
	}
}

func TestDetectorRepository_DefaultsExecutableToName(t *testing.T) {
	detector, err := ParseDetector("mudetect", []byte("version: \"1\"\n"))
	if err != nil {
		t.Fatalf("ParseDetector() error = %v", err)
	}
	if detector.Executable != "mudetect" {
		t.Errorf("Executable = %s, want mudetect", detector.Executable)
	}
}

func TestDetectorRepository_NotFound(t *testing.T) {
	repo := NewDetectorRepository(t.TempDir())
	if _, err := repo.GetDetector("missing"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("GetDetector() error = %v, want ErrNotFound", err)
	}
}
