package yaml

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/mubench/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// DetectorFile is the descriptor inside detectors/<name>/
const DetectorFile = "detector.yml"

type yamlDetector struct {
	Version    string      `yaml:"version"`
	Executable string      `yaml:"executable"`
	Args       []string    `yaml:"args"`
	Release    yamlRelease `yaml:"release"`
}

type yamlRelease struct {
	URL       string `yaml:"url"`
	MD5       string `yaml:"md5"`
	SHA256    string `yaml:"sha256"`
	Signature string `yaml:"signature"`
	Key       string `yaml:"key"`
}

// DetectorRepository loads detector descriptors from the detectors directory
type DetectorRepository struct {
	detectorsDir string
}

// NewDetectorRepository creates a new detector repository
func NewDetectorRepository(detectorsDir string) *DetectorRepository {
	return &DetectorRepository{detectorsDir: detectorsDir}
}

// ListDetectors returns the names of all available detectors
func (r *DetectorRepository) ListDetectors() ([]string, error) {
	entries, err := os.ReadDir(r.detectorsDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read detectors directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() && fileExists(filepath.Join(r.detectorsDir, entry.Name(), DetectorFile)) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// GetDetector loads the descriptor of the named detector
func (r *DetectorRepository) GetDetector(name string) (*entities.Detector, error) {
	path := filepath.Join(r.detectorsDir, name)
	filePath := filepath.Join(path, DetectorFile)

	//nolint:gosec // G304: filePath is a detector descriptor below the detectors directory
	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("detector %s: %w", name, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	detector, err := ParseDetector(name, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve detector path: %w", err)
	}
	detector.Path = absPath
	return detector, nil
}

// ParseDetector parses detector.yml bytes into a Detector entity
func ParseDetector(name string, data []byte) (*entities.Detector, error) {
	var raw yamlDetector
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	executable := raw.Executable
	if executable == "" {
		executable = name
	}

	return &entities.Detector{
		Name:       name,
		Version:    raw.Version,
		Executable: executable,
		Args:       raw.Args,
		Release: entities.DetectorRelease{
			URL:       raw.Release.URL,
			MD5:       raw.Release.MD5,
			SHA256:    raw.Release.SHA256,
			Signature: raw.Release.Signature,
			Key:       raw.Release.Key,
		},
	}, nil
}
