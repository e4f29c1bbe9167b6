package yaml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ochairo/mubench/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlRun represents the raw <task>.run.yml structure
type yamlRun struct {
	Result           string            `yaml:"result"`
	DetectorVersion  string            `yaml:"detector_version,omitempty"`
	ConfigHash       string            `yaml:"config_hash,omitempty"`
	StartedAt        time.Time         `yaml:"started_at"`
	Runtime          float64           `yaml:"runtime"`
	Message          string            `yaml:"message,omitempty"`
	TimedOut         bool              `yaml:"timed_out,omitempty"`
	NumberOfFindings int               `yaml:"number_of_findings"`
	RunInfo          map[string]string `yaml:"run_info,omitempty"`
}

// ArtifactCheck validates the output a task leaves in a version's run directory
type ArtifactCheck func(runDir string) error

// RunRepository stores run records below <root>/<project>/<version>/
type RunRepository struct {
	root   string
	checks map[string]ArtifactCheck
}

// NewRunRepository creates a run repository rooted at root
func NewRunRepository(root string) *RunRepository {
	return &RunRepository{
		root:   root,
		checks: make(map[string]ArtifactCheck),
	}
}

// WithArtifactCheck registers the validation of a task's output artifact.
// A stored success whose artifact fails the check is reported as not run.
func (r *RunRepository) WithArtifactCheck(task string, check ArtifactCheck) *RunRepository {
	r.checks[task] = check
	return r
}

// Root returns the directory the repository stores runs in
func (r *RunRepository) Root() string {
	return r.root
}

// RunDir returns the directory holding the version's artifacts
func (r *RunRepository) RunDir(version *entities.Version) string {
	return filepath.Join(r.root, version.Project.ID, version.ID)
}

func (r *RunRepository) runPath(version *entities.Version, task string) string {
	return filepath.Join(r.RunDir(version), task+".run.yml")
}

// GetRun loads the run of a task for a version
func (r *RunRepository) GetRun(_ context.Context, version *entities.Version, task string) (*entities.Run, error) {
	run := entities.NewRun(version.QualifiedID(), task)
	path := r.runPath(version, task)

	//nolint:gosec // G304: path is a run record below the run store root
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return run, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run %s: %w", path, err)
	}

	var raw yamlRun
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse run %s: %w", path, err)
	}

	result, err := entities.ParseResult(raw.Result)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", path, err)
	}

	run.Result = result
	run.DetectorVersion = raw.DetectorVersion
	run.ConfigHash = raw.ConfigHash
	run.StartedAt = raw.StartedAt
	run.Runtime = time.Duration(raw.Runtime * float64(time.Second))
	run.Message = raw.Message
	run.TimedOut = raw.TimedOut
	run.NumberOfFindings = raw.NumberOfFindings
	run.RunInfo = raw.RunInfo

	if run.IsSuccess() {
		if check, ok := r.checks[task]; ok {
			if err := check(r.RunDir(version)); err != nil {
				run.Result = entities.ResultNotRun
				run.Message = fmt.Sprintf("artifact invalid: %v", err)
			}
		}
	}

	return run, nil
}

// SaveRun persists a run, replacing the previous record
func (r *RunRepository) SaveRun(_ context.Context, version *entities.Version, run *entities.Run) error {
	raw := yamlRun{
		Result:           string(run.Result),
		DetectorVersion:  run.DetectorVersion,
		ConfigHash:       run.ConfigHash,
		StartedAt:        run.StartedAt.UTC(),
		Runtime:          run.Runtime.Seconds(),
		Message:          run.Message,
		TimedOut:         run.TimedOut,
		NumberOfFindings: run.NumberOfFindings,
		RunInfo:          run.RunInfo,
	}

	data, err := yaml.Marshal(&raw)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	path := r.runPath(version, run.Task)
	if err := writeFileAtomic(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write run %s: %w", path, err)
	}
	return nil
}
