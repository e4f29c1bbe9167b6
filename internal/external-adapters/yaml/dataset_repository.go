package yaml

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces"
)

const (
	projectFile = "project.yml"
	versionFile = "version.yml"
)

// DatasetRepository implements repositories.DatasetRepository on top of the
// data/<project>/... descriptor tree
type DatasetRepository struct {
	dataDir string
	parser  *DatasetParser
	logger  interfaces.Logger
}

// NewDatasetRepository creates a new YAML-based dataset repository
func NewDatasetRepository(dataDir string, logger interfaces.Logger) *DatasetRepository {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &DatasetRepository{
		dataDir: dataDir,
		parser:  NewDatasetParser(),
		logger:  logger,
	}
}

// GetProject retrieves a project by id
func (r *DatasetRepository) GetProject(_ context.Context, id string) (*entities.Project, error) {
	path := filepath.Join(r.dataDir, id)
	filePath := filepath.Join(path, projectFile)

	//nolint:gosec // G304: filePath is a project descriptor below the dataset directory
	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("project %s: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	project, err := r.parser.ParseProject(id, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	project.Path = path
	return project, nil
}

// ListProjects returns all projects of the dataset
func (r *DatasetRepository) ListProjects(ctx context.Context) ([]*entities.Project, error) {
	entries, err := os.ReadDir(r.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	projects := make([]*entities.Project, 0, len(entries))
	var loadErrs entities.LoadErrors
	for _, entry := range entries {
		if !entry.IsDir() || !fileExists(filepath.Join(r.dataDir, entry.Name(), projectFile)) {
			continue
		}

		project, err := r.GetProject(ctx, entry.Name())
		if err != nil {
			r.logger.Warn("unreadable project", interfaces.F("project", entry.Name()), interfaces.Err(err))
			loadErrs = append(loadErrs, &entities.LoadError{ID: entry.Name(), Err: err})
			continue
		}
		projects = append(projects, project)
	}

	if len(loadErrs) > 0 {
		return projects, loadErrs
	}
	return projects, nil
}

// ListVersions returns the versions of a project with their misuses resolved
func (r *DatasetRepository) ListVersions(_ context.Context, project *entities.Project) ([]*entities.Version, error) {
	entries, err := os.ReadDir(project.VersionsDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read versions of %s: %w", project.ID, err)
	}

	versions := make([]*entities.Version, 0, len(entries))
	var loadErrs entities.LoadErrors
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		version, err := r.loadVersion(project, entry.Name())
		if err != nil {
			r.logger.Warn("unreadable version",
				interfaces.F("project", project.ID), interfaces.F("version", entry.Name()), interfaces.Err(err))
			loadErrs = append(loadErrs, &entities.LoadError{ID: project.ID + "." + entry.Name(), Err: err})
			continue
		}
		versions = append(versions, version)
	}

	if len(loadErrs) > 0 {
		return versions, loadErrs
	}
	return versions, nil
}

func (r *DatasetRepository) loadVersion(project *entities.Project, id string) (*entities.Version, error) {
	path := filepath.Join(project.VersionsDir(), id)
	filePath := filepath.Join(path, versionFile)

	//nolint:gosec // G304: filePath is a version descriptor below the dataset directory
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	version, misuseIDs, err := r.parser.ParseVersion(id, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	version.Project = project
	version.Path = path

	for _, misuseID := range misuseIDs {
		misuse, err := r.loadMisuse(project, misuseID)
		if err != nil {
			return nil, err
		}
		version.Misuses = append(version.Misuses, misuse)
	}

	return version, nil
}

func (r *DatasetRepository) loadMisuse(project *entities.Project, id string) (*entities.Misuse, error) {
	path := filepath.Join(project.MisusesDir(), id)
	if !fileExists(filepath.Join(path, entities.MisuseMetaFile)) {
		return nil, fmt.Errorf("misuse %s.%s: %w", project.ID, id, entities.ErrNotFound)
	}

	patterns, err := listPatterns(filepath.Join(path, "patterns"))
	if err != nil {
		return nil, fmt.Errorf("misuse %s.%s: %w", project.ID, id, err)
	}

	return entities.NewMisuse(id, project, path, patterns, r.parser.LoadMisuseMeta), nil
}

// listPatterns returns the files below dir relative to it, sorted
func listPatterns(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var patterns []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		patterns = append(patterns, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}

	sort.Strings(patterns)
	return patterns, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
