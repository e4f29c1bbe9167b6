// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/mubench/internal/domain/entities"
)

// DatasetRepository defines the interface for accessing the benchmark dataset
type DatasetRepository interface {
	// ListProjects returns all projects, sorted by id. Projects that cannot
	// be read are reported as entities.LoadErrors next to the others.
	ListProjects(ctx context.Context) ([]*entities.Project, error)

	// ListVersions returns the versions of a project, sorted by id.
	// Versions that cannot be read are reported as entities.LoadErrors.
	ListVersions(ctx context.Context, project *entities.Project) ([]*entities.Version, error)

	// GetProject retrieves a project by id
	GetProject(ctx context.Context, id string) (*entities.Project, error)
}
