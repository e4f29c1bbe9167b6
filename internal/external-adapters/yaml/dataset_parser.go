// Package yaml provides YAML-based dataset, detector and run record adapters.
package yaml

import (
	"fmt"
	"os"
	"strings"

	"github.com/ochairo/mubench/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlProject represents the raw project.yml structure
type yamlProject struct {
	Name       string         `yaml:"name"`
	Repository yamlRepository `yaml:"repository"`
}

type yamlRepository struct {
	Type string `yaml:"type"`
	URL  string `yaml:"url"`
}

// yamlVersion represents the raw version.yml structure
type yamlVersion struct {
	Revision string    `yaml:"revision"`
	Misuses  []string  `yaml:"misuses"`
	Build    yamlBuild `yaml:"build"`
}

type yamlBuild struct {
	Src      string   `yaml:"src"`
	Commands []string `yaml:"commands"`
	Classes  string   `yaml:"classes"`
}

// yamlMisuse represents the raw misuse.yml structure
type yamlMisuse struct {
	Description     string       `yaml:"description"`
	Location        yamlLocation `yaml:"location"`
	Fix             yamlFix      `yaml:"fix"`
	ViolationTypes  []string     `yaml:"violation_types"`
	API             []string     `yaml:"api"`
	Characteristics []string     `yaml:"characteristics"`
	Crash           bool         `yaml:"crash"`
	Source          yamlSource   `yaml:"source"`
}

type yamlLocation struct {
	File   string `yaml:"file"`
	Method string `yaml:"method"`
}

type yamlFix struct {
	Description string `yaml:"description"`
	DiffURL     string `yaml:"diff-url"`
	Revision    string `yaml:"revision"`
}

type yamlSource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// DatasetParser parses the dataset descriptor files
type DatasetParser struct{}

// NewDatasetParser creates a new dataset parser
func NewDatasetParser() *DatasetParser {
	return &DatasetParser{}
}

// ParseProject parses project.yml bytes into a Project entity
func (p *DatasetParser) ParseProject(id string, data []byte) (*entities.Project, error) {
	var raw yamlProject
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	repoType := strings.ToLower(strings.TrimSpace(raw.Repository.Type))
	switch repoType {
	case entities.RepositoryGit, entities.RepositorySVN, entities.RepositorySynthetic, entities.RepositoryArchive:
	case "":
		return nil, fmt.Errorf("project %s must declare a repository type", id)
	default:
		return nil, fmt.Errorf("project %s has unsupported repository type %q", id, raw.Repository.Type)
	}

	name := raw.Name
	if name == "" {
		name = id
	}

	return &entities.Project{
		ID:   id,
		Name: name,
		Repository: entities.Repository{
			Type: repoType,
			URL:  raw.Repository.URL,
		},
	}, nil
}

// ParseVersion parses version.yml bytes. Misuses are returned by id and
// resolved by the repository.
func (p *DatasetParser) ParseVersion(id string, data []byte) (*entities.Version, []string, error) {
	var raw yamlVersion
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	v := &entities.Version{
		ID:       id,
		Revision: raw.Revision,
		Build: entities.BuildConfig{
			Src:      raw.Build.Src,
			Commands: raw.Build.Commands,
			Classes:  raw.Build.Classes,
		},
	}
	return v, raw.Misuses, nil
}

// ParseMisuseMeta parses misuse.yml bytes into misuse metadata
func (p *DatasetParser) ParseMisuseMeta(data []byte) (*entities.MisuseMeta, error) {
	var raw yamlMisuse
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &entities.MisuseMeta{
		Description: raw.Description,
		Location: entities.Location{
			File:   raw.Location.File,
			Method: raw.Location.Method,
		},
		Fix: entities.Fix{
			Description: raw.Fix.Description,
			DiffURL:     raw.Fix.DiffURL,
			Revision:    raw.Fix.Revision,
		},
		ViolationTypes:  raw.ViolationTypes,
		API:             raw.API,
		Characteristics: raw.Characteristics,
		Crash:           raw.Crash,
		Source: entities.Source{
			Name: raw.Source.Name,
			URL:  raw.Source.URL,
		},
	}, nil
}

// LoadMisuseMeta reads and parses a misuse descriptor file.
// It satisfies entities.MetaLoader.
func (p *DatasetParser) LoadMisuseMeta(path string) (*entities.MisuseMeta, error) {
	//nolint:gosec // G304: path is a misuse descriptor below the dataset directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return p.ParseMisuseMeta(data)
}
