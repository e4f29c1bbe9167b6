// Package entities defines core domain models and data structures.
package entities

import "path/filepath"

// Repository types supported by the checkout step
const (
	RepositoryGit       = "git"
	RepositorySVN       = "svn"
	RepositorySynthetic = "synthetic"
	RepositoryArchive   = "archive"
)

// Project represents one project of the benchmark dataset
type Project struct {
	ID         string
	Name       string
	Path       string // data/<project>
	Repository Repository
}

// Repository describes where a project's sources come from
type Repository struct {
	Type string // git, svn, synthetic, archive
	URL  string
}

// MisusesDir returns the directory holding the project's misuse descriptors
func (p *Project) MisusesDir() string {
	return filepath.Join(p.Path, "misuses")
}

// VersionsDir returns the directory holding the project's version descriptors
func (p *Project) VersionsDir() string {
	return filepath.Join(p.Path, "versions")
}

func (p *Project) String() string {
	return p.ID
}

// Version is a snapshot of a project identified by a revision
type Version struct {
	ID       string
	Project  *Project
	Path     string // data/<project>/versions/<version>
	Revision string
	Build    BuildConfig
	Misuses  []*Misuse
}

// BuildConfig describes how a version is compiled
type BuildConfig struct {
	Src      string
	Commands []string
	Classes  string
}

// QualifiedID returns the <project>.<version> identifier used for filtering
// and for keying run records
func (v *Version) QualifiedID() string {
	return v.Project.ID + "." + v.ID
}

// HasPatterns reports whether any misuse of the version ships precomputed patterns
func (v *Version) HasPatterns() bool {
	for _, m := range v.Misuses {
		if len(m.Patterns()) > 0 {
			return true
		}
	}
	return false
}

func (v *Version) String() string {
	return v.QualifiedID()
}
