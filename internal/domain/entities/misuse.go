package entities

import (
	"path/filepath"
	"strings"
	"sync"
)

// MisuseMetaFile is the descriptor file name inside a misuse directory
const MisuseMetaFile = "misuse.yml"

// MetaLoader reads the metadata descriptor at the given path
type MetaLoader func(path string) (*MisuseMeta, error)

// Misuse is a labeled ground-truth API-misuse instance.
// Its metadata is read from the sidecar descriptor on first access and
// cached afterwards, including a failed read.
type Misuse struct {
	ID       string
	Project  *Project
	Path     string // data/<project>/misuses/<misuse>
	patterns []string

	loader  MetaLoader
	once    sync.Once
	meta    *MisuseMeta
	metaErr error
}

// NewMisuse creates a misuse whose metadata is loaded through loader
func NewMisuse(id string, project *Project, path string, patterns []string, loader MetaLoader) *Misuse {
	return &Misuse{
		ID:       id,
		Project:  project,
		Path:     path,
		patterns: patterns,
		loader:   loader,
	}
}

// MisuseMeta holds the descriptive metadata of a misuse
type MisuseMeta struct {
	Description     string
	Location        Location
	Fix             Fix
	ViolationTypes  []string
	API             []string
	Characteristics []string
	Crash           bool
	Source          Source
}

// Location identifies the misused code
type Location struct {
	File   string
	Method string
}

// Fix describes how a misuse was repaired upstream
type Fix struct {
	Description string
	DiffURL     string
	Revision    string
}

// Source names the origin of a misuse report
type Source struct {
	Name string
	URL  string
}

// MetaFile returns the path of the misuse's descriptor
func (m *Misuse) MetaFile() string {
	return filepath.Join(m.Path, MisuseMetaFile)
}

// Meta returns the misuse metadata, loading it at most once
func (m *Misuse) Meta() (*MisuseMeta, error) {
	m.once.Do(func() {
		m.meta, m.metaErr = m.loader(m.MetaFile())
	})
	return m.meta, m.metaErr
}

// Patterns returns the precomputed pattern files of the misuse, relative to
// its patterns directory
func (m *Misuse) Patterns() []string {
	return m.patterns
}

// PatternsDir returns the directory holding the misuse's patterns
func (m *Misuse) PatternsDir() string {
	return filepath.Join(m.Path, "patterns")
}

// QualifiedID returns the <project>.<misuse> identifier
func (m *Misuse) QualifiedID() string {
	return m.Project.ID + "." + m.ID
}

func (m *Misuse) String() string {
	return m.QualifiedID()
}

// MethodName strips the parameter list from a method signature,
// e.g. "read(InputStream)" becomes "read"
func MethodName(signature string) string {
	name := strings.TrimSpace(signature)
	if i := strings.Index(name, "("); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
