package yaml

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirectoryArtifact checks that runDir/name is a non-empty directory
func DirectoryArtifact(name string) ArtifactCheck {
	return func(runDir string) error {
		dir := filepath.Join(runDir, name)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("%s is empty", dir)
		}
		return nil
	}
}

// FindingsArtifact checks that the run directory holds a parsable findings file
func FindingsArtifact(store *FindingsStore) ArtifactCheck {
	return func(runDir string) error {
		_, err := store.ReadFindings(store.FindingsPath(runDir))
		return err
	}
}
