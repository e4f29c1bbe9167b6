package yaml

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates parent directories and writes content to dir/rel
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

// writeDataset creates a one-project dataset with a single version and misuse
func writeDataset(t *testing.T) string {
	t.Helper()
	dataDir := t.TempDir()

	writeFile(t, dataDir, "aclang/project.yml", `name: AC Language
repository:
  type: git
  url: https://example.com/aclang.git
`)
	writeFile(t, dataDir, "aclang/versions/587/version.yml", `revision: 587
misuses:
  - "1"
build:
  src: src/
  commands:
    - mvn compile
  classes: target/classes/
`)
	writeFile(t, dataDir, "aclang/misuses/1/misuse.yml", `description: Iterator.next() is called without hasNext() check.
location:
  file: acl/ACLParser.java
  method: parse(String)
fix:
  description: Check hasNext() first.
  diff-url: https://example.com/commit/42
violation_types:
  - missing/condition/value_or_state
api:
  - java.util.Iterator
`)
	writeFile(t, dataDir, "aclang/misuses/1/patterns/IteratorPattern.java", "class IteratorPattern {}\n")
	return dataDir
}
