package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ochairo/mubench/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// FindingsFile is the file a detector writes its findings to
const FindingsFile = "findings.yml"

// RunInfoFile is the optional file a detector writes run statistics to
const RunInfoFile = "run-info.yml"

// FindingsStore reads and writes findings files
type FindingsStore struct{}

// NewFindingsStore creates a new findings store
func NewFindingsStore() *FindingsStore {
	return &FindingsStore{}
}

// FindingsPath returns the findings file of a run directory
func (s *FindingsStore) FindingsPath(runDir string) string {
	return filepath.Join(runDir, FindingsFile)
}

// RunInfoPath returns the run-info file of a run directory
func (s *FindingsStore) RunInfoPath(runDir string) string {
	return filepath.Join(runDir, RunInfoFile)
}

// Reset prepares runDir for a new detector run by removing the outputs of
// the previous one
func (s *FindingsStore) Reset(runDir string) error {
	if err := os.MkdirAll(runDir, 0750); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}
	for _, path := range []string{s.FindingsPath(runDir), s.RunInfoPath(runDir)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

// ReadFindings parses a findings file. The file holds either a sequence of
// findings or a stream of finding documents; an empty file has no findings.
func (s *FindingsStore) ReadFindings(path string) ([]entities.Finding, error) {
	//nolint:gosec // G304: path is a findings file below the results directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read findings %s: %w", path, err)
	}
	return s.ParseFindings(data)
}

// ParseFindings parses findings from YAML bytes
func (s *FindingsStore) ParseFindings(data []byte) ([]entities.Finding, error) {
	findings := make([]entities.Finding, 0)
	dec := yaml.NewDecoder(bytes.NewReader(data))

	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entities.ErrMalformedFindings, err)
		}

		var docs []map[string]interface{}
		content := &node
		if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
			content = node.Content[0]
		}

		switch content.Kind {
		case yaml.SequenceNode:
			if err := content.Decode(&docs); err != nil {
				return nil, fmt.Errorf("%w: %v", entities.ErrMalformedFindings, err)
			}
		case yaml.MappingNode:
			var doc map[string]interface{}
			if err := content.Decode(&doc); err != nil {
				return nil, fmt.Errorf("%w: %v", entities.ErrMalformedFindings, err)
			}
			docs = append(docs, doc)
		case yaml.ScalarNode:
			// "[]" style empty documents and null scalars carry no findings
			if content.Tag != "!!null" && content.Value != "" {
				return nil, fmt.Errorf("%w: unexpected scalar %q", entities.ErrMalformedFindings, content.Value)
			}
		case 0:
			// empty document
		default:
			return nil, fmt.Errorf("%w: unexpected node kind %d", entities.ErrMalformedFindings, content.Kind)
		}

		for _, doc := range docs {
			findings = append(findings, convertFinding(doc, len(findings)+1))
		}
	}

	return findings, nil
}

// WriteFindings writes findings as a YAML sequence
func (s *FindingsStore) WriteFindings(path string, findings []entities.Finding) error {
	docs := make([]map[string]interface{}, 0, len(findings))
	for _, f := range findings {
		doc := make(map[string]interface{}, len(f.Extra)+4)
		for k, v := range f.Extra {
			doc[k] = v
		}
		doc["rank"] = f.Rank
		doc["file"] = f.File
		doc["method"] = f.Method
		if f.Description != "" {
			doc["description"] = f.Description
		}
		docs = append(docs, doc)
	}

	data, err := yaml.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to marshal findings: %w", err)
	}
	if err := writeFileAtomic(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write findings %s: %w", path, err)
	}
	return nil
}

// ReadRunInfo parses the optional run-info file a detector may write.
// A missing file yields no info.
func (s *FindingsStore) ReadRunInfo(path string) (map[string]string, error) {
	//nolint:gosec // G304: path is a run-info file below the results directory
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run info %s: %w", path, err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse run info %s: %w", path, err)
	}

	info := make(map[string]string, len(raw))
	for k, v := range raw {
		info[k] = stringify(v)
	}
	return info, nil
}

func convertFinding(doc map[string]interface{}, defaultRank int) entities.Finding {
	f := entities.Finding{Rank: defaultRank}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := doc[k]
		switch k {
		case "rank":
			if rank, err := strconv.Atoi(stringify(v)); err == nil {
				f.Rank = rank
			}
		case "file":
			f.File = stringify(v)
		case "method":
			f.Method = stringify(v)
		case "description":
			f.Description = stringify(v)
		default:
			if f.Extra == nil {
				f.Extra = make(map[string]string)
			}
			f.Extra[k] = stringify(v)
		}
	}
	return f
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
