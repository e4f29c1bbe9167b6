package entities

import (
	"errors"
	"testing"
)

func TestMisuse_MetaLoadedOnce(t *testing.T) {
	calls := 0
	loader := func(path string) (*MisuseMeta, error) {
		calls++
		if path != "data/aclang/misuses/1/misuse.yml" {
			t.Errorf("loader path = %q", path)
		}
		return &MisuseMeta{Description: "parser not closed"}, nil
	}

	m := NewMisuse("1", &Project{ID: "aclang"}, "data/aclang/misuses/1", nil, loader)
	for i := 0; i < 3; i++ {
		meta, err := m.Meta()
		if err != nil || meta.Description != "parser not closed" {
			t.Fatalf("Meta() = %+v, %v", meta, err)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
	if m.QualifiedID() != "aclang.1" {
		t.Errorf("QualifiedID() = %q", m.QualifiedID())
	}
}

func TestMisuse_MetaErrorCached(t *testing.T) {
	calls := 0
	m := NewMisuse("1", &Project{ID: "aclang"}, "x", nil, func(string) (*MisuseMeta, error) {
		calls++
		return nil, errors.New("broken yaml")
	})

	_, err1 := m.Meta()
	_, err2 := m.Meta()
	if err1 == nil || err2 == nil || calls != 1 {
		t.Errorf("Meta() errors = %v, %v after %d loads", err1, err2, calls)
	}
}

func TestFinding_Matches(t *testing.T) {
	loc := Location{File: "acl/ACLParser.java", Method: "parse(String)"}

	tests := []struct {
		name    string
		finding Finding
		want    bool
	}{
		{"same file and method", Finding{File: "acl/ACLParser.java", Method: "parse(java.lang.String)"}, true},
		{"absolute finding path", Finding{File: "/build/src/acl/ACLParser.java", Method: "parse"}, true},
		{"windows separators", Finding{File: `src\acl\ACLParser.java`, Method: "parse"}, true},
		{"other method", Finding{File: "acl/ACLParser.java", Method: "close()"}, false},
		{"partial file name", Finding{File: "xacl/ACLParser.java", Method: "parse"}, false},
		{"no file", Finding{Method: "parse"}, false},
	}

	for _, tt := range tests {
		if got := tt.finding.Matches(loc); got != tt.want {
			t.Errorf("%s: Matches() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
