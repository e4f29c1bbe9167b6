package gateways

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileFixture(t *testing.T, commands []string) (*entities.Version, string) {
	t.Helper()
	tmp := t.TempDir()
	checkout := filepath.Join(tmp, "checkout")
	require.NoError(t, os.MkdirAll(filepath.Join(checkout, "src", "acl"), 0750))
	createFile(t, filepath.Join(checkout, "src", "acl", "ACLParser.java"), "class ACLParser {}")

	project := &entities.Project{ID: "aclang", Path: filepath.Join(tmp, "data", "aclang")}
	misusePath := filepath.Join(project.MisusesDir(), "1")
	require.NoError(t, os.MkdirAll(filepath.Join(misusePath, "patterns"), 0750))
	createFile(t, filepath.Join(misusePath, "patterns", "Pattern.java"), "class Pattern {}")

	version := &entities.Version{
		ID:      "587",
		Project: project,
		Build: entities.BuildConfig{
			Src:      "src",
			Commands: commands,
			Classes:  "classes",
		},
		Misuses: []*entities.Misuse{entities.NewMisuse("1", project, misusePath, []string{"Pattern.java"}, nil)},
	}
	return version, checkout
}

func TestProjectCompiler_Build(t *testing.T) {
	version, checkout := compileFixture(t, []string{"mkdir -p classes/acl", "touch classes/acl/ACLParser.class"})
	buildDir := filepath.Join(filepath.Dir(checkout), "build")

	compiler := NewProjectCompiler(NewCommandExecutor(nil), 3, nil)
	require.NoError(t, compiler.Build(context.Background(), version, checkout, buildDir))

	assert.FileExists(t, filepath.Join(buildDir, entities.BuildSrcDir, "acl", "ACLParser.java"))
	assert.FileExists(t, filepath.Join(buildDir, entities.BuildClassesDir, "acl", "ACLParser.class"))
	for _, copyDir := range []string{"0", "1", "2"} {
		assert.FileExists(t, filepath.Join(buildDir, entities.BuildPatternsDir, "1", copyDir, "Pattern.java"))
	}
	assert.NoDirExists(t, filepath.Join(buildDir, entities.BuildPatternsDir, "1", "3"))
}

func TestProjectCompiler_BuildFailureRemovesOutput(t *testing.T) {
	version, checkout := compileFixture(t, []string{"exit 1"})
	buildDir := filepath.Join(filepath.Dir(checkout), "build")

	compiler := NewProjectCompiler(NewCommandExecutor(nil), 1, nil)
	err := compiler.Build(context.Background(), version, checkout, buildDir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "build step 1")
	assert.NoDirExists(t, buildDir)
}

func TestProjectCompiler_MissingClassesIsError(t *testing.T) {
	version, checkout := compileFixture(t, nil)
	buildDir := filepath.Join(filepath.Dir(checkout), "build")

	compiler := NewProjectCompiler(NewCommandExecutor(nil), 1, nil)
	assert.Error(t, compiler.Build(context.Background(), version, checkout, buildDir))
}
