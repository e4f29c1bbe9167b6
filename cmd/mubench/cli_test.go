package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ochairo/mubench/internal/config"
	zapadapter "github.com/ochairo/mubench/internal/external-adapters/zap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const fakeDetectorScript = `#!/bin/sh
echo run >> calls.log
while [ $# -gt 0 ]; do
  if [ "$1" = "target" ]; then
    printf '[]\n' > "$2"
  fi
  shift
done
exit ${FAKE_EXIT:-0}
`

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
}

// setupWorkspace points the global config at a temp workspace holding a
// synthetic one-misuse project and a fake detector
func setupWorkspace(t *testing.T) string {
	t.Helper()
	ws := t.TempDir()

	logger = zapadapter.Wrap(zap.NewNop())
	cfg = config.Default()
	cfg.DataDir = filepath.Join(ws, "data")
	cfg.CheckoutsDir = filepath.Join(ws, "checkouts")
	cfg.ResultsDir = filepath.Join(ws, "results")
	cfg.DetectorsDir = filepath.Join(ws, "detectors")
	cfg.LogFile = ""
	cfg.RequiredTools = []string{"sh"}
	t.Cleanup(func() { cfg = config.Default() })

	writeFile(t, filepath.Join(cfg.DataDir, "aclang", "project.yml"), `name: AC Language
repository:
  type: synthetic
`, 0600)
	writeFile(t, filepath.Join(cfg.DataDir, "aclang", "versions", "587", "version.yml"), `revision: "587"
misuses:
  - "1"
build:
  src: src
  classes: classes
`, 0600)
	writeFile(t, filepath.Join(cfg.DataDir, "aclang", "misuses", "1", "misuse.yml"), `description: Iterator.next() is called without hasNext() check.
location:
  file: acl/ACLParser.java
  method: parse(String)
violation_types:
  - missing/condition/value_or_state
`, 0600)
	writeFile(t, filepath.Join(cfg.DataDir, "aclang", "src", "src", "acl", "ACLParser.java"),
		"class ACLParser {\n  void parse(String s) {\n    it.next();\n  }\n}\n", 0600)
	writeFile(t, filepath.Join(cfg.DataDir, "aclang", "src", "classes", "acl", "ACLParser.class"), "cafebabe", 0600)

	writeFile(t, filepath.Join(cfg.DetectorsDir, "fake", "detector.yml"), "version: \"1.0\"\nexecutable: run.sh\n", 0600)
	writeFile(t, filepath.Join(cfg.DetectorsDir, "fake", "run.sh"), fakeDetectorScript, 0755) //nolint:gosec // test detector must be executable

	return ws
}

func detectorCalls(t *testing.T) int {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.DetectorsDir, "fake", "calls.log"))
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return strings.Count(string(data), "run\n")
}

func TestCheck(t *testing.T) {
	setupWorkspace(t)
	var out bytes.Buffer

	require.NoError(t, runPipeline(context.Background(), &out, stageCheck, "", &pipelineOptions{skip: []string{""}}))
	assert.Contains(t, out.String(), "✅ Done")
	assert.NoDirExists(t, cfg.CheckoutsDir, "check must not process versions")

	cfg.RequiredTools = []string{"sh", "definitely-not-a-real-tool"}
	err := runPipeline(context.Background(), &out, stageCheck, "", &pipelineOptions{skip: []string{""}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-real-tool")
}

func TestEval_ZeroFindingsIsMiss(t *testing.T) {
	setupWorkspace(t)
	var out bytes.Buffer

	require.NoError(t, runPipeline(context.Background(), &out, stageEvaluate, "fake", &pipelineOptions{}))

	result, err := os.ReadFile(filepath.Join(cfg.ResultsDir, "fake", "result.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(result), "fake,aclang,587,1,miss,0,")
	assert.FileExists(t, filepath.Join(cfg.CheckoutsDir, "aclang", "587", "checkout", "src", "acl", "ACLParser.java"))
	assert.FileExists(t, filepath.Join(cfg.CheckoutsDir, "aclang", "587", "build", "classes", "acl", "ACLParser.class"))
	assert.Equal(t, 1, detectorCalls(t))

	// A second run reuses every cached step but still evaluates the version
	out.Reset()
	require.NoError(t, runPipeline(context.Background(), &out, stageEvaluate, "fake", &pipelineOptions{}))
	assert.Equal(t, 1, detectorCalls(t))
	result, err = os.ReadFile(filepath.Join(cfg.ResultsDir, "fake", "result.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(result), "fake,aclang,587,1,miss,0,")

	// Forcing detection runs the detector again
	require.NoError(t, runPipeline(context.Background(), &out, stageDetect, "fake", &pipelineOptions{forceDetect: true}))
	assert.Equal(t, 2, detectorCalls(t))
}

func TestDetect_FailureExitsNonZero(t *testing.T) {
	setupWorkspace(t)
	t.Setenv("FAKE_EXIT", "3")
	var out bytes.Buffer

	err := runPipeline(context.Background(), &out, stageDetect, "fake", &pipelineOptions{})

	assert.ErrorIs(t, err, errVersionsFailed)
	assert.Contains(t, out.String(), "❌ aclang.587 [detect]")
}

func TestCheckout_UnreadableVersionExitsNonZero(t *testing.T) {
	setupWorkspace(t)
	writeFile(t, filepath.Join(cfg.DataDir, "aclang", "versions", "600", "version.yml"), "misuses: [unclosed\n", 0600)
	var out bytes.Buffer

	err := runPipeline(context.Background(), &out, stageCheckout, "", &pipelineOptions{})

	assert.ErrorIs(t, err, errVersionsFailed)
	assert.Contains(t, out.String(), "❌ aclang.600 [load]")
	assert.FileExists(t, filepath.Join(cfg.CheckoutsDir, "aclang", "587", "checkout", "src", "acl", "ACLParser.java"))
}

func TestDetect_UnknownDetector(t *testing.T) {
	setupWorkspace(t)

	err := runPipeline(context.Background(), &bytes.Buffer{}, stageDetect, "missing", &pipelineOptions{})
	assert.Error(t, err)
}

func TestDetect_SkipFiltersEverything(t *testing.T) {
	setupWorkspace(t)
	var out bytes.Buffer

	require.NoError(t, runPipeline(context.Background(), &out, stageDetect, "fake", &pipelineOptions{skip: []string{"aclang"}}))
	assert.Equal(t, 0, detectorCalls(t))
	assert.Contains(t, out.String(), "Processed 0 version(s)")
}

func TestHistoryAndVisualize(t *testing.T) {
	setupWorkspace(t)
	require.NoError(t, runPipeline(context.Background(), &bytes.Buffer{}, stageEvaluate, "fake", &pipelineOptions{}))

	var out bytes.Buffer
	historyCmd.SetContext(context.Background())
	historyCmd.SetOut(&out)
	historyDetector = "fake"
	t.Cleanup(func() { historyDetector = "" })

	require.NoError(t, historyCmd.RunE(historyCmd, nil))
	for _, task := range []string{"checkout", "compile", "detect", "eval"} {
		assert.Contains(t, out.String(), task)
	}

	out.Reset()
	visualizeCmd.SetContext(context.Background())
	visualizeCmd.SetOut(&out)
	require.NoError(t, visualizeCmd.RunE(visualizeCmd, nil))

	scores, err := os.ReadFile(filepath.Join(cfg.ResultsDir, "result.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(scores), "fake,1,0,1,0,0,0.0000")
	assert.Contains(t, out.String(), "fake")
}

func TestRootCmd_LoadsConfigAndFlags(t *testing.T) {
	ws := setupWorkspace(t)
	configFile := filepath.Join(ws, "mubench.yml")
	writeFile(t, configFile, "required_tools: [sh]\ndata: /nonexistent\n", 0600)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"--config", configFile,
		"--data", cfg.DataDir,
		"--log-file", filepath.Join(ws, "logs", "out.log"),
		"check",
	})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "✅ Done")
	assert.Equal(t, []string{"sh"}, cfg.RequiredTools)
	assert.Equal(t, filepath.Join(ws, "data"), cfg.DataDir, "flag must win over the config file")
	assert.FileExists(t, filepath.Join(ws, "logs", "out.log"))
}
