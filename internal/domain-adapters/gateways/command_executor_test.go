package gateways

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCommandExecutor_ExecuteScript_Success(t *testing.T) {
	ce := NewCommandExecutor(nil)

	result := ce.ExecuteScript(context.Background(), "echo 'Hello, World!'", "", 0)

	if !result.Success {
		t.Errorf("ExecuteScript() failed: %v", result.Error)
	}
	if result.ExitCode != 0 {
		t.Errorf("ExecuteScript() exit code = %d, want 0", result.ExitCode)
	}
	if result.Stdout != "Hello, World!\n" {
		t.Errorf("ExecuteScript() stdout = %q, want %q", result.Stdout, "Hello, World!\n")
	}
}

func TestCommandExecutor_ExecuteScript_Failure(t *testing.T) {
	ce := NewCommandExecutor(nil)

	result := ce.ExecuteScript(context.Background(), "exit 42", "", 0)

	if result.Success {
		t.Error("ExecuteScript() should have failed")
	}
	if result.ExitCode != 42 {
		t.Errorf("ExecuteScript() exit code = %d, want 42", result.ExitCode)
	}
	if result.TimedOut {
		t.Error("ExecuteScript() should not report a timeout")
	}
	if result.Failure("build") == nil {
		t.Error("Failure() should return an error for a failed result")
	}
}

func TestCommandExecutor_Execute_WithEnvironment(t *testing.T) {
	ce := NewCommandExecutor(nil)

	result := ce.Execute(context.Background(), CommandConfig{
		Name: "/bin/sh",
		Args: []string{"-c", "echo $TEST_VAR"},
		Env:  map[string]string{"TEST_VAR": "test_value"},
	})

	if !result.Success {
		t.Errorf("Execute() failed: %v", result.Error)
	}
	if result.Stdout != "test_value\n" {
		t.Errorf("Execute() stdout = %q, want %q", result.Stdout, "test_value\n")
	}
}

func TestCommandExecutor_Execute_Timeout(t *testing.T) {
	ce := NewCommandExecutor(nil)

	result := ce.ExecuteScript(context.Background(), "sleep 5", "", 100*time.Millisecond)

	if result.Success {
		t.Error("ExecuteScript() should have timed out")
	}
	if !result.TimedOut {
		t.Error("ExecuteScript() should report TimedOut")
	}
	if result.Duration > 4*time.Second {
		t.Errorf("ExecuteScript() took %v, the timeout was not enforced", result.Duration)
	}
}

func TestCommandExecutor_Execute_WorkingDirectory(t *testing.T) {
	ce := NewCommandExecutor(nil)
	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("content"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	result := ce.ExecuteScript(context.Background(), "ls test.txt", tempDir, 0)

	if !result.Success {
		t.Errorf("ExecuteScript() failed: %v", result.Error)
	}
	if result.Stdout != "test.txt\n" {
		t.Errorf("ExecuteScript() stdout = %q, want %q", result.Stdout, "test.txt\n")
	}
}

func TestCommandExecutor_Execute_MissingBinary(t *testing.T) {
	ce := NewCommandExecutor(nil)

	result := ce.Execute(context.Background(), CommandConfig{Name: "/nonexistent/binary"})

	if result.Success {
		t.Error("Execute() should fail for a missing binary")
	}
	if result.ExitCode != -1 {
		t.Errorf("Execute() exit code = %d, want -1", result.ExitCode)
	}
}
