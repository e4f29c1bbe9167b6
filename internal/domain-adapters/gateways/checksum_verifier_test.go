package gateways

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ochairo/mubench/internal/domain/entities"
)

const (
	emptyFileMD5    = "d41d8cd98f00b204e9800998ecf8427e"
	emptyFileSHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

func createFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func TestVerifyChecksum(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "-somefile-")
	verifier := NewChecksumVerifier()
	ctx := context.Background()

	t.Run("invalid if not exists", func(t *testing.T) {
		if err := verifier.VerifyChecksum(ctx, file, ""); err == nil {
			t.Error("VerifyChecksum() should fail for a missing file")
		}
	})

	createFile(t, file, "")

	t.Run("valid if exists", func(t *testing.T) {
		if err := verifier.VerifyChecksum(ctx, file, ""); err != nil {
			t.Errorf("VerifyChecksum() error = %v", err)
		}
	})

	t.Run("invalid if md5 mismatch", func(t *testing.T) {
		err := verifier.VerifyChecksum(ctx, file, "00000000000000000000000000000000")
		if !errors.Is(err, entities.ErrChecksumMismatch) {
			t.Errorf("VerifyChecksum() error = %v, want ErrChecksumMismatch", err)
		}
	})

	t.Run("invalid if checksum is garbage", func(t *testing.T) {
		err := verifier.VerifyChecksum(ctx, file, ":wrong-md5:")
		if !errors.Is(err, entities.ErrChecksumMismatch) {
			t.Errorf("VerifyChecksum() error = %v, want ErrChecksumMismatch", err)
		}
	})

	t.Run("valid by md5", func(t *testing.T) {
		if err := verifier.VerifyChecksum(ctx, file, emptyFileMD5); err != nil {
			t.Errorf("VerifyChecksum() error = %v", err)
		}
	})

	t.Run("valid by sha256", func(t *testing.T) {
		if err := verifier.VerifyChecksum(ctx, file, emptyFileSHA256); err != nil {
			t.Errorf("VerifyChecksum() error = %v", err)
		}
	})

	t.Run("valid by md5 file", func(t *testing.T) {
		md5File := filepath.Join(tmpDir, "my.md5")
		createFile(t, md5File, emptyFileMD5+"  -somefile-\n")
		if err := verifier.VerifyChecksum(ctx, file, md5File); err != nil {
			t.Errorf("VerifyChecksum() error = %v", err)
		}
	})
}

func TestCalculateChecksum(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantChecksum string
	}{
		{
			name:         "empty file",
			content:      "",
			wantChecksum: emptyFileSHA256,
		},
		{
			name:         "simple content",
			content:      "Hello, World!",
			wantChecksum: "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f",
		},
	}

	verifier := NewChecksumVerifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "file")
			createFile(t, path, tt.content)

			got, err := verifier.CalculateChecksum(path)
			if err != nil {
				t.Fatalf("CalculateChecksum() error = %v", err)
			}
			if got != tt.wantChecksum {
				t.Errorf("CalculateChecksum() = %s, want %s", got, tt.wantChecksum)
			}
		})
	}

	path := filepath.Join(t.TempDir(), "empty")
	createFile(t, path, "")
	if sum, err := verifier.CalculateMD5(path); err != nil || sum != emptyFileMD5 {
		t.Errorf("CalculateMD5() = %s, %v; want %s", sum, err, emptyFileMD5)
	}
}
