package gateways

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces"
)

// ChecksumVerifier validates a downloaded file
type ChecksumVerifier interface {
	VerifyChecksum(ctx context.Context, filePath, expected string) error
}

// Downloader handles downloading files from http(s) and file URLs
type Downloader struct {
	httpClient *http.Client
	verifier   ChecksumVerifier
	logger     interfaces.Logger
}

// NewDownloader creates a new downloader
func NewDownloader(logger interfaces.Logger) *Downloader {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))

	return &Downloader{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   5 * time.Minute, // Long timeout for large downloads
		},
		verifier: NewChecksumVerifier(),
		logger:   logger,
	}
}

// DownloadFile downloads rawURL to dest and validates it against checksum
// (see checksumVerifier.VerifyChecksum). An invalid download is removed.
func (d *Downloader) DownloadFile(ctx context.Context, rawURL, dest, checksum string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || (u.Scheme != "file" && u.Host == "") {
		return fmt.Errorf("%w: %q", entities.ErrInvalidURL, rawURL)
	}
	switch u.Scheme {
	case "http", "https", "file":
	default:
		return fmt.Errorf("%w: unsupported scheme %q", entities.ErrInvalidURL, u.Scheme)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := d.downloadFile(ctx, u.String(), dest); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("download failed: %w", err)
	}

	if err := d.verifier.VerifyChecksum(ctx, dest, checksum); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("invalid download %s: %w", filepath.Base(dest), err)
	}

	return nil
}

// downloadFile downloads a file from URL to destination
func (d *Downloader) downloadFile(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "mubench/1.0")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	//nolint:gosec // G304: File path dest is function parameter for download destination
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	d.logger.Debug("downloaded", interfaces.F("file", filepath.Base(dest)), interfaces.F("bytes", written))
	return nil
}

// ExtractTarGz extracts a .tar.gz file to destination directory
func (d *Downloader) ExtractTarGz(tarPath, destDir string) error {
	//nolint:gosec // G304: File path tarPath is function parameter for extraction
	file, err := os.Open(tarPath)
	if err != nil {
		return fmt.Errorf("failed to open tar.gz: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer file.Close()

	gzr, err := gzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	//nolint:errcheck // Defer close on gzip reader
	defer gzr.Close()

	tr := tar.NewReader(gzr)

	if err := os.MkdirAll(destDir, 0750); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	cleanDest := filepath.Clean(destDir)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("tar read error: %w", err)
		}

		//nolint:gosec // G305: Path traversal validated by HasPrefix check below
		target := filepath.Join(destDir, header.Name)
		if target != cleanDest && !strings.HasPrefix(target, cleanDest+string(os.PathSeparator)) {
			return fmt.Errorf("invalid file path in archive: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0750); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
				return fmt.Errorf("failed to create parent directory: %w", err)
			}

			//nolint:gosec // G115: Integer overflow from tar header mode is acceptable
			outFile, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("failed to create file: %w", err)
			}

			// Copy file contents with size limit (1GB max to prevent decompression bombs)
			if _, err := io.Copy(outFile, io.LimitReader(tr, 1<<30)); err != nil {
				_ = outFile.Close()
				return fmt.Errorf("failed to write file: %w", err)
			}
			if err := outFile.Close(); err != nil {
				return fmt.Errorf("failed to close file: %w", err)
			}

		default:
			d.logger.Warn("ignoring unsupported archive entry",
				interfaces.F("type", string(header.Typeflag)), interfaces.F("name", header.Name))
		}
	}

	return nil
}
