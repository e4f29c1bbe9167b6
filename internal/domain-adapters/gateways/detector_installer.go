package gateways

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces"
	"github.com/ochairo/mubench/internal/domain/interfaces/gateways"
)

// DetectorInstaller makes a detector executable available locally
type DetectorInstaller struct {
	downloader *Downloader
	verifier   gateways.VerificationGateway
	logger     interfaces.Logger
}

// NewDetectorInstaller creates a detector installer
func NewDetectorInstaller(downloader *Downloader, verifier gateways.VerificationGateway, logger interfaces.Logger) *DetectorInstaller {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &DetectorInstaller{
		downloader: downloader,
		verifier:   verifier,
		logger:     logger,
	}
}

// IsInstalled reports whether the detector executable exists
func (i *DetectorInstaller) IsInstalled(detector *entities.Detector) bool {
	info, err := os.Stat(detector.ExecutablePath())
	return err == nil && !info.IsDir()
}

// Install downloads the detector release if the executable is missing.
// The download is validated against the release checksum and, when
// configured, a detached GPG signature.
func (i *DetectorInstaller) Install(ctx context.Context, detector *entities.Detector) error {
	if i.IsInstalled(detector) {
		return nil
	}
	if detector.Release.URL == "" {
		return fmt.Errorf("detector %s: executable %s missing and no release url: %w",
			detector.Name, detector.ExecutablePath(), entities.ErrNotFound)
	}

	dest := detector.ExecutablePath()
	i.logger.Info("downloading detector",
		interfaces.F("detector", detector.Name),
		interfaces.F("url", detector.Release.URL))

	if err := i.downloader.DownloadFile(ctx, detector.Release.URL, dest, detector.Checksum()); err != nil {
		return fmt.Errorf("failed to download detector %s: %w", detector.Name, err)
	}

	if detector.Release.Signature != "" {
		key := detector.Release.Key
		if !filepath.IsAbs(key) {
			key = filepath.Join(detector.Path, key)
		}
		if err := i.verifier.VerifySignature(ctx, dest, detector.Release.Signature, key); err != nil {
			_ = os.Remove(dest)
			return fmt.Errorf("detector %s: %w", detector.Name, err)
		}
	}

	//nolint:gosec // G302: detector executables must be runnable
	if err := os.Chmod(dest, 0755); err != nil {
		return fmt.Errorf("failed to make detector executable: %w", err)
	}
	return nil
}
