package gateways

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ochairo/mubench/internal/domain/interfaces/gateways"
	"github.com/ochairo/mubench/internal/external-adapters/gpg"
)

// releaseVerifier implements the VerificationGateway interface by composing
// the checksum verifier and the GPG adapter
type releaseVerifier struct {
	checksumVerifier *checksumVerifier
}

// NewReleaseVerifier creates a verifier for downloaded detector releases
func NewReleaseVerifier() gateways.VerificationGateway {
	return &releaseVerifier{checksumVerifier: NewChecksumVerifier()}
}

// VerifyChecksum verifies a file against an md5 or sha256 checksum
func (r *releaseVerifier) VerifyChecksum(ctx context.Context, filePath, expected string) error {
	return r.checksumVerifier.VerifyChecksum(ctx, filePath, expected)
}

// VerifySignature verifies a detached GPG signature. sig is either an
// http(s) URL or a local file path. A fresh keyring holding only keyPath is
// used for every call.
func (r *releaseVerifier) VerifySignature(ctx context.Context, filePath, sig, keyPath string) error {
	verifier := gpg.NewVerifier()
	if err := verifier.ImportKeyFromFile(keyPath); err != nil {
		return fmt.Errorf("failed to import GPG key from file: %w", err)
	}

	var err error
	if u, parseErr := url.Parse(sig); parseErr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		err = verifier.VerifySignature(ctx, filePath, sig)
	} else {
		err = verifier.VerifySignatureFromFile(filePath, sig)
	}
	if err != nil {
		return fmt.Errorf("GPG signature verification failed: %w", err)
	}
	return nil
}
