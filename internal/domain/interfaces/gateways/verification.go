// Package gateways defines interfaces for external system integrations.
package gateways

import "context"

// VerificationGateway validates downloaded files
type VerificationGateway interface {
	// VerifyChecksum checks a file against an md5 or sha256 checksum. The
	// expected value may also name a file containing the checksum.
	VerifyChecksum(ctx context.Context, filePath, expected string) error

	// VerifySignature checks a detached GPG signature with the given public key file
	VerifySignature(ctx context.Context, filePath, sigURL, keyPath string) error
}
