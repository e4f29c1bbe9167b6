package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across layers
var (
	// ErrNotFound is returned when a dataset entry, detector or run does not exist
	ErrNotFound = errors.New("not found")

	// ErrChecksumMismatch is returned when a downloaded file fails validation
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrInvalidURL is returned for URLs that cannot be downloaded from
	ErrInvalidURL = errors.New("invalid url")

	// ErrMalformedFindings is returned when a findings file cannot be parsed
	ErrMalformedFindings = errors.New("malformed findings")
)

// LoadError reports a dataset entry that could not be read
type LoadError struct {
	// ID is the project id or the qualified version id
	ID  string
	Err error
}

func (e *LoadError) Error() string {
	return e.ID + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadErrors lists the entries a dataset listing left out. It is returned
// together with the entries that could be read.
type LoadErrors []*LoadError

func (e LoadErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d unreadable dataset entries: %s", len(e), strings.Join(msgs, "; "))
}

// SplitLoadErrors separates the left-out entries from a fatal listing error
func SplitLoadErrors(err error) (LoadErrors, error) {
	var loadErrs LoadErrors
	if errors.As(err, &loadErrs) {
		return loadErrs, nil
	}
	return nil, err
}
