package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces"
)

// ReviewSitePublisher uploads misuse metadata to a review site
type ReviewSitePublisher struct {
	httpClient *http.Client
	logger     interfaces.Logger
}

// NewReviewSitePublisher creates a review-site publisher
func NewReviewSitePublisher(logger interfaces.Logger) *ReviewSitePublisher {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &ReviewSitePublisher{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// PublishMetadata PUTs the records as a JSON array to <siteURL>/api/metadata
func (p *ReviewSitePublisher) PublishMetadata(ctx context.Context, siteURL string, records []entities.MisuseMetadataRecord) error {
	if siteURL == "" {
		return fmt.Errorf("%w: empty review site url", entities.ErrInvalidURL)
	}
	endpoint := strings.TrimRight(siteURL, "/") + "/api/metadata"

	body, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrInvalidURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "mubench/1.0")

	p.logger.Info("publishing metadata", interfaces.F("url", endpoint), interfaces.F("misuses", len(records)))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to publish metadata: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("review site returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
